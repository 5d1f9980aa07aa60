package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/safevoice/safevoice-api/internal/api"
	"github.com/safevoice/safevoice-api/internal/authoring"
	"github.com/safevoice/safevoice-api/internal/client"
	"github.com/safevoice/safevoice-api/internal/directory"
	"github.com/safevoice/safevoice-api/internal/feed"
)

// sloganInterval matches the rotation on the web home page.
const sloganInterval = 15 * time.Second

var clientCommand = &cli.Command{
	Name:  "client",
	Usage: "Talk to a running SafeVoice server",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Usage:   "server base URL",
			EnvVars: []string{"SAFEVOICE_URL"},
			Value:   "http://localhost:8080",
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "session token from `signin`",
			EnvVars: []string{"SAFEVOICE_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "api-base",
			EnvVars: []string{"API_BASE_PATH"},
			Value:   "/api/v1",
		},
	},
	Subcommands: []*cli.Command{
		{
			Name:  "signup",
			Usage: "Create an account and print its session token",
			Flags: credentialFlags(),
			Action: func(c *cli.Context) error {
				s, err := newClient(c).SignUp(c.Context, c.String("email"), c.String("password"))
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, s.Token)
				return nil
			},
		},
		{
			Name:  "signin",
			Usage: "Sign in and print the session token",
			Flags: credentialFlags(),
			Action: func(c *cli.Context) error {
				s, err := newClient(c).SignIn(c.Context, c.String("email"), c.String("password"))
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, s.Token)
				return nil
			},
		},
		{
			Name:  "feed",
			Usage: "Show the newest stories",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{Name: "tag", Usage: "show stories with any of these tags"},
				&cli.StringFlag{Name: "lang", Usage: "translate the visible stories (e.g. fr, es)"},
				&cli.IntFlag{Name: "more", Usage: "reveal this many extra pages"},
			},
			Action: runFeed,
		},
		{
			Name:  "tags",
			Usage: "List the tags in use",
			Action: func(c *cli.Context) error {
				tags, err := newClient(c).Tags(c.Context)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, strings.Join(tags, "\n"))
				return nil
			},
		},
		{
			Name:      "react",
			Usage:     "React to a story",
			ArgsUsage: "<story-id>",
			Flags:     []cli.Flag{&cli.StringFlag{Name: "type", Value: "heart", Usage: "heart or support"}},
			Action: func(c *cli.Context) error {
				id, err := oneArg(c)
				if err != nil {
					return err
				}
				return feed.New(newClient(c)).React(c.Context, id, c.String("type"))
			},
		},
		{
			Name:      "report",
			Usage:     "Report a story as inappropriate",
			ArgsUsage: "<story-id>",
			Action: func(c *cli.Context) error {
				id, err := oneArg(c)
				if err != nil {
					return err
				}
				return feed.New(newClient(c)).Report(c.Context, id)
			},
		},
		{
			Name:  "share",
			Usage: "Share a new story, or edit one with --story",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "story", Usage: "id of a story to edit"},
				&cli.StringFlag{Name: "title", Required: true},
				&cli.StringFlag{Name: "content", Required: true},
				&cli.StringSliceFlag{Name: "tag"},
				&cli.StringSliceFlag{Name: "file", Usage: "image, video or audio attachment"},
			},
			Action: runShare,
		},
		{
			Name:      "delete",
			Usage:     "Delete one of your stories",
			ArgsUsage: "<story-id>",
			Action: func(c *cli.Context) error {
				id, err := oneArg(c)
				if err != nil {
					return err
				}
				return authoring.New(newClient(c)).Remove(c.Context, id)
			},
		},
		{
			Name:      "fix-grammar",
			Usage:     "Correct grammar and spelling of a text",
			ArgsUsage: "<text>",
			Action: func(c *cli.Context) error {
				text := strings.Join(c.Args().Slice(), " ")
				out, err := authoring.New(newClient(c)).FixGrammar(c.Context, "", text)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, out)
				return nil
			},
		},
		{
			Name:  "ngos",
			Usage: "Browse the NGO directory",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "search"},
				&cli.BoolFlag{Name: "all", Usage: "show every match"},
			},
			Action: runDirectory,
		},
		{
			Name:  "request-ngo",
			Usage: "Ask for an organization to be listed",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name"},
				&cli.StringFlag{Name: "description"},
				&cli.StringFlag{Name: "contact"},
				&cli.StringFlag{Name: "email"},
				&cli.StringFlag{Name: "registration-number"},
			},
			Action: func(c *cli.Context) error {
				msg, err := directory.New(newClient(c)).RequestListing(c.Context, api.NGORequest{
					Name:               c.String("name"),
					Description:        c.String("description"),
					Contact:            c.String("contact"),
					Email:              c.String("email"),
					RegistrationNumber: c.String("registration-number"),
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, msg)
				return nil
			},
		},
		{
			Name:   "home",
			Usage:  "Show the landing page",
			Flags:  []cli.Flag{&cli.BoolFlag{Name: "watch", Usage: "keep rotating slogans"}},
			Action: runHome,
		},
	},
}

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "email", Required: true},
		&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"SAFEVOICE_PASSWORD"}},
	}
}

func newClient(c *cli.Context) *client.Client {
	return client.New(c.String("server"),
		client.WithAPIBase(c.String("api-base")),
		client.WithToken(c.String("token")),
	)
}

func oneArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one argument, got %d", c.NArg())
	}
	return c.Args().First(), nil
}

func runFeed(c *cli.Context) error {
	fc := feed.New(newClient(c))
	if err := fc.Load(c.Context); err != nil {
		return err
	}
	for _, t := range c.StringSlice("tag") {
		fc.ToggleTag(t)
	}
	for i := 0; i < c.Int("more"); i++ {
		fc.ShowMore()
	}
	if lang := c.String("lang"); lang != "" {
		for _, it := range fc.Visible() {
			if err := fc.Translate(c.Context, it.ID, lang); err != nil {
				return fmt.Errorf("translate %s: %w", it.ID, err)
			}
		}
	}

	w := c.App.Writer
	for _, it := range fc.Visible() {
		printStory(w, it)
	}
	if fc.HasMore() {
		fmt.Fprintf(w, "... %d more, use --more\n", len(fc.Filtered())-len(fc.Visible()))
	}
	return nil
}

func printStory(w io.Writer, it feed.Item) {
	fmt.Fprintf(w, "%s  %s\n", it.ID, it.Title)
	fmt.Fprintf(w, "  by %s, %s, %d reactions", it.AuthorAlias, it.CreatedAt.Format("2 Jan 2006"), it.ReactionsCount)
	if len(it.Tags) > 0 {
		fmt.Fprintf(w, ", #%s", strings.Join(it.Tags, " #"))
	}
	if it.Lang != feed.Original {
		fmt.Fprintf(w, " [%s]", it.Lang)
	}
	fmt.Fprintf(w, "\n  %s\n\n", it.Content)
}

func runShare(c *cli.Context) error {
	d := authoring.Draft{
		StoryID: c.String("story"),
		Title:   c.String("title"),
		Content: c.String("content"),
		Tags:    c.StringSlice("tag"),
	}
	for _, p := range c.StringSlice("file") {
		f, err := authoring.FileFromPath(p)
		if err != nil {
			return err
		}
		d.Files = append(d.Files, f)
	}

	res, err := authoring.New(newClient(c)).Submit(c.Context, d)
	if err != nil {
		return err
	}
	w := c.App.Writer
	for _, r := range res.Rejected {
		fmt.Fprintf(w, "skipped %s: %v\n", r.Name, r.Err)
	}
	fmt.Fprintf(w, "saved %s with %d attachment(s)\n", res.Story.ID, len(res.Story.MediaURLs))
	return nil
}

func runDirectory(c *cli.Context) error {
	dc := directory.New(newClient(c))
	if err := dc.Load(c.Context); err != nil {
		return err
	}
	dc.Search(c.String("search"))
	if c.Bool("all") {
		for dc.HasMore() {
			dc.ShowMore()
		}
	}
	w := c.App.Writer
	for _, n := range dc.Visible() {
		fmt.Fprintf(w, "%s\n  %s\n", n.Name, n.Description)
	}
	if dc.HasMore() {
		fmt.Fprintf(w, "... %d more, use --all\n", dc.Matches()-len(dc.Visible()))
	}
	if dc.Matches() == 0 {
		fmt.Fprintln(w, "no organization matches")
	}
	return nil
}

func runHome(c *cli.Context) error {
	h, err := newClient(c).Home(c.Context)
	if err != nil {
		return err
	}
	w := c.App.Writer
	fmt.Fprintf(w, "%s\n\n", h.Slogan)
	for _, s := range h.TopStories {
		printStory(w, feed.Item{Story: s, Lang: feed.Original})
	}
	if !c.Bool("watch") || len(h.Slogans) == 0 {
		return nil
	}

	i := 0
	for j, s := range h.Slogans {
		if s == h.Slogan {
			i = j
		}
	}
	t := time.NewTicker(sloganInterval)
	defer t.Stop()
	for {
		select {
		case <-c.Context.Done():
			return nil
		case <-t.C:
			i = (i + 1) % len(h.Slogans)
			fmt.Fprintln(w, h.Slogans[i])
		}
	}
}
