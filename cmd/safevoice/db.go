package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/safevoice/safevoice-api/internal/repo"
	"github.com/safevoice/safevoice-api/internal/seed"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Create or update the database schema",
	Action: func(c *cli.Context) error {
		cfg, err := loadServerConfig()
		if err != nil {
			return err
		}
		if _, err := openDB(cfg); err != nil {
			return err
		}
		log.Info().Str("driver", cfg.DB.Driver).Msg("schema up to date")
		return nil
	},
}

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Insert demo stories and testimonials",
	Action: func(c *cli.Context) error {
		cfg, err := loadServerConfig()
		if err != nil {
			return err
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		_, err = seed.Run(c.Context, db)
		return err
	},
}

var ngoRequestsCommand = &cli.Command{
	Name:  "ngo-requests",
	Usage: "List NGO listing requests waiting for review",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "status", Value: "pending", Usage: "filter by status; empty lists all"},
		&cli.IntFlag{Name: "limit", Value: 50},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadServerConfig()
		if err != nil {
			return err
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		reqs, err := repo.ListNGORequests(c.Context, db, c.String("status"), c.Int("limit"))
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CREATED\tNAME\tEMAIL\tREGISTRATION\tSTATUS")
		for _, r := range reqs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				r.CreatedAt.Format("2006-01-02 15:04"), r.Name, r.Email, r.RegistrationNumber, r.Status)
		}
		return tw.Flush()
	},
}
