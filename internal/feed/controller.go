// Package feed drives the story feed of a SafeVoice client: loading stories,
// filtering them by tag, revealing them a few at a time, translating them
// on demand and recording reactions and reports.
//
// A Controller is safe for concurrent use. No lock is held across a remote
// call, so a slow translation never blocks rendering.
package feed

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/safevoice/safevoice-api/internal/api"
	"github.com/safevoice/safevoice-api/internal/client"
)

// Defaults for the visible window.
const (
	FetchLimit = 100
	PageStep   = 6

	// Original selects the untranslated story.
	Original = "original"
)

var (
	ErrUnauthenticated = errors.New("sign in to react or report")
	ErrAlreadyReacted  = errors.New("already reacted")
	ErrStoryNotFound   = errors.New("story not found")
)

// Gateway is the subset of the API client the feed needs.
type Gateway interface {
	Authenticated() bool
	ListStories(ctx context.Context, opts client.ListOptions) (*api.StoryPage, error)
	Tags(ctx context.Context) ([]string, error)
	Translate(ctx context.Context, title, content, lang string) (*api.TranslateResponse, error)
	React(ctx context.Context, storyID, typ string) (*api.Reaction, error)
	Report(ctx context.Context, storyID string) error
}

// Item is a story as rendered: translated when a language is active and
// with pending reactions included in ReactionsCount.
type Item struct {
	api.Story
	Lang string
}

// Controller holds the client-side feed state.
type Controller struct {
	gw    Gateway
	cache *TranslationCache

	mu      sync.Mutex
	stories []api.Story
	pending map[string]int64
	lang    map[string]string
	gen     map[string]uint64 // latest Translate request per story
	tags    []string
	active  map[string]struct{}
	window  int
}

// New returns a Controller with an empty feed.
func New(gw Gateway) *Controller {
	return &Controller{
		gw:      gw,
		cache:   NewTranslationCache(),
		pending: make(map[string]int64),
		lang:    make(map[string]string),
		gen:     make(map[string]uint64),
		active:  make(map[string]struct{}),
		window:  PageStep,
	}
}

// Cache exposes the translation cache.
func (c *Controller) Cache() *TranslationCache { return c.cache }

// Load fetches the newest stories. On error the current feed is kept.
func (c *Controller) Load(ctx context.Context) error {
	page, err := c.gw.ListStories(ctx, client.ListOptions{Page: 1, PageSize: FetchLimit})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prev := make(map[string]api.Story, len(c.stories))
	for _, s := range c.stories {
		prev[s.ID] = s
	}
	lang := make(map[string]string, len(c.lang))
	for _, s := range page.Stories {
		old, seen := prev[s.ID]
		if seen && !old.UpdatedAt.Equal(s.UpdatedAt) {
			c.cache.Forget(s.ID)
			continue
		}
		if l, ok := c.lang[s.ID]; ok {
			lang[s.ID] = l
		}
	}

	c.stories = page.Stories
	c.lang = lang
	c.pending = make(map[string]int64)
	c.window = PageStep
	return nil
}

// LoadTags fetches the tag vocabulary. A failure leaves no tags to filter
// by and is only logged.
func (c *Controller) LoadTags(ctx context.Context) error {
	tags, err := c.gw.Tags(ctx)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("tags unavailable")
		tags = nil
	}
	c.mu.Lock()
	c.tags = tags
	c.mu.Unlock()
	return nil
}

// Tags returns the known tags.
func (c *Controller) Tags() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.tags...)
}

// ToggleTag adds tag to the active filter, or removes it when present.
// It reports whether the tag is active afterwards.
func (c *Controller) ToggleTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.window = PageStep
	if _, ok := c.active[tag]; ok {
		delete(c.active, tag)
		return false
	}
	c.active[tag] = struct{}{}
	return true
}

// ActiveTags returns the active filter.
func (c *Controller) ActiveTags() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.active))
	for _, t := range c.tags {
		if _, ok := c.active[t]; ok {
			out = append(out, t)
		}
	}
	if len(out) < len(c.active) {
		// active tags outside the loaded vocabulary
		for t := range c.active {
			if !slices.Contains(out, t) {
				out = append(out, t)
			}
		}
	}
	return out
}

// Filtered returns every story passing the tag filter, without the window.
func (c *Controller) Filtered() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filteredLocked()
}

// Visible returns the filtered stories inside the window.
func (c *Controller) Visible() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.filteredLocked()
	if len(items) > c.window {
		items = items[:c.window]
	}
	return items
}

// ShowMore widens the window by PageStep.
func (c *Controller) ShowMore() {
	c.mu.Lock()
	c.window += PageStep
	c.mu.Unlock()
}

// HasMore reports whether filtered stories remain outside the window.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.filteredLocked()) > c.window
}

// Translate switches storyID to lang. Original clears the override.
// Cached translations are reused; on failure the story falls back to the
// original text. A response that arrives after a newer Translate call for
// the same story is cached but does not change the active language.
func (c *Controller) Translate(ctx context.Context, storyID, lang string) error {
	lang = strings.TrimSpace(lang)

	c.mu.Lock()
	s, ok := c.findLocked(storyID)
	if !ok {
		c.mu.Unlock()
		return ErrStoryNotFound
	}
	c.gen[storyID]++
	mine := c.gen[storyID]
	if lang == "" || lang == Original {
		delete(c.lang, storyID)
		c.mu.Unlock()
		return nil
	}
	key := CacheKey{StoryID: storyID, Lang: lang}
	if _, hit := c.cache.Get(key); hit {
		c.lang[storyID] = lang
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	res, err := c.gw.Translate(ctx, s.Title, s.Content, lang)
	if err != nil {
		c.mu.Lock()
		if c.gen[storyID] == mine {
			delete(c.lang, storyID)
		}
		c.mu.Unlock()
		return err
	}

	tr := Translated{Title: s.Title, Content: res.TranslatedContent}
	if res.TranslatedTitle != nil {
		tr.Title = *res.TranslatedTitle
	}
	c.cache.Put(key, tr)

	c.mu.Lock()
	if c.gen[storyID] == mine {
		c.lang[storyID] = lang
	}
	c.mu.Unlock()
	return nil
}

// Language returns the active language of storyID.
func (c *Controller) Language(storyID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.lang[storyID]; ok {
		return l
	}
	return Original
}

// React records a reaction and bumps the local count until the next Load.
func (c *Controller) React(ctx context.Context, storyID, typ string) error {
	if !c.gw.Authenticated() {
		return ErrUnauthenticated
	}
	if _, err := c.gw.React(ctx, storyID, typ); err != nil {
		return mapRemote(err)
	}
	c.mu.Lock()
	c.pending[storyID]++
	c.mu.Unlock()
	return nil
}

// Report flags storyID for moderation.
func (c *Controller) Report(ctx context.Context, storyID string) error {
	if !c.gw.Authenticated() {
		return ErrUnauthenticated
	}
	return mapRemote(c.gw.Report(ctx, storyID))
}

func mapRemote(err error) error {
	switch {
	case err == nil:
		return nil
	case client.IsUnauthenticated(err):
		return ErrUnauthenticated
	case client.IsConflict(err):
		return ErrAlreadyReacted
	case client.IsNotFound(err):
		return ErrStoryNotFound
	}
	return err
}

func (c *Controller) findLocked(id string) (api.Story, bool) {
	for _, s := range c.stories {
		if s.ID == id {
			return s, true
		}
	}
	return api.Story{}, false
}

func (c *Controller) filteredLocked() []Item {
	out := make([]Item, 0, len(c.stories))
	for _, s := range c.stories {
		if !c.matchesLocked(s) {
			continue
		}
		out = append(out, c.renderLocked(s))
	}
	return out
}

// matchesLocked applies the tag filter: any active tag matches.
func (c *Controller) matchesLocked(s api.Story) bool {
	if len(c.active) == 0 {
		return true
	}
	for _, t := range s.Tags {
		if _, ok := c.active[t]; ok {
			return true
		}
	}
	return false
}

func (c *Controller) renderLocked(s api.Story) Item {
	it := Item{Story: s, Lang: Original}
	it.ReactionsCount += c.pending[s.ID]
	if l, ok := c.lang[s.ID]; ok {
		if tr, hit := c.cache.Get(CacheKey{StoryID: s.ID, Lang: l}); hit {
			it.Title, it.Content, it.Lang = tr.Title, tr.Content, l
		}
	}
	return it
}
