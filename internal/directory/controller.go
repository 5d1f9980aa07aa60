// Package directory drives the NGO directory screen: the approved list,
// a free-text search over it and the request form for new listings.
package directory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/safevoice/safevoice-api/internal/api"
	"github.com/safevoice/safevoice-api/internal/search"
)

// PageStep is both the initial window and the ShowMore increment.
const PageStep = 3

var ErrMissingFields = errors.New("please fill in all fields")

// Gateway is the subset of the API client the directory needs.
type Gateway interface {
	ApprovedNGOs(ctx context.Context) ([]api.NGO, error)
	SendNGORequest(ctx context.Context, r api.NGORequest) (string, error)
}

// Controller holds the directory state.
type Controller struct {
	gw Gateway

	mu     sync.Mutex
	all    []api.NGO
	query  string
	match  []api.NGO
	window int
}

func New(gw Gateway) *Controller {
	return &Controller{gw: gw, window: PageStep}
}

// Load fetches the approved organizations and resets the window.
// The current search is kept.
func (c *Controller) Load(ctx context.Context) error {
	ngos, err := c.gw.ApprovedNGOs(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = ngos
	c.match = filter(ngos, c.query)
	c.window = PageStep
	return nil
}

// Search narrows the list to organizations whose name or description
// contains query, ignoring case. An empty query shows everything.
func (c *Controller) Search(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
	c.match = filter(c.all, query)
	c.window = PageStep
}

// Matches returns the count of organizations passing the search.
func (c *Controller) Matches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.match)
}

// Visible returns the matching organizations inside the window.
func (c *Controller) Visible() []api.NGO {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := min(c.window, len(c.match))
	return append([]api.NGO(nil), c.match[:n]...)
}

func (c *Controller) ShowMore() {
	c.mu.Lock()
	c.window += PageStep
	c.mu.Unlock()
}

func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.match) > c.window
}

// RequestListing asks for an organization to be added. Every field must be
// filled in; blank forms never reach the server.
func (c *Controller) RequestListing(ctx context.Context, r api.NGORequest) (string, error) {
	for _, v := range []string{r.Name, r.Description, r.Contact, r.Email, r.RegistrationNumber} {
		if strings.TrimSpace(v) == "" {
			return "", ErrMissingFields
		}
	}
	return c.gw.SendNGORequest(ctx, r)
}

func filter(ngos []api.NGO, query string) []api.NGO {
	return search.Filter(ngos, query, func(n api.NGO) []string {
		return []string{n.Name, n.Description}
	})
}
