// Package authoring drives story creation and editing on a SafeVoice client.
//
// A submission validates the text, screens each attached file by size and
// sniffed content type, uploads the accepted files one at a time and only
// then creates or updates the story. If any upload fails nothing is saved
// and the objects already uploaded are removed again.
package authoring

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/safevoice/safevoice-api/internal/api"
)

var (
	ErrEmptyTitle      = errors.New("title is required")
	ErrEmptyContent    = errors.New("story content is required")
	ErrTooManyFiles    = fmt.Errorf("at most %d files per story", api.MaxFilesPerStory)
	ErrFileTooLarge    = errors.New("file exceeds the 50 MB limit")
	ErrUnsupportedType = errors.New("only image, video and audio files are allowed")
	ErrEmptyText       = errors.New("nothing to correct")
)

// sniffLen matches what the media endpoint inspects.
const sniffLen = 3072

// Gateway is the subset of the API client used while authoring.
type Gateway interface {
	UploadMedia(ctx context.Context, filename string, r io.Reader) (*api.Media, error)
	DeleteMedia(ctx context.Context, key string) error
	CreateStory(ctx context.Context, req api.StoryRequest, idemKey string) (*api.Story, error)
	UpdateStory(ctx context.Context, id string, req api.StoryRequest) (*api.Story, error)
	DeleteStory(ctx context.Context, id string) error
	CorrectGrammar(ctx context.Context, content string) (string, error)
}

// File is an attachment. Open may be called more than once.
type File struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// FileFromPath describes a file on disk.
func FileFromPath(path string) (File, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if fi.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return File{
		Name: filepath.Base(path),
		Size: fi.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FileFromBytes describes an in-memory attachment.
func FileFromBytes(name string, b []byte) File {
	return File{
		Name: name,
		Size: int64(len(b)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(b)), nil },
	}
}

// Draft is a story being written. An empty StoryID creates a new story.
type Draft struct {
	StoryID   string
	Title     string
	Content   string
	Tags      []string
	MediaURLs []string
	Files     []File
}

// Rejection records why a file was left out.
type Rejection struct {
	Name string
	Err  error
}

// Result is the outcome of a submission.
type Result struct {
	Story    *api.Story
	Uploaded []api.Media
	Rejected []Rejection
}

// Controller submits drafts and keeps unsaved grammar corrections.
type Controller struct {
	gw       Gateway
	maxBytes int64

	mu        sync.Mutex
	overrides map[string]string
}

// New returns a Controller with the standard upload limit.
func New(gw Gateway) *Controller {
	return &Controller{gw: gw, maxBytes: api.MaxUploadBytes, overrides: make(map[string]string)}
}

// Submit validates d, uploads its accepted files and saves the story.
// Rejected files are reported in the Result and do not fail the call.
func (c *Controller) Submit(ctx context.Context, d Draft) (*Result, error) {
	title := strings.TrimSpace(d.Title)
	content := strings.TrimSpace(d.Content)
	switch {
	case title == "":
		return nil, ErrEmptyTitle
	case content == "":
		return nil, ErrEmptyContent
	case len(d.Files) > api.MaxFilesPerStory:
		return nil, ErrTooManyFiles
	}

	res := &Result{}
	var accepted []File
	for _, f := range d.Files {
		if err := c.screen(f); err != nil {
			res.Rejected = append(res.Rejected, Rejection{Name: f.Name, Err: err})
			continue
		}
		accepted = append(accepted, f)
	}

	urls := append([]string(nil), d.MediaURLs...)
	for _, f := range accepted {
		m, err := c.upload(ctx, f)
		if err != nil {
			c.rollback(ctx, res.Uploaded)
			return nil, fmt.Errorf("upload %s: %w", f.Name, err)
		}
		res.Uploaded = append(res.Uploaded, *m)
		urls = append(urls, m.URL)
	}

	req := api.StoryRequest{Title: title, Content: content, Tags: d.Tags, MediaURLs: urls}
	var (
		st  *api.Story
		err error
	)
	if d.StoryID == "" {
		st, err = c.gw.CreateStory(ctx, req, uuid.NewString())
	} else {
		st, err = c.gw.UpdateStory(ctx, d.StoryID, req)
	}
	if err != nil {
		c.rollback(ctx, res.Uploaded)
		return nil, err
	}
	res.Story = st
	if d.StoryID != "" {
		c.mu.Lock()
		delete(c.overrides, d.StoryID)
		c.mu.Unlock()
	}
	return res, nil
}

// Remove deletes a story the caller owns.
func (c *Controller) Remove(ctx context.Context, storyID string) error {
	if err := c.gw.DeleteStory(ctx, storyID); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.overrides, storyID)
	c.mu.Unlock()
	return nil
}

// FixGrammar returns a corrected text. With a storyID the correction is also
// kept as an unsaved override for that story.
func (c *Controller) FixGrammar(ctx context.Context, storyID, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	out, err := c.gw.CorrectGrammar(ctx, text)
	if err != nil {
		return "", err
	}
	if storyID != "" {
		c.mu.Lock()
		c.overrides[storyID] = out
		c.mu.Unlock()
	}
	return out, nil
}

// Override returns the unsaved correction for storyID.
func (c *Controller) Override(storyID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.overrides[storyID]
	return s, ok
}

// Discard drops the unsaved correction for storyID.
func (c *Controller) Discard(storyID string) {
	c.mu.Lock()
	delete(c.overrides, storyID)
	c.mu.Unlock()
}

func (c *Controller) screen(f File) error {
	if f.Size > c.maxBytes {
		return ErrFileTooLarge
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(rc, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	if !api.IsMediaType(mimetype.Detect(head[:n]).String()) {
		return ErrUnsupportedType
	}
	return nil
}

func (c *Controller) upload(ctx context.Context, f File) (*api.Media, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return c.gw.UploadMedia(ctx, f.Name, rc)
}

// rollback deletes uploaded objects; failures are logged only.
func (c *Controller) rollback(ctx context.Context, uploaded []api.Media) {
	for _, m := range uploaded {
		if err := c.gw.DeleteMedia(ctx, m.Key); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("key", m.Key).Msg("media rollback failed")
		}
	}
}
