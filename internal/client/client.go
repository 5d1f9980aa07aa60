// Package client is the data access gateway used by the client-side
// controllers. It speaks JSON over HTTP to the SafeVoice service, holds the
// session token after a sign-in, and turns non-2xx answers into *Error.
//
// A Client is safe for concurrent use.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/safevoice/safevoice-api/internal/api"
)

// Error is a non-2xx answer from the service.
type Error struct {
	Status  int
	Code    string // snake_case code of the versioned API; empty for legacy endpoints
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("safevoice: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("safevoice: %d: %s", e.Status, e.Message)
}

// IsUnauthenticated reports whether err is a 401 answer.
func IsUnauthenticated(err error) bool { return hasStatus(err, http.StatusUnauthorized) }

// IsConflict reports whether err is a 409 answer (duplicate reaction, taken email).
func IsConflict(err error) bool { return hasStatus(err, http.StatusConflict) }

// IsNotFound reports whether err is a 404 answer.
func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

func hasStatus(err error, status int) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == status
}

// Client talks to one SafeVoice server.
type Client struct {
	baseURL string
	apiBase string
	http    *http.Client

	mu    sync.RWMutex
	token string
	user  *api.Profile
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithAPIBase sets the versioned API prefix (default "/api/v1").
func WithAPIBase(p string) Option {
	return func(c *Client) {
		c.apiBase = "/" + strings.Trim(p, "/")
		if c.apiBase == "/" {
			c.apiBase = ""
		}
	}
}

// WithToken starts the client with an existing session token.
func WithToken(tok string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(tok) }
}

// New returns a Client for the server at baseURL (e.g. http://localhost:8080).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiBase: "/api/v1",
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Authenticated reports whether a session token is held.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// Token returns the current session token, or "".
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// User returns the profile of the last sign-in, or nil.
func (c *Client) User() *api.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

func (c *Client) setSession(s *api.SessionResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = s.Token
	u := s.User
	c.user = &u
}

//
// Identity
//

// SignUp registers an e-mail identity and keeps the returned session.
func (c *Client) SignUp(ctx context.Context, email, password string) (*api.SessionResponse, error) {
	return c.session(ctx, "/auth/signup", api.Credentials{Email: email, Password: password})
}

// SignIn opens a session with e-mail and password.
func (c *Client) SignIn(ctx context.Context, email, password string) (*api.SessionResponse, error) {
	return c.session(ctx, "/auth/signin", api.Credentials{Email: email, Password: password})
}

// SignInSocial exchanges a Google or phone ID token for a session.
func (c *Client) SignInSocial(ctx context.Context, idToken string) (*api.SessionResponse, error) {
	return c.session(ctx, "/auth/social", api.SocialSignIn{IDToken: idToken})
}

func (c *Client) session(ctx context.Context, path string, body any) (*api.SessionResponse, error) {
	var out api.SessionResponse
	if err := c.do(ctx, http.MethodPost, c.apiBase+path, body, &out); err != nil {
		return nil, err
	}
	c.setSession(&out)
	return &out, nil
}

// SignOut drops the session locally. The server call is best effort since
// sessions are stateless.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, c.apiBase+"/auth/signout", nil, nil)
	c.mu.Lock()
	c.token, c.user = "", nil
	c.mu.Unlock()
	return err
}

// Me returns the caller's profile.
func (c *Client) Me(ctx context.Context) (*api.Profile, error) {
	var out api.Profile
	if err := c.do(ctx, http.MethodGet, c.apiBase+"/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//
// Stories
//

// ListOptions selects a page of the story feed.
type ListOptions struct {
	Page     int
	PageSize int
	Tags     []string // any-of filter
}

func (o ListOptions) query() string {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(o.PageSize))
	}
	if len(o.Tags) > 0 {
		q.Set("tags", strings.Join(o.Tags, ","))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListStories returns one page of stories, newest first.
func (c *Client) ListStories(ctx context.Context, opts ListOptions) (*api.StoryPage, error) {
	var out api.StoryPage
	if err := c.do(ctx, http.MethodGet, c.apiBase+"/stories"+opts.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyStories returns the caller's stories.
func (c *Client) MyStories(ctx context.Context, opts ListOptions) (*api.StoryPage, error) {
	var out api.StoryPage
	if err := c.do(ctx, http.MethodGet, c.apiBase+"/stories/mine"+opts.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Tags returns the distinct story tags.
func (c *Client) Tags(ctx context.Context) ([]string, error) {
	var out []string
	err := c.do(ctx, http.MethodGet, c.apiBase+"/stories/tags", nil, &out)
	return out, err
}

// TopStories returns up to limit stories ranked by reactions.
func (c *Client) TopStories(ctx context.Context, limit int) ([]api.Story, error) {
	var out []api.Story
	err := c.do(ctx, http.MethodGet, c.apiBase+"/stories/top?limit="+strconv.Itoa(limit), nil, &out)
	return out, err
}

// GetStory fetches one story.
func (c *Client) GetStory(ctx context.Context, id string) (*api.Story, error) {
	var out api.Story
	if err := c.do(ctx, http.MethodGet, c.apiBase+"/stories/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateStory shares a story. A non-empty idemKey makes retries safe.
func (c *Client) CreateStory(ctx context.Context, req api.StoryRequest, idemKey string) (*api.Story, error) {
	var out api.Story
	var hdr http.Header
	if idemKey != "" {
		hdr = http.Header{"Idempotency-Key": {idemKey}}
	}
	if err := c.doWith(ctx, http.MethodPost, c.apiBase+"/stories", req, &out, hdr); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStory replaces the editable fields of one of the caller's stories.
func (c *Client) UpdateStory(ctx context.Context, id string, req api.StoryRequest) (*api.Story, error) {
	var out api.Story
	if err := c.do(ctx, http.MethodPut, c.apiBase+"/stories/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStory removes one of the caller's stories with its reactions.
func (c *Client) DeleteStory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.apiBase+"/stories/"+url.PathEscape(id), nil, nil)
}

// React leaves a heart or support reaction.
func (c *Client) React(ctx context.Context, storyID, typ string) (*api.Reaction, error) {
	var out api.Reaction
	path := c.apiBase + "/stories/" + url.PathEscape(storyID) + "/reactions"
	if err := c.do(ctx, http.MethodPost, path, api.ReactionRequest{Type: typ}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Report flags a story as inappropriate.
func (c *Client) Report(ctx context.Context, storyID string) error {
	return c.do(ctx, http.MethodPost, c.apiBase+"/stories/"+url.PathEscape(storyID)+"/report", nil, nil)
}

//
// Media
//

// UploadMedia streams r as a multipart upload named filename.
func (c *Client) UploadMedia(ctx context.Context, filename string, r io.Reader) (*api.Media, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		fw, err := mw.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(fw, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, http.MethodPost, c.apiBase+"/media", pr)
	if err != nil {
		pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out api.Media
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMedia removes an uploaded object by key.
func (c *Client) DeleteMedia(ctx context.Context, key string) error {
	return c.do(ctx, http.MethodDelete, c.apiBase+"/media?key="+url.QueryEscape(key), nil, nil)
}

//
// Testimonials and home
//

// Testimonials returns the newest testimonials.
func (c *Client) Testimonials(ctx context.Context, limit int) ([]api.Testimonial, error) {
	var out []api.Testimonial
	err := c.do(ctx, http.MethodGet, c.apiBase+"/testimonials?limit="+strconv.Itoa(limit), nil, &out)
	return out, err
}

// CreateTestimonial posts a short note of support.
func (c *Client) CreateTestimonial(ctx context.Context, content string) (*api.Testimonial, error) {
	var out api.Testimonial
	if err := c.do(ctx, http.MethodPost, c.apiBase+"/testimonials", api.TestimonialRequest{Content: content}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Home returns the landing page payload.
func (c *Client) Home(ctx context.Context) (*api.Home, error) {
	var out api.Home
	if err := c.do(ctx, http.MethodGet, c.apiBase+"/home", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//
// Legacy endpoints
//

// ApprovedNGOs lists the approved organizations.
func (c *Client) ApprovedNGOs(ctx context.Context) ([]api.NGO, error) {
	var out []api.NGO
	err := c.do(ctx, http.MethodGet, "/api/approved-ngos", nil, &out)
	return out, err
}

// SendNGORequest asks for an organization to be listed and returns the
// server's confirmation message.
func (c *Client) SendNGORequest(ctx context.Context, r api.NGORequest) (string, error) {
	var out api.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/send-ngo-request", r, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// CorrectGrammar returns a corrected version of content.
func (c *Client) CorrectGrammar(ctx context.Context, content string) (string, error) {
	var out api.GrammarResponse
	if err := c.do(ctx, http.MethodPost, "/functions/v1/correct-grammar", api.GrammarRequest{Content: content}, &out); err != nil {
		return "", err
	}
	return out.CorrectedContent, nil
}

// Translate translates content, and title when non-empty, to lang.
func (c *Client) Translate(ctx context.Context, title, content, lang string) (*api.TranslateResponse, error) {
	var out api.TranslateResponse
	in := api.TranslateRequest{Title: title, Content: content, TargetLang: lang}
	if err := c.do(ctx, http.MethodPost, "/functions/v1/translate", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//
// Transport
//

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	return c.doWith(ctx, method, path, in, out, nil)
}

func (c *Client) doWith(ctx context.Context, method, path string, in, out any, hdr http.Header) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// decodeError understands the versioned envelope {code, message} and the
// flat {error} / {message} bodies of the legacy endpoints.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	e := &Error{Status: resp.StatusCode}
	if json.Unmarshal(raw, &body) == nil {
		e.Code = body.Code
		e.Message = body.Message
		if e.Message == "" {
			e.Message = body.Error
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(raw))
	}
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}
