package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/safevoice/safevoice-api/internal/api"
	"github.com/safevoice/safevoice-api/internal/domain"
	"github.com/safevoice/safevoice-api/internal/repo"
	"github.com/safevoice/safevoice-api/internal/services"
)

//
// Fakes
//

type fakeStories struct {
	CreateFn   func(ctx context.Context, userID string, in services.StoryInput) (*services.StoryView, error)
	UpdateFn   func(ctx context.Context, userID, storyID string, in services.StoryInput) (*services.StoryView, error)
	DeleteFn   func(ctx context.Context, userID, storyID string) error
	GetFn      func(ctx context.Context, storyID string) (*services.StoryView, error)
	ListPageFn func(ctx context.Context, f repo.StoryFilter, page, pageSize int) ([]services.StoryView, int64, error)
	StatsFn    func(ctx context.Context, f repo.StoryFilter) (repo.FeedStats, error)
	TagsFn     func(ctx context.Context) ([]string, error)
	TopFn      func(ctx context.Context, limit int) ([]services.StoryView, error)
}

func (f *fakeStories) Create(ctx context.Context, u string, in services.StoryInput) (*services.StoryView, error) {
	return f.CreateFn(ctx, u, in)
}
func (f *fakeStories) Update(ctx context.Context, u, id string, in services.StoryInput) (*services.StoryView, error) {
	return f.UpdateFn(ctx, u, id, in)
}
func (f *fakeStories) Delete(ctx context.Context, u, id string) error { return f.DeleteFn(ctx, u, id) }
func (f *fakeStories) Get(ctx context.Context, id string) (*services.StoryView, error) {
	return f.GetFn(ctx, id)
}
func (f *fakeStories) ListPage(ctx context.Context, fl repo.StoryFilter, p, ps int) ([]services.StoryView, int64, error) {
	return f.ListPageFn(ctx, fl, p, ps)
}
func (f *fakeStories) Stats(ctx context.Context, fl repo.StoryFilter) (repo.FeedStats, error) {
	if f.StatsFn == nil {
		return repo.FeedStats{}, context.Canceled
	}
	return f.StatsFn(ctx, fl)
}
func (f *fakeStories) Tags(ctx context.Context) ([]string, error) { return f.TagsFn(ctx) }
func (f *fakeStories) Top(ctx context.Context, n int) ([]services.StoryView, error) {
	return f.TopFn(ctx, n)
}

type fakeReactions struct {
	ReactFn  func(ctx context.Context, userID, storyID, typ string) (*domain.Reaction, error)
	ReportFn func(ctx context.Context, userID, storyID string) error
}

func (f *fakeReactions) React(ctx context.Context, u, s, t string) (*domain.Reaction, error) {
	return f.ReactFn(ctx, u, s, t)
}
func (f *fakeReactions) Report(ctx context.Context, u, s string) error { return f.ReportFn(ctx, u, s) }

type fakeTestimonials struct {
	ListFn   func(ctx context.Context, limit int) ([]domain.Testimonial, error)
	CreateFn func(ctx context.Context, userID, content string) (*domain.Testimonial, error)
}

func (f *fakeTestimonials) List(ctx context.Context, n int) ([]domain.Testimonial, error) {
	return f.ListFn(ctx, n)
}
func (f *fakeTestimonials) Create(ctx context.Context, u, c string) (*domain.Testimonial, error) {
	return f.CreateFn(ctx, u, c)
}

type fakeAuth struct {
	SignUpFn func(ctx context.Context, email, password string) (*services.Session, error)
	SignInFn func(ctx context.Context, email, password string) (*services.Session, error)
	SocialFn func(ctx context.Context, idToken string) (*services.Session, error)
	MeFn     func(ctx context.Context, userID string) (*domain.Profile, error)
}

func (f *fakeAuth) SignUp(ctx context.Context, e, p string) (*services.Session, error) {
	return f.SignUpFn(ctx, e, p)
}
func (f *fakeAuth) SignIn(ctx context.Context, e, p string) (*services.Session, error) {
	return f.SignInFn(ctx, e, p)
}
func (f *fakeAuth) SignInSocial(ctx context.Context, t string) (*services.Session, error) {
	return f.SocialFn(ctx, t)
}
func (f *fakeAuth) Me(ctx context.Context, u string) (*domain.Profile, error) { return f.MeFn(ctx, u) }

type fakeMedia struct {
	UploadFn func(ctx context.Context, userID, filename string, r io.Reader, size int64) (*api.Media, error)
	DeleteFn func(ctx context.Context, userID, key string) error
}

func (f *fakeMedia) Upload(ctx context.Context, u, n string, r io.Reader, s int64) (*api.Media, error) {
	return f.UploadFn(ctx, u, n, r, s)
}
func (f *fakeMedia) Delete(ctx context.Context, u, k string) error { return f.DeleteFn(ctx, u, k) }

type fakeNGOs struct {
	ApprovedFn func(ctx context.Context) ([]domain.NGO, error)
	SubmitFn   func(ctx context.Context, r domain.NGORequest) (*domain.NGORequest, error)
}

func (f *fakeNGOs) Approved(ctx context.Context) ([]domain.NGO, error) { return f.ApprovedFn(ctx) }
func (f *fakeNGOs) Submit(ctx context.Context, r domain.NGORequest) (*domain.NGORequest, error) {
	return f.SubmitFn(ctx, r)
}

type fakeText struct {
	configured  bool
	GrammarFn   func(ctx context.Context, content string) (string, error)
	TranslateFn func(ctx context.Context, title, content, lang string) (*services.Translation, error)
}

func (f *fakeText) Configured() bool { return f.configured }
func (f *fakeText) CorrectGrammar(ctx context.Context, c string) (string, error) {
	return f.GrammarFn(ctx, c)
}
func (f *fakeText) Translate(ctx context.Context, t, c, l string) (*services.Translation, error) {
	return f.TranslateFn(ctx, t, c, l)
}

type memIdem struct {
	recs map[string]*domain.Idempotency
}

func (m *memIdem) Get(_ context.Context, u, scope, key string, _ time.Time) (*domain.Idempotency, error) {
	if r, ok := m.recs[u+"|"+scope+"|"+key]; ok {
		return r, nil
	}
	return nil, repo.ErrNotFound
}
func (m *memIdem) Save(_ context.Context, u, scope, key, id string, status int) error {
	if m.recs == nil {
		m.recs = map[string]*domain.Idempotency{}
	}
	m.recs[u+"|"+scope+"|"+key] = &domain.Idempotency{UserID: u, Scope: scope, Key: key, ResourceID: id, Status: status}
	return nil
}

//
// Helpers
//

// asUser stands in for middleware.Authenticate.
func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id != "" {
			c.Set("userID", id)
		}
		c.Next()
	}
}

func newRouter(user string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asUser(user))
	return r
}

func doJSON(r http.Handler, method, path string, body any, hdr ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		buf, _ := json.Marshal(b)
		rd = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func view(id, author string, reactions int64, tags ...string) services.StoryView {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return services.StoryView{
		Story: domain.Story{
			ID: id, Title: "t-" + id, Content: "c-" + id, Tags: tags,
			AuthorID: author, CreatedAt: now, UpdatedAt: now,
		},
		ReactionsCount: reactions,
		AuthorAlias:    domain.AuthorAlias(author),
	}
}
