package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/safevoice/safevoice-api/internal/ai"
	"github.com/safevoice/safevoice-api/internal/api"
	"github.com/safevoice/safevoice-api/internal/config"
	httpapi "github.com/safevoice/safevoice-api/internal/http"
	"github.com/safevoice/safevoice-api/internal/repo"
	"github.com/safevoice/safevoice-api/internal/storage"
)

// echoGen answers every prompt with a marker so tests can see which prompt
// produced which field.
type echoGen struct{}

func (echoGen) Generate(_ context.Context, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "story title"):
		return "TITLE", nil
	case strings.Contains(prompt, "Translate"):
		return "CONTENT", nil
	default:
		return "Corrected.", nil
	}
}

func newTestServer(t *testing.T, gen ai.Generator) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:client_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))

	store, err := storage.NewLocal(t.TempDir(), "http://media.test")
	require.NoError(t, err)

	cfg := config.Config{
		APIBasePath:    "/api/v1",
		RateRPS:        1000,
		RateBurst:      1000,
		OTEL:           config.OTELConfig{ServiceName: "client-test"},
		JWT:            config.AuthConfig{Secret: "client-test", TokenTTL: time.Hour},
		IdempotencyTTL: time.Hour,
		MaxUploadBytes: 1 << 20,
	}
	r := gin.New()
	httpapi.RegisterRoutes(r, db, cfg, httpapi.Backends{Store: store, Generator: gen})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_SessionLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)
	ctx := context.Background()
	c := New(srv.URL)

	assert.False(t, c.Authenticated())
	_, err := c.Me(ctx)
	assert.True(t, IsUnauthenticated(err), "got %v", err)

	s, err := c.SignUp(ctx, "Jane@Example.com", "abcd1234")
	require.NoError(t, err)
	assert.True(t, c.Authenticated())
	assert.Equal(t, s.Token, c.Token())
	require.NotNil(t, c.User())
	assert.Equal(t, "jane", c.User().Username)

	_, err = New(srv.URL).SignUp(ctx, "jane@example.com", "abcd1234")
	assert.True(t, IsConflict(err), "duplicate sign-up should conflict, got %v", err)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, me.ID)

	require.NoError(t, c.SignOut(ctx))
	assert.False(t, c.Authenticated())
	assert.Nil(t, c.User())

	other := New(srv.URL)
	_, err = other.SignIn(ctx, "jane@example.com", "wrong-pass1")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid_credentials", apiErr.Code)
	assert.Equal(t, "Invalid login credentials", apiErr.Message)

	_, err = other.SignIn(ctx, "jane@example.com", "abcd1234")
	require.NoError(t, err)
	assert.True(t, other.Authenticated())
}

func TestClient_StoriesAndReactions(t *testing.T) {
	srv := newTestServer(t, nil)
	ctx := context.Background()

	author := New(srv.URL)
	_, err := author.SignUp(ctx, "author@example.com", "abcd1234")
	require.NoError(t, err)

	st, err := author.CreateStory(ctx, api.StoryRequest{Title: "First", Content: "Body", Tags: []string{"Healing"}}, "k-1")
	require.NoError(t, err)
	again, err := author.CreateStory(ctx, api.StoryRequest{Title: "First", Content: "Body"}, "k-1")
	require.NoError(t, err)
	assert.Equal(t, st.ID, again.ID, "same idempotency key must return the same story")

	_, err = author.CreateStory(ctx, api.StoryRequest{Title: "Second", Content: "More", Tags: []string{"Support"}}, "")
	require.NoError(t, err)

	anon := New(srv.URL)
	page, err := anon.ListStories(ctx, ListOptions{Tags: []string{"Healing"}})
	require.NoError(t, err)
	require.Len(t, page.Stories, 1)
	assert.Equal(t, "First", page.Stories[0].Title)

	tags, err := anon.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Healing", "Support"}, tags)

	_, err = anon.React(ctx, st.ID, "heart")
	assert.True(t, IsUnauthenticated(err))

	reader := New(srv.URL)
	_, err = reader.SignUp(ctx, "reader@example.com", "abcd1234")
	require.NoError(t, err)
	_, err = reader.React(ctx, st.ID, "support")
	require.NoError(t, err)
	_, err = reader.React(ctx, st.ID, "support")
	assert.True(t, IsConflict(err))
	require.NoError(t, reader.Report(ctx, st.ID))

	top, err := anon.TopStories(ctx, 3)
	require.NoError(t, err)
	require.NotEmpty(t, top)
	assert.Equal(t, st.ID, top[0].ID)
	assert.EqualValues(t, 1, top[0].ReactionsCount)

	mine, err := author.MyStories(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, mine.Stories, 2)

	upd, err := author.UpdateStory(ctx, st.ID, api.StoryRequest{Title: "First (edited)", Content: "Body"})
	require.NoError(t, err)
	assert.Equal(t, "First (edited)", upd.Title)

	require.NoError(t, author.DeleteStory(ctx, st.ID))
	_, err = anon.GetStory(ctx, st.ID)
	assert.True(t, IsNotFound(err))
}

func TestClient_MediaTestimonialsHome(t *testing.T) {
	srv := newTestServer(t, nil)
	ctx := context.Background()
	c := New(srv.URL)
	_, err := c.SignUp(ctx, "media@example.com", "abcd1234")
	require.NoError(t, err)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	m, err := c.UploadMedia(ctx, "a.png", bytes.NewReader(png))
	require.NoError(t, err)
	assert.Equal(t, "image/png", m.ContentType)
	assert.True(t, strings.HasPrefix(m.Key, c.User().ID+"/"))

	_, err = c.UploadMedia(ctx, "notes.txt", strings.NewReader("plain text"))
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnsupportedMediaType, apiErr.Status)

	require.NoError(t, c.DeleteMedia(ctx, m.Key))

	_, err = c.CreateTestimonial(ctx, "This place helped me.")
	require.NoError(t, err)
	list, err := c.Testimonials(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	home, err := c.Home(ctx)
	require.NoError(t, err)
	assert.Contains(t, home.Slogans, home.Slogan)
}

func TestClient_LegacyEndpoints(t *testing.T) {
	srv := newTestServer(t, echoGen{})
	ctx := context.Background()
	c := New(srv.URL)

	ngos, err := c.ApprovedNGOs(ctx)
	require.NoError(t, err)
	assert.Len(t, ngos, 6)

	msg, err := c.SendNGORequest(ctx, api.NGORequest{Name: "n", Description: "d", Contact: "c", Email: "e@x.org", RegistrationNumber: "r"})
	require.NoError(t, err)
	assert.Contains(t, msg, "submitted successfully")

	_, err = c.SendNGORequest(ctx, api.NGORequest{Name: "n"})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Missing required fields in request.", apiErr.Message)
	assert.Empty(t, apiErr.Code)

	fixed, err := c.CorrectGrammar(ctx, "i has a story")
	require.NoError(t, err)
	assert.Equal(t, "Corrected.", fixed)

	tr, err := c.Translate(ctx, "Hello", "World", "es")
	require.NoError(t, err)
	require.NotNil(t, tr.TranslatedTitle)
	assert.Equal(t, "TITLE", *tr.TranslatedTitle)
	assert.Equal(t, "CONTENT", tr.TranslatedContent)

	tr, err = c.Translate(ctx, "", "World", "es")
	require.NoError(t, err)
	assert.Nil(t, tr.TranslatedTitle)
}

func TestDecodeError_Shapes(t *testing.T) {
	cases := []struct {
		body string
		want Error
	}{
		{`{"request_id":"r","code":"not_found","message":"story not found"}`, Error{Status: 404, Code: "not_found", Message: "story not found"}},
		{`{"error":"API key not configured on server"}`, Error{Status: 404, Message: "API key not configured on server"}},
		{`upstream gone`, Error{Status: 404, Message: "upstream gone"}},
		{``, Error{Status: 404, Message: "Not Found"}},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(tc.body))
		}))
		_, err := New(srv.URL).GetStory(context.Background(), "x")
		srv.Close()

		var got *Error
		require.ErrorAs(t, err, &got)
		assert.Equal(t, tc.want, *got)
	}
}

func TestWithAPIBase(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := New(srv.URL+"/", WithAPIBase("v2/")).Tags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/v2/stories/tags", seen)

	_, err = New(srv.URL, WithAPIBase("/"), WithToken(" tok ")).Tags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/stories/tags", seen)
}
