package handlers

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/safevoice/safevoice-api/internal/api"
	"github.com/safevoice/safevoice-api/internal/http/middleware"
	"github.com/safevoice/safevoice-api/internal/repo"
	"github.com/safevoice/safevoice-api/internal/services"
)

func storyRouter(user string, fs *fakeStories, idem IdempotencyStore) *gin.Engine {
	h := New(Deps{Stories: fs, Idempotency: idem})
	r := newRouter(user)
	if idem != nil {
		r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil))
	}
	r.GET("/stories", h.ListStories)
	r.GET("/stories/mine", h.ListMyStories)
	r.GET("/stories/tags", h.ListTags)
	r.GET("/stories/top", h.TopStories)
	r.GET("/stories/:id", h.GetStory)
	r.POST("/stories", h.CreateStory)
	r.PUT("/stories/:id", h.UpdateStory)
	r.DELETE("/stories/:id", h.DeleteStory)
	return r
}

func TestListStories_FilterPaginationAndMine(t *testing.T) {
	var gotFilter repo.StoryFilter
	var gotPage, gotSize int
	fs := &fakeStories{
		ListPageFn: func(_ context.Context, f repo.StoryFilter, p, ps int) ([]services.StoryView, int64, error) {
			gotFilter, gotPage, gotSize = f, p, ps
			return []services.StoryView{view("s1", "me", 2, "Healing"), view("s2", "other", 0)}, 45, nil
		},
	}
	r := storyRouter("me", fs, nil)

	w := doJSON(r, http.MethodGet, "/stories?page=2&page_size=500&tags=Healing,%20Recovery", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if !reflect.DeepEqual(gotFilter.Tags, []string{"Healing", "Recovery"}) || gotPage != 2 || gotSize != 100 {
		t.Fatalf("unexpected call: %+v page=%d size=%d", gotFilter, gotPage, gotSize)
	}
	page := decode[api.StoryPage](t, w)
	if len(page.Stories) != 2 || !page.Stories[0].Mine || page.Stories[1].Mine {
		t.Fatalf("mine flags wrong: %+v", page.Stories)
	}
	if page.Stories[0].AuthorAlias != "Anonymous_me" || page.Stories[0].ReactionsCount != 2 {
		t.Fatalf("decoration lost: %+v", page.Stories[0])
	}
	if page.Stories[1].Tags == nil || page.Stories[1].MediaURLs == nil {
		t.Fatalf("empty lists must encode as []")
	}
	if page.Pagination.TotalPages != 1 || page.Pagination.HasNext {
		t.Fatalf("pagination = %+v", page.Pagination)
	}
}

func TestListStories_ETag304(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	listed := 0
	fs := &fakeStories{
		StatsFn: func(context.Context, repo.StoryFilter) (repo.FeedStats, error) {
			return repo.FeedStats{Stories: 3, Reactions: 7, MaxUpdatedAt: &ts}, nil
		},
		ListPageFn: func(context.Context, repo.StoryFilter, int, int) ([]services.StoryView, int64, error) {
			listed++
			return nil, 0, nil
		},
	}
	r := storyRouter("", fs, nil)

	w := doJSON(r, http.MethodGet, "/stories", nil)
	etag := w.Header().Get("ETag")
	if w.Code != http.StatusOK || etag == "" || etag[:2] != `W/` {
		t.Fatalf("expected weak etag, got %d %q", w.Code, etag)
	}

	w = doJSON(r, http.MethodGet, "/stories", nil, "If-None-Match", etag)
	if w.Code != http.StatusNotModified || listed != 1 {
		t.Fatalf("expected 304 without listing, got %d listed=%d", w.Code, listed)
	}

	// A different reader sees different "mine" flags, so the tag changes.
	w = doJSON(storyRouter("u2", fs, nil), http.MethodGet, "/stories", nil, "If-None-Match", etag)
	if w.Code != http.StatusOK {
		t.Fatalf("etag must be per reader, got %d", w.Code)
	}
}

func TestListMyStories_UsesAuthorFilter(t *testing.T) {
	var got repo.StoryFilter
	fs := &fakeStories{ListPageFn: func(_ context.Context, f repo.StoryFilter, _, _ int) ([]services.StoryView, int64, error) {
		got = f
		return nil, 0, nil
	}}
	w := doJSON(storyRouter("u9", fs, nil), http.MethodGet, "/stories/mine", nil)
	if w.Code != http.StatusOK || got.AuthorID != "u9" {
		t.Fatalf("status=%d filter=%+v", w.Code, got)
	}
	if page := decode[api.StoryPage](t, w); page.Stories == nil {
		t.Fatalf("stories must encode as []")
	}
}

func TestListStories_Failure(t *testing.T) {
	fs := &fakeStories{ListPageFn: func(context.Context, repo.StoryFilter, int, int) ([]services.StoryView, int64, error) {
		return nil, 0, errors.New("db down")
	}}
	w := doJSON(storyRouter("", fs, nil), http.MethodGet, "/stories", nil)
	if w.Code != http.StatusInternalServerError || decode[api.ErrorResponse](t, w).Code != ErrCodeListFailed {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestTagsAndTop(t *testing.T) {
	var gotLimit int
	fs := &fakeStories{
		TagsFn: func(context.Context) ([]string, error) { return []string{"Healing", "Support"}, nil },
		TopFn: func(_ context.Context, n int) ([]services.StoryView, error) {
			gotLimit = n
			return []services.StoryView{view("a", "x", 9)}, nil
		},
	}
	r := storyRouter("", fs, nil)

	if tags := decode[[]string](t, doJSON(r, http.MethodGet, "/stories/tags", nil)); len(tags) != 2 {
		t.Fatalf("tags = %v", tags)
	}
	top := decode[[]api.Story](t, doJSON(r, http.MethodGet, "/stories/top", nil))
	if gotLimit != 3 || len(top) != 1 || top[0].ReactionsCount != 9 {
		t.Fatalf("top = %+v limit=%d", top, gotLimit)
	}
	doJSON(r, http.MethodGet, "/stories/top?limit=999", nil)
	if gotLimit != 20 {
		t.Fatalf("limit should clamp to 20, got %d", gotLimit)
	}
}

func TestGetStory_NotFound(t *testing.T) {
	fs := &fakeStories{GetFn: func(context.Context, string) (*services.StoryView, error) {
		return nil, services.ErrStoryNotFound
	}}
	w := doJSON(storyRouter("", fs, nil), http.MethodGet, "/stories/nope", nil)
	if w.Code != http.StatusNotFound || decode[api.ErrorResponse](t, w).Code != ErrCodeNotFound {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestCreateStory_ValidationMapping(t *testing.T) {
	for err, want := range map[error]int{
		services.ErrEmptyTitle:   http.StatusBadRequest,
		services.ErrEmptyContent: http.StatusBadRequest,
		services.ErrTooLong:      http.StatusBadRequest,
		errors.New("boom"):       http.StatusInternalServerError,
	} {
		fs := &fakeStories{CreateFn: func(context.Context, string, services.StoryInput) (*services.StoryView, error) {
			return nil, err
		}}
		w := doJSON(storyRouter("u1", fs, nil), http.MethodPost, "/stories", api.StoryRequest{Title: " "})
		if w.Code != want {
			t.Fatalf("%v: status=%d want %d", err, w.Code, want)
		}
	}

	w := doJSON(storyRouter("u1", &fakeStories{}, nil), http.MethodPost, "/stories", "{not json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed JSON: %d", w.Code)
	}
}

func TestCreateStory_IdempotentReplay(t *testing.T) {
	created := 0
	stored := map[string]services.StoryView{}
	fs := &fakeStories{
		CreateFn: func(_ context.Context, uid string, in services.StoryInput) (*services.StoryView, error) {
			created++
			v := view("new-1", uid, 0, in.Tags...)
			v.Title = in.Title
			stored[v.ID] = v
			return &v, nil
		},
		GetFn: func(_ context.Context, id string) (*services.StoryView, error) {
			v, ok := stored[id]
			if !ok {
				return nil, services.ErrStoryNotFound
			}
			return &v, nil
		},
	}
	r := storyRouter("u1", fs, &memIdem{})
	body := api.StoryRequest{Title: "Hello", Content: "World", Tags: []string{"Healing"}}

	w := doJSON(r, http.MethodPost, "/stories", body, middleware.HeaderIdempotencyKey, "key-1")
	if w.Code != http.StatusCreated {
		t.Fatalf("first create: %d %s", w.Code, w.Body.String())
	}
	first := decode[api.Story](t, w)
	if !first.Mine || first.Title != "Hello" {
		t.Fatalf("unexpected story %+v", first)
	}

	w = doJSON(r, http.MethodPost, "/stories", body, middleware.HeaderIdempotencyKey, "key-1")
	if w.Code != http.StatusOK || w.Header().Get(middleware.HeaderIdempotencyReplayed) != "true" {
		t.Fatalf("replay: %d headers=%v", w.Code, w.Header())
	}
	if decode[api.Story](t, w).ID != first.ID || created != 1 {
		t.Fatalf("replay must not create again (created=%d)", created)
	}

	doJSON(r, http.MethodPost, "/stories", body, middleware.HeaderIdempotencyKey, "key-2")
	if created != 2 {
		t.Fatalf("a new key must create, created=%d", created)
	}
}

func TestUpdateAndDeleteStory(t *testing.T) {
	var gotInput services.StoryInput
	fs := &fakeStories{
		UpdateFn: func(_ context.Context, uid, id string, in services.StoryInput) (*services.StoryView, error) {
			if id != "s1" || uid != "u1" {
				return nil, services.ErrStoryNotFound
			}
			gotInput = in
			v := view(id, uid, 1)
			return &v, nil
		},
		DeleteFn: func(_ context.Context, uid, id string) error {
			if id != "s1" {
				return services.ErrStoryNotFound
			}
			return nil
		},
	}
	r := storyRouter("u1", fs, nil)

	w := doJSON(r, http.MethodPut, "/stories/s1", api.StoryRequest{Title: "T", Content: "C", MediaURLs: []string{"https://m/1.png"}})
	if w.Code != http.StatusOK || len(gotInput.MediaURLs) != 1 {
		t.Fatalf("update: %d %+v", w.Code, gotInput)
	}
	if w := doJSON(r, http.MethodPut, "/stories/other", api.StoryRequest{Title: "T", Content: "C"}); w.Code != http.StatusNotFound {
		t.Fatalf("update foreign: %d", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/stories/s1", nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/stories/zzz", nil); w.Code != http.StatusNotFound {
		t.Fatalf("delete missing: %d", w.Code)
	}
}
