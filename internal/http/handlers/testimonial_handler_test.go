package handlers

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/safevoice/safevoice-api/internal/api"
	"github.com/safevoice/safevoice-api/internal/domain"
	"github.com/safevoice/safevoice-api/internal/services"
)

func TestTestimonials_ListAndCreate(t *testing.T) {
	var gotLimit int
	ft := &fakeTestimonials{
		ListFn: func(_ context.Context, n int) ([]domain.Testimonial, error) {
			gotLimit = n
			return []domain.Testimonial{{ID: "t1", Content: "thank you", AuthorID: "secret", CreatedAt: time.Now()}}, nil
		},
		CreateFn: func(_ context.Context, uid, content string) (*domain.Testimonial, error) {
			if content == "" {
				return nil, services.ErrEmptyContent
			}
			return &domain.Testimonial{ID: "t2", Content: content, AuthorID: uid}, nil
		},
	}
	h := New(Deps{Testimonials: ft})
	r := newRouter("u1")
	r.GET("/testimonials", h.ListTestimonials)
	r.POST("/testimonials", h.CreateTestimonial)

	w := doJSON(r, http.MethodGet, "/testimonials", nil)
	if w.Code != http.StatusOK || gotLimit != 20 {
		t.Fatalf("status=%d limit=%d", w.Code, gotLimit)
	}
	if body := w.Body.String(); strings.Contains(body, "secret") {
		t.Fatalf("author id leaked: %s", body)
	}

	if w := doJSON(r, http.MethodPost, "/testimonials", api.TestimonialRequest{Content: "hi"}); w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/testimonials", api.TestimonialRequest{}); w.Code != http.StatusBadRequest {
		t.Fatalf("create empty: %d", w.Code)
	}
}

func TestHome_PicksSloganAndTop(t *testing.T) {
	var gotLimit int
	fs := &fakeStories{TopFn: func(_ context.Context, n int) ([]services.StoryView, error) {
		gotLimit = n
		return []services.StoryView{view("a", "x", 4)}, nil
	}}
	h := New(Deps{Stories: fs, Pick: func(n int) int { return n - 1 }})
	r := newRouter("")
	r.GET("/home", h.Home)

	w := doJSON(r, http.MethodGet, "/home", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	home := decode[api.Home](t, w)
	if home.Slogan != domain.Slogans[len(domain.Slogans)-1] {
		t.Fatalf("slogan = %q", home.Slogan)
	}
	if !reflect.DeepEqual(home.Slogans, domain.Slogans) || gotLimit != 3 || len(home.TopStories) != 1 {
		t.Fatalf("unexpected home %+v (limit=%d)", home, gotLimit)
	}
}
