// Package handlers wires HTTP endpoints to application services.
//
// Handlers are transport-thin: they bind and validate input, call a service
// through the narrow interfaces below, and translate results and sentinel
// errors into HTTP responses (including conditional and replayed ones).
package handlers

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/safevoice/safevoice-api/internal/api"
	"github.com/safevoice/safevoice-api/internal/domain"
	"github.com/safevoice/safevoice-api/internal/http/middleware"
	"github.com/safevoice/safevoice-api/internal/repo"
	"github.com/safevoice/safevoice-api/internal/services"
	"github.com/safevoice/safevoice-api/internal/utils"
)

//
// Service contracts (context-aware)
//

// StoryService covers story listing, lookup and owner-only mutation.
type StoryService interface {
	Create(ctx context.Context, userID string, in services.StoryInput) (*services.StoryView, error)
	Update(ctx context.Context, userID, storyID string, in services.StoryInput) (*services.StoryView, error)
	Delete(ctx context.Context, userID, storyID string) error
	Get(ctx context.Context, storyID string) (*services.StoryView, error)
	ListPage(ctx context.Context, f repo.StoryFilter, page, pageSize int) ([]services.StoryView, int64, error)
	Stats(ctx context.Context, f repo.StoryFilter) (repo.FeedStats, error)
	Tags(ctx context.Context) ([]string, error)
	Top(ctx context.Context, limit int) ([]services.StoryView, error)
}

// ReactionService records reactions and reports.
type ReactionService interface {
	React(ctx context.Context, userID, storyID, typ string) (*domain.Reaction, error)
	Report(ctx context.Context, userID, storyID string) error
}

// TestimonialService lists and stores testimonials.
type TestimonialService interface {
	List(ctx context.Context, limit int) ([]domain.Testimonial, error)
	Create(ctx context.Context, userID, content string) (*domain.Testimonial, error)
}

// AuthService implements sign-up, sign-in and session lookup.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*services.Session, error)
	SignIn(ctx context.Context, email, password string) (*services.Session, error)
	SignInSocial(ctx context.Context, idToken string) (*services.Session, error)
	Me(ctx context.Context, userID string) (*domain.Profile, error)
}

// MediaService stores and deletes story attachments.
type MediaService interface {
	Upload(ctx context.Context, userID, filename string, r io.Reader, size int64) (*api.Media, error)
	Delete(ctx context.Context, userID, key string) error
}

// NGOService serves the directory and accepts listing requests.
type NGOService interface {
	Approved(ctx context.Context) ([]domain.NGO, error)
	Submit(ctx context.Context, r domain.NGORequest) (*domain.NGORequest, error)
}

// TextService implements grammar correction and translation.
type TextService interface {
	Configured() bool
	CorrectGrammar(ctx context.Context, content string) (string, error)
	Translate(ctx context.Context, title, content, targetLang string) (*services.Translation, error)
}

// IdempotencyStore persists results of POST requests carrying an
// Idempotency-Key.
type IdempotencyStore interface {
	Get(ctx context.Context, userID, scope, key string, now time.Time) (*domain.Idempotency, error)
	Save(ctx context.Context, userID, scope, key, resourceID string, status int) error
}

//
// Handler wiring
//

// Deps lists the services behind the handlers. Idempotency may be nil.
type Deps struct {
	Stories      StoryService
	Reactions    ReactionService
	Testimonials TestimonialService
	Auth         AuthService
	Media        MediaService
	NGOs         NGOService
	Text         TextService
	Idempotency  IdempotencyStore

	// Pick chooses the slogan index; defaults to math/rand/v2.
	Pick func(n int) int
}

// Handlers groups all HTTP endpoints.
type Handlers struct {
	stories      StoryService
	reactions    ReactionService
	testimonials TestimonialService
	auth         AuthService
	media        MediaService
	ngos         NGOService
	text         TextService
	idem         IdempotencyStore
	pick         func(n int) int
}

// New constructs Handlers from d.
func New(d Deps) *Handlers {
	pick := d.Pick
	if pick == nil {
		pick = rand.IntN
	}
	return &Handlers{
		stories:      d.Stories,
		reactions:    d.Reactions,
		testimonials: d.Testimonials,
		auth:         d.Auth,
		media:        d.Media,
		ngos:         d.NGOs,
		text:         d.Text,
		idem:         d.Idempotency,
		pick:         pick,
	}
}

// userID returns the authenticated caller, or "" when anonymous. Routes that
// need an identity are guarded by middleware.RequireAuth.
func userID(c *gin.Context) string {
	return middleware.UserID(c)
}

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.Clamp(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

//
// DTO mapping
//

func toStory(v services.StoryView, uid string) api.Story {
	tags := []string(v.Tags)
	if tags == nil {
		tags = []string{}
	}
	media := []string(v.MediaURLs)
	if media == nil {
		media = []string{}
	}
	return api.Story{
		ID:             v.ID,
		Title:          v.Title,
		Content:        v.Content,
		Tags:           tags,
		MediaURLs:      media,
		AuthorAlias:    v.AuthorAlias,
		ReactionsCount: v.ReactionsCount,
		Mine:           uid != "" && v.AuthorID == uid,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

func toStories(views []services.StoryView, uid string) []api.Story {
	out := make([]api.Story, len(views))
	for i, v := range views {
		out[i] = toStory(v, uid)
	}
	return out
}

func toProfile(p *domain.Profile) api.Profile {
	return api.Profile{
		ID:       p.ID,
		Email:    p.Email,
		Phone:    p.Phone,
		Username: p.Username,
		Provider: p.Provider,
		Avatar:   p.Avatar,
	}
}

func toPagination(page, pageSize int, total int64) api.Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return api.Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}
