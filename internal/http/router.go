// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Legacy NGO and AI function paths keep their original contracts
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/safevoice/safevoice-api/internal/ai"
	"github.com/safevoice/safevoice-api/internal/api"
	"github.com/safevoice/safevoice-api/internal/auth"
	"github.com/safevoice/safevoice-api/internal/config"
	"github.com/safevoice/safevoice-api/internal/domain"
	"github.com/safevoice/safevoice-api/internal/http/handlers"
	"github.com/safevoice/safevoice-api/internal/http/middleware"
	"github.com/safevoice/safevoice-api/internal/repo"
	"github.com/safevoice/safevoice-api/internal/services"
	"github.com/safevoice/safevoice-api/internal/storage"
)

// Backends are the external adapters the routes depend on besides the DB.
type Backends struct {
	Store     storage.Store         // required
	Generator ai.Generator          // nil disables the text functions (500 "not configured")
	Verifier  auth.IdentityVerifier // nil disables social sign-in (503)
}

// storyRepoShim adapts the repository free functions to the
// services.StoryRepo interface expected by the StoryService.
type storyRepoShim struct{}

func (storyRepoShim) CreateStory(ctx context.Context, db *gorm.DB, s *domain.Story) error {
	return repo.CreateStory(ctx, db, s)
}

func (storyRepoShim) GetStory(ctx context.Context, db *gorm.DB, id string) (*domain.Story, error) {
	return repo.GetStory(ctx, db, id)
}

func (storyRepoShim) UpdateStory(ctx context.Context, db *gorm.DB, id, authorID, title, content string, tags, media []string) error {
	return repo.UpdateStory(ctx, db, id, authorID, title, content, tags, media)
}

func (storyRepoShim) DeleteStory(ctx context.Context, db *gorm.DB, id, authorID string) error {
	return repo.DeleteStory(ctx, db, id, authorID)
}

func (storyRepoShim) DeleteReactionsByStory(ctx context.Context, db *gorm.DB, storyID string) error {
	return repo.DeleteReactionsByStory(ctx, db, storyID)
}

func (storyRepoShim) CountStories(ctx context.Context, db *gorm.DB, f repo.StoryFilter) (int64, error) {
	return repo.CountStories(ctx, db, f)
}

func (storyRepoShim) ListStoriesPage(ctx context.Context, db *gorm.DB, f repo.StoryFilter, offset, limit int) ([]domain.Story, error) {
	return repo.ListStoriesPage(ctx, db, f, offset, limit)
}

func (storyRepoShim) ListStoriesByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Story, error) {
	return repo.ListStoriesByIDs(ctx, db, ids)
}

func (storyRepoShim) ListStoriesExcluding(ctx context.Context, db *gorm.DB, exclude []string, limit int) ([]domain.Story, error) {
	return repo.ListStoriesExcluding(ctx, db, exclude, limit)
}

func (storyRepoShim) ListStoryTags(ctx context.Context, db *gorm.DB) ([][]string, error) {
	return repo.ListStoryTags(ctx, db)
}

func (storyRepoShim) StoriesStats(ctx context.Context, db *gorm.DB, f repo.StoryFilter) (repo.FeedStats, error) {
	return repo.StoriesStats(ctx, db, f)
}

func (storyRepoShim) CountReactionsByStories(ctx context.Context, db *gorm.DB, storyIDs []string) (map[string]int64, error) {
	return repo.CountReactionsByStories(ctx, db, storyIDs)
}

func (storyRepoShim) TopReactedStories(ctx context.Context, db *gorm.DB, limit int) ([]repo.StoryCount, error) {
	return repo.TopReactedStories(ctx, db, limit)
}

// ngoRequestStore persists listing requests in ngo_requests.
type ngoRequestStore struct{ db *gorm.DB }

func (s ngoRequestStore) CreateNGORequest(ctx context.Context, r *domain.NGORequest) error {
	return repo.CreateNGORequest(ctx, s.db, r)
}

// idempotencyStore keeps POST results for ttl.
type idempotencyStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func (s idempotencyStore) Get(ctx context.Context, userID, scope, key string, now time.Time) (*domain.Idempotency, error) {
	return repo.GetIdempotency(ctx, s.db, userID, scope, key, now)
}

func (s idempotencyStore) Save(ctx context.Context, userID, scope, key, resourceID string, status int) error {
	_, err := repo.CreateIdempotency(ctx, s.db, userID, scope, key, resourceID, status, s.ttl)
	if errors.Is(err, repo.ErrDuplicate) {
		// A concurrent retry with the same key won the race.
		return nil
	}
	return err
}

// Fixed limits for the AI function endpoints, per client IP.
const (
	functionsRPS   = 1
	functionsBurst = 5
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned public API under cfg.APIBasePath plus the legacy
// /api/* and /functions/v1/* paths.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter (larger for media uploads)
//  6. Gzip
//  7. Metrics
//  8. Authenticate (optional bearer session)
//  9. Idempotency validator (before rate limiter to allow bypass on replay)
//  10. Rate limiter (per user/IP, bypass on replay)
//  11. CORS (permissive for /functions, allow-list elsewhere) and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, b Backends) {
	r.HandleMethodNotAllowed = true

	tokens := auth.NewManager(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	idem := idempotencyStore{db: db, ttl: cfg.IdempotencyTTL}
	base := cfg.APIBasePath

	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = api.MaxUploadBytes
	}

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(1<<20, map[string]int64{
		http.MethodPost + " " + joinPath(base, "/media"): maxUpload + 1<<20,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	r.Use(middleware.Metrics("/metrics"))
	r.Use(middleware.Authenticate(tokens))
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
			rec, err := idem.Get(ctx, userID, scope, key, now)
			if errors.Is(err, repo.ErrNotFound) {
				return false, nil
			}
			return err == nil && rec != nil, err
		},
	))
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())
	r.Use(middleware.CORS(middleware.CORSOptions{
		AllowedOrigins:     cfg.CORS.AllowedOrigins,
		PermissivePrefixes: []string{"/functions/"},
	}))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Operational
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if local, ok := b.Store.(*storage.Local); ok {
		r.Static("/media", local.Dir())
	}

	// Dependency injection: services ← repo/db/adapters
	media := services.NewMediaService(b.Store, maxUpload)
	if b.Generator == nil {
		log.Warn().Msg("GEMINI_API_KEY not set; text functions will answer 500")
	}
	h := handlers.New(handlers.Deps{
		Stories:      services.NewStoryService(db, storyRepoShim{}, media),
		Reactions:    &services.ReactionService{DB: db},
		Testimonials: &services.TestimonialService{DB: db, MaxRunes: 2000},
		Auth:         &services.AuthService{DB: db, Tokens: tokens, Verifier: b.Verifier},
		Media:        media,
		NGOs:         &services.NGOService{Store: ngoRequestStore{db: db}},
		Text:         &services.TextService{Gen: b.Generator},
		Idempotency:  idem,
	})

	// Versioned API
	v := groupWithPrefix(r, base)
	authed := middleware.RequireAuth()
	{
		a := v.Group("/auth", middleware.NoStore())
		a.POST("/signup", h.SignUp)
		a.POST("/signin", h.SignIn)
		a.POST("/social", h.SignInSocial)
		a.POST("/signout", h.SignOut)
		a.GET("/me", authed, h.Me)

		v.GET("/stories", h.ListStories)
		v.GET("/stories/tags", h.ListTags)
		v.GET("/stories/top", h.TopStories)
		v.GET("/stories/mine", authed, h.ListMyStories)
		v.GET("/stories/:id", h.GetStory)
		v.POST("/stories", authed, h.CreateStory)
		v.PUT("/stories/:id", authed, h.UpdateStory)
		v.DELETE("/stories/:id", authed, h.DeleteStory)
		v.POST("/stories/:id/reactions", authed, h.React)
		v.POST("/stories/:id/report", authed, h.Report)

		v.POST("/media", authed, h.UploadMedia)
		v.DELETE("/media", authed, h.DeleteMedia)

		v.GET("/testimonials", h.ListTestimonials)
		v.POST("/testimonials", authed, h.CreateTestimonial)
		v.GET("/home", h.Home)
	}

	// Legacy paths; method checks live in the handlers.
	r.Any("/api/approved-ngos", h.ApprovedNGOs)
	r.Any("/api/send-ngo-request", h.SendNGORequest)

	fl := middleware.NewRateLimiter(functionsRPS, functionsBurst, middleware.KeyByIP())
	fn := r.Group("/functions/v1", fl.Handler())
	{
		fn.POST("/correct-grammar", h.CorrectGrammar)
		fn.POST("/translate", h.Translate)
	}
}

// limitBody caps request bodies at def bytes, or at the per-route limit keyed
// by "METHOD /full/path". Requests exceeding the cap make downstream body
// reads fail with *http.MaxBytesError.
func limitBody(def int64, perRoute map[string]int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			limit := def
			if n, ok := perRoute[c.Request.Method+" "+c.FullPath()]; ok {
				limit = n
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

func joinPath(base, p string) string {
	if base == "" || base == "/" {
		return p
	}
	return base + p
}
