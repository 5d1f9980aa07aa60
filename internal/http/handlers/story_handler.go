// Story HTTP handlers.
//
// This file exposes REST endpoints for stories:
//   - GET    /stories              (list, paginated, tag filter, ETag support)
//   - GET    /stories/tags         (distinct tags)
//   - GET    /stories/top          (top stories by reactions)
//   - GET    /stories/mine         (caller's stories)
//   - GET    /stories/{id}
//   - POST   /stories              (create, Idempotency-Key aware)
//   - PUT    /stories/{id}         (author only)
//   - DELETE /stories/{id}         (author only)
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/safevoice/safevoice-api/internal/api"
	"github.com/safevoice/safevoice-api/internal/http/middleware"
	"github.com/safevoice/safevoice-api/internal/repo"
	"github.com/safevoice/safevoice-api/internal/services"
	"github.com/safevoice/safevoice-api/internal/utils"
)

// ListStories godoc
// @ID          listStories
// @Summary     List stories (paginated)
// @Description Newest first, each with reaction count and author alias. tags filters with OR semantics.
// @Description Supports weak ETag via If-None-Match and may return 304.
// @Tags        Stories
// @Produce     json
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
// @Param       tags           query   string  false "Comma-separated tags (any match)"
// @Success     200  {object} api.StoryPage
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} api.ErrorResponse
// @Router      /stories [get]
func (h *Handlers) ListStories(c *gin.Context) {
	h.listStories(c, repo.StoryFilter{Tags: utils.SplitCSV(c.Query("tags"))})
}

// ListMyStories godoc
// @ID          listMyStories
// @Summary     List the caller's stories
// @Tags        Stories
// @Produce     json
// @Security    BearerAuth
// @Param       page       query  int  false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object} api.StoryPage
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /stories/mine [get]
func (h *Handlers) ListMyStories(c *gin.Context) {
	h.listStories(c, repo.StoryFilter{AuthorID: userID(c)})
}

func (h *Handlers) listStories(c *gin.Context, f repo.StoryFilter) {
	ctx := c.Request.Context()
	uid := userID(c)
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort). The caller is part of the tag because
	// "mine" flags differ per reader.
	if st, err := h.stories.Stats(ctx, f); err == nil {
		var ts int64
		if st.MaxUpdatedAt != nil {
			ts = st.MaxUpdatedAt.UnixNano()
		}
		etag := fmt.Sprintf(`W/"stories:%s:%s:%s:%d:%d:%d:%d:%d"`,
			uid, f.AuthorID, strings.Join(f.Tags, "|"), page, pageSize, st.Stories, st.Reactions, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.stories.ListPage(ctx, f, page, pageSize)
	if err != nil {
		failInternal(c, ErrCodeListFailed, err)
		return
	}
	ok(c, http.StatusOK, api.StoryPage{
		Stories:    toStories(items, uid),
		Pagination: toPagination(page, pageSize, total),
	})
}

// ListTags godoc
// @ID          listStoryTags
// @Summary     Distinct story tags
// @Tags        Stories
// @Produce     json
// @Success     200  {array}  string
// @Failure     500  {object} api.ErrorResponse
// @Router      /stories/tags [get]
func (h *Handlers) ListTags(c *gin.Context) {
	tags, err := h.stories.Tags(c.Request.Context())
	if err != nil {
		failInternal(c, ErrCodeListFailed, err)
		return
	}
	ok(c, http.StatusOK, tags)
}

// TopStories godoc
// @ID          topStories
// @Summary     Top stories by reaction count
// @Tags        Stories
// @Produce     json
// @Param       limit  query  int  false "How many"  minimum(1) maximum(20) default(3)
// @Success     200  {array}  api.Story
// @Failure     500  {object} api.ErrorResponse
// @Router      /stories/top [get]
func (h *Handlers) TopStories(c *gin.Context) {
	limit := utils.Clamp(utils.AtoiDefault(c.Query("limit"), 3), 1, 20)
	items, err := h.stories.Top(c.Request.Context(), limit)
	if err != nil {
		failInternal(c, ErrCodeListFailed, err)
		return
	}
	ok(c, http.StatusOK, toStories(items, userID(c)))
}

// GetStory godoc
// @ID          getStory
// @Summary     Get one story
// @Tags        Stories
// @Produce     json
// @Param       id   path  string  true  "Story ID"  format(uuid)
// @Success     200  {object} api.Story
// @Failure     404  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /stories/{id} [get]
func (h *Handlers) GetStory(c *gin.Context) {
	v, err := h.stories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storyError(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, toStory(*v, userID(c)))
}

// CreateStory godoc
// @ID          createStory
// @Summary     Share a story
// @Description Title and content are required after trimming; tags are de-duplicated.
// @Description Supports idempotency via the Idempotency-Key header (same key → same story).
// @Tags        Stories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"
// @Param       body  body  api.StoryRequest  true  "Story"
// @Success     201  {object} api.Story
// @Success     200  {object} api.Story "Replayed result"
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /stories [post]
func (h *Handlers) CreateStory(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	var req api.StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	// Idempotency (replay path).
	idemKey, _ := middleware.GetIdempotencyKey(c)
	scope := middleware.IdempotencyScope(c)
	if idemKey != "" && h.idem != nil {
		if rec, err := h.idem.Get(ctx, uid, scope, idemKey, time.Now().UTC()); err == nil && rec != nil {
			if prev, err := h.stories.Get(ctx, rec.ResourceID); err == nil {
				c.Header(middleware.HeaderIdempotencyReplayed, "true")
				ok(c, http.StatusOK, toStory(*prev, uid))
				return
			}
		}
	}

	v, err := h.stories.Create(ctx, uid, storyInput(req))
	if err != nil {
		h.storyError(c, err, ErrCodeCreateFailed)
		return
	}

	// Idempotency (store path), best effort.
	if idemKey != "" && h.idem != nil {
		if err := h.idem.Save(ctx, uid, scope, idemKey, v.ID, http.StatusCreated); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record not saved")
		}
	}
	ok(c, http.StatusCreated, toStory(*v, uid))
}

// UpdateStory godoc
// @ID          updateStory
// @Summary     Edit a story
// @Tags        Stories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string            true  "Story ID"  format(uuid)
// @Param       body  body  api.StoryRequest  true  "Story"
// @Success     200  {object} api.Story
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse "Missing or not yours"
// @Failure     500  {object} api.ErrorResponse
// @Router      /stories/{id} [put]
func (h *Handlers) UpdateStory(c *gin.Context) {
	var req api.StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	uid := userID(c)
	v, err := h.stories.Update(c.Request.Context(), uid, c.Param("id"), storyInput(req))
	if err != nil {
		h.storyError(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, toStory(*v, uid))
}

// DeleteStory godoc
// @ID          deleteStory
// @Summary     Delete a story
// @Description Removes the story's reactions, then the story, in one transaction.
// @Tags        Stories
// @Security    BearerAuth
// @Param       id   path  string  true  "Story ID"  format(uuid)
// @Success     204  {string} string "No Content"
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse "Missing or not yours"
// @Failure     500  {object} api.ErrorResponse
// @Router      /stories/{id} [delete]
func (h *Handlers) DeleteStory(c *gin.Context) {
	if err := h.stories.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		h.storyError(c, err, ErrCodeInternal)
		return
	}
	noContent(c)
}

func storyInput(req api.StoryRequest) services.StoryInput {
	return services.StoryInput{
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
		MediaURLs: req.MediaURLs,
	}
}

// storyError maps story service errors to responses.
func (h *Handlers) storyError(c *gin.Context, err error, internalCode string) {
	switch {
	case errors.Is(err, services.ErrStoryNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "story not found")
	case errors.Is(err, services.ErrEmptyTitle):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title is required")
	case errors.Is(err, services.ErrEmptyContent):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content is required")
	case errors.Is(err, services.ErrTooLong):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title or content too long")
	default:
		failInternal(c, internalCode, err)
	}
}
