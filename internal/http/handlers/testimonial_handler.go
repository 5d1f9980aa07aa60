// Testimonial and home page HTTP handlers.
//
//   - GET  /testimonials
//   - POST /testimonials
//   - GET  /home           (slogan, all slogans, top stories)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safevoice/safevoice-api/internal/api"
	"github.com/safevoice/safevoice-api/internal/domain"
	"github.com/safevoice/safevoice-api/internal/services"
	"github.com/safevoice/safevoice-api/internal/utils"
)

// ListTestimonials godoc
// @ID          listTestimonials
// @Summary     Newest testimonials
// @Tags        Testimonials
// @Produce     json
// @Param       limit  query  int  false "How many"  minimum(1) maximum(100) default(20)
// @Success     200  {array}  api.Testimonial
// @Failure     500  {object} api.ErrorResponse
// @Router      /testimonials [get]
func (h *Handlers) ListTestimonials(c *gin.Context) {
	items, err := h.testimonials.List(c.Request.Context(), utils.AtoiDefault(c.Query("limit"), 20))
	if err != nil {
		failInternal(c, ErrCodeListFailed, err)
		return
	}
	out := make([]api.Testimonial, len(items))
	for i, t := range items {
		out[i] = toTestimonial(t)
	}
	ok(c, http.StatusOK, out)
}

// CreateTestimonial godoc
// @ID          createTestimonial
// @Summary     Leave a testimonial
// @Tags        Testimonials
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body  api.TestimonialRequest  true  "Testimonial"
// @Success     201  {object} api.Testimonial
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /testimonials [post]
func (h *Handlers) CreateTestimonial(c *gin.Context) {
	var req api.TestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	t, err := h.testimonials.Create(c.Request.Context(), userID(c), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyContent):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content is required")
		case errors.Is(err, services.ErrTooLong):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content too long")
		default:
			failInternal(c, ErrCodeCreateFailed, err)
		}
		return
	}
	ok(c, http.StatusCreated, toTestimonial(*t))
}

// Home godoc
// @ID          home
// @Summary     Landing page data
// @Description A slogan picked at random, the full slogan list for rotation, and the top three stories.
// @Tags        Home
// @Produce     json
// @Success     200  {object} api.Home
// @Failure     500  {object} api.ErrorResponse
// @Router      /home [get]
func (h *Handlers) Home(c *gin.Context) {
	top, err := h.stories.Top(c.Request.Context(), 3)
	if err != nil {
		failInternal(c, ErrCodeListFailed, err)
		return
	}
	slogans := append([]string(nil), domain.Slogans...)
	ok(c, http.StatusOK, api.Home{
		Slogan:     slogans[h.pick(len(slogans))],
		Slogans:    slogans,
		TopStories: toStories(top, userID(c)),
	})
}

func toTestimonial(t domain.Testimonial) api.Testimonial {
	return api.Testimonial{ID: t.ID, Content: t.Content, CreatedAt: t.CreatedAt}
}
