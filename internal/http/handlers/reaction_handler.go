// Reaction and report HTTP handlers.
//
//   - POST /stories/{id}/reactions  (heart or support, once per type)
//   - POST /stories/{id}/report     (anonymous report counter)
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/safevoice/safevoice-api/internal/api"
	"github.com/safevoice/safevoice-api/internal/services"
)

// React godoc
// @ID          reactToStory
// @Summary     React to a story
// @Description Records a heart or support reaction. Each user may leave each type once per story.
// @Tags        Reactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string               true  "Story ID"  format(uuid)
// @Param       body  body  api.ReactionRequest  true  "Reaction"
// @Success     201  {object} api.Reaction
// @Failure     400  {object} api.ErrorResponse "Unknown reaction type"
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse "Story not found"
// @Failure     409  {object} api.ErrorResponse "Already reacted"
// @Failure     500  {object} api.ErrorResponse
// @Router      /stories/{id}/reactions [post]
func (h *Handlers) React(c *gin.Context) {
	var req api.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "reaction type must be heart or support")
		return
	}
	typ := strings.ToLower(strings.TrimSpace(req.Type))

	r, err := h.reactions.React(c.Request.Context(), userID(c), c.Param("id"), typ)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidReaction):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "reaction type must be heart or support")
		case errors.Is(err, services.ErrStoryNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "story not found")
		case errors.Is(err, services.ErrAlreadyReacted):
			fail(c, http.StatusConflict, ErrCodeAlreadyReacted, "you already reacted to this story")
		default:
			failInternal(c, ErrCodeCreateFailed, err)
		}
		return
	}
	ok(c, http.StatusCreated, api.Reaction{ID: r.ID, StoryID: r.StoryID, Type: r.Type})
}

// Report godoc
// @ID          reportStory
// @Summary     Report a story as inappropriate
// @Description Increments the story's report counter. The count is never returned.
// @Tags        Reactions
// @Security    BearerAuth
// @Param       id   path  string  true  "Story ID"  format(uuid)
// @Success     204  {string} string "No Content"
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /stories/{id}/report [post]
func (h *Handlers) Report(c *gin.Context) {
	if err := h.reactions.Report(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		if errors.Is(err, services.ErrStoryNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "story not found")
			return
		}
		failInternal(c, ErrCodeInternal, err)
		return
	}
	noContent(c)
}
