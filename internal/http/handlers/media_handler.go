// Media HTTP handlers.
//
//   - POST   /media          (multipart upload, field "file")
//   - DELETE /media?key=...  (own objects only)
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/safevoice/safevoice-api/internal/services"
)

// UploadMedia godoc
// @ID          uploadMedia
// @Summary     Upload a story attachment
// @Description Images, video and audio up to 50 MiB. The type is sniffed from content, not trusted from the client.
// @Tags        Media
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file  formData  file  true  "Attachment"
// @Success     201  {object} api.Media
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     413  {object} api.ErrorResponse "File too large"
// @Failure     415  {object} api.ErrorResponse "Unsupported media type"
// @Failure     500  {object} api.ErrorResponse
// @Router      /media [post]
func (h *Handlers) UploadMedia(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, "file too large")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `multipart field "file" is required`)
		return
	}
	f, err := fh.Open()
	if err != nil {
		failInternal(c, ErrCodeInternal, err)
		return
	}
	defer f.Close()

	m, err := h.media.Upload(c.Request.Context(), userID(c), fh.Filename, f, fh.Size)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFileTooLarge):
			fail(c, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, "file too large")
		case errors.Is(err, services.ErrUnsupportedMedia):
			fail(c, http.StatusUnsupportedMediaType, ErrCodeUnsupportedMedia, "only image, video and audio files are allowed")
		default:
			failInternal(c, ErrCodeCreateFailed, err)
		}
		return
	}
	ok(c, http.StatusCreated, m)
}

// DeleteMedia godoc
// @ID          deleteMedia
// @Summary     Delete an uploaded attachment
// @Tags        Media
// @Security    BearerAuth
// @Param       key  query  string  true  "Object key"
// @Success     204  {string} string "No Content"
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse "Not your object"
// @Failure     500  {object} api.ErrorResponse
// @Router      /media [delete]
func (h *Handlers) DeleteMedia(c *gin.Context) {
	key := strings.TrimSpace(c.Query("key"))
	if key == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "key is required")
		return
	}
	if err := h.media.Delete(c.Request.Context(), userID(c), key); err != nil {
		if errors.Is(err, services.ErrForbiddenMediaKey) {
			fail(c, http.StatusForbidden, ErrCodeForbidden, "media object belongs to another user")
			return
		}
		failInternal(c, ErrCodeInternal, err)
		return
	}
	noContent(c)
}
