// AI text function endpoints.
//
//   - POST /functions/v1/correct-grammar  {content} → {correctedContent}
//   - POST /functions/v1/translate        {title?, content, targetLang}
//     → {translatedTitle?, translatedContent}
//
// Like the NGO endpoints these answer errors with a flat {"error": ...}.
// The configuration check runs first so a server without an API key says so
// regardless of input.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safevoice/safevoice-api/internal/ai"
	"github.com/safevoice/safevoice-api/internal/api"
	"github.com/safevoice/safevoice-api/internal/services"
)

// Fixed response texts of the text functions.
const (
	msgAINotConfigured  = "API key not configured on server"
	msgInvalidJSON      = "Invalid JSON body"
	msgMissingContent   = "Missing or invalid content"
	msgMissingTranslate = "Missing or invalid content or targetLang"
	msgGrammarFailed    = "Failed to correct grammar"
	msgTranslateFailed  = "Failed to translate content"
	msgBlockedBySafety  = "Content blocked due to safety settings."
)

// CorrectGrammar godoc
// @ID          correctGrammar
// @Summary     Correct grammar and spelling
// @Description Preserves meaning and tone. Blank content is rejected without calling the model.
// @Tags        Functions
// @Accept      json
// @Produce     json
// @Param       body  body  api.GrammarRequest  true  "Text"
// @Success     200  {object} api.GrammarResponse
// @Failure     400  {object} api.FunctionError
// @Failure     500  {object} api.FunctionError
// @Router      /functions/v1/correct-grammar [post]
func (h *Handlers) CorrectGrammar(c *gin.Context) {
	if h.text == nil || !h.text.Configured() {
		funcError(c, http.StatusInternalServerError, msgAINotConfigured)
		return
	}
	var req api.GrammarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		funcError(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	out, err := h.text.CorrectGrammar(c.Request.Context(), req.Content)
	if err != nil {
		h.textError(c, err, msgMissingContent, msgGrammarFailed)
		return
	}
	ok(c, http.StatusOK, api.GrammarResponse{CorrectedContent: out})
}

// Translate godoc
// @ID          translate
// @Summary     Translate a story
// @Description Title and content are translated concurrently; translatedTitle is omitted when no title is sent.
// @Tags        Functions
// @Accept      json
// @Produce     json
// @Param       body  body  api.TranslateRequest  true  "Text and target language"
// @Success     200  {object} api.TranslateResponse
// @Failure     400  {object} api.FunctionError
// @Failure     500  {object} api.FunctionError
// @Router      /functions/v1/translate [post]
func (h *Handlers) Translate(c *gin.Context) {
	if h.text == nil || !h.text.Configured() {
		funcError(c, http.StatusInternalServerError, msgAINotConfigured)
		return
	}
	var req api.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		funcError(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	res, err := h.text.Translate(c.Request.Context(), req.Title, req.Content, req.TargetLang)
	if err != nil {
		h.textError(c, err, msgMissingTranslate, msgTranslateFailed)
		return
	}
	ok(c, http.StatusOK, api.TranslateResponse{TranslatedTitle: res.Title, TranslatedContent: res.Content})
}

func (h *Handlers) textError(c *gin.Context, err error, missing, generic string) {
	switch {
	case errors.Is(err, services.ErrMissingText), errors.Is(err, services.ErrMissingTranslateInput):
		funcError(c, http.StatusBadRequest, missing)
	case errors.Is(err, services.ErrAINotConfigured):
		funcError(c, http.StatusInternalServerError, msgAINotConfigured)
	case errors.Is(err, ai.ErrBlocked):
		funcError(c, http.StatusInternalServerError, msgBlockedBySafety)
	default:
		logError(c, err)
		funcError(c, http.StatusInternalServerError, generic)
	}
}
