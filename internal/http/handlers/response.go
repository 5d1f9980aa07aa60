// Package handlers provides the HTTP handlers of the SafeVoice API.
//
// This file defines the response helpers shared by all endpoints. The
// versioned API answers errors with api.ErrorResponse and a stable code (see
// errors.go); the stateless NGO and text endpoints keep their flat
// {"error": ...} and {"message": ...} bodies, which existing web clients
// parse.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "story not found"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safevoice/safevoice-api/internal/api"
	"github.com/safevoice/safevoice-api/internal/http/middleware"
)

// fail aborts the request with the standard error envelope. Server errors
// are logged once here with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, api.ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail is the exported variant of fail() for router-level fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failInternal logs err and answers with a generic message; internal error
// text is never sent to clients.
func failInternal(c *gin.Context, code string, err error) {
	middleware.LoggerFrom(c).Error().Err(err).Str("code", code).Msg("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   "internal server error",
	})
}

// funcError writes a flat {"error": msg} body.
func funcError(c *gin.Context, status int, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().Int("status", status).Str("error", msg).Msg("function error")
	}
	c.AbortWithStatusJSON(status, api.FunctionError{Error: msg})
}

// funcMessage writes a flat {"message": msg} body.
func funcMessage(c *gin.Context, status int, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().Int("status", status).Str("message", msg).Msg("function error")
	}
	if status >= http.StatusBadRequest {
		c.AbortWithStatusJSON(status, api.MessageResponse{Message: msg})
		return
	}
	c.JSON(status, api.MessageResponse{Message: msg})
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// logError records err on the request logger without answering.
func logError(c *gin.Context, err error) {
	middleware.LoggerFrom(c).Error().Err(err).Msg("request failed")
}
