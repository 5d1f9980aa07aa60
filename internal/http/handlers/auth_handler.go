// Identity HTTP handlers.
//
//   - POST /auth/signup   (email + password)
//   - POST /auth/signin
//   - POST /auth/social   (Google or phone ID token)
//   - POST /auth/signout  (stateless)
//   - GET  /auth/me
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safevoice/safevoice-api/internal/api"
	"github.com/safevoice/safevoice-api/internal/auth"
	"github.com/safevoice/safevoice-api/internal/services"
)

// SignUp godoc
// @ID          signUp
// @Summary     Register with email and password
// @Description Password: at least 8 characters, letters and digits only, at least one of each.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  api.Credentials  true  "Credentials"
// @Success     201  {object} api.SessionResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse "User already registered"
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/signup [post]
func (h *Handlers) SignUp(c *gin.Context) {
	var req api.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	s, err := h.auth.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.authError(c, err)
		return
	}
	ok(c, http.StatusCreated, toSession(s))
}

// SignIn godoc
// @ID          signIn
// @Summary     Sign in with email and password
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  api.Credentials  true  "Credentials"
// @Success     200  {object} api.SessionResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/signin [post]
func (h *Handlers) SignIn(c *gin.Context) {
	var req api.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	s, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.authError(c, err)
		return
	}
	ok(c, http.StatusOK, toSession(s))
}

// SignInSocial godoc
// @ID          signInSocial
// @Summary     Sign in with a Google or phone ID token
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  api.SocialSignIn  true  "ID token"
// @Success     200  {object} api.SessionResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     503  {object} api.ErrorResponse "Social sign-in not configured"
// @Router      /auth/social [post]
func (h *Handlers) SignInSocial(c *gin.Context) {
	var req api.SocialSignIn
	if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id_token is required")
		return
	}
	s, err := h.auth.SignInSocial(c.Request.Context(), req.IDToken)
	if err != nil {
		h.authError(c, err)
		return
	}
	ok(c, http.StatusOK, toSession(s))
}

// SignOut godoc
// @ID          signOut
// @Summary     Sign out
// @Description Sessions are stateless; the client discards its token.
// @Tags        Auth
// @Success     204  {string} string "No Content"
// @Router      /auth/signout [post]
func (h *Handlers) SignOut(c *gin.Context) {
	noContent(c)
}

// Me godoc
// @ID          me
// @Summary     Current profile
// @Tags        Auth
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object} api.Profile
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Router      /auth/me [get]
func (h *Handlers) Me(c *gin.Context) {
	p, err := h.auth.Me(c.Request.Context(), userID(c))
	if err != nil {
		h.authError(c, err)
		return
	}
	ok(c, http.StatusOK, toProfile(p))
}

func (h *Handlers) authError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidEmail):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "a valid email is required")
	case errors.Is(err, auth.ErrWeakPassword):
		fail(c, http.StatusBadRequest, ErrCodeWeakPassword, "password must be at least 8 letters and digits, with at least one of each")
	case errors.Is(err, services.ErrEmailTaken):
		fail(c, http.StatusConflict, ErrCodeConflict, "User already registered")
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeInvalidCredential, "Invalid login credentials")
	case errors.Is(err, services.ErrSocialUnavailable):
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "social sign-in is not configured")
	case errors.Is(err, services.ErrProfileNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "profile not found")
	default:
		failInternal(c, ErrCodeInternal, err)
	}
}

func toSession(s *services.Session) api.SessionResponse {
	return api.SessionResponse{Token: s.Token, ExpiresAt: s.ExpiresAt, User: toProfile(s.Profile)}
}
