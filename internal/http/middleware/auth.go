package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/safevoice/safevoice-api/internal/auth"
)

const (
	userIDKey   = "userID"
	providerKey = "auth.provider"
)

// TokenParser validates a bearer token and returns its claims.
type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

// Authenticate reads "Authorization: Bearer <token>" and, when the token is
// valid, stores the caller's id under "userID". Anonymous and invalid
// requests pass through untouched; RequireAuth decides per route.
func Authenticate(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" || tokens == nil {
			c.Next()
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			LoggerFrom(c).Debug().Err(err).Msg("ignoring invalid session token")
			c.Next()
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Set(providerKey, claims.Provider)
		c.Next()
	}
}

// RequireAuth answers 401 unless Authenticate identified the caller.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": GetRequestID(c),
				"code":       "unauthorized",
				"message":    "sign in required",
			})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func bearerToken(h string) string {
	scheme, tok, found := strings.Cut(strings.TrimSpace(h), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(tok)
}
