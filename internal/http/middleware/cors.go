package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSOptions configures the path-dependent CORS posture.
//
// Requests under PermissivePrefixes (the public AI functions) accept any
// origin. Everything else is gated by AllowedOrigins; an empty list allows
// all origins without credentials.
type CORSOptions struct {
	AllowedOrigins     []string
	PermissivePrefixes []string
}

var (
	corsMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Client-Info", "Apikey", HeaderIdempotencyKey}
	corsExpose  = []string{requestIDHeader, "Content-Length", "ETag", HeaderIdempotencyReplayed}
)

// CORS returns a middleware that answers preflights with 204 and selects the
// allow-list or permissive posture by request path.
func CORS(opts CORSOptions) gin.HandlerFunc {
	permissive := cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"POST", "OPTIONS"},
		AllowHeaders:    corsHeaders,
		ExposeHeaders:   corsExpose,
		MaxAge:          12 * time.Hour,
	})

	var gated gin.HandlerFunc
	if len(opts.AllowedOrigins) == 0 {
		gated = cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    corsMethods,
			AllowHeaders:    corsHeaders,
			ExposeHeaders:   corsExpose,
			MaxAge:          12 * time.Hour,
		})
	} else {
		allowed := make(map[string]struct{}, len(opts.AllowedOrigins))
		for _, o := range opts.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		inner := cors.New(cors.Config{
			AllowOrigins:  opts.AllowedOrigins,
			AllowMethods:  corsMethods,
			AllowHeaders:  corsHeaders,
			ExposeHeaders: corsExpose,
			MaxAge:        12 * time.Hour,
		})
		// Echo allowed origins even on requests gin-contrib/cors skips
		// (same-host requests), then defer to it.
		gated = func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			inner(c)
		}
	}

	return func(c *gin.Context) {
		for _, p := range opts.PermissivePrefixes {
			if p != "" && strings.HasPrefix(c.Request.URL.Path, p) {
				permissive(c)
				return
			}
		}
		gated(c)
	}
}
