package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const corsMaxAge = 10 * time.Minute

// CORS allows credentialed GET requests from the configured origins and
// rejects other cross-origin requests with 403. A "*" entry allows any
// origin; the request origin is echoed since credentials rule out a
// literal wildcard.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}

	switch {
	case slices.Contains(allowedOrigins, "*"):
		cfg.AllowOriginFunc = func(string) bool { return true }
	case len(allowedOrigins) == 0:
		cfg.AllowOriginFunc = func(string) bool { return false }
	default:
		cfg.AllowOrigins = allowedOrigins
	}

	return cors.New(cfg)
}
