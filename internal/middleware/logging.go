package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/irfndi/indexcast/internal/logging"
)

// RequestLogger logs one line per request after the handler chain completes.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.LogAPIRequest(
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start).Milliseconds(),
			GetRequestID(c),
		)
	}
}
