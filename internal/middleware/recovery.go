package middleware

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/irfndi/indexcast/internal/logging"
)

// Recovery turns a handler panic into a 500 JSON error and keeps serving.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.WithRequestID(GetRequestID(c)).Error("Panic recovered",
			"panic", fmt.Sprint(recovered),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		RecordError(c, fmt.Errorf("panic: %v", recovered), "panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}
