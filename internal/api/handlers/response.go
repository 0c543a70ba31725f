package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/irfndi/indexcast/internal/cache"
	"github.com/irfndi/indexcast/internal/logging"
	"github.com/irfndi/indexcast/internal/middleware"
)

const (
	jsonContentType = "application/json; charset=utf-8"
	cacheHeader     = "X-Cache"

	// NoHistoryMessage accompanies an empty history result.
	NoHistoryMessage = "No data found for this index and date range"
	// NoIndexMessage accompanies a forecast or indicator request for an unknown index.
	NoIndexMessage = "No data found for this index"
)

// buildFunc produces a JSON-serializable payload for a request.
type buildFunc func() (interface{}, error)

// responder renders payloads, consulting the response cache when one is configured.
type responder struct {
	cache  *cache.ResponseCache
	logger logging.Logger
}

// serve writes the cached payload for key, or builds, caches and writes it.
// Build errors become an error payload and are never cached.
func (r responder) serve(c *gin.Context, key string, build buildFunc) {
	ctx := c.Request.Context()

	if body, ok := r.cache.Get(ctx, key); ok {
		c.Header(cacheHeader, "HIT")
		middleware.AddSpanAttribute(c, "cache.hit", true)
		c.Data(http.StatusOK, jsonContentType, body)
		return
	}

	payload, err := build()
	if err != nil {
		r.fault(c, err)
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		r.fault(c, err)
		return
	}

	if r.cache != nil {
		r.cache.Set(ctx, key, body)
		c.Header(cacheHeader, "MISS")
		middleware.AddSpanAttribute(c, "cache.hit", false)
	}
	c.Data(http.StatusOK, jsonContentType, body)
}

// fault renders a request-scoped failure as {"error": msg}. The status stays
// 200 so clients branch on the payload shape.
func (r responder) fault(c *gin.Context, err error) {
	middleware.RecordError(c, err, "request fault")
	if r.logger != nil {
		r.logger.WithRequestID(middleware.GetRequestID(c)).Warn("Request fault",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err.Error(),
		)
	}
	c.JSON(http.StatusOK, gin.H{"error": err.Error()})
}
