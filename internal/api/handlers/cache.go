package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/irfndi/indexcast/internal/cache"
)

// CacheHandler handles cache monitoring endpoints
type CacheHandler struct {
	cache *cache.ResponseCache
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(responseCache *cache.ResponseCache) *CacheHandler {
	return &CacheHandler{
		cache: responseCache,
	}
}

// GetCacheStats returns response cache statistics
// @Summary Get cache statistics
// @Description Get hit/miss statistics of the response cache
// @Tags cache
// @Produce json
// @Router /cache/stats [get]
func (h *CacheHandler) GetCacheStats(c *gin.Context) {
	stats := h.cache.GetStats()
	c.JSON(http.StatusOK, gin.H{
		"enabled":  h.cache != nil,
		"hits":     stats.Hits,
		"misses":   stats.Misses,
		"sets":     stats.Sets,
		"errors":   stats.Errors,
		"hit_rate": stats.HitRate(),
	})
}

// ClearCache drops every cached response of the current snapshot and resets
// the statistics
// @Summary Clear response cache
// @Tags cache
// @Produce json
// @Router /cache/clear [post]
func (h *CacheHandler) ClearCache(c *gin.Context) {
	cleared, err := h.cache.Clear(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}
	h.cache.ResetStats()

	c.JSON(http.StatusOK, gin.H{
		"enabled": h.cache != nil,
		"cleared": cleared,
	})
}
