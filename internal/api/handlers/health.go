package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/irfndi/indexcast/internal/dataset"
	"github.com/shirou/gopsutil/v3/mem"
)

// HealthChecker is implemented by optional backing services such as Redis.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// DatasetStats exposes the load summary of the served snapshot.
type DatasetStats interface {
	Stats() dataset.LoadStats
}

type HealthHandler struct {
	dataset   DatasetStats
	redis     HealthChecker
	version   string
	startTime time.Time
}

// NewHealthHandler creates a health handler. redis may be nil when the
// response cache is disabled.
func NewHealthHandler(ds DatasetStats, redis HealthChecker, version string) *HealthHandler {
	return &HealthHandler{
		dataset:   ds,
		redis:     redis,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthCheck reports liveness
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports the loaded dataset, backing services and host memory. The
// service is ready whenever a dataset is loaded; an unreachable cache only
// degrades it.
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	services := gin.H{"dataset": "healthy"}
	if h.redis != nil {
		if err := h.redis.HealthCheck(ctx); err != nil {
			services["redis"] = "unhealthy: " + err.Error()
			status = "degraded"
		} else {
			services["redis"] = "healthy"
		}
	} else {
		services["redis"] = "disabled"
	}

	system := gin.H{"goroutines": runtime.NumGoroutine()}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		system["memory_total"] = vm.Total
		system["memory_available"] = vm.Available
		system["memory_used_percent"] = vm.UsedPercent
	}

	c.JSON(http.StatusOK, gin.H{
		"ready":    true,
		"status":   status,
		"version":  h.version,
		"uptime":   time.Since(h.startTime).String(),
		"dataset":  h.dataset.Stats(),
		"services": services,
		"system":   system,
	})
}
