package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/irfndi/indexcast/internal/api/handlers"
	"github.com/irfndi/indexcast/internal/cache"
	"github.com/irfndi/indexcast/internal/config"
	"github.com/irfndi/indexcast/internal/dataset"
	"github.com/irfndi/indexcast/internal/logging"
	"github.com/irfndi/indexcast/internal/middleware"
	"github.com/irfndi/indexcast/internal/services"
	"github.com/irfndi/indexcast/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Dependencies are the long-lived components shared by every handler.
type Dependencies struct {
	Dataset *dataset.Dataset
	// Cache may be nil; responses are then computed on every request.
	Cache *cache.ResponseCache
	// Redis is reported by /ready when set.
	Redis  handlers.HealthChecker
	Logger logging.Logger
}

// NewRouter builds the gin engine with the middleware chain and all routes.
func NewRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	router := gin.New()

	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = telemetry.ServiceName
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.SpanRequestID())
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	SetupRoutes(router, cfg, deps)
	return router
}

// SetupRoutes wires services and handlers onto router.
func SetupRoutes(router *gin.Engine, cfg *config.Config, deps Dependencies) {
	historyService := services.NewHistoryService(deps.Dataset, deps.Logger)
	forecastService := services.NewForecastService(deps.Dataset, cfg.Forecast, deps.Logger)
	indicatorService := services.NewIndicatorService(deps.Dataset, cfg.Indicators, deps.Logger)

	healthHandler := handlers.NewHealthHandler(deps.Dataset, deps.Redis, telemetry.ServiceVersion)
	indexHandler := handlers.NewIndexHandler(deps.Dataset, historyService, deps.Cache, deps.Logger)
	forecastHandler := handlers.NewForecastHandler(forecastService, deps.Cache, deps.Logger)
	indicatorHandler := handlers.NewIndicatorHandler(indicatorService, deps.Cache, deps.Logger)
	cacheHandler := handlers.NewCacheHandler(deps.Cache)

	// Health check endpoints
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.Ready)

	router.GET("/indices", indexHandler.GetIndices)
	router.GET("/history", indexHandler.GetHistory)
	router.GET("/predict", forecastHandler.GetPrediction)
	router.GET("/indicators", indicatorHandler.GetMovingAverages)

	router.GET("/cache/stats", cacheHandler.GetCacheStats)
	router.POST("/cache/clear", cacheHandler.ClearCache)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}
