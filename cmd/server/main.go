package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/irfndi/indexcast/internal/api"
	"github.com/irfndi/indexcast/internal/cache"
	"github.com/irfndi/indexcast/internal/config"
	"github.com/irfndi/indexcast/internal/database"
	"github.com/irfndi/indexcast/internal/dataset"
	"github.com/irfndi/indexcast/internal/logging"
	"github.com/irfndi/indexcast/internal/telemetry"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := newLogger(cfg)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = logger.Shutdown(ctx)
	}()

	// Storage connectors log through logrus
	logrus.SetLevel(logging.ParseLogrusLevel(cfg.LogLevel))
	logrus.SetFormatter(&logrus.JSONFormatter{})

	ctx := context.Background()

	// Initialize telemetry first
	provider, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Exporter:    cfg.Telemetry.Exporter,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		ServiceName: cfg.Telemetry.ServiceName,
		Environment: cfg.Environment,
		Release:     telemetry.ServiceVersion,
		SampleRate:  cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("Failed to shutdown telemetry")
		}
	}()

	// Load the dataset once; it is read-only for the life of the process
	ds, closeSource, err := loadDataset(ctx, cfg)
	closeSource()
	if err != nil {
		var loadErr *dataset.LoadError
		if errors.As(err, &loadErr) {
			logger.WithComponent("dataset").Error("Dataset load failed",
				"source", loadErr.Source, "error", loadErr.Err.Error())
		}
		return err
	}

	stats := ds.Stats()
	logger.LogDatasetLoad(stats.Source, stats.Observations, stats.Indices,
		stats.DroppedDates+stats.DroppedCloses, stats.Duration)

	deps := api.Dependencies{
		Dataset: ds,
		Logger:  logger,
	}

	// Response cache is optional; the service runs without Redis
	if cfg.Redis.Enabled {
		redisClient, err := database.NewRedisConnection(ctx, cfg.Redis)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, response cache disabled")
		} else {
			defer redisClient.Close()
			deps.Redis = redisClient
			deps.Cache = newResponseCache(redisClient, cfg, stats, logger)
		}
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(cfg, deps)
	srv := newHTTPServer(cfg, router)

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.LogStartup(cfg.Telemetry.ServiceName, telemetry.ServiceVersion, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.LogShutdown(cfg.Telemetry.ServiceName, "signal received: "+sig.String())
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	}

	// Give outstanding requests a deadline for completion
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.WithComponent("server").Info("Server exited gracefully")
	return nil
}

func newLogger(cfg *config.Config) *logging.StandardLogger {
	if cfg.Telemetry.LogsEnabled {
		return logging.NewStandardOTLPLogger(logging.OTLPConfig{
			Enabled:        true,
			Endpoint:       cfg.Telemetry.Endpoint,
			Insecure:       cfg.Telemetry.Insecure,
			ServiceName:    cfg.Telemetry.ServiceName,
			ServiceVersion: telemetry.ServiceVersion,
			Environment:    cfg.Environment,
			LogLevel:       cfg.LogLevel,
		})
	}
	return logging.NewStandardLogger(cfg.LogLevel, cfg.Environment)
}

// loadDataset reads the configured source. The returned func releases any
// connection opened for the load.
func loadDataset(ctx context.Context, cfg *config.Config) (*dataset.Dataset, func(), error) {
	switch cfg.Dataset.Source {
	case config.SourcePostgres:
		db, err := database.NewPostgresConnection(ctx, cfg.Database)
		if err != nil {
			return nil, func() {}, &dataset.LoadError{Source: "postgres:" + cfg.Dataset.Table, Err: err}
		}
		src := database.NewPostgresSource(database.NewTracedPool(db.Pool, nil), cfg.Dataset.Table)
		ds, err := dataset.Load(ctx, src)
		return ds, db.Close, err
	default:
		ds, err := dataset.Load(ctx, dataset.NewCSVSource(cfg.Dataset.Path))
		return ds, func() {}, err
	}
}

// newResponseCache scopes cache keys to the loaded snapshot.
func newResponseCache(client *database.RedisClient, cfg *config.Config, stats dataset.LoadStats, logger logging.Logger) *cache.ResponseCache {
	namespace := stats.Source + "@" + strconv.FormatInt(stats.LoadedAt.Unix(), 10)
	return cache.NewResponseCache(client.Client, cfg.Redis.CacheTTL, namespace, logger)
}

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
