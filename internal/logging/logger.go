package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger interface defines the common logging methods.
// It is implemented by the plain JSON logger and the OTLP-backed logger.
type Logger interface {
	WithComponent(componentName string) *slog.Logger
	WithOperation(operationName string) *slog.Logger
	WithRequestID(requestID string) *slog.Logger
	WithIndex(indexName string) *slog.Logger
	WithError(err error) *slog.Logger
	LogStartup(serviceName string, version string, port int)
	LogShutdown(serviceName string, reason string)
	LogDatasetLoad(source string, observations int, indices int, dropped int, duration time.Duration)
	LogCacheOperation(operation string, key string, hit bool, duration int64)
	LogAPIRequest(method string, path string, statusCode int, duration int64, requestID string)
	Logger() *slog.Logger
}

// StandardLogger provides a standardized logging interface
type StandardLogger struct {
	logger   Logger
	shutdown func(context.Context) error
}

// NewStandardLogger creates a JSON logger on stdout.
func NewStandardLogger(logLevel string, environment string) *StandardLogger {
	return NewStandardLoggerWithWriter(os.Stdout, logLevel, environment)
}

// NewStandardLoggerWithWriter creates a JSON logger writing to w.
func NewStandardLoggerWithWriter(w io.Writer, logLevel string, environment string) *StandardLogger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: getSlogLevel(logLevel),
	}))
	if environment != "" {
		logger = logger.With("environment", environment)
	}

	return &StandardLogger{
		logger: &fallbackLogger{logger: logger},
	}
}

// NewStandardOTLPLogger creates a logger exporting through OTLP. When the
// exporter cannot be built it falls back to the stdout JSON logger.
func NewStandardOTLPLogger(config OTLPConfig) *StandardLogger {
	otlpLogger, err := NewOTLPLogger(config)
	if err != nil {
		fallback := NewStandardLogger(config.LogLevel, config.Environment)
		fallback.WithError(err).Warn("OTLP log export unavailable, using stdout")
		return fallback
	}
	return &StandardLogger{
		logger:   &fallbackLogger{logger: otlpLogger.Logger()},
		shutdown: otlpLogger.Shutdown,
	}
}

// WithComponent creates a logger with component context
func (l *StandardLogger) WithComponent(componentName string) *slog.Logger {
	return l.logger.WithComponent(componentName)
}

// WithOperation creates a logger with operation context
func (l *StandardLogger) WithOperation(operationName string) *slog.Logger {
	return l.logger.WithOperation(operationName)
}

// WithRequestID creates a logger with request ID context
func (l *StandardLogger) WithRequestID(requestID string) *slog.Logger {
	return l.logger.WithRequestID(requestID)
}

// WithIndex creates a logger with index name context
func (l *StandardLogger) WithIndex(indexName string) *slog.Logger {
	return l.logger.WithIndex(indexName)
}

// WithError creates a logger with error context
func (l *StandardLogger) WithError(err error) *slog.Logger {
	return l.logger.WithError(err)
}

// LogStartup logs application startup information
func (l *StandardLogger) LogStartup(serviceName string, version string, port int) {
	l.logger.LogStartup(serviceName, version, port)
}

// LogShutdown logs application shutdown information
func (l *StandardLogger) LogShutdown(serviceName string, reason string) {
	l.logger.LogShutdown(serviceName, reason)
}

// LogDatasetLoad logs the outcome of the startup dataset load
func (l *StandardLogger) LogDatasetLoad(source string, observations int, indices int, dropped int, duration time.Duration) {
	l.logger.LogDatasetLoad(source, observations, indices, dropped, duration)
}

// LogCacheOperation logs cache operations in a standardized format
func (l *StandardLogger) LogCacheOperation(operation string, key string, hit bool, duration int64) {
	l.logger.LogCacheOperation(operation, key, hit, duration)
}

// LogAPIRequest logs API requests in a standardized format
func (l *StandardLogger) LogAPIRequest(method string, path string, statusCode int, duration int64, requestID string) {
	l.logger.LogAPIRequest(method, path, statusCode, duration, requestID)
}

// Logger returns the underlying *slog.Logger
func (l *StandardLogger) Logger() *slog.Logger {
	return l.logger.Logger()
}

// Shutdown flushes the OTLP exporter, if any.
func (l *StandardLogger) Shutdown(ctx context.Context) error {
	if l.shutdown == nil {
		return nil
	}
	return l.shutdown(ctx)
}

// getSlogLevel converts string level to slog.Level
func getSlogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLogrusLevel converts string level to logrus.Level
func ParseLogrusLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// fallbackLogger is the slog implementation of Logger
type fallbackLogger struct {
	logger *slog.Logger
}

func (f *fallbackLogger) WithComponent(componentName string) *slog.Logger {
	return f.logger.With("component", componentName)
}

func (f *fallbackLogger) WithOperation(operationName string) *slog.Logger {
	return f.logger.With("operation", operationName)
}

func (f *fallbackLogger) WithRequestID(requestID string) *slog.Logger {
	return f.logger.With("request_id", requestID)
}

func (f *fallbackLogger) WithIndex(indexName string) *slog.Logger {
	return f.logger.With("index_name", indexName)
}

func (f *fallbackLogger) WithError(err error) *slog.Logger {
	if err == nil {
		return f.logger
	}
	return f.logger.With("error", err.Error())
}

func (f *fallbackLogger) LogStartup(serviceName string, version string, port int) {
	f.logger.Info("Application startup",
		"service", serviceName,
		"version", version,
		"port", port,
		"event", "startup",
	)
}

func (f *fallbackLogger) LogShutdown(serviceName string, reason string) {
	f.logger.Info("Application shutdown",
		"service", serviceName,
		"reason", reason,
		"event", "shutdown",
	)
}

func (f *fallbackLogger) LogDatasetLoad(source string, observations int, indices int, dropped int, duration time.Duration) {
	f.logger.Info("Dataset loaded",
		"source", source,
		"observations", observations,
		"indices", indices,
		"dropped_rows", dropped,
		"duration_ms", duration.Milliseconds(),
		"event", "dataset_load",
	)
}

func (f *fallbackLogger) LogCacheOperation(operation string, key string, hit bool, duration int64) {
	f.logger.Debug("Cache operation",
		"operation", operation,
		"key", key,
		"hit", hit,
		"duration_ms", duration,
		"event", "cache",
	)
}

func (f *fallbackLogger) LogAPIRequest(method string, path string, statusCode int, duration int64, requestID string) {
	f.logger.Info("API request",
		"method", method,
		"path", path,
		"status", statusCode,
		"duration_ms", duration,
		"request_id", requestID,
		"event", "api",
	)
}

func (f *fallbackLogger) Logger() *slog.Logger {
	return f.logger
}
