package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/irfndi/indexcast/internal/database"

// TracedPool wraps a DatabasePool and records a client span per query.
type TracedPool struct {
	pool   DatabasePool
	tracer trace.Tracer
}

// NewTracedPool wraps pool. A nil provider uses the global tracer provider.
func NewTracedPool(pool DatabasePool, provider trace.TracerProvider) *TracedPool {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &TracedPool{
		pool:   pool,
		tracer: provider.Tracer(tracerName),
	}
}

// Query executes sql inside a db.query span.
func (p *TracedPool) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	ctx, span := p.tracer.Start(ctx, "db.query",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.statement", sql),
		))
	defer span.End()

	start := time.Now()
	rows, err := p.pool.Query(ctx, sql, args...)
	duration := time.Since(start)

	entry := logrus.WithFields(logrus.Fields{
		"statement":   sql,
		"duration_ms": duration.Milliseconds(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		entry.WithError(err).Warn("Query failed")
		return nil, err
	}
	entry.Debug("Query executed")
	return rows, nil
}
