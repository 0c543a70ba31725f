package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// BusinessTracer wraps span creation for the query and forecast paths.
type BusinessTracer struct {
	tracer trace.Tracer
}

// NewBusinessTracer creates a BusinessTracer on the global provider.
func NewBusinessTracer() *BusinessTracer {
	return &BusinessTracer{tracer: Tracer()}
}

// TraceHistoryQuery starts a span for a history lookup.
func (bt *BusinessTracer) TraceHistoryQuery(ctx context.Context, indexName string) (context.Context, trace.Span) {
	return bt.tracer.Start(ctx, "history.query",
		trace.WithAttributes(attribute.String("index.name", indexName)))
}

// TraceForecastFit starts a span around a trend fit.
func (bt *BusinessTracer) TraceForecastFit(ctx context.Context, indexName string, observations, horizon int) (context.Context, trace.Span) {
	return bt.tracer.Start(ctx, "forecast.fit",
		trace.WithAttributes(
			attribute.String("index.name", indexName),
			attribute.Int("forecast.observations", observations),
			attribute.Int("forecast.horizon", horizon),
		))
}

// TraceIndicators starts a span for moving-average computation.
func (bt *BusinessTracer) TraceIndicators(ctx context.Context, indexName string, period int) (context.Context, trace.Span) {
	return bt.tracer.Start(ctx, "indicators.moving_averages",
		trace.WithAttributes(
			attribute.String("index.name", indexName),
			attribute.Int("indicator.period", period),
		))
}

// RecordTrend adds the fitted line to span.
func (bt *BusinessTracer) RecordTrend(span trace.Span, intercept, slope float64) {
	span.SetAttributes(
		attribute.Float64("forecast.intercept", intercept),
		attribute.Float64("forecast.slope", slope),
	)
}

// RecordResultSize adds the number of returned rows to span.
func (bt *BusinessTracer) RecordResultSize(span trace.Span, rows int) {
	span.SetAttributes(attribute.Int("result.rows", rows))
}

// RecordError marks span as failed.
func (bt *BusinessTracer) RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
