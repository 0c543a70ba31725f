package telemetry

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, ExporterStdout, cfg.Exporter)
	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestInit_Disabled(t *testing.T) {
	p, err := Init(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestInit_UnknownExporter(t *testing.T) {
	_, err := Init(context.Background(), Config{Enabled: true, Exporter: "zipkin"})
	assert.Error(t, err)
}

func TestInit_StdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	p, err := Init(context.Background(), Config{
		Enabled:    true,
		Exporter:   ExporterStdout,
		SampleRate: 1.0,
		Writer:     &buf,
	})
	require.NoError(t, err)
	require.True(t, p.Enabled())

	bt := NewBusinessTracer()
	_, span := bt.TraceForecastFit(context.Background(), "NIFTY 50", 5, 2)
	bt.RecordTrend(span, 100, 2)
	bt.RecordError(span, errors.New("boom"))
	span.End()

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "forecast.fit")
	assert.Contains(t, buf.String(), "NIFTY 50")
}

func TestNilProvider(t *testing.T) {
	var p *Provider
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}
