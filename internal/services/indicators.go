package services

import (
	"context"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/irfndi/indexcast/internal/config"
	"github.com/irfndi/indexcast/internal/logging"
	"github.com/irfndi/indexcast/internal/models"
	"github.com/irfndi/indexcast/internal/telemetry"
	"github.com/irfndi/indexcast/internal/utils"
	"github.com/shopspring/decimal"
)

// IndicatorService computes moving-average overlays for one index.
type IndicatorService struct {
	store  SeriesStore
	config config.IndicatorsConfig
	tracer *telemetry.BusinessTracer
	logger logging.Logger
}

func NewIndicatorService(store SeriesStore, cfg config.IndicatorsConfig, logger logging.Logger) *IndicatorService {
	return &IndicatorService{
		store:  store,
		config: cfg,
		tracer: telemetry.NewBusinessTracer(),
		logger: logger,
	}
}

// DefaultPeriod is the window used when a request does not name one.
func (s *IndicatorService) DefaultPeriod() int {
	return s.config.DefaultPeriod
}

// MovingAverages returns SMA and EMA series of the closing values. Each
// value is dated with the last observation in its window. A series shorter
// than period yields empty overlays.
func (s *IndicatorService) MovingAverages(ctx context.Context, indexName string, period int) (*models.IndicatorResult, error) {
	if err := requireIndexName(indexName); err != nil {
		return nil, err
	}
	if period < 1 {
		return nil, utils.NewValidationErrorf("period", "must be positive, got %d", period)
	}
	if s.config.MaxPeriod > 0 && period > s.config.MaxPeriod {
		return nil, utils.NewValidationErrorf("period", "must be at most %d, got %d", s.config.MaxPeriod, period)
	}

	series := s.store.Series(indexName)
	if len(series) == 0 {
		return nil, ErrIndexNotFound
	}

	_, span := s.tracer.TraceIndicators(ctx, indexName, period)
	defer span.End()

	result := &models.IndicatorResult{
		IndexName: series[0].IndexName,
		Period:    period,
		SMA:       []models.IndicatorPoint{},
		EMA:       []models.IndicatorPoint{},
	}
	if len(series) < period {
		return result, nil
	}

	prices := closes(series)

	smaIndicator := trend.NewSmaWithPeriod[float64](period)
	result.SMA = alignToDates(series, helper.ChanToSlice(smaIndicator.Compute(helper.SliceToChan(prices))))

	emaIndicator := trend.NewEmaWithPeriod[float64](period)
	result.EMA = alignToDates(series, helper.ChanToSlice(emaIndicator.Compute(helper.SliceToChan(prices))))

	s.tracer.RecordResultSize(span, len(result.SMA))
	if s.logger != nil {
		s.logger.WithIndex(indexName).Debug("Moving averages computed",
			"period", period, "sma_points", len(result.SMA), "ema_points", len(result.EMA))
	}
	return result, nil
}

// alignToDates pairs indicator output with the trailing observations; the
// indicator drops its warm-up values from the front.
func alignToDates(series []models.Observation, values []float64) []models.IndicatorPoint {
	offset := len(series) - len(values)
	if offset < 0 {
		offset = 0
		values = values[len(values)-len(series):]
	}
	points := make([]models.IndicatorPoint, len(values))
	for i, v := range values {
		points[i] = models.IndicatorPoint{
			Date:  models.Day(series[offset+i].Date),
			Value: decimal.NewFromFloat(v).Round(predictionPlaces),
		}
	}
	return points
}
