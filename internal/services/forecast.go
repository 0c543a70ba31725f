package services

import (
	"context"
	"fmt"

	"github.com/irfndi/indexcast/internal/config"
	"github.com/irfndi/indexcast/internal/logging"
	"github.com/irfndi/indexcast/internal/models"
	"github.com/irfndi/indexcast/internal/telemetry"
	"github.com/irfndi/indexcast/internal/utils"
	"github.com/shopspring/decimal"
)

// predictionPlaces is the number of decimal places kept in projected closes.
const predictionPlaces = 4

// ForecastService extrapolates a linear trend of closing values.
type ForecastService struct {
	store  SeriesStore
	config config.ForecastConfig
	tracer *telemetry.BusinessTracer
	logger logging.Logger
}

func NewForecastService(store SeriesStore, cfg config.ForecastConfig, logger logging.Logger) *ForecastService {
	return &ForecastService{
		store:  store,
		config: cfg,
		tracer: telemetry.NewBusinessTracer(),
		logger: logger,
	}
}

// DefaultHorizon is the horizon used when a request does not name one.
func (s *ForecastService) DefaultHorizon() int {
	return s.config.DefaultHorizon
}

// Forecast fits close = a + b*position over the index's chronological
// series and projects horizon calendar days past the last observation.
// A horizon of zero or less yields no predictions.
func (s *ForecastService) Forecast(ctx context.Context, indexName string, horizon int) (*models.ForecastResult, error) {
	if err := requireIndexName(indexName); err != nil {
		return nil, err
	}
	if s.config.MaxHorizon > 0 && horizon > s.config.MaxHorizon {
		return nil, utils.NewValidationErrorf("days", "must be at most %d, got %d", s.config.MaxHorizon, horizon)
	}

	series := s.store.Series(indexName)
	if len(series) == 0 {
		return nil, ErrIndexNotFound
	}

	_, span := s.tracer.TraceForecastFit(ctx, indexName, len(series), horizon)
	defer span.End()

	intercept, slope, err := fitLinearTrend(closes(series))
	if err != nil {
		s.tracer.RecordError(span, err)
		return nil, fmt.Errorf("failed to fit trend for %s: %w", indexName, err)
	}
	s.tracer.RecordTrend(span, intercept, slope)

	values, err := projectTrend(intercept, slope, len(series), horizon)
	if err != nil {
		s.tracer.RecordError(span, err)
		return nil, fmt.Errorf("failed to project trend for %s: %w", indexName, err)
	}

	last := series[len(series)-1].Date
	predictions := make([]models.ForecastPoint, len(values))
	for i, v := range values {
		predictions[i] = models.ForecastPoint{
			PredictedDate:  models.Day(last.AddDate(0, 0, i+1)),
			PredictedClose: decimal.NewFromFloat(v).Round(predictionPlaces),
		}
	}
	s.tracer.RecordResultSize(span, len(predictions))

	if s.logger != nil {
		s.logger.WithIndex(indexName).Debug("Forecast computed",
			"observations", len(series), "horizon", horizon,
			"intercept", intercept, "slope", slope)
	}

	return &models.ForecastResult{
		IndexName: series[0].IndexName,
		Trend: models.TrendLine{
			Intercept:    intercept,
			Slope:        slope,
			Observations: len(series),
		},
		Predictions: predictions,
	}, nil
}
