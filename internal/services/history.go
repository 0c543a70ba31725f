package services

import (
	"context"
	"strings"
	"time"

	"github.com/irfndi/indexcast/internal/dataset"
	"github.com/irfndi/indexcast/internal/logging"
	"github.com/irfndi/indexcast/internal/models"
	"github.com/irfndi/indexcast/internal/telemetry"
	"github.com/irfndi/indexcast/internal/utils"
)

// HistoryFilter selects observations of one index. Bounds are raw request
// values and are inclusive when set.
type HistoryFilter struct {
	IndexName string
	StartDate string
	EndDate   string
}

// CacheParts returns the normalized index name and bounds identifying the
// filter's result. Bounds that fail to parse are kept as given; such
// filters only ever produce an error and are not cached.
func (f HistoryFilter) CacheParts() []string {
	return []string{dataset.NormalizeName(f.IndexName), boundKey(f.StartDate), boundKey(f.EndDate)}
}

func boundKey(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	t, err := dataset.ParseMonthFirst(raw)
	if err != nil {
		return raw
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// HistoryResult holds the matching rows, ascending by date. Empty is set when
// nothing matched the name or the date range.
type HistoryResult struct {
	IndexName string
	Data      []models.Observation
	Empty     bool
}

// HistoryService answers date-ranged lookups against the loaded dataset.
type HistoryService struct {
	store  SeriesStore
	tracer *telemetry.BusinessTracer
	logger logging.Logger
}

func NewHistoryService(store SeriesStore, logger logging.Logger) *HistoryService {
	return &HistoryService{
		store:  store,
		tracer: telemetry.NewBusinessTracer(),
		logger: logger,
	}
}

// Query returns the observations matching filter.
func (s *HistoryService) Query(ctx context.Context, filter HistoryFilter) (*HistoryResult, error) {
	_, span := s.tracer.TraceHistoryQuery(ctx, filter.IndexName)
	defer span.End()

	if err := requireIndexName(filter.IndexName); err != nil {
		s.tracer.RecordError(span, err)
		return nil, err
	}

	start, err := parseBound("start_date", filter.StartDate)
	if err != nil {
		s.tracer.RecordError(span, err)
		return nil, err
	}
	end, err := parseBound("end_date", filter.EndDate)
	if err != nil {
		s.tracer.RecordError(span, err)
		return nil, err
	}

	series := s.store.Series(filter.IndexName)
	data := make([]models.Observation, 0, len(series))
	for _, obs := range series {
		if start != nil && obs.Date.Before(*start) {
			continue
		}
		if end != nil && obs.Date.After(*end) {
			continue
		}
		data = append(data, obs)
	}

	s.tracer.RecordResultSize(span, len(data))
	if s.logger != nil {
		s.logger.WithIndex(filter.IndexName).Debug("History query served",
			"rows", len(data), "start_date", filter.StartDate, "end_date", filter.EndDate)
	}

	return &HistoryResult{
		IndexName: filter.IndexName,
		Data:      data,
		Empty:     len(data) == 0,
	}, nil
}

func parseBound(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	// Bounds read ambiguous numeric dates month first.
	t, err := dataset.ParseMonthFirst(raw)
	if err != nil {
		return nil, utils.NewValidationErrorf(field, "unrecognized date %q", raw)
	}
	return &t, nil
}
