package services

import (
	"errors"
	"strings"

	"github.com/irfndi/indexcast/internal/models"
	"github.com/irfndi/indexcast/internal/utils"
)

// ErrIndexNotFound is returned when no stored index matches the requested name.
var ErrIndexNotFound = errors.New("index not found")

// SeriesStore is the read side of the loaded dataset.
type SeriesStore interface {
	Indices() []string
	Series(name string) []models.Observation
}

func requireIndexName(name string) error {
	if strings.TrimSpace(name) == "" {
		return utils.NewValidationError("index_name", "is required")
	}
	return nil
}

func closes(series []models.Observation) []float64 {
	out := make([]float64, len(series))
	for i, obs := range series {
		out[i] = obs.Close.InexactFloat64()
	}
	return out
}
