// Package dataset loads the index history table once and serves it as an
// immutable, process-wide snapshot.
package dataset

import (
	"slices"
	"strings"
	"time"

	"github.com/irfndi/indexcast/internal/models"
	"golang.org/x/text/cases"
)

// LoadStats summarizes a completed load.
type LoadStats struct {
	Source        string        `json:"source"`
	Rows          int           `json:"rows"`
	Observations  int           `json:"observations"`
	DroppedDates  int           `json:"dropped_dates"`
	DroppedCloses int           `json:"dropped_closes"`
	Indices       int           `json:"indices"`
	LoadedAt      time.Time     `json:"loaded_at"`
	Duration      time.Duration `json:"duration"`
}

// Dataset is the read-only snapshot shared by every request. It has no
// mutation API; accessors hand out copies of the stored slices.
type Dataset struct {
	series map[string][]models.Observation
	names  []string
	stats  LoadStats
}

// NormalizeName folds an index name for matching: surrounding whitespace is
// ignored and comparison is case-insensitive.
func NormalizeName(name string) string {
	// A Caser is stateful, so each call builds its own.
	return cases.Fold().String(strings.TrimSpace(name))
}

// Indices returns the distinct stored index names, sorted, as stored.
func (d *Dataset) Indices() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Series returns the observations of the index matching name, ascending by
// date. It returns nil when no index matches. Passthrough fields are shared
// with the snapshot and must not be modified.
func (d *Dataset) Series(name string) []models.Observation {
	obs, ok := d.series[NormalizeName(name)]
	if !ok {
		return nil
	}
	return slices.Clone(obs)
}

// Stats returns the load summary.
func (d *Dataset) Stats() LoadStats {
	return d.stats
}
