package dataset

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/irfndi/indexcast/internal/models"
	"github.com/shopspring/decimal"
)

// Column names expected in the source table.
const (
	ColumnIndexName = "index_name"
	ColumnIndexDate = "index_date"
)

// CloseColumns lists accepted names for the closing value, in preference order.
var CloseColumns = []string{"closing_index_value", "close"}

// ErrNoRows is wrapped by LoadError when nothing survives parsing.
var ErrNoRows = errors.New("no rows remain after parsing")

// LoadError is fatal at startup: the source is missing, unreadable, lacks a
// required column, or holds no usable rows.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads src once and builds the snapshot.
func Load(ctx context.Context, src Source) (*Dataset, error) {
	start := time.Now()

	table, err := src.ReadTable(ctx)
	if err != nil {
		return nil, &LoadError{Source: src.Name(), Err: err}
	}

	ds, err := Build(src.Name(), table)
	if err != nil {
		return nil, err
	}
	ds.stats.Duration = time.Since(start)
	return ds, nil
}

// Build turns a raw table into a Dataset. Rows with an unparseable date or
// closing value are dropped.
func Build(source string, table *Table) (*Dataset, error) {
	if table == nil {
		return nil, &LoadError{Source: source, Err: errors.New("nil table")}
	}

	cols, err := resolveColumns(table.Header)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	stats := LoadStats{Source: source, Rows: len(table.Rows)}
	series := make(map[string][]models.Observation)
	names := make(map[string]struct{})

	for _, row := range table.Rows {
		date, err := ParseDate(cell(row, cols.date))
		if err != nil {
			stats.DroppedDates++
			continue
		}
		closeValue, err := decimal.NewFromString(strings.TrimSpace(cell(row, cols.close)))
		if err != nil {
			stats.DroppedCloses++
			continue
		}

		name := cell(row, cols.name)
		obs := models.Observation{
			IndexName:   name,
			Date:        date,
			Close:       closeValue,
			CloseColumn: table.Header[cols.close],
			Fields:      passthrough(table.Header, row, cols),
		}

		key := NormalizeName(name)
		series[key] = append(series[key], obs)
		names[name] = struct{}{}
		stats.Observations++
	}

	if stats.Observations == 0 {
		return nil, &LoadError{Source: source, Err: ErrNoRows}
	}

	for key := range series {
		slices.SortStableFunc(series[key], func(a, b models.Observation) int {
			return a.Date.Compare(b.Date)
		})
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	slices.Sort(sorted)

	stats.Indices = len(sorted)
	stats.LoadedAt = time.Now()

	return &Dataset{series: series, names: sorted, stats: stats}, nil
}

type columns struct {
	name  int
	date  int
	close int
}

func resolveColumns(header []string) (columns, error) {
	find := func(want string) int {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), want) {
				return i
			}
		}
		return -1
	}

	cols := columns{name: find(ColumnIndexName), date: find(ColumnIndexDate), close: -1}
	for _, candidate := range CloseColumns {
		if i := find(candidate); i >= 0 {
			cols.close = i
			break
		}
	}

	switch {
	case cols.name < 0:
		return cols, fmt.Errorf("missing column %q", ColumnIndexName)
	case cols.date < 0:
		return cols, fmt.Errorf("missing column %q", ColumnIndexDate)
	case cols.close < 0:
		return cols, fmt.Errorf("missing closing value column (one of %v)", CloseColumns)
	}
	return cols, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func passthrough(header, row []string, cols columns) []models.Field {
	fields := make([]models.Field, 0, len(header))
	for i, name := range header {
		if i == cols.name || i == cols.date || i == cols.close || name == "" {
			continue
		}
		fields = append(fields, models.Field{Name: name, Value: cellValue(cell(row, i))})
	}
	return fields
}

// cellValue renders a passthrough cell: finite numbers as float64, empty
// cells as nil, anything else as the trimmed string.
func cellValue(raw string) interface{} {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	}
	return s
}
