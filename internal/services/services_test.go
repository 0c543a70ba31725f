package services

import (
	"testing"

	"github.com/irfndi/indexcast/internal/config"
	"github.com/irfndi/indexcast/internal/dataset"
	"github.com/stretchr/testify/require"
)

// niftyRows is five consecutive trading days with closes rising by 2.
var niftyRows = [][]string{
	{"NIFTY 50", "01-01-2024", "100"},
	{"NIFTY 50", "02-01-2024", "102"},
	{"NIFTY 50", "03-01-2024", "104"},
	{"NIFTY 50", "04-01-2024", "106"},
	{"NIFTY 50", "05-01-2024", "108"},
}

func newTestStore(t *testing.T, rows ...[]string) *dataset.Dataset {
	t.Helper()
	if len(rows) == 0 {
		rows = niftyRows
	}
	ds, err := dataset.Build("test", &dataset.Table{
		Header: []string{"index_name", "index_date", "closing_index_value"},
		Rows:   rows,
	})
	require.NoError(t, err)
	return ds
}

func testForecastConfig() config.ForecastConfig {
	return config.ForecastConfig{DefaultHorizon: 7, MaxHorizon: 365}
}

func testIndicatorsConfig() config.IndicatorsConfig {
	return config.IndicatorsConfig{DefaultPeriod: 3, MaxPeriod: 50}
}
