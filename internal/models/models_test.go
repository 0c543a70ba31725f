package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservation_MarshalJSON(t *testing.T) {
	obs := Observation{
		IndexName:   "NIFTY 50",
		Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Close:       decimal.RequireFromString("21710.8"),
		CloseColumn: "closing_index_value",
		Fields: []Field{
			{Name: "change_percent", Value: 0.15},
			{Name: "pe_ratio", Value: nil},
			{Name: "note", Value: "ex-div"},
		},
	}

	data, err := json.Marshal(obs)
	require.NoError(t, err)
	assert.Equal(t,
		`{"index_name":"NIFTY 50","index_date":"2024-01-05T00:00:00","closing_index_value":21710.8,"change_percent":0.15,"pe_ratio":null,"note":"ex-div"}`,
		string(data))
}

func TestObservation_MarshalJSON_DefaultCloseColumn(t *testing.T) {
	obs := Observation{
		IndexName: "NIFTY BANK",
		Date:      time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC),
		Close:     decimal.NewFromInt(48292),
	}

	var decoded map[string]interface{}
	data, err := json.Marshal(obs)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(48292), decoded["close"])
	assert.Len(t, decoded, 3)
}

func TestObservation_Field(t *testing.T) {
	obs := Observation{Fields: []Field{{Name: "volume", Value: 1200.0}}}

	v, ok := obs.Field("volume")
	assert.True(t, ok)
	assert.Equal(t, 1200.0, v)

	_, ok = obs.Field("turnover")
	assert.False(t, ok)
}

func TestForecastPoint_JSON(t *testing.T) {
	point := ForecastPoint{
		PredictedDate:  Day(time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)),
		PredictedClose: decimal.NewFromFloat(110.5),
	}

	data, err := json.Marshal(point)
	require.NoError(t, err)
	assert.JSONEq(t, `{"predicted_date":"2024-01-06T00:00:00","predicted_close":110.5}`, string(data))
}
