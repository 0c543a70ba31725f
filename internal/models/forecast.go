package models

import "github.com/shopspring/decimal"

// ForecastPoint is one projected closing value.
type ForecastPoint struct {
	PredictedDate  Day             `json:"predicted_date"`
	PredictedClose decimal.Decimal `json:"predicted_close"`
}

// TrendLine describes the fitted line close = intercept + slope * position.
type TrendLine struct {
	Intercept    float64 `json:"intercept"`
	Slope        float64 `json:"slope"`
	Observations int     `json:"observations"`
}

// ForecastResult is the projection for a single index.
type ForecastResult struct {
	IndexName   string          `json:"index_name"`
	Trend       TrendLine       `json:"trend"`
	Predictions []ForecastPoint `json:"predictions"`
}
