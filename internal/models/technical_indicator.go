package models

import "github.com/shopspring/decimal"

// IndicatorPoint is an indicator value aligned to the last observation of its window.
type IndicatorPoint struct {
	Date  Day             `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// IndicatorResult holds moving-average overlays for one index.
type IndicatorResult struct {
	IndexName string           `json:"index_name"`
	Period    int              `json:"period"`
	SMA       []IndicatorPoint `json:"sma"`
	EMA       []IndicatorPoint `json:"ema"`
}
