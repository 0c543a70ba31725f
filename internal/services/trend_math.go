package services

import (
	"errors"
	"math"
)

var (
	errEmptySeries     = errors.New("cannot fit a trend to an empty series")
	errNonFiniteTrend  = errors.New("trend fit produced a non-finite value")
	errNonFiniteValues = errors.New("series contains non-finite values")
)

// fitLinearTrend estimates y_i = intercept + slope*i over positions 0..n-1 by
// ordinary least squares. A single point yields a flat line through it.
func fitLinearTrend(series []float64) (intercept float64, slope float64, err error) {
	n := len(series)
	if n == 0 {
		return 0, 0, errEmptySeries
	}
	for _, y := range series {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return 0, 0, errNonFiniteValues
		}
	}
	if n == 1 {
		return series[0], 0, nil
	}

	// Centered sums keep precision when closes are large relative to their spread.
	meanX := float64(n-1) / 2
	var meanY float64
	for _, y := range series {
		meanY += y
	}
	meanY /= float64(n)

	var sxx, sxy float64
	for i, y := range series {
		dx := float64(i) - meanX
		sxx += dx * dx
		sxy += dx * (y - meanY)
	}

	slope = sxy / sxx
	intercept = meanY - slope*meanX
	if !isFinite(slope) || !isFinite(intercept) {
		return 0, 0, errNonFiniteTrend
	}
	return intercept, slope, nil
}

// projectTrend evaluates the line at positions start..start+horizon-1.
func projectTrend(intercept, slope float64, start, horizon int) ([]float64, error) {
	if horizon <= 0 {
		return nil, nil
	}
	out := make([]float64, horizon)
	for i := range out {
		v := intercept + slope*float64(start+i)
		if !isFinite(v) {
			return nil, errNonFiniteTrend
		}
		out[i] = v
	}
	return out, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
