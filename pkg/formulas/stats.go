// Package formulas provides price-series statistics shared by the chart
// and analysis modules.
package formulas

import (
	"gonum.org/v1/gonum/stat"
)

// StdDev returns the population-style sample standard deviation of the
// values, or nil when fewer than two points exist.
func StdDev(values []float64) *float64 {
	if len(values) < 2 {
		return nil
	}
	sd := stat.StdDev(values, nil)
	if isNaN(sd) {
		return nil
	}
	return &sd
}

// Mean returns the arithmetic mean, or nil for an empty slice.
func Mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := stat.Mean(values, nil)
	return &m
}

// RangePosition places current within [low, high] as a 0-100
// percentage. A degenerate range reads as the midpoint.
func RangePosition(current, low, high float64) float64 {
	if high <= low {
		return 50
	}
	return (current - low) / (high - low) * 100
}
