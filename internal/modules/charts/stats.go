// Package charts computes the descriptive statistics shown alongside
// the price chart: period extremes, volume, volatility, position in
// range, and the moving-average trend signal.
package charts

import (
	"github.com/aristath/lynchlens/internal/domain"
	"github.com/aristath/lynchlens/pkg/formulas"
)

// Moving-average windows for the trend signal.
const (
	trendShortWindow = 10
	trendLongWindow  = 30
)

// PeriodStats summarizes one price window.
type PeriodStats struct {
	Open          float64        `json:"open"`
	Close         float64        `json:"close"`
	High          float64        `json:"high"`
	Low           float64        `json:"low"`
	ChangePct     float64        `json:"change_pct"`
	AvgVolume     float64        `json:"avg_volume"`
	Volatility    float64        `json:"volatility"`
	VolatilityPct float64        `json:"volatility_pct"`
	RangePosition float64        `json:"range_position"`
	Trend         formulas.Trend `json:"trend"`
}

// Compute derives the stats for a series. Returns ok=false for an empty
// window; a single-row window still produces a (flat) result.
func Compute(prices domain.PriceSeries) (PeriodStats, bool) {
	if len(prices) == 0 {
		return PeriodStats{}, false
	}

	first := prices[0]
	last := prices[len(prices)-1]

	stats := PeriodStats{
		Open:  first.Open,
		Close: last.Close,
		High:  first.High,
		Low:   first.Low,
	}

	volumes := make([]float64, len(prices))
	for i, p := range prices {
		if p.High > stats.High {
			stats.High = p.High
		}
		if p.Low < stats.Low {
			stats.Low = p.Low
		}
		volumes[i] = p.Volume
	}
	if m := formulas.Mean(volumes); m != nil {
		stats.AvgVolume = *m
	}

	if first.Close != 0 {
		stats.ChangePct = (last.Close - first.Close) / first.Close * 100
	}

	closes := prices.Closes()
	if sd := formulas.StdDev(closes); sd != nil {
		stats.Volatility = *sd
		if last.Close != 0 {
			stats.VolatilityPct = *sd / last.Close * 100
		}
	}

	stats.RangePosition = formulas.RangePosition(last.Close, stats.Low, stats.High)
	stats.Trend = formulas.DetectTrend(closes, trendShortWindow, trendLongWindow)

	return stats, true
}
