// Package fairvalue builds the fair-value and conservative-value bands
// from sparse earnings observations and a daily price history, and
// resolves the valuation verdict against them.
package fairvalue

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/lynchlens/internal/domain"
)

// Projector defaults. The clamp bounds are loose methodology
// conventions, kept as fields so callers can tune them.
const (
	DefaultMultiplier      = 15.0
	DefaultFairClampMin    = 5.0
	DefaultFairClampMax    = 60.0
	DefaultConservativeMin = 15.0
	DefaultConservativeMax = 25.0

	// Minimum input sizes before the dependent feature degrades.
	minPriceRows   = 50
	minRatioPoints = 20

	// Historical P/E ratios outside (0, 200) are discarded as outliers.
	maxPlausiblePE = 200

	// The projection horizon: one synthetic forward point this many
	// days past the last actual price date.
	projectionDays = 365
)

// Projector computes the valuation band.
type Projector struct {
	FairClampMin    float64
	FairClampMax    float64
	ConservativeMin float64
	ConservativeMax float64
}

// NewProjector returns a projector with the standard bounds.
func NewProjector() *Projector {
	return &Projector{
		FairClampMin:    DefaultFairClampMin,
		FairClampMax:    DefaultFairClampMax,
		ConservativeMin: DefaultConservativeMin,
		ConservativeMax: DefaultConservativeMax,
	}
}

// Projection is the structured outcome. When HasData is false, Reason
// explains what was missing and every other field is zero; nothing here
// ever panics or errors out of the projector.
type Projection struct {
	HasData bool   `json:"has_data"`
	Reason  string `json:"reason,omitempty"`

	Dates             []time.Time `json:"dates,omitempty"`
	EPS               []float64   `json:"eps,omitempty"`
	FairValue         []float64   `json:"fair_value,omitempty"`
	ConservativeValue []float64   `json:"conservative_value,omitempty"`

	// SplitIndex is the first projected position: dates[i] for
	// i >= SplitIndex lie beyond the last actual price date.
	SplitIndex int `json:"split_index"`

	FairMultiplier         float64              `json:"fair_multiplier"`
	ConservativeMultiplier float64              `json:"conservative_multiplier"`
	GrowthRate             domain.OptionalFloat `json:"growth_rate"`
	Method                 string               `json:"method,omitempty"`
	HasProjection          bool                 `json:"has_projection"`
}

// LastHistorical returns the fair and conservative values at the most
// recent historical date (never a projected one).
func (p *Projection) LastHistorical() (fair, conservative domain.OptionalFloat) {
	if !p.HasData || p.SplitIndex == 0 {
		return domain.None(), domain.None()
	}
	i := p.SplitIndex - 1
	return domain.Float(p.FairValue[i]), domain.Float(p.ConservativeValue[i])
}

func fail(reason string) *Projection {
	return &Projection{Reason: reason}
}

// Project builds the band. earnings come from the provider's annual
// statements (method tag names the source); when fewer than two
// positive observations exist, a flat synthetic series from the current
// trailing EPS is used instead.
func (p *Projector) Project(
	prices domain.PriceSeries,
	earnings []domain.EarningsPoint,
	method string,
	trailingEPS, forwardEPS domain.OptionalFloat,
) *Projection {
	if len(prices) == 0 {
		return fail("no price history available")
	}
	if len(prices) < minPriceRows {
		return fail("insufficient price data")
	}
	first, _ := prices.First()
	last, _ := prices.Last()

	// Keep only positive earnings observations.
	points := make([]domain.EarningsPoint, 0, len(earnings))
	for _, e := range earnings {
		if e.EPS > 0 {
			points = append(points, e)
		}
	}

	// Synthetic fallback: repeat the trailing EPS at both ends of the
	// price history so interpolation has two anchors.
	if len(points) < 2 {
		if eps, ok := trailingEPS.Get(); ok && eps > 0 {
			points = []domain.EarningsPoint{
				{Date: first.Date, EPS: eps},
				{Date: last.Date, EPS: eps},
			}
			method = "current-eps-only"
		}
	}
	if len(points) < 2 {
		return fail("no earnings data available")
	}

	// Continuous daily index spanning the history plus one projected
	// year.
	dates := dailyIndex(first.Date, last.Date.AddDate(0, 0, projectionDays))
	eps := make([]float64, len(dates))
	for i := range eps {
		eps[i] = math.NaN()
	}
	for _, pt := range points {
		eps[nearestIndex(dates, pt.Date)] = pt.EPS
	}

	hasProjection := false
	if fwd, ok := forwardEPS.Get(); ok && fwd > 0 {
		eps[len(eps)-1] = fwd
		hasProjection = true
	}

	interpolateTime(eps)

	// Drop any rows still non-positive after interpolation.
	keptDates := dates[:0]
	keptEPS := eps[:0]
	for i, v := range eps {
		if v > 0 {
			keptDates = append(keptDates, dates[i])
			keptEPS = append(keptEPS, v)
		}
	}
	dates, eps = keptDates, keptEPS
	if len(dates) == 0 {
		return fail("no valid earnings after interpolation")
	}

	lastPriceDay := midnight(last.Date)
	splitIndex := len(dates)
	for i, d := range dates {
		if d.After(lastPriceDay) {
			splitIndex = i
			break
		}
	}

	fairMultiplier := p.fairMultiplier(prices, dates[:splitIndex], eps[:splitIndex])

	var growthRate domain.OptionalFloat
	conservativeMultiplier := DefaultMultiplier
	if epsT, okT := trailingEPS.Get(); okT && epsT > 0 {
		if epsF, okF := forwardEPS.Get(); okF {
			g := (epsF - epsT) / epsT
			growthRate = domain.Float(g)
			if g > 0 {
				// Growth-implied multiple: 15% growth reads as a fair
				// P/E of 15 (PEG=1).
				conservativeMultiplier = g * 100
			}
		}
	}
	conservativeMultiplier = clamp(conservativeMultiplier, p.ConservativeMin, p.ConservativeMax)

	fair := make([]float64, len(eps))
	conservative := make([]float64, len(eps))
	for i, v := range eps {
		fair[i] = v * fairMultiplier
		conservative[i] = v * conservativeMultiplier
	}

	return &Projection{
		HasData:                true,
		Dates:                  dates,
		EPS:                    eps,
		FairValue:              fair,
		ConservativeValue:      conservative,
		SplitIndex:             splitIndex,
		FairMultiplier:         round1(fairMultiplier),
		ConservativeMultiplier: round1(conservativeMultiplier),
		GrowthRate:             growthRate,
		Method:                 method,
		HasProjection:          hasProjection,
	}
}

// fairMultiplier is the median historical P/E over the days where a
// close price exists, restricted to plausible ratios. Falls back to the
// default multiple when too few valid points remain.
func (p *Projector) fairMultiplier(prices domain.PriceSeries, dates []time.Time, eps []float64) float64 {
	closeByDay := make(map[time.Time]float64, len(prices))
	for _, pt := range prices {
		closeByDay[midnight(pt.Date)] = pt.Close
	}

	ratios := make([]float64, 0, len(dates))
	for i, d := range dates {
		c, ok := closeByDay[d]
		if !ok || eps[i] <= 0 {
			continue
		}
		pe := c / eps[i]
		if pe > 0 && pe < maxPlausiblePE {
			ratios = append(ratios, pe)
		}
	}
	if len(ratios) <= minRatioPoints {
		return DefaultMultiplier
	}

	sort.Float64s(ratios)
	median := stat.Quantile(0.5, stat.Empirical, ratios, nil)
	return clamp(median, p.FairClampMin, p.FairClampMax)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
