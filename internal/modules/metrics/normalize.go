// Package metrics derives the scalar valuation metrics from a raw
// snapshot: numeric normalization, the PEG fallback chain, debt
// coverage, and the qualitative badges shown on metric cards.
package metrics

import (
	"math"

	"github.com/aristath/lynchlens/internal/domain"
)

// ToFloat returns the value or fallback when absent. Thin wrapper so
// call sites read like the rest of the resolver code.
func ToFloat(v domain.OptionalFloat, fallback float64) float64 {
	return v.Or(fallback)
}

// IsValid reports whether a field carries usable data. Zero is treated
// as "no data": the provider emits 0 for fields it could not populate,
// and none of the ratios here make sense with a zero input.
func IsValid(v domain.OptionalFloat) bool {
	f, ok := v.Get()
	return ok && f != 0
}

// NormalizePercent collapses the provider's ambiguous percentage units
// to a fraction. A magnitude above 1 means the value already is a
// percentage (2.9 rather than 0.029) and gets divided by 100. Applied
// at every percentage-bearing field, since the provider is inconsistent
// about units across endpoints.
func NormalizePercent(v domain.OptionalFloat) domain.OptionalFloat {
	f, ok := v.Get()
	if !ok {
		return domain.None()
	}
	if math.Abs(f) > 1 {
		return domain.Float(f / 100)
	}
	return domain.Float(f)
}

// maxPlausibleYield is the sanity bound on dividend yields. Values
// outside (0, 20%] are discarded as provider noise, not clamped.
const maxPlausibleYield = 0.20

// ResolveDividendYield picks the most reliable dividend yield from the
// snapshot, as a fraction. Priority: derive from the annual dividend
// rate and current price, then the trailing yield, then the summary
// yield, each unit-normalized.
func ResolveDividendYield(snap *domain.FinancialSnapshot) domain.OptionalFloat {
	price, okPrice := snap.CurrentPrice.Get()

	if rate, ok := snap.DividendRate.Get(); ok && rate > 0 && okPrice && price > 0 {
		return boundYield(domain.Float(rate / price))
	}
	if IsValid(snap.TrailingDividendYield) {
		return boundYield(NormalizePercent(snap.TrailingDividendYield))
	}
	if IsValid(snap.DividendYield) {
		return boundYield(NormalizePercent(snap.DividendYield))
	}
	return domain.None()
}

func boundYield(v domain.OptionalFloat) domain.OptionalFloat {
	f, ok := v.Get()
	if !ok || f <= 0 || f > maxPlausibleYield {
		return domain.None()
	}
	return v
}
