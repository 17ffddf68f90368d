package fairvalue

import (
	"fmt"
	"math"

	"github.com/aristath/lynchlens/internal/domain"
)

// A fair multiple above this is "priced for perfection" territory.
const highPEThreshold = 35

// Premium/discount band around fair value, in percent.
const overvaluedBand = 20

// Verdict is the valuation label plus the numbers behind it.
type Verdict struct {
	Label domain.VerdictLabel `json:"label"`
	Text  string              `json:"text"`

	Price             float64              `json:"price"`
	FairValue         float64              `json:"fair_value"`
	ConservativeValue domain.OptionalFloat `json:"conservative_value"`

	// PremiumPct is the price's distance from fair value, positive when
	// above.
	PremiumPct float64 `json:"premium_pct"`
}

// ResolveVerdict assigns one of six labels in strict priority order.
// The ranges overlap arithmetically; only the ordering makes the result
// well-defined, so no rule may be reordered. All inputs are taken at
// the most recent historical date, never a projected one.
func ResolveVerdict(price, fairValue float64, conservativeValue domain.OptionalFloat, fairMultiplier float64) Verdict {
	premium := (price - fairValue) / fairValue * 100

	v := Verdict{
		Price:             price,
		FairValue:         fairValue,
		ConservativeValue: conservativeValue,
		PremiumPct:        premium,
	}

	conservative, hasConservative := conservativeValue.Get()
	discountVsConservative := 0.0
	if hasConservative && conservative > 0 {
		discountVsConservative = (price - conservative) / conservative * 100
	}

	switch {
	// 1. Below the conservative floor beats everything else.
	case hasConservative && conservative > 0 && price < conservative:
		v.Label = domain.VerdictDeepValue
		v.Text = fmt.Sprintf("Price is %.1f%% below conservative value - the market is extremely pessimistic", math.Abs(discountVsConservative))

	// 2. More than 20% above fair value.
	case premium > overvaluedBand:
		v.Label = domain.VerdictOvervalued
		v.Text = fmt.Sprintf("Price is %.1f%% above fair value", premium)

	// 3. Up to 20% above fair value.
	case premium > 0:
		v.Label = domain.VerdictSlightlyOvervalued
		v.Text = fmt.Sprintf("Price is %.1f%% above fair value", premium)

	// 4. High multiple, but the price already cleared rules 1-3.
	case fairMultiplier > highPEThreshold:
		v.Label = domain.VerdictPricedForPerfection
		v.Text = fmt.Sprintf("High P/E (%.0fx) requires sustained high growth", fairMultiplier)

	// 5. Less than 20% below fair value.
	case premium > -overvaluedBand:
		v.Label = domain.VerdictFairValue
		v.Text = fmt.Sprintf("Price is %.1f%% below fair value", math.Abs(premium))

	// 6. 20% or more below fair value.
	default:
		v.Label = domain.VerdictUndervalued
		v.Text = fmt.Sprintf("Price is %.1f%% below fair value", math.Abs(premium))
	}

	return v
}
