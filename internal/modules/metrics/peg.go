package metrics

import (
	"fmt"

	"github.com/aristath/lynchlens/internal/domain"
)

// DefaultGrowthDamping approximates a 5-year annualized growth rate
// from a single forward-year estimate. Heuristic carried over from the
// original methodology; override via PegResolver.Damping.
const DefaultGrowthDamping = 0.6

// Provider PEG values outside this range are treated as untrustworthy
// and skipped, not clamped.
const (
	minProviderPeg = 0.1
	maxProviderPeg = 10
)

// PegResolver computes a single PEG ratio from a prioritized chain of
// sources. The first method that succeeds wins; absence of any input
// simply falls through to the next method.
type PegResolver struct {
	Damping float64
}

// NewPegResolver creates a resolver with the default damping factor.
func NewPegResolver() *PegResolver {
	return &PegResolver{Damping: DefaultGrowthDamping}
}

// PegResult is the outcome of the fallback chain.
type PegResult struct {
	Peg           domain.OptionalFloat `json:"peg"`
	Source        domain.PegSource     `json:"source"`
	Note          string               `json:"note"`
	ImpliedGrowth domain.OptionalFloat `json:"implied_growth"`
}

// Resolve runs the chain:
//
//  1. provider-supplied trailing PEG, accepted as-is when inside
//     [0.1, 10]
//  2. forward vs trailing EPS growth, damped to a 5-year estimate
//  3. analyst one-year growth estimate
//  4. unavailable, with the missing input named in the note
func (r *PegResolver) Resolve(
	trailingPE domain.OptionalFloat,
	providerPeg domain.OptionalFloat,
	trailingEPS domain.OptionalFloat,
	forwardEPS domain.OptionalFloat,
	analystGrowth domain.OptionalFloat,
) PegResult {
	// Method 1: trust the provider's PEG when plausible.
	if IsValid(providerPeg) {
		peg, _ := providerPeg.Get()
		if peg >= minProviderPeg && peg <= maxProviderPeg {
			res := PegResult{
				Peg:    domain.Float(peg),
				Source: domain.PegSourceProvider,
				Note:   fmt.Sprintf("PEG: %.2f (provider trailing PEG)", peg),
			}
			if IsValid(trailingPE) {
				// Back-derive the growth the provider assumed; display
				// only, never fed back into the chain.
				pe, _ := trailingPE.Get()
				growth := pe / peg
				res.ImpliedGrowth = domain.Float(growth)
				res.Note = fmt.Sprintf("P/E: %.2f ÷ growth (5y est.): %.1f%% = PEG: %.2f (provider)", pe, growth, peg)
			}
			return res
		}
	}

	// Method 2: one-year EPS growth, damped to a conservative 5-year
	// annualized estimate.
	if IsValid(trailingPE) && IsValid(trailingEPS) && IsValid(forwardEPS) {
		pe, _ := trailingPE.Get()
		epsT, _ := trailingEPS.Get()
		epsF, _ := forwardEPS.Get()
		if epsT > 0 && epsF > epsT {
			growth1y := (epsF - epsT) / epsT * 100
			damped := growth1y * r.Damping
			if damped > 0 {
				peg := pe / damped
				return PegResult{
					Peg:           domain.Float(peg),
					Source:        domain.PegSourceForwardEPS,
					Note:          fmt.Sprintf("P/E: %.2f ÷ growth est. (5y): %.1f%% = PEG: %.2f (computed)", pe, damped, peg),
					ImpliedGrowth: domain.Float(damped),
				}
			}
		}
	}

	// Method 3: analyst one-year growth estimate. Unit-normalized first,
	// like every other percentage-bearing field.
	if IsValid(trailingPE) {
		if growth, ok := NormalizePercent(analystGrowth).Get(); ok && growth > 0 {
			pe, _ := trailingPE.Get()
			growthPct := growth * 100
			peg := pe / growthPct
			return PegResult{
				Peg:           domain.Float(peg),
				Source:        domain.PegSourceAnalyst,
				Note:          fmt.Sprintf("P/E: %.2f ÷ analyst growth (+1y): %.1f%% = PEG: %.2f", pe, growthPct, peg),
				ImpliedGrowth: domain.Float(growthPct),
			}
		}
	}

	// Unavailable. The note states which input was missing.
	res := PegResult{Source: domain.PegSourceUnavailable}
	if IsValid(trailingPE) {
		pe, _ := trailingPE.Get()
		res.Note = fmt.Sprintf("P/E: %.2f ÷ growth rate: unavailable = not computable", pe)
	} else {
		res.Note = "P/E and/or growth rate unavailable"
	}
	return res
}
