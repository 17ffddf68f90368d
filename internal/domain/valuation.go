package domain

// PegSource identifies which method of the PEG fallback chain produced
// the ratio.
type PegSource string

const (
	PegSourceProvider    PegSource = "provider"
	PegSourceForwardEPS  PegSource = "forward-eps-estimate"
	PegSourceAnalyst     PegSource = "analyst-estimate"
	PegSourceUnavailable PegSource = "unavailable"
)

// DebtSource identifies which provider dataset supplied a balance
// figure.
type DebtSource string

const (
	DebtSourceBalanceSheet DebtSource = "balance-sheet"
	DebtSourceSummaryInfo  DebtSource = "summary-info"
)

// CoverageTier is the qualitative debt-coverage bucket.
type CoverageTier string

const (
	CoverageNoDebt      CoverageTier = "no-debt-excellent"
	CoverageVerySolid   CoverageTier = "very-solid"
	CoverageSolid       CoverageTier = "solid"
	CoverageModerate    CoverageTier = "moderate"
	CoverageRisk        CoverageTier = "risk"
	CoverageUnavailable CoverageTier = "unavailable"
)

// Category is one of the five Peter Lynch company types.
type Category string

const (
	CategoryTurnaround Category = "Turnaround"
	CategoryStalwart   Category = "Stalwart"
	CategoryCyclical   Category = "Cyclical"
	CategoryAssetPlay  Category = "Asset Play"
	CategoryFastGrower Category = "Fast Grower"
)

// VerdictLabel is the valuation verdict from the fair-value waterfall.
type VerdictLabel string

const (
	VerdictDeepValue           VerdictLabel = "deep-value"
	VerdictOvervalued          VerdictLabel = "overvalued"
	VerdictSlightlyOvervalued  VerdictLabel = "slightly-overvalued"
	VerdictPricedForPerfection VerdictLabel = "priced-for-perfection"
	VerdictFairValue           VerdictLabel = "fair-value"
	VerdictUndervalued         VerdictLabel = "undervalued"
)

// DerivedValuation is computed once per snapshot and immutable after
// computation. It is a pure function of the snapshot (plus, for the
// fair-value fields, the price and earnings series): two runs over
// identical inputs produce identical records.
type DerivedValuation struct {
	Symbol string `json:"symbol"`

	// PEG resolution
	Peg           OptionalFloat `json:"peg"`
	PegSource     PegSource     `json:"peg_source"`
	PegNote       string        `json:"peg_note"`
	ImpliedGrowth OptionalFloat `json:"implied_growth"`

	// Debt coverage
	Debt          OptionalFloat `json:"debt"`
	Cash          OptionalFloat `json:"cash"`
	DebtSource    DebtSource    `json:"debt_source,omitempty"`
	CashSource    DebtSource    `json:"cash_source,omitempty"`
	CoverageRatio OptionalFloat `json:"coverage_ratio"`
	CoverageTier  CoverageTier  `json:"coverage_tier"`

	// Dividend yield after unit normalization, as a fraction.
	DividendYield OptionalFloat `json:"dividend_yield"`

	// Classification
	Category  Category `json:"category"`
	Rationale string   `json:"rationale"`
}
