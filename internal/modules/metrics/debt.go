package metrics

import "github.com/aristath/lynchlens/internal/domain"

// Coverage tier thresholds (cash ÷ debt).
const (
	coverageVerySolid = 1.5
	coverageSolid     = 1.0
	coverageModerate  = 0.5
)

// DebtCoverageResult carries the resolved figures, which source each
// came from, and the qualitative tier.
type DebtCoverageResult struct {
	Debt          domain.OptionalFloat `json:"debt"`
	Cash          domain.OptionalFloat `json:"cash"`
	DebtSource    domain.DebtSource    `json:"debt_source,omitempty"`
	CashSource    domain.DebtSource    `json:"cash_source,omitempty"`
	CoverageRatio domain.OptionalFloat `json:"coverage_ratio"`
	Tier          domain.CoverageTier  `json:"tier"`
}

// ResolveDebtCoverage merges the two candidate sources of debt and cash
// figures and computes the coverage ratio. Debt and cash are resolved
// independently: a balance-sheet debt figure is used even when the
// balance sheet lacks a cash figure, and vice versa. Summary info only
// fills fields the balance sheet is missing.
func ResolveDebtCoverage(snap *domain.FinancialSnapshot) DebtCoverageResult {
	res := DebtCoverageResult{Tier: domain.CoverageUnavailable}

	res.Debt, res.DebtSource = preferBalanceSheet(snap.TotalDebtBalance, snap.TotalDebtSummary)
	res.Cash, res.CashSource = preferBalanceSheet(snap.TotalCashBalance, snap.TotalCashSummary)

	debt, hasDebt := res.Debt.Get()
	cash, hasCash := res.Cash.Get()

	switch {
	case hasDebt && debt > 0 && hasCash:
		ratio := cash / debt
		res.CoverageRatio = domain.Float(ratio)
		switch {
		case ratio >= coverageVerySolid:
			res.Tier = domain.CoverageVerySolid
		case ratio >= coverageSolid:
			res.Tier = domain.CoverageSolid
		case ratio >= coverageModerate:
			res.Tier = domain.CoverageModerate
		default:
			res.Tier = domain.CoverageRisk
		}
	case hasCash && cash > 0 && (!hasDebt || debt == 0):
		// Debt-free. The ratio stays absent on purpose: "no debt" is a
		// tier, not an infinity.
		res.Tier = domain.CoverageNoDebt
	}

	return res
}

func preferBalanceSheet(balance, summary domain.OptionalFloat) (domain.OptionalFloat, domain.DebtSource) {
	if balance.Present() {
		return balance, domain.DebtSourceBalanceSheet
	}
	if summary.Present() {
		return summary, domain.DebtSourceSummaryInfo
	}
	return domain.None(), ""
}
