package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/lynchlens/internal/domain"
)

func TestResolveDebtCoverageTiers(t *testing.T) {
	tests := []struct {
		name string
		debt float64
		cash float64
		tier domain.CoverageTier
	}{
		{"very solid", 100, 150, domain.CoverageVerySolid},
		{"solid at exactly 1x", 100, 100, domain.CoverageSolid},
		{"moderate", 100, 60, domain.CoverageModerate},
		{"risk", 100, 20, domain.CoverageRisk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &domain.FinancialSnapshot{
				TotalDebtBalance: domain.Float(tt.debt),
				TotalCashBalance: domain.Float(tt.cash),
			}
			res := ResolveDebtCoverage(snap)
			assert.Equal(t, tt.tier, res.Tier)
			assert.InDelta(t, tt.cash/tt.debt, res.CoverageRatio.Or(0), 1e-9)
		})
	}
}

func TestResolveDebtCoverageNoDebt(t *testing.T) {
	// Cash with no debt figure at all.
	snap := &domain.FinancialSnapshot{
		TotalCashBalance: domain.Float(500),
	}
	res := ResolveDebtCoverage(snap)
	assert.Equal(t, domain.CoverageNoDebt, res.Tier)
	// No ratio: "no debt" is a tier, not an infinity.
	assert.False(t, res.CoverageRatio.Present())

	// Explicit zero debt reads the same.
	snap = &domain.FinancialSnapshot{
		TotalDebtBalance: domain.Float(0),
		TotalCashBalance: domain.Float(500),
	}
	res = ResolveDebtCoverage(snap)
	assert.Equal(t, domain.CoverageNoDebt, res.Tier)
}

func TestResolveDebtCoverageUnavailable(t *testing.T) {
	res := ResolveDebtCoverage(&domain.FinancialSnapshot{})
	assert.Equal(t, domain.CoverageUnavailable, res.Tier)
	assert.False(t, res.CoverageRatio.Present())

	// Debt without any cash figure cannot produce a ratio.
	res = ResolveDebtCoverage(&domain.FinancialSnapshot{
		TotalDebtBalance: domain.Float(100),
	})
	assert.Equal(t, domain.CoverageUnavailable, res.Tier)
}

func TestResolveDebtCoverageSourcePreference(t *testing.T) {
	// Balance-sheet figures win over summary info.
	snap := &domain.FinancialSnapshot{
		TotalDebtBalance: domain.Float(100),
		TotalDebtSummary: domain.Float(999),
		TotalCashBalance: domain.Float(200),
		TotalCashSummary: domain.Float(1),
	}
	res := ResolveDebtCoverage(snap)
	assert.Equal(t, domain.DebtSourceBalanceSheet, res.DebtSource)
	assert.Equal(t, domain.DebtSourceBalanceSheet, res.CashSource)
	assert.InDelta(t, 2.0, res.CoverageRatio.Or(0), 1e-9)
}

func TestResolveDebtCoverageMixedSources(t *testing.T) {
	// Debt from the balance sheet, cash only in summary info: each field
	// resolves independently.
	snap := &domain.FinancialSnapshot{
		TotalDebtBalance: domain.Float(100),
		TotalCashSummary: domain.Float(50),
	}
	res := ResolveDebtCoverage(snap)
	assert.Equal(t, domain.DebtSourceBalanceSheet, res.DebtSource)
	assert.Equal(t, domain.DebtSourceSummaryInfo, res.CashSource)
	assert.InDelta(t, 0.5, res.CoverageRatio.Or(0), 1e-9)
	assert.Equal(t, domain.CoverageModerate, res.Tier)
}
