package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/lynchlens/internal/domain"
)

func TestToFloat(t *testing.T) {
	assert.Equal(t, 1.5, ToFloat(domain.Float(1.5), 0))
	assert.Equal(t, 9.0, ToFloat(domain.None(), 9))
	assert.Equal(t, 0.0, ToFloat(domain.Float(0), 9))
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(domain.Float(1)))
	assert.True(t, IsValid(domain.Float(-1)))
	assert.False(t, IsValid(domain.Float(0)))
	assert.False(t, IsValid(domain.None()))
}

func TestNormalizePercent(t *testing.T) {
	tests := []struct {
		name    string
		input   domain.OptionalFloat
		want    float64
		present bool
	}{
		{"fraction stays", domain.Float(0.029), 0.029, true},
		{"percentage divided", domain.Float(2.9), 0.029, true},
		{"exactly one stays", domain.Float(1), 1, true},
		{"negative percentage", domain.Float(-15), -0.15, true},
		{"negative fraction stays", domain.Float(-0.15), -0.15, true},
		{"absent stays absent", domain.None(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePercent(tt.input)
			v, ok := got.Get()
			assert.Equal(t, tt.present, ok)
			if tt.present {
				assert.InDelta(t, tt.want, v, 1e-9)
			}
		})
	}
}

func TestResolveDividendYieldFromRate(t *testing.T) {
	snap := &domain.FinancialSnapshot{
		CurrentPrice: domain.Float(100),
		DividendRate: domain.Float(3),
		// These would give different answers; the rate wins.
		TrailingDividendYield: domain.Float(0.05),
		DividendYield:         domain.Float(0.07),
	}

	got := ResolveDividendYield(snap)
	assert.InDelta(t, 0.03, got.Or(0), 1e-9)
}

func TestResolveDividendYieldFallbacks(t *testing.T) {
	// No rate: trailing yield, unit-normalized.
	snap := &domain.FinancialSnapshot{
		CurrentPrice:          domain.Float(100),
		TrailingDividendYield: domain.Float(2.9), // percentage form
		DividendYield:         domain.Float(0.07),
	}
	assert.InDelta(t, 0.029, ResolveDividendYield(snap).Or(0), 1e-9)

	// No rate, no trailing: summary yield.
	snap = &domain.FinancialSnapshot{
		CurrentPrice:  domain.Float(100),
		DividendYield: domain.Float(0.04),
	}
	assert.InDelta(t, 0.04, ResolveDividendYield(snap).Or(0), 1e-9)

	// Nothing usable.
	assert.False(t, ResolveDividendYield(&domain.FinancialSnapshot{}).Present())
}

func TestResolveDividendYieldDiscardsImplausible(t *testing.T) {
	// 30% yield is provider noise, discarded not clamped.
	snap := &domain.FinancialSnapshot{
		CurrentPrice: domain.Float(10),
		DividendRate: domain.Float(3),
	}
	assert.False(t, ResolveDividendYield(snap).Present())

	// A yield of exactly 20% is still plausible.
	snap = &domain.FinancialSnapshot{
		CurrentPrice: domain.Float(10),
		DividendRate: domain.Float(2),
	}
	assert.InDelta(t, 0.20, ResolveDividendYield(snap).Or(0), 1e-9)
}

func TestResolveDividendYieldZeroPrice(t *testing.T) {
	// A zero price cannot derive a yield from the rate; falls through.
	snap := &domain.FinancialSnapshot{
		CurrentPrice:  domain.Float(0),
		DividendRate:  domain.Float(3),
		DividendYield: domain.Float(0.02),
	}
	assert.InDelta(t, 0.02, ResolveDividendYield(snap).Or(0), 1e-9)
}
