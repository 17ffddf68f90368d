// Package classification maps normalized financial attributes to one of
// the five Peter Lynch company categories via a prioritized rule chain.
package classification

import (
	"strings"

	"github.com/aristath/lynchlens/internal/domain"
	"github.com/aristath/lynchlens/internal/modules/metrics"
)

// Sector lists used by the rules, matched against lower-cased provider
// strings.
var (
	cyclicalSectors  = []string{"consumer cyclical", "basic materials", "energy", "industrials"}
	defensiveSectors = []string{"consumer defensive", "healthcare", "utilities", "consumer staples"}

	cyclicalIndustryHints = []string{"auto", "vehicle", "airline", "hotel", "leisure"}
)

// Size and yield thresholds.
const (
	megaCapFloor     = 200e9
	largeCapFloor    = 50e9
	midCapFloor      = 10e9
	techCapCeiling   = 100e9
	goodDividend     = 0.015
	assetPlayPBLimit = 1.2
	highGrowth       = 0.20
	techEarningsBar  = 0.10
	techRevenueBar   = 0.15
)

// Result is the category plus a fixed explanatory string per branch.
type Result struct {
	Category  domain.Category `json:"category"`
	Rationale string          `json:"rationale"`
}

// Classifier implements the decision tree. It is stateless; the struct
// exists so callers hold the same shape as the other resolvers.
type Classifier struct{}

// New creates a classifier.
func New() *Classifier {
	return &Classifier{}
}

// Classify runs the rule chain in order; the first matching rule wins.
// The order is the contract: a mega-cap with 25% growth is still a
// Stalwart, because the dividend rule fires before the growth rule.
// There is always a result; the default branches cover every size.
func (c *Classifier) Classify(snap *domain.FinancialSnapshot, dividendYield domain.OptionalFloat) Result {
	sector := strings.ToLower(snap.Sector)
	industry := strings.ToLower(snap.Industry)

	marketCap := metrics.ToFloat(snap.MarketCap, 0)
	earningsGrowth := metrics.ToFloat(metrics.NormalizePercent(snap.EarningsGrowth), 0)
	revenueGrowth := metrics.ToFloat(metrics.NormalizePercent(snap.RevenueGrowth), 0)
	yield := metrics.ToFloat(dividendYield, 0)
	priceToBook := metrics.ToFloat(snap.PriceToBook, 999)
	trailingPE := metrics.ToFloat(snap.TrailingPE, 0)
	debt := metrics.ToFloat(snap.TotalDebtBalance, metrics.ToFloat(snap.TotalDebtSummary, 0))
	cash := metrics.ToFloat(snap.TotalCashBalance, metrics.ToFloat(snap.TotalCashSummary, 0))

	// 1. A negative trailing P/E means the company is reporting a loss.
	if trailingPE < 0 {
		return Result{
			Category:  domain.CategoryTurnaround,
			Rationale: "Reporting losses - a recovery or restructuring candidate",
		}
	}

	hasGoodDividend := yield > goodDividend
	isDefensive := containsAny(sector, defensiveSectors)

	// 2. Mega-cap dividend payers are stalwarts regardless of sector.
	if marketCap > megaCapFloor && hasGoodDividend {
		return Result{
			Category:  domain.CategoryStalwart,
			Rationale: "Market giant paying dividends - steady compounder",
		}
	}

	// 3. Large defensive dividend payers.
	if marketCap > largeCapFloor && hasGoodDividend && isDefensive {
		return Result{
			Category:  domain.CategoryStalwart,
			Rationale: "Large cap in a defensive sector with a reliable dividend",
		}
	}

	// 4. Cyclicals by sector, or by industry keywords the sector field
	// misses (carmakers, airlines, hotels).
	if containsAny(sector, cyclicalSectors) || containsAny(industry, cyclicalIndustryHints) {
		return Result{
			Category:  domain.CategoryCyclical,
			Rationale: "Business tied to the economic cycle - timing matters more than holding",
		}
	}

	// 5. Asset plays: trading near book with more cash than debt.
	if priceToBook < assetPlayPBLimit && cash > debt {
		return Result{
			Category:  domain.CategoryAssetPlay,
			Rationale: "Trading near book value with a net cash position - hidden balance-sheet value",
		}
	}

	// 6. Fast growers by raw growth.
	if earningsGrowth > highGrowth || revenueGrowth > highGrowth {
		return Result{
			Category:  domain.CategoryFastGrower,
			Rationale: "Earnings or revenue growing above 20% a year",
		}
	}

	// 6b. Tech carve-out: smaller technology companies clear a lower bar.
	isTech := strings.Contains(sector, "technology") || strings.Contains(industry, "software")
	if isTech && marketCap < techCapCeiling && (earningsGrowth > techEarningsBar || revenueGrowth > techRevenueBar) {
		return Result{
			Category:  domain.CategoryFastGrower,
			Rationale: "Technology company in its growth phase",
		}
	}

	// 7. Size defaults: anything large that failed the dividend tests
	// still reads as a stalwart.
	if marketCap > largeCapFloor {
		return Result{
			Category:  domain.CategoryStalwart,
			Rationale: "Large cap - established company in its sector",
		}
	}
	if marketCap > midCapFloor {
		return Result{
			Category:  domain.CategoryStalwart,
			Rationale: "Consolidated mid-cap company",
		}
	}

	// 8. Everything smaller defaults to a fast grower.
	return Result{
		Category:  domain.CategoryFastGrower,
		Rationale: "Smaller company with room to grow",
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
