// Package domain holds the core data model shared by the analysis
// modules: the point-in-time financial snapshot, price and earnings
// series, and the derived valuation record.
package domain

import "time"

// FinancialSnapshot is one company's point-in-time fundamentals as
// reported by the market-data provider. Every numeric field may be
// absent; derived computations degrade to "unavailable" instead of
// failing.
type FinancialSnapshot struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
	Country  string `json:"country"`
	Currency string `json:"currency"`

	// Prices
	CurrentPrice  OptionalFloat `json:"current_price"`
	TargetPrice   OptionalFloat `json:"target_price"`
	FiftyTwoWHigh OptionalFloat `json:"fifty_two_week_high"`
	FiftyTwoWLow  OptionalFloat `json:"fifty_two_week_low"`

	// Valuation ratios
	TrailingPE   OptionalFloat `json:"trailing_pe"`
	ForwardPE    OptionalFloat `json:"forward_pe"`
	TrailingPEG  OptionalFloat `json:"trailing_peg"`
	PriceToBook  OptionalFloat `json:"price_to_book"`
	PriceToSales OptionalFloat `json:"price_to_sales"`

	// Earnings per share
	TrailingEPS OptionalFloat `json:"trailing_eps"`
	ForwardEPS  OptionalFloat `json:"forward_eps"`

	// Dividends. Yields may arrive as fractions (0.029) or percentages
	// (2.9) depending on the provider endpoint.
	DividendYield         OptionalFloat `json:"dividend_yield"`
	TrailingDividendYield OptionalFloat `json:"trailing_dividend_yield"`
	DividendRate          OptionalFloat `json:"dividend_rate"`
	PayoutRatio           OptionalFloat `json:"payout_ratio"`

	// Balance sheet, from two independent sources. The quarterly
	// balance-sheet line items are preferred over summary info.
	TotalDebtSummary  OptionalFloat `json:"total_debt_summary"`
	TotalCashSummary  OptionalFloat `json:"total_cash_summary"`
	TotalDebtBalance  OptionalFloat `json:"total_debt_balance"`
	TotalCashBalance  OptionalFloat `json:"total_cash_balance"`
	NetDebt           OptionalFloat `json:"net_debt"`
	DebtToEquity      OptionalFloat `json:"debt_to_equity"`
	BalanceSheetDate  string        `json:"balance_sheet_date,omitempty"`

	// Growth and profitability. GrowthEstimateNextYear is the analyst
	// consensus for the next fiscal year (+1y trend row), distinct from
	// the trailing EarningsGrowth.
	EarningsGrowth         OptionalFloat `json:"earnings_growth"`
	RevenueGrowth          OptionalFloat `json:"revenue_growth"`
	GrowthEstimateNextYear OptionalFloat `json:"growth_estimate_next_year"`
	ROE                    OptionalFloat `json:"roe"`
	ROA                    OptionalFloat `json:"roa"`
	ProfitMargin           OptionalFloat `json:"profit_margin"`

	// Size and risk
	MarketCap OptionalFloat `json:"market_cap"`
	Employees OptionalFloat `json:"employees"`
	Beta      OptionalFloat `json:"beta"`

	// Recent headlines, passed through verbatim to the narrative prompt.
	News []Headline `json:"news,omitempty"`
}

// Headline is one news item from the provider.
type Headline struct {
	Title     string    `json:"title"`
	Publisher string    `json:"publisher,omitempty"`
	Published time.Time `json:"published,omitempty"`
}

// PricePoint is one daily OHLCV observation.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is a date-ascending daily price history, read-only input
// from the provider.
type PriceSeries []PricePoint

// Closes returns the close column.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Close
	}
	return out
}

// First returns the earliest observation, ok=false when empty.
func (s PriceSeries) First() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[0], true
}

// Last returns the most recent observation, ok=false when empty.
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}

// EarningsPoint is one per-share-earnings observation at a fiscal date.
type EarningsPoint struct {
	Date time.Time `json:"date"`
	EPS  float64   `json:"eps"`
}
