package clientdata

import "time"

// TTL constants for different data types.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// Quarterly financial data (updates with filings)
	TTLBalanceSheet = 45 * 24 * time.Hour // 45 days - Quarterly balance sheets
	TTLEarnings     = 45 * 24 * time.Hour // 45 days - Annual earnings rows

	// Daily data
	TTLHistory = 24 * time.Hour // 1 day - Price history only grows by one bar a day

	// Short-lived data (quote fields move intraday)
	TTLOverview  = time.Hour           // 1 hour - Quote summary (price, PE, market cap)
	TTLNews      = time.Hour           // 1 hour - Headlines
	TTLAnalysis  = time.Hour           // 1 hour - Derived valuations follow the overview
	TTLNarrative = 24 * time.Hour      // 1 day - LLM narratives are expensive to regenerate
)
