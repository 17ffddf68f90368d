package analysis

import (
	"fmt"
	"strings"

	"github.com/aristath/lynchlens/internal/domain"
)

// SystemInstruction frames the model as a Lynch-style analyst running
// the two-minute drill over the numbers in the user prompt.
const SystemInstruction = `Act as my Senior Broker Engineer (Peter Lynch style). Your job is to analyze the data I provide and execute 'The Two-Minute Drill'.
RULES:

1. If the PEG ratio is < 1.0, consider it cheap. If > 2.0, expensive.

2. Compare the P/E with expected growth.

3. Classify the company (Cyclical, Turnaround, Asset Play, Fast Grower, Stalwart).

4. Look for debt problems (Is there more debt than cash?).

5. Your verdict must be direct: BUY, SELL or HOLD, explained with common sense and simple analogies.

IMPORTANT: ALWAYS respond in English.`

// Number of headlines fed to the model.
const promptNewsLimit = 3

// BuildPrompt renders the report into the analyst prompt. Every line is
// present even when the value is N/A; the model handles gaps better
// than missing sections.
func BuildPrompt(report *Report) string {
	snap := &report.Snapshot
	val := &report.Valuation

	currency := snap.Currency
	if currency == "" {
		currency = "$"
	}

	var b strings.Builder
	rule := strings.Repeat("=", 80)

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "INVESTMENT ANALYSIS: %s - %s\n", report.Symbol, orNA(snap.Name))
	fmt.Fprintf(&b, "%s\n\n", rule)

	b.WriteString("GENERAL INFORMATION:\n")
	fmt.Fprintf(&b, "   - Sector: %s\n", orNA(snap.Sector))
	fmt.Fprintf(&b, "   - Industry: %s\n", orNA(snap.Industry))
	fmt.Fprintf(&b, "   - Country: %s\n", orNA(snap.Country))
	fmt.Fprintf(&b, "   - Market Cap: %s\n", fmtLargeNumber(snap.MarketCap))
	fmt.Fprintf(&b, "   - Number of Employees: %s\n\n", fmtCount(snap.Employees))

	b.WriteString("PRICES:\n")
	fmt.Fprintf(&b, "   - Current Price: %s\n", fmtMoney(currency, snap.CurrentPrice))
	fmt.Fprintf(&b, "   - Analyst Target Price: %s\n", fmtMoney(currency, snap.TargetPrice))
	fmt.Fprintf(&b, "   - 52-Week High: %s\n", fmtMoney(currency, snap.FiftyTwoWHigh))
	fmt.Fprintf(&b, "   - 52-Week Low: %s\n\n", fmtMoney(currency, snap.FiftyTwoWLow))

	b.WriteString("VALUATION RATIOS (KEY FOR LYNCH):\n")
	fmt.Fprintf(&b, "   - Trailing P/E (last 12 months): %s\n", fmtRatio(snap.TrailingPE))
	fmt.Fprintf(&b, "   - Forward P/E (estimated): %s\n", fmtRatio(snap.ForwardPE))
	fmt.Fprintf(&b, "   - PEG Ratio (MOST IMPORTANT): %s\n", fmtRatio(val.Peg))
	if val.PegNote != "" {
		fmt.Fprintf(&b, "     (%s)\n", val.PegNote)
	}
	fmt.Fprintf(&b, "   - Price/Book: %s\n", fmtRatio(snap.PriceToBook))
	fmt.Fprintf(&b, "   - Price/Sales: %s\n\n", fmtRatio(snap.PriceToSales))

	b.WriteString("DIVIDENDS:\n")
	fmt.Fprintf(&b, "   - Dividend Yield: %s\n", fmtPercent(val.DividendYield))
	fmt.Fprintf(&b, "   - Dividend per Share: %s\n", fmtMoney(currency, snap.DividendRate))
	fmt.Fprintf(&b, "   - Payout Ratio: %s\n\n", fmtRatio(snap.PayoutRatio))

	b.WriteString("BALANCE SHEET & DEBT (most recent balance sheet data):\n")
	fmt.Fprintf(&b, "   - Total Debt: %s\n", fmtLargeNumber(val.Debt))
	fmt.Fprintf(&b, "   - Cash + Short-term Investments: %s\n", fmtLargeNumber(val.Cash))
	fmt.Fprintf(&b, "   - Cash/Debt Ratio: %s\n", fmtCoverageRatio(val))
	fmt.Fprintf(&b, "   - Debt/Equity Ratio: %s\n", fmtRatio(snap.DebtToEquity))
	fmt.Fprintf(&b, "   - Financial Position: %s\n\n", debtSituation(val))

	b.WriteString("PROFITABILITY:\n")
	fmt.Fprintf(&b, "   - ROE (Return on Equity): %s\n", fmtPercent(snap.ROE))
	fmt.Fprintf(&b, "   - Profit Margin: %s\n", fmtPercent(snap.ProfitMargin))
	fmt.Fprintf(&b, "   - Earnings Growth: %s\n", fmtPercent(snap.EarningsGrowth))
	fmt.Fprintf(&b, "   - Revenue Growth: %s\n\n", fmtPercent(snap.RevenueGrowth))

	b.WriteString("VOLATILITY:\n")
	fmt.Fprintf(&b, "   - Beta: %s\n", fmtRatio(snap.Beta))

	b.WriteString(newsSection(snap.News))

	fmt.Fprintf(&b, "\n%s\n", rule)
	b.WriteString(`Please execute Peter Lynch's "Two-Minute Drill":
1. Classify this company (Cyclical, Turnaround, Asset Play, Fast Grower, Stalwart)
2. Analyze the PEG ratio and determine if it's cheap or expensive
3. Evaluate the debt situation
4. Give your VERDICT: BUY, SELL or HOLD
5. Explain with simple analogies that anyone can understand
`)
	fmt.Fprintf(&b, "%s\n", rule)

	return b.String()
}

func newsSection(news []domain.Headline) string {
	if len(news) == 0 {
		return "\nNEWS: No recent news available.\n"
	}
	var b strings.Builder
	b.WriteString("\nLATEST NEWS (Scuttlebutt):\n")
	for i, item := range news {
		if i >= promptNewsLimit {
			break
		}
		title := item.Title
		if title == "" {
			title = "No title"
		}
		fmt.Fprintf(&b, "   %d. %s\n", i+1, title)
	}
	return b.String()
}

func debtSituation(val *domain.DerivedValuation) string {
	if val.CoverageTier == domain.CoverageNoDebt {
		return "No debt - Excellent position"
	}
	ratio, ok := val.CoverageRatio.Get()
	if !ok {
		return "Cannot be determined"
	}
	if ratio >= 1 {
		return fmt.Sprintf("More cash than debt (can pay %.1fx its debt)", ratio)
	}
	return fmt.Sprintf("More debt than cash (covers %.0f%% of debt)", ratio*100)
}

func fmtCoverageRatio(val *domain.DerivedValuation) string {
	if val.CoverageTier == domain.CoverageNoDebt {
		return "No debt"
	}
	if ratio, ok := val.CoverageRatio.Get(); ok {
		return fmt.Sprintf("%.2fx", ratio)
	}
	return "N/A"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func fmtRatio(v domain.OptionalFloat) string {
	if f, ok := v.Get(); ok {
		return fmt.Sprintf("%.2f", f)
	}
	return "N/A"
}

func fmtPercent(v domain.OptionalFloat) string {
	if f, ok := v.Get(); ok {
		return fmt.Sprintf("%.2f%%", f*100)
	}
	return "N/A"
}

func fmtMoney(currency string, v domain.OptionalFloat) string {
	if f, ok := v.Get(); ok {
		return fmt.Sprintf("%s%.2f", currency, f)
	}
	return "N/A"
}

func fmtCount(v domain.OptionalFloat) string {
	if f, ok := v.Get(); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return "N/A"
}

// fmtLargeNumber renders market-cap-scale figures as $x.xxT/B/M.
func fmtLargeNumber(v domain.OptionalFloat) string {
	f, ok := v.Get()
	if !ok {
		return "N/A"
	}
	abs := f
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("$%.2fT", f/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("$%.2fB", f/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.2fM", f/1e6)
	default:
		return fmt.Sprintf("$%.2f", f)
	}
}
