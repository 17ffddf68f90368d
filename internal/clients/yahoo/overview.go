package yahoo

import (
	"fmt"
	"net/url"

	"github.com/aristath/lynchlens/internal/clientdata"
	"github.com/aristath/lynchlens/internal/domain"
)

// quoteSummaryModules is everything the analysis pipeline reads in one call.
const quoteSummaryModules = "price,summaryDetail,defaultKeyStatistics,financialData,assetProfile,earningsTrend"

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	Price struct {
		ShortName          string `json:"shortName"`
		LongName           string `json:"longName"`
		Currency           string `json:"currency"`
		RegularMarketPrice value  `json:"regularMarketPrice"`
		MarketCap          value  `json:"marketCap"`
	} `json:"price"`

	SummaryDetail struct {
		TrailingPE                   value `json:"trailingPE"`
		ForwardPE                    value `json:"forwardPE"`
		PriceToSalesTrailing12Months value `json:"priceToSalesTrailing12Months"`
		DividendRate                 value `json:"dividendRate"`
		DividendYield                value `json:"dividendYield"`
		TrailingAnnualDividendYield  value `json:"trailingAnnualDividendYield"`
		PayoutRatio                  value `json:"payoutRatio"`
		Beta                         value `json:"beta"`
		FiftyTwoWeekHigh             value `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow              value `json:"fiftyTwoWeekLow"`
	} `json:"summaryDetail"`

	DefaultKeyStatistics struct {
		TrailingEps value `json:"trailingEps"`
		ForwardEps  value `json:"forwardEps"`
		PegRatio    value `json:"pegRatio"`
		PriceToBook value `json:"priceToBook"`
	} `json:"defaultKeyStatistics"`

	FinancialData struct {
		TargetMeanPrice value `json:"targetMeanPrice"`
		TotalCash       value `json:"totalCash"`
		TotalDebt       value `json:"totalDebt"`
		DebtToEquity    value `json:"debtToEquity"`
		ReturnOnEquity  value `json:"returnOnEquity"`
		ReturnOnAssets  value `json:"returnOnAssets"`
		ProfitMargins   value `json:"profitMargins"`
		EarningsGrowth  value `json:"earningsGrowth"`
		RevenueGrowth   value `json:"revenueGrowth"`
	} `json:"financialData"`

	AssetProfile struct {
		Sector            string `json:"sector"`
		Industry          string `json:"industry"`
		Country           string `json:"country"`
		FullTimeEmployees value  `json:"fullTimeEmployees"`
	} `json:"assetProfile"`

	EarningsTrend struct {
		Trend []struct {
			Period string `json:"period"`
			Growth value  `json:"growth"`
		} `json:"trend"`
	} `json:"earningsTrend"`
}

// GetOverview fetches the quote summary for a symbol.
func (c *Client) GetOverview(symbol string) (*domain.FinancialSnapshot, error) {
	var snap domain.FinancialSnapshot
	if c.getFresh("yahoo_overview", symbol, &snap) {
		c.log.Debug().Str("symbol", symbol).Msg("Overview cache hit")
		return &snap, nil
	}

	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.baseURL, url.PathEscape(symbol), quoteSummaryModules)

	var resp quoteSummaryResponse
	if err := c.getJSON(endpoint, &resp); err != nil {
		if c.getStale("yahoo_overview", symbol, &snap) {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("API failed, using stale overview")
			return &snap, nil
		}
		return nil, err
	}

	if len(resp.QuoteSummary.Result) == 0 {
		if e := resp.QuoteSummary.Error; e != nil {
			return nil, fmt.Errorf("quote summary error for %s: %s", symbol, e.Description)
		}
		return nil, fmt.Errorf("no quote summary data for %s", symbol)
	}

	snap = buildSnapshot(symbol, &resp.QuoteSummary.Result[0])
	c.store("yahoo_overview", symbol, &snap, clientdata.TTLOverview)

	c.log.Info().Str("symbol", symbol).Msg("Fetched overview")
	return &snap, nil
}

func buildSnapshot(symbol string, r *quoteSummaryResult) domain.FinancialSnapshot {
	name := r.Price.LongName
	if name == "" {
		name = r.Price.ShortName
	}

	var growthEstimate domain.OptionalFloat
	for _, trend := range r.EarningsTrend.Trend {
		if trend.Period == "+1y" {
			growthEstimate = trend.Growth.OptionalFloat
			break
		}
	}

	return domain.FinancialSnapshot{
		Symbol:   symbol,
		Name:     name,
		Sector:   r.AssetProfile.Sector,
		Industry: r.AssetProfile.Industry,
		Country:  r.AssetProfile.Country,
		Currency: r.Price.Currency,

		CurrentPrice:   r.Price.RegularMarketPrice.OptionalFloat,
		TargetPrice:    r.FinancialData.TargetMeanPrice.OptionalFloat,
		FiftyTwoWHigh:  r.SummaryDetail.FiftyTwoWeekHigh.OptionalFloat,
		FiftyTwoWLow:   r.SummaryDetail.FiftyTwoWeekLow.OptionalFloat,
		TrailingPE:     r.SummaryDetail.TrailingPE.OptionalFloat,
		ForwardPE:      r.SummaryDetail.ForwardPE.OptionalFloat,
		TrailingPEG:    r.DefaultKeyStatistics.PegRatio.OptionalFloat,
		PriceToBook:    r.DefaultKeyStatistics.PriceToBook.OptionalFloat,
		PriceToSales:   r.SummaryDetail.PriceToSalesTrailing12Months.OptionalFloat,
		TrailingEPS:    r.DefaultKeyStatistics.TrailingEps.OptionalFloat,
		ForwardEPS:     r.DefaultKeyStatistics.ForwardEps.OptionalFloat,

		DividendYield:         r.SummaryDetail.DividendYield.OptionalFloat,
		TrailingDividendYield: r.SummaryDetail.TrailingAnnualDividendYield.OptionalFloat,
		DividendRate:          r.SummaryDetail.DividendRate.OptionalFloat,
		PayoutRatio:           r.SummaryDetail.PayoutRatio.OptionalFloat,

		TotalDebtSummary: r.FinancialData.TotalDebt.OptionalFloat,
		TotalCashSummary: r.FinancialData.TotalCash.OptionalFloat,
		DebtToEquity:     r.FinancialData.DebtToEquity.OptionalFloat,

		EarningsGrowth:         r.FinancialData.EarningsGrowth.OptionalFloat,
		RevenueGrowth:          r.FinancialData.RevenueGrowth.OptionalFloat,
		GrowthEstimateNextYear: growthEstimate,
		ROE:                    r.FinancialData.ReturnOnEquity.OptionalFloat,
		ROA:                    r.FinancialData.ReturnOnAssets.OptionalFloat,
		ProfitMargin:           r.FinancialData.ProfitMargins.OptionalFloat,

		MarketCap: r.Price.MarketCap.OptionalFloat,
		Employees: r.AssetProfile.FullTimeEmployees.OptionalFloat,
		Beta:      r.SummaryDetail.Beta.OptionalFloat,
	}
}
