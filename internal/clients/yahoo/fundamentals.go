package yahoo

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/aristath/lynchlens/internal/clientdata"
	"github.com/aristath/lynchlens/internal/domain"
)

// Timeseries line items. The provider has renamed the cash line over the
// years, so lookups try each variant in order.
const (
	tsTotalDebt = "quarterlyTotalDebt"
	tsNetDebt   = "quarterlyNetDebt"

	tsDilutedEPS = "annualDilutedEPS"
	tsBasicEPS   = "annualBasicEPS"
)

var cashVariants = []string{
	"quarterlyCashCashEquivalentsAndShortTermInvestments",
	"quarterlyCashAndCashEquivalents",
}

// BalanceSheet holds the latest quarterly debt and cash line items.
type BalanceSheet struct {
	TotalDebt domain.OptionalFloat `json:"total_debt"`
	Cash      domain.OptionalFloat `json:"cash"`
	NetDebt   domain.OptionalFloat `json:"net_debt"`
	Date      string               `json:"date,omitempty"`
}

// EarningsHistory is the annual EPS series plus which line item
// produced it.
type EarningsHistory struct {
	Points []domain.EarningsPoint `json:"points"`
	Method string                 `json:"method"`
}

type timeseriesResponse struct {
	Timeseries struct {
		Result []json.RawMessage `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"timeseries"`
}

type tsObservation struct {
	AsOfDate      string `json:"asOfDate"`
	ReportedValue value  `json:"reportedValue"`
}

// fetchTimeseries returns the observations per line item, newest last.
func (c *Client) fetchTimeseries(symbol string, types []string) (map[string][]tsObservation, error) {
	period2 := time.Now().Unix()
	period1 := time.Now().AddDate(-6, 0, 0).Unix()

	typeList := ""
	for i, t := range types {
		if i > 0 {
			typeList += ","
		}
		typeList += t
	}

	endpoint := fmt.Sprintf("%s/ws/fundamentals-timeseries/v1/finance/timeseries/%s?type=%s&period1=%d&period2=%d",
		c.baseURL, url.PathEscape(symbol), typeList, period1, period2)

	var resp timeseriesResponse
	if err := c.getJSON(endpoint, &resp); err != nil {
		return nil, err
	}
	if e := resp.Timeseries.Error; e != nil {
		return nil, fmt.Errorf("timeseries error for %s: %s", symbol, e.Description)
	}

	out := make(map[string][]tsObservation)
	for _, raw := range resp.Timeseries.Result {
		var meta struct {
			Meta struct {
				Type []string `json:"type"`
			} `json:"meta"`
		}
		if err := json.Unmarshal(raw, &meta); err != nil || len(meta.Meta.Type) == 0 {
			continue
		}
		lineItem := meta.Meta.Type[0]

		// The observations live under a field named after the line item.
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}
		body, ok := fields[lineItem]
		if !ok {
			continue
		}

		var observations []*tsObservation
		if err := json.Unmarshal(body, &observations); err != nil {
			continue
		}
		for _, obs := range observations {
			if obs != nil {
				out[lineItem] = append(out[lineItem], *obs)
			}
		}
	}
	return out, nil
}

// latest returns the newest observation with a present value.
func latest(observations []tsObservation) (tsObservation, bool) {
	best := tsObservation{}
	found := false
	for _, obs := range observations {
		if !obs.ReportedValue.Present() {
			continue
		}
		if !found || obs.AsOfDate > best.AsOfDate {
			best = obs
			found = true
		}
	}
	return best, found
}

// GetBalanceSheet fetches the most recent quarterly debt and cash
// line items. Each field resolves independently; a missing line item
// leaves its field absent rather than failing the call.
func (c *Client) GetBalanceSheet(symbol string) (*BalanceSheet, error) {
	var sheet BalanceSheet
	if c.getFresh("yahoo_balance_sheet", symbol, &sheet) {
		c.log.Debug().Str("symbol", symbol).Msg("Balance sheet cache hit")
		return &sheet, nil
	}

	types := append([]string{tsTotalDebt, tsNetDebt}, cashVariants...)
	series, err := c.fetchTimeseries(symbol, types)
	if err != nil {
		if c.getStale("yahoo_balance_sheet", symbol, &sheet) {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("API failed, using stale balance sheet")
			return &sheet, nil
		}
		return nil, err
	}

	if obs, ok := latest(series[tsTotalDebt]); ok {
		sheet.TotalDebt = obs.ReportedValue.OptionalFloat
		sheet.Date = obs.AsOfDate
	}
	for _, variant := range cashVariants {
		if obs, ok := latest(series[variant]); ok {
			sheet.Cash = obs.ReportedValue.OptionalFloat
			if obs.AsOfDate > sheet.Date {
				sheet.Date = obs.AsOfDate
			}
			break
		}
	}
	if obs, ok := latest(series[tsNetDebt]); ok {
		sheet.NetDebt = obs.ReportedValue.OptionalFloat
	}

	c.store("yahoo_balance_sheet", symbol, &sheet, clientdata.TTLBalanceSheet)

	c.log.Info().Str("symbol", symbol).Str("as_of", sheet.Date).Msg("Fetched balance sheet")
	return &sheet, nil
}

// GetEarnings fetches the annual EPS series. Diluted EPS is preferred;
// basic EPS is the fallback when no diluted rows exist.
func (c *Client) GetEarnings(symbol string) (*EarningsHistory, error) {
	var history EarningsHistory
	if c.getFresh("yahoo_earnings", symbol, &history) {
		c.log.Debug().Str("symbol", symbol).Msg("Earnings cache hit")
		return &history, nil
	}

	series, err := c.fetchTimeseries(symbol, []string{tsDilutedEPS, tsBasicEPS})
	if err != nil {
		if c.getStale("yahoo_earnings", symbol, &history) {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("API failed, using stale earnings")
			return &history, nil
		}
		return nil, err
	}

	history = EarningsHistory{Method: "diluted-eps"}
	observations := series[tsDilutedEPS]
	if len(observations) == 0 {
		observations = series[tsBasicEPS]
		history.Method = "basic-eps"
	}

	for _, obs := range observations {
		eps, ok := obs.ReportedValue.Get()
		if !ok {
			continue
		}
		date, err := time.Parse("2006-01-02", obs.AsOfDate)
		if err != nil {
			continue
		}
		history.Points = append(history.Points, domain.EarningsPoint{Date: date, EPS: eps})
	}
	sort.Slice(history.Points, func(i, j int) bool {
		return history.Points[i].Date.Before(history.Points[j].Date)
	})

	c.store("yahoo_earnings", symbol, &history, clientdata.TTLEarnings)

	c.log.Info().Str("symbol", symbol).Int("points", len(history.Points)).Str("method", history.Method).Msg("Fetched earnings")
	return &history, nil
}
