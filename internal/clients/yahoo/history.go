package yahoo

import (
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/aristath/lynchlens/internal/clientdata"
	"github.com/aristath/lynchlens/internal/domain"
)

// historyRange is the chart window the projector needs: five years of
// daily bars gives the median-P/E estimate enough history.
const historyRange = "5y"

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetHistory fetches five years of daily OHLCV bars, date-ascending.
// Rows without a close price are dropped.
func (c *Client) GetHistory(symbol string) (domain.PriceSeries, error) {
	var series domain.PriceSeries
	if c.getFresh("yahoo_history", symbol, &series) {
		c.log.Debug().Str("symbol", symbol).Msg("History cache hit")
		return series, nil
	}

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d",
		c.baseURL, url.PathEscape(symbol), historyRange)

	var resp chartResponse
	if err := c.getJSON(endpoint, &resp); err != nil {
		if c.getStale("yahoo_history", symbol, &series) {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("API failed, using stale history")
			return series, nil
		}
		return nil, err
	}

	if len(resp.Chart.Result) == 0 {
		if e := resp.Chart.Error; e != nil {
			return nil, fmt.Errorf("chart error for %s: %s", symbol, e.Description)
		}
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote indicators for %s", symbol)
	}
	quote := result.Indicators.Quote[0]

	series = make(domain.PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		closePrice := at(quote.Close, i)
		if closePrice == nil {
			continue
		}
		p := domain.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closePrice,
		}
		if v := at(quote.Open, i); v != nil {
			p.Open = *v
		}
		if v := at(quote.High, i); v != nil {
			p.High = *v
		}
		if v := at(quote.Low, i); v != nil {
			p.Low = *v
		}
		if v := at(quote.Volume, i); v != nil {
			p.Volume = *v
		}
		series = append(series, p)
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })

	c.store("yahoo_history", symbol, series, clientdata.TTLHistory)

	c.log.Info().Str("symbol", symbol).Int("bars", len(series)).Msg("Fetched history")
	return series, nil
}

func at(values []*float64, i int) *float64 {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}
