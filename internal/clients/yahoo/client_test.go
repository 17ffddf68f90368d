package yahoo

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/lynchlens/internal/clientdata"
)

func testRepo(t *testing.T) *clientdata.Repository {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := clientdata.NewRepository(db)
	require.NoError(t, repo.Migrate())
	return repo
}

func testClient(t *testing.T, handler http.Handler) (*Client, *clientdata.Repository) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	repo := testRepo(t)
	return NewClient(repo, srv.URL, zerolog.Nop()), repo
}

const overviewBody = `{
	"quoteSummary": {
		"result": [{
			"price": {
				"longName": "Acme Corp",
				"shortName": "Acme",
				"currency": "USD",
				"regularMarketPrice": {"raw": 123.45, "fmt": "123.45"},
				"marketCap": {"raw": 250000000000, "fmt": "250B"}
			},
			"summaryDetail": {
				"trailingPE": {"raw": 18.2},
				"dividendYield": {"raw": 0.021},
				"beta": {"raw": 1.1}
			},
			"defaultKeyStatistics": {
				"trailingEps": {"raw": 6.78},
				"forwardEps": {"raw": 7.5},
				"pegRatio": {}
			},
			"financialData": {
				"totalCash": {"raw": 60000000000},
				"totalDebt": {"raw": 100000000000},
				"earningsGrowth": {"raw": 0.12}
			},
			"assetProfile": {
				"sector": "Technology",
				"industry": "Consumer Electronics",
				"country": "United States",
				"fullTimeEmployees": 160000
			},
			"earningsTrend": {
				"trend": [
					{"period": "0y", "growth": {"raw": 0.05}},
					{"period": "+1y", "growth": {"raw": 0.14}},
					{"period": "+5y", "growth": {"raw": 0.2}}
				]
			}
		}],
		"error": null
	}
}`

func TestGetOverview(t *testing.T) {
	var calls int
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Contains(t, r.URL.Path, "/v10/finance/quoteSummary/ACME")
		assert.Contains(t, r.URL.RawQuery, "modules=")
		w.Write([]byte(overviewBody))
	}))

	snap, err := client.GetOverview("ACME")
	require.NoError(t, err)

	assert.Equal(t, "ACME", snap.Symbol)
	assert.Equal(t, "Acme Corp", snap.Name)
	assert.Equal(t, "Technology", snap.Sector)
	assert.Equal(t, "USD", snap.Currency)
	assert.InDelta(t, 123.45, snap.CurrentPrice.Or(0), 1e-9)
	assert.InDelta(t, 250e9, snap.MarketCap.Or(0), 1e-6)
	assert.InDelta(t, 18.2, snap.TrailingPE.Or(0), 1e-9)
	assert.InDelta(t, 6.78, snap.TrailingEPS.Or(0), 1e-9)
	assert.InDelta(t, 160000, snap.Employees.Or(0), 1e-9)
	// Only the +1y trend row feeds the growth estimate.
	assert.InDelta(t, 0.14, snap.GrowthEstimateNextYear.Or(0), 1e-9)
	// Empty raw envelope stays absent.
	assert.False(t, snap.TrailingPEG.Present())

	// Second call is served from cache.
	_, err = client.GetOverview("ACME")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestGetOverviewNotFound(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary": {"result": [], "error": {"code": "Not Found", "description": "Quote not found for symbol: NOPE"}}}`))
	}))

	_, err := client.GetOverview("NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Quote not found")
}

func TestGetOverviewStaleFallback(t *testing.T) {
	var fail bool
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(overviewBody))
	}))

	// Prime the cache, then expire it by storing with a negative TTL.
	snap, err := client.GetOverview("ACME")
	require.NoError(t, err)
	client.store("yahoo_overview", "ACME", snap, -time.Hour)

	fail = true
	stale, err := client.GetOverview("ACME")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", stale.Name)
}

func TestGetOverviewAPIFailureNoCache(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.GetOverview("ACME")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestGetHistory(t *testing.T) {
	body := `{
		"chart": {
			"result": [{
				"timestamp": [1704067200, 1704153600, 1704240000],
				"indicators": {
					"quote": [{
						"open":   [100.0, 101.0, null],
						"high":   [102.0, 103.0, null],
						"low":    [99.0, 100.0, null],
						"close":  [101.0, null, 103.0],
						"volume": [1000.0, 2000.0, 3000.0]
					}]
				}
			}],
			"error": null
		}
	}`

	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v8/finance/chart/ACME")
		w.Write([]byte(body))
	}))

	series, err := client.GetHistory("ACME")
	require.NoError(t, err)

	// The middle bar has a null close and is dropped; the last bar keeps
	// its close even though OHLC is null.
	require.Len(t, series, 2)
	assert.InDelta(t, 101.0, series[0].Close, 1e-9)
	assert.InDelta(t, 100.0, series[0].Open, 1e-9)
	assert.InDelta(t, 103.0, series[1].Close, 1e-9)
	assert.InDelta(t, 0.0, series[1].Open, 1e-9)
	assert.True(t, series[0].Date.Before(series[1].Date))
}

func TestGetHistoryError(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart": {"result": [], "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}}}`))
	}))

	_, err := client.GetHistory("GONE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
}

const timeseriesBody = `{
	"timeseries": {
		"result": [
			{
				"meta": {"symbol": ["ACME"], "type": ["quarterlyTotalDebt"]},
				"quarterlyTotalDebt": [
					{"asOfDate": "2025-03-31", "reportedValue": {"raw": 90000000000}},
					{"asOfDate": "2025-06-30", "reportedValue": {"raw": 100000000000}}
				]
			},
			{
				"meta": {"symbol": ["ACME"], "type": ["quarterlyCashAndCashEquivalents"]},
				"quarterlyCashAndCashEquivalents": [
					{"asOfDate": "2025-06-30", "reportedValue": {"raw": 60000000000}}
				]
			},
			{
				"meta": {"symbol": ["ACME"], "type": ["annualDilutedEPS"]},
				"annualDilutedEPS": [
					null,
					{"asOfDate": "2024-12-31", "reportedValue": {"raw": 6.1}},
					{"asOfDate": "2023-12-31", "reportedValue": {"raw": 5.2}}
				]
			}
		],
		"error": null
	}
}`

func TestGetBalanceSheet(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/ws/fundamentals-timeseries/v1/finance/timeseries/ACME")
		w.Write([]byte(timeseriesBody))
	}))

	sheet, err := client.GetBalanceSheet("ACME")
	require.NoError(t, err)

	// The newest total-debt observation wins, not the first.
	assert.InDelta(t, 100e9, sheet.TotalDebt.Or(0), 1e-6)
	// Cash comes from the fallback line-item variant.
	assert.InDelta(t, 60e9, sheet.Cash.Or(0), 1e-6)
	assert.False(t, sheet.NetDebt.Present())
	assert.Equal(t, "2025-06-30", sheet.Date)
}

func TestGetBalanceSheetMissingLineItems(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"timeseries": {"result": [], "error": null}}`))
	}))

	// An empty result set is not an error; every field stays absent.
	sheet, err := client.GetBalanceSheet("ACME")
	require.NoError(t, err)
	assert.False(t, sheet.TotalDebt.Present())
	assert.False(t, sheet.Cash.Present())
}

func TestGetEarnings(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(timeseriesBody))
	}))

	history, err := client.GetEarnings("ACME")
	require.NoError(t, err)

	assert.Equal(t, "diluted-eps", history.Method)
	require.Len(t, history.Points, 2)
	// Date-ascending.
	assert.InDelta(t, 5.2, history.Points[0].EPS, 1e-9)
	assert.InDelta(t, 6.1, history.Points[1].EPS, 1e-9)
	assert.True(t, history.Points[0].Date.Before(history.Points[1].Date))
}

func TestGetEarningsBasicFallback(t *testing.T) {
	body := `{
		"timeseries": {
			"result": [{
				"meta": {"type": ["annualBasicEPS"]},
				"annualBasicEPS": [
					{"asOfDate": "2024-12-31", "reportedValue": {"raw": 3.4}}
				]
			}],
			"error": null
		}
	}`
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))

	history, err := client.GetEarnings("ACME")
	require.NoError(t, err)
	assert.Equal(t, "basic-eps", history.Method)
	require.Len(t, history.Points, 1)
	assert.InDelta(t, 3.4, history.Points[0].EPS, 1e-9)
}

func TestGetNews(t *testing.T) {
	body := `{
		"news": [
			{"title": "Acme beats estimates", "publisher": "Newswire", "providerPublishTime": 1704067200},
			{"title": "", "publisher": "Empty"},
			{"title": "Acme expands", "publisher": "Daily"}
		]
	}`
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v1/finance/search")
		assert.Equal(t, "ACME", r.URL.Query().Get("q"))
		w.Write([]byte(body))
	}))

	headlines, err := client.GetNews("ACME")
	require.NoError(t, err)

	// Untitled items are dropped.
	require.Len(t, headlines, 2)
	assert.Equal(t, "Acme beats estimates", headlines[0].Title)
	assert.Equal(t, "Newswire", headlines[0].Publisher)
	assert.False(t, headlines[0].Published.IsZero())
	assert.True(t, headlines[1].Published.IsZero())
}

func TestClientWithoutCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(overviewBody))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(nil, srv.URL, zerolog.Nop())
	snap, err := client.GetOverview("ACME")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", snap.Name)
}
