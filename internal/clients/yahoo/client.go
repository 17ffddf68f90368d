// Package yahoo provides Yahoo Finance data fetching and caching functionality.
// All fetchers are cache-first: fresh cache wins, the API is hit on a miss,
// and stale cache is served when the API fails (stale data is better than no data).
package yahoo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aristath/lynchlens/internal/clientdata"
	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client for the Yahoo Finance JSON endpoints
type Client struct {
	baseURL   string
	client    *http.Client
	log       zerolog.Logger
	cacheRepo *clientdata.Repository
}

// NewClient creates a new Yahoo Finance client.
// baseURL overrides the endpoint host (tests, proxies); empty means production.
// cacheRepo is optional - if nil, caching is disabled.
func NewClient(cacheRepo *clientdata.Repository, baseURL string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
		log:       log.With().Str("client", "yahoo").Logger(),
		cacheRepo: cacheRepo,
	}
}

// getJSON performs a GET and decodes the JSON body into target.
// Yahoo rejects requests without a browser-ish User-Agent.
func (c *Client) getJSON(url string, target interface{}) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// getFresh returns a fresh cache entry unmarshalled into target, or false.
func (c *Client) getFresh(table, symbol string, target interface{}) bool {
	if c.cacheRepo == nil {
		return false
	}
	data, err := c.cacheRepo.GetIfFresh(table, symbol)
	if err != nil || data == nil {
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		c.log.Warn().Err(err).Str("table", table).Str("symbol", symbol).Msg("Corrupt cache entry")
		return false
	}
	return true
}

// getStale returns a cache entry regardless of expiry, or false.
// Fallback for when the API fails.
func (c *Client) getStale(table, symbol string, target interface{}) bool {
	if c.cacheRepo == nil {
		return false
	}
	data, err := c.cacheRepo.Get(table, symbol)
	if err != nil || data == nil {
		return false
	}
	return json.Unmarshal(data, target) == nil
}

// store caches a decoded value, logging (not failing) on error.
func (c *Client) store(table, symbol string, value interface{}, ttl time.Duration) {
	if c.cacheRepo == nil {
		return
	}
	if err := c.cacheRepo.Store(table, symbol, value, ttl); err != nil {
		c.log.Warn().Err(err).Str("table", table).Str("symbol", symbol).Msg("Failed to cache response")
	}
}
