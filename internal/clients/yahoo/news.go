package yahoo

import (
	"fmt"
	"net/url"
	"time"

	"github.com/aristath/lynchlens/internal/clientdata"
	"github.com/aristath/lynchlens/internal/domain"
)

const newsCount = 8

type searchResponse struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

// GetNews fetches recent headlines for a symbol. News is decoration
// for the narrative prompt; an empty slice is a normal outcome.
func (c *Client) GetNews(symbol string) ([]domain.Headline, error) {
	var headlines []domain.Headline
	if c.getFresh("yahoo_news", symbol, &headlines) {
		c.log.Debug().Str("symbol", symbol).Msg("News cache hit")
		return headlines, nil
	}

	endpoint := fmt.Sprintf("%s/v1/finance/search?q=%s&newsCount=%d&quotesCount=0",
		c.baseURL, url.QueryEscape(symbol), newsCount)

	var resp searchResponse
	if err := c.getJSON(endpoint, &resp); err != nil {
		if c.getStale("yahoo_news", symbol, &headlines) {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("API failed, using stale news")
			return headlines, nil
		}
		return nil, err
	}

	headlines = make([]domain.Headline, 0, len(resp.News))
	for _, item := range resp.News {
		if item.Title == "" {
			continue
		}
		h := domain.Headline{Title: item.Title, Publisher: item.Publisher}
		if item.ProviderPublishTime > 0 {
			h.Published = time.Unix(item.ProviderPublishTime, 0).UTC()
		}
		headlines = append(headlines, h)
	}

	c.store("yahoo_news", symbol, headlines, clientdata.TTLNews)

	c.log.Info().Str("symbol", symbol).Int("count", len(headlines)).Msg("Fetched news")
	return headlines, nil
}
