// Package marketdata fetches live quotes and daily price history from a
// Yahoo-style quote API and caches both in the history database.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// userAgent mimics a browser; the quote API rejects default Go clients.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Quote is a point-in-time price snapshot for one ticker
type Quote struct {
	Ticker        string  `json:"ticker"`
	Price         float64 `json:"current_price"`
	ChangePercent float64 `json:"price_change_percent"`
}

// DailyPrice is one day's OHLCV bar
type DailyPrice struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume *int64  `json:"volume,omitempty"`
}

// Client is an HTTP client for the quote provider
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a quote API client. baseURL is the provider root without
// a trailing slash, e.g. "https://query1.finance.yahoo.com".
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "marketdata").Logger(),
	}
}

// quoteAPIResponse represents the response from the quote endpoint
type quoteAPIResponse struct {
	QuoteResponse struct {
		Result []map[string]interface{} `json:"result"`
		Error  interface{}              `json:"error"`
	} `json:"quoteResponse"`
}

// FetchQuotes fetches current quotes for multiple symbols in one batch call.
// Symbols with no data are simply absent from the result map.
func (c *Client) FetchQuotes(ctx context.Context, symbols []string) (map[string]*Quote, error) {
	if len(symbols) == 0 {
		return map[string]*Quote{}, nil
	}

	params := url.Values{}
	params.Add("symbols", strings.Join(symbols, ","))
	params.Add("fields", "symbol,regularMarketPrice,regularMarketChangePercent")

	reqURL := c.baseURL + "/v7/finance/quote?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic browser
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("quote API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result quoteAPIResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("quote API error: %v", result.QuoteResponse.Error)
	}

	quotes := make(map[string]*Quote, len(result.QuoteResponse.Result))
	for _, info := range result.QuoteResponse.Result {
		symbol := getString(info, "symbol", "")
		if symbol == "" {
			continue
		}

		price := getFloat64(info, "regularMarketPrice")
		if price == nil {
			c.log.Debug().Str("symbol", symbol).Msg("Quote has no market price")
			continue
		}

		quotes[symbol] = &Quote{
			Ticker:        symbol,
			Price:         *price,
			ChangePercent: getFloat64OrZero(info, "regularMarketChangePercent"),
		}
	}

	c.log.Debug().
		Int("requested", len(symbols)).
		Int("returned", len(quotes)).
		Msg("Fetched quotes")

	return quotes, nil
}

// FetchQuote fetches the current quote for a single symbol
func (c *Client) FetchQuote(ctx context.Context, symbol string) (*Quote, error) {
	quotes, err := c.FetchQuotes(ctx, []string{symbol})
	if err != nil {
		return nil, err
	}

	q, ok := quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}
	return q, nil
}

// FetchDailyHistory fetches daily OHLCV bars via the chart endpoint.
// days is mapped to the nearest supported range; the provider decides the
// exact number of bars returned.
func (c *Client) FetchDailyHistory(ctx context.Context, symbol string, days int) ([]DailyPrice, error) {
	params := url.Values{}
	params.Add("interval", "1d")
	params.Add("range", rangeForDays(days))

	reqURL := c.baseURL + "/v8/finance/chart/" + url.QueryEscape(symbol) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic browser
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch historical data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("chart API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result struct {
		Chart struct {
			Result []struct {
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Open   []float64 `json:"open"`
						High   []float64 `json:"high"`
						Low    []float64 `json:"low"`
						Close  []float64 `json:"close"`
						Volume []int64   `json:"volume"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error interface{} `json:"error"`
		} `json:"chart"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %v", result.Chart.Error)
	}

	if len(result.Chart.Result) == 0 {
		c.log.Warn().Str("symbol", symbol).Msg("No historical data returned")
		return []DailyPrice{}, nil
	}

	chartData := result.Chart.Result[0]
	timestamps := chartData.Timestamp
	if len(chartData.Indicators.Quote) == 0 {
		c.log.Warn().Str("symbol", symbol).Msg("No quote data in response")
		return []DailyPrice{}, nil
	}

	quote := chartData.Indicators.Quote[0]

	var prices []DailyPrice
	for i := range timestamps {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			continue
		}

		// The provider reports holidays and halts as all-zero rows
		if quote.Open[i] == 0 && quote.High[i] == 0 && quote.Low[i] == 0 && quote.Close[i] == 0 {
			continue
		}

		p := DailyPrice{
			Date:  time.Unix(timestamps[i], 0).UTC().Format("2006-01-02"),
			Open:  quote.Open[i],
			High:  quote.High[i],
			Low:   quote.Low[i],
			Close: quote.Close[i],
		}
		if i < len(quote.Volume) {
			v := quote.Volume[i]
			p.Volume = &v
		}

		prices = append(prices, p)
	}

	c.log.Debug().
		Str("symbol", symbol).
		Int("count", len(prices)).
		Msg("Fetched historical prices")

	return prices, nil
}

// rangeForDays maps a lookback in days onto the chart API's closed set of
// range strings, rounding up so the caller never gets less than asked for.
func rangeForDays(days int) string {
	switch {
	case days <= 5:
		return "5d"
	case days <= 30:
		return "1mo"
	case days <= 91:
		return "3mo"
	case days <= 182:
		return "6mo"
	case days <= 365:
		return "1y"
	case days <= 730:
		return "2y"
	case days <= 1825:
		return "5y"
	default:
		return "max"
	}
}

// Helper functions to safely extract values from map

func getFloat64(m map[string]interface{}, key string) *float64 {
	if val, ok := m[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			return &v
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		}
	}
	return nil
}

func getFloat64OrZero(m map[string]interface{}, key string) float64 {
	if val := getFloat64(m, key); val != nil {
		return *val
	}
	return 0
}

func getString(m map[string]interface{}, key string, defaultVal string) string {
	if val, ok := m[key]; ok && val != nil {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return defaultVal
}
