package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshak/niveshak/internal/domain"
)

// chartBody renders bars as a chart API response
func chartBody(t *testing.T, bars []DailyPrice) string {
	t.Helper()

	type quoteBlock struct {
		Open   []float64 `json:"open"`
		High   []float64 `json:"high"`
		Low    []float64 `json:"low"`
		Close  []float64 `json:"close"`
		Volume []int64   `json:"volume"`
	}
	type chartResult struct {
		Timestamp  []int64 `json:"timestamp"`
		Indicators struct {
			Quote []quoteBlock `json:"quote"`
		} `json:"indicators"`
	}

	var result chartResult
	var q quoteBlock
	for _, bar := range bars {
		day, err := time.Parse("2006-01-02", bar.Date)
		require.NoError(t, err)
		result.Timestamp = append(result.Timestamp, day.Unix())
		q.Open = append(q.Open, bar.Open)
		q.High = append(q.High, bar.High)
		q.Low = append(q.Low, bar.Low)
		q.Close = append(q.Close, bar.Close)
		q.Volume = append(q.Volume, 1000)
	}
	result.Indicators.Quote = []quoteBlock{q}

	payload := map[string]interface{}{
		"chart": map[string]interface{}{
			"result": []chartResult{result},
			"error":  nil,
		},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return string(body)
}

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *Store) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := newTestStore(t)
	client := NewClient(server.URL, zerolog.Nop())
	return NewService(client, store, zerolog.Nop()), store
}

func TestGetQuotes_FetchesThenServesFromCache(t *testing.T) {
	calls := 0
	var askedSymbols string

	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		askedSymbols = r.URL.Query().Get("symbols")
		fmt.Fprint(w, `{"quoteResponse":{"result":[
			{"symbol":"INFY.NS","regularMarketPrice":1523.5,"regularMarketChangePercent":1.25}
		],"error":null}}`)
	})

	quotes, err := svc.GetQuotes(context.Background(), []string{"INFY"}, domain.MarketIndia)
	require.NoError(t, err)
	require.Contains(t, quotes, "INFY")
	assert.Equal(t, "INFY.NS", askedSymbols, "india tickers are resolved before the provider call")
	assert.Equal(t, "INFY", quotes["INFY"].Ticker, "result is keyed and labeled by the raw ticker")
	assert.Equal(t, 1523.5, quotes["INFY"].Price)
	assert.Equal(t, 1, calls)

	quotes, err = svc.GetQuotes(context.Background(), []string{"INFY"}, domain.MarketIndia)
	require.NoError(t, err)
	require.Contains(t, quotes, "INFY")
	assert.Equal(t, 1523.5, quotes["INFY"].Price)
	assert.Equal(t, 1, calls, "second lookup must come from the cache")
}

func TestGetQuotes_StaleFallbackWhenProviderDown(t *testing.T) {
	svc, store := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	// Expired cache entry: not fresh, still usable as a fallback
	require.NoError(t, store.StoreQuote(&Quote{Ticker: "INFY.NS", Price: 1500, ChangePercent: 0.5}, -time.Minute))

	quotes, err := svc.GetQuotes(context.Background(), []string{"INFY"}, domain.MarketIndia)
	require.NoError(t, err)
	require.Contains(t, quotes, "INFY")
	assert.Equal(t, 1500.0, quotes["INFY"].Price)
}

func TestGetQuotes_ErrorWhenProviderDownAndCacheEmpty(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := svc.GetQuotes(context.Background(), []string{"INFY"}, domain.MarketIndia)
	require.Error(t, err)
}

func TestGetQuote_MissingTicker(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quoteResponse":{"result":[],"error":null}}`)
	})

	_, err := svc.GetQuote(context.Background(), "UNLISTED", domain.MarketUS)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no quote data")
}

func TestHistory_FetchesThenServesFromCache(t *testing.T) {
	bars := []DailyPrice{
		{Date: dayAgo(9), Open: 99, High: 100, Low: 98, Close: 99.5},
		{Date: dayAgo(3), Open: 100, High: 101, Low: 99, Close: 100.5},
		{Date: dayAgo(1), Open: 101, High: 102, Low: 100, Close: 101.5},
	}

	calls := 0
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/v8/finance/chart/INFY.NS", r.URL.Path)
		fmt.Fprint(w, chartBody(t, bars))
	})

	got, err := svc.History(context.Background(), "INFY", domain.MarketIndia, 5)
	require.NoError(t, err)
	require.Len(t, got, 2, "the nine-day-old bar is outside the five-day window")
	assert.Equal(t, dayAgo(3), got[0].Date)
	assert.Equal(t, dayAgo(1), got[1].Date)
	assert.Equal(t, 1, calls)

	got, err = svc.History(context.Background(), "INFY", domain.MarketIndia, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, calls, "covered window must be served from the store")
}

func TestHistory_ServesCachedBarsWhenProviderDown(t *testing.T) {
	svc, store := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	// Bars too old to count as fresh, so the service tries the provider first
	require.NoError(t, store.UpsertDailyPrices("INFY.NS", []DailyPrice{
		{Date: dayAgo(12), Open: 99, High: 100, Low: 98, Close: 99.5},
		{Date: dayAgo(10), Open: 100, High: 101, Low: 99, Close: 100.5},
	}))

	got, err := svc.History(context.Background(), "INFY", domain.MarketIndia, 30)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 100.5, got[1].Close)
}

func TestHistory_ErrorWhenProviderDownAndCacheEmpty(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := svc.History(context.Background(), "INFY", domain.MarketIndia, 30)
	require.Error(t, err)
}

func TestMarketSource_DailyCloses(t *testing.T) {
	svc, store := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("a covered window must not reach the provider")
	})

	require.NoError(t, store.UpsertDailyPrices("INFY.NS", []DailyPrice{
		{Date: dayAgo(40), Open: 95, High: 96, Low: 94, Close: 95.5},
		{Date: dayAgo(2), Open: 100, High: 101, Low: 99, Close: 100.5},
		{Date: dayAgo(1), Open: 101, High: 102, Low: 100, Close: 101.5},
	}))

	source := NewMarketSource(svc, domain.MarketIndia)
	series, err := source.DailyCloses(context.Background(), "INFY", 30)
	require.NoError(t, err)

	assert.Equal(t, []string{dayAgo(2), dayAgo(1)}, series.Dates)
	assert.Equal(t, []float64{100.5, 101.5}, series.Closes)
}

func TestRefreshTracked(t *testing.T) {
	newBars := []DailyPrice{
		{Date: dayAgo(2), Open: 100, High: 101, Low: 99, Close: 100.5},
		{Date: dayAgo(1), Open: 101, High: 102, Low: 100, Close: 102.25},
	}

	var askedPath string
	svc, store := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		askedPath = r.URL.Path
		fmt.Fprint(w, chartBody(t, newBars))
	})

	require.NoError(t, store.UpsertDailyPrices("INFY.NS", []DailyPrice{
		{Date: dayAgo(8), Open: 99, High: 100, Low: 98, Close: 99.5},
	}))

	require.NoError(t, svc.RefreshTracked(context.Background(), 30))
	assert.Equal(t, "/v8/finance/chart/INFY.NS", askedPath)

	got, err := store.RecentPrices("INFY.NS", 30)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 102.25, got[2].Close)
}

func TestRefreshTracked_AllFailures(t *testing.T) {
	svc, store := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	require.NoError(t, store.UpsertDailyPrices("INFY.NS", []DailyPrice{
		{Date: dayAgo(1), Open: 99, High: 100, Low: 98, Close: 99.5},
	}))

	err := svc.RefreshTracked(context.Background(), 30)
	require.Error(t, err)
}

func TestRefreshTracked_EmptyStoreIsFine(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no tickers tracked, no requests expected")
	})

	require.NoError(t, svc.RefreshTracked(context.Background(), 30))
}
