package suggestions

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/marketdata"
)

type stubMarketData struct {
	quotes     map[string]*marketdata.Quote
	quotesErr  error
	history    map[string][]marketdata.DailyPrice
	quoteCalls int
}

func (s *stubMarketData) GetQuotes(_ context.Context, _ []string, _ domain.Market) (map[string]*marketdata.Quote, error) {
	s.quoteCalls++
	if s.quotesErr != nil {
		return nil, s.quotesErr
	}
	return s.quotes, nil
}

func (s *stubMarketData) History(_ context.Context, ticker string, _ domain.Market, _ int) ([]marketdata.DailyPrice, error) {
	bars, ok := s.history[ticker]
	if !ok {
		return nil, errors.New("no cached history")
	}
	return bars, nil
}

func newTestService(data MarketData) *Service {
	return NewService(data, zerolog.Nop())
}

func risingBars(n int, start float64) []marketdata.DailyPrice {
	bars := make([]marketdata.DailyPrice, n)
	for i := range bars {
		bars[i] = marketdata.DailyPrice{Close: start + float64(i)}
	}
	return bars
}

func fallingBars(n int, start float64) []marketdata.DailyPrice {
	bars := make([]marketdata.DailyPrice, n)
	for i := range bars {
		bars[i] = marketdata.DailyPrice{Close: start - float64(i)}
	}
	return bars
}

func TestSuggest_EnrichesWithQuotesAndTrend(t *testing.T) {
	data := &stubMarketData{
		quotes: map[string]*marketdata.Quote{
			"AAPL": {Ticker: "AAPL", Price: 250, ChangePercent: 1.2},
		},
		history: map[string][]marketdata.DailyPrice{
			"AAPL": risingBars(60, 100),
		},
	}
	svc := newTestService(data)

	got, err := svc.Suggest(context.Background(), domain.MarketUS, domain.CategoryLargeCap)
	require.NoError(t, err)
	require.Len(t, got, 5)

	apple := got[0]
	assert.Equal(t, "AAPL", apple.Ticker)
	assert.Equal(t, 250.0, apple.Price)
	assert.Equal(t, 1.2, apple.ChangePercent)
	assert.Equal(t, TrendUp, apple.Trend)
	require.NotNil(t, apple.RSI)
	assert.Equal(t, SignalOverbought, apple.RSISignal)

	// Nothing came back for the others.
	msft := got[1]
	assert.Zero(t, msft.Price)
	assert.Empty(t, msft.Trend)
	assert.Nil(t, msft.RSI)
}

func TestSuggest_DowntrendAndOversold(t *testing.T) {
	data := &stubMarketData{
		quotes: map[string]*marketdata.Quote{
			"MSFT": {Ticker: "MSFT", Price: 120, ChangePercent: -2.5},
		},
		history: map[string][]marketdata.DailyPrice{
			"MSFT": fallingBars(60, 200),
		},
	}
	svc := newTestService(data)

	got, err := svc.Suggest(context.Background(), domain.MarketUS, domain.CategoryLargeCap)
	require.NoError(t, err)

	msft := got[1]
	require.Equal(t, "MSFT", msft.Ticker)
	assert.Equal(t, TrendDown, msft.Trend)
	assert.Equal(t, SignalOversold, msft.RSISignal)
}

func TestSuggest_NeutralSignalOnMixedSeries(t *testing.T) {
	bars := make([]marketdata.DailyPrice, 60)
	for i := range bars {
		price := 100.0
		if i%2 == 1 {
			price = 101.0
		}
		bars[i] = marketdata.DailyPrice{Close: price}
	}
	data := &stubMarketData{
		quotes:  map[string]*marketdata.Quote{"AAPL": {Ticker: "AAPL", Price: 100.5}},
		history: map[string][]marketdata.DailyPrice{"AAPL": bars},
	}
	svc := newTestService(data)

	got, err := svc.Suggest(context.Background(), domain.MarketUS, domain.CategoryLargeCap)
	require.NoError(t, err)

	require.NotNil(t, got[0].RSI)
	assert.Equal(t, SignalNeutral, got[0].RSISignal)
}

func TestSuggest_QuoteFailureServesCatalogOnly(t *testing.T) {
	data := &stubMarketData{quotesErr: errors.New("provider down")}
	svc := newTestService(data)

	got, err := svc.Suggest(context.Background(), domain.MarketIndia, domain.CategoryGold)
	require.NoError(t, err)
	require.Len(t, got, 5)

	for _, sg := range got {
		assert.NotEmpty(t, sg.Name)
		assert.Zero(t, sg.Price)
		assert.Empty(t, sg.Trend)
		assert.Nil(t, sg.RSI)
	}
}

func TestSuggest_HistoryMissSkipsAnnotation(t *testing.T) {
	data := &stubMarketData{
		quotes: map[string]*marketdata.Quote{
			"GOLDBEES.NS": {Ticker: "GOLDBEES.NS", Price: 55.2},
		},
	}
	svc := newTestService(data)

	got, err := svc.Suggest(context.Background(), domain.MarketIndia, domain.CategoryGold)
	require.NoError(t, err)

	gold := got[0]
	assert.Equal(t, 55.2, gold.Price)
	assert.Empty(t, gold.Trend)
	assert.Nil(t, gold.RSI)
}

func TestSuggest_TrendFallsBackToLastClose(t *testing.T) {
	// The quote fetch succeeded but had nothing for this ticker.
	data := &stubMarketData{
		quotes:  map[string]*marketdata.Quote{},
		history: map[string][]marketdata.DailyPrice{"AAPL": risingBars(60, 100)},
	}
	svc := newTestService(data)

	got, err := svc.Suggest(context.Background(), domain.MarketUS, domain.CategoryLargeCap)
	require.NoError(t, err)

	apple := got[0]
	assert.Zero(t, apple.Price)
	assert.Equal(t, TrendUp, apple.Trend)
}

func TestSuggest_UnknownCategorySkipsQuoteFetch(t *testing.T) {
	data := &stubMarketData{}
	svc := newTestService(data)

	got, err := svc.Suggest(context.Background(), domain.MarketUS, domain.CategoryBondsFixedIncome)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, data.quoteCalls)
}
