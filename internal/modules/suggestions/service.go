// Package suggestions serves curated instrument ideas per category and
// market, enriched with live quotes and technical annotations when market
// data is reachable. Without a working quote source the plain catalog is
// still served.
package suggestions

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/marketdata"
)

// Trend and RSI annotation labels.
const (
	TrendUp   = "uptrend"
	TrendDown = "downtrend"

	SignalOverbought = "overbought"
	SignalOversold   = "oversold"
	SignalNeutral    = "neutral"
)

const (
	rsiOverbought = 70.0
	rsiOversold   = 30.0

	// trendHistoryDays is the calendar window fetched for annotations. It
	// comfortably covers the 50 trading bars the moving average needs.
	trendHistoryDays = 120
)

// MarketData supplies quotes and price history for enrichment.
// *marketdata.Service satisfies it.
type MarketData interface {
	GetQuotes(ctx context.Context, tickers []string, market domain.Market) (map[string]*marketdata.Quote, error)
	History(ctx context.Context, ticker string, market domain.Market, days int) ([]marketdata.DailyPrice, error)
}

// Suggestion is a catalog instrument plus optional live annotations. Price
// and ChangePercent stay zero and the annotation fields stay empty for
// tickers the quote provider knows nothing about.
type Suggestion struct {
	Instrument
	Price         float64  `json:"current_price,omitempty"`
	ChangePercent float64  `json:"price_change_percent,omitempty"`
	Trend         string   `json:"trend,omitempty"`
	RSI           *float64 `json:"rsi,omitempty"`
	RSISignal     string   `json:"rsi_signal,omitempty"`
}

// Service builds suggestion lists from the static catalogs and market data.
type Service struct {
	data MarketData
	log  zerolog.Logger
}

func NewService(data MarketData, log zerolog.Logger) *Service {
	return &Service{
		data: data,
		log:  log.With().Str("service", "suggestions").Logger(),
	}
}

// Suggest returns the curated instruments for the category, annotated with
// current prices, a price-versus-SMA-50 trend, and an RSI-14 reading where
// market data responds. Enrichment failures degrade to the plain catalog
// instead of erroring.
func (s *Service) Suggest(ctx context.Context, market domain.Market, category domain.Category) ([]Suggestion, error) {
	instruments := Catalog(market, category)

	out := make([]Suggestion, len(instruments))
	tickers := make([]string, len(instruments))
	for i, inst := range instruments {
		out[i] = Suggestion{Instrument: inst}
		tickers[i] = inst.Ticker
	}
	if len(out) == 0 {
		return out, nil
	}

	quotes, err := s.data.GetQuotes(ctx, tickers, market)
	if err != nil {
		s.log.Warn().Err(err).
			Str("market", string(market)).
			Str("category", string(category)).
			Msg("Quote enrichment failed, serving catalog only")
		return out, nil
	}

	for i := range out {
		if q, ok := quotes[out[i].Ticker]; ok {
			out[i].Price = q.Price
			out[i].ChangePercent = q.ChangePercent
		}
		s.annotate(ctx, market, &out[i])
	}

	return out, nil
}

// annotate adds trend and RSI readings when enough history exists. The trend
// compares against the live price, falling back to the last close when no
// quote came back.
func (s *Service) annotate(ctx context.Context, market domain.Market, sg *Suggestion) {
	bars, err := s.data.History(ctx, sg.Ticker, market, trendHistoryDays)
	if err != nil {
		s.log.Debug().Err(err).Str("ticker", sg.Ticker).Msg("No history for trend annotation")
		return
	}

	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}

	price := sg.Price
	if price <= 0 && len(closes) > 0 {
		price = closes[len(closes)-1]
	}

	if sma := LatestSMA(closes, smaLength); sma != nil && price > 0 {
		if price >= *sma {
			sg.Trend = TrendUp
		} else {
			sg.Trend = TrendDown
		}
	}

	if rsi := LatestRSI(closes, rsiLength); rsi != nil {
		sg.RSI = rsi
		switch {
		case *rsi >= rsiOverbought:
			sg.RSISignal = SignalOverbought
		case *rsi <= rsiOversold:
			sg.RSISignal = SignalOversold
		default:
			sg.RSISignal = SignalNeutral
		}
	}
}
