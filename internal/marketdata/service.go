package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/modules/riskstats"
)

// TTLQuote bounds how long a cached quote is served without refetching
const TTLQuote = 10 * time.Minute

// historyMaxAge is how old the newest stored bar may be before the window is
// refetched. Three days spans any weekend or single-day holiday.
const historyMaxAge = 3 * 24 * time.Hour

// Service serves quotes and price history cache-first, falling back to
// stale cache entries when the provider is unreachable.
type Service struct {
	client *Client
	store  *Store
	log    zerolog.Logger
}

// NewService creates a market data service
func NewService(client *Client, store *Store, log zerolog.Logger) *Service {
	return &Service{
		client: client,
		store:  store,
		log:    log.With().Str("service", "marketdata").Logger(),
	}
}

// GetQuotes fetches current quotes for the given tickers. The result map is
// keyed by the raw input ticker; tickers with no data anywhere are absent.
func (s *Service) GetQuotes(ctx context.Context, tickers []string, market domain.Market) (map[string]*Quote, error) {
	out := make(map[string]*Quote, len(tickers))
	symbolToTicker := make(map[string]string, len(tickers))
	var missing []string

	for _, t := range tickers {
		if t == "" {
			continue
		}
		symbol := QuoteSymbol(t, market)
		if _, seen := symbolToTicker[symbol]; seen {
			continue
		}
		symbolToTicker[symbol] = t

		cached, err := s.store.FreshQuote(symbol)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", symbol).Msg("Quote cache read failed")
		}
		if cached != nil {
			out[t] = &Quote{Ticker: t, Price: cached.Price, ChangePercent: cached.ChangePercent}
			continue
		}
		missing = append(missing, symbol)
	}

	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := s.client.FetchQuotes(ctx, missing)
	if err != nil {
		// Provider down: serve whatever stale entries exist
		stale := 0
		for _, symbol := range missing {
			q, serr := s.store.StaleQuote(symbol)
			if serr != nil || q == nil {
				continue
			}
			t := symbolToTicker[symbol]
			out[t] = &Quote{Ticker: t, Price: q.Price, ChangePercent: q.ChangePercent}
			stale++
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("failed to fetch quotes: %w", err)
		}
		s.log.Warn().
			Err(err).
			Int("stale", stale).
			Msg("Quote API failed, using stale cached quotes")
		return out, nil
	}

	for symbol, q := range fetched {
		if err := s.store.StoreQuote(q, TTLQuote); err != nil {
			s.log.Warn().Err(err).Str("ticker", symbol).Msg("Failed to cache quote")
		}
		if t, ok := symbolToTicker[symbol]; ok {
			out[t] = &Quote{Ticker: t, Price: q.Price, ChangePercent: q.ChangePercent}
		}
	}

	return out, nil
}

// GetQuote fetches the current quote for a single ticker
func (s *Service) GetQuote(ctx context.Context, ticker string, market domain.Market) (*Quote, error) {
	quotes, err := s.GetQuotes(ctx, []string{ticker}, market)
	if err != nil {
		return nil, err
	}

	q, ok := quotes[ticker]
	if !ok {
		return nil, fmt.Errorf("no quote data for %s", ticker)
	}
	return q, nil
}

// History returns daily bars covering the last N days, oldest first.
// Fresh enough cached bars are served directly; otherwise the window is
// refetched and cached. Stale bars are served when the provider is down.
func (s *Service) History(ctx context.Context, ticker string, market domain.Market, days int) ([]DailyPrice, error) {
	symbol := QuoteSymbol(ticker, market)

	if s.cacheCovers(symbol, days) {
		return s.store.RecentPrices(symbol, days)
	}

	prices, err := s.client.FetchDailyHistory(ctx, symbol, days)
	if err != nil {
		cached, cerr := s.store.RecentPrices(symbol, days)
		if cerr == nil && len(cached) > 0 {
			s.log.Warn().
				Err(err).
				Str("ticker", symbol).
				Int("bars", len(cached)).
				Msg("Chart API failed, serving cached bars")
			return cached, nil
		}
		return nil, err
	}

	if err := s.store.UpsertDailyPrices(symbol, prices); err != nil {
		s.log.Warn().Err(err).Str("ticker", symbol).Msg("Failed to cache daily prices")
		return trimToDays(prices, days), nil
	}

	return s.store.RecentPrices(symbol, days)
}

// cacheCovers reports whether the stored bars span the requested window:
// the newest bar is recent and the oldest reaches back to the window start.
func (s *Service) cacheCovers(symbol string, days int) bool {
	first, last, err := s.store.PriceCoverage(symbol)
	if err != nil || last.IsZero() {
		return false
	}
	if time.Since(last) > historyMaxAge {
		return false
	}

	// A week of slack: the first trading day inside the window may sit a few
	// days after the calendar start.
	windowStart := time.Now().AddDate(0, 0, -days)
	return first.Before(windowStart.AddDate(0, 0, 7))
}

// RefreshTracked refetches daily bars for every ticker already in the store.
// Called by the nightly cache refresh job.
func (s *Service) RefreshTracked(ctx context.Context, days int) error {
	symbols, err := s.store.TrackedTickers()
	if err != nil {
		return fmt.Errorf("failed to list tracked tickers: %w", err)
	}

	failed := 0
	for _, symbol := range symbols {
		prices, err := s.client.FetchDailyHistory(ctx, symbol, days)
		if err != nil {
			failed++
			s.log.Warn().Err(err).Str("ticker", symbol).Msg("Failed to refresh history")
			continue
		}
		if err := s.store.UpsertDailyPrices(symbol, prices); err != nil {
			failed++
			s.log.Warn().Err(err).Str("ticker", symbol).Msg("Failed to store refreshed history")
		}
	}

	s.log.Info().
		Int("tickers", len(symbols)).
		Int("failed", failed).
		Msg("Refreshed price history")

	if failed > 0 && failed == len(symbols) {
		return fmt.Errorf("all %d history refreshes failed", failed)
	}
	return nil
}

// trimToDays drops bars older than the window start. ISO dates compare
// lexicographically, so no parsing is needed.
func trimToDays(prices []DailyPrice, days int) []DailyPrice {
	cutoff := time.Now().AddDate(0, 0, -days).UTC().Format("2006-01-02")

	var out []DailyPrice
	for _, p := range prices {
		if p.Date >= cutoff {
			out = append(out, p)
		}
	}
	return out
}

// MarketSource adapts the service to the risk engine's price source
// interface, resolving raw tickers against a single market.
type MarketSource struct {
	svc    *Service
	market domain.Market
}

// NewMarketSource creates a price history source bound to one market
func NewMarketSource(svc *Service, market domain.Market) *MarketSource {
	return &MarketSource{svc: svc, market: market}
}

// DailyCloses implements riskstats.PriceHistorySource
func (m *MarketSource) DailyCloses(ctx context.Context, ticker string, days int) (*riskstats.Series, error) {
	prices, err := m.svc.History(ctx, ticker, m.market, days)
	if err != nil {
		return nil, err
	}

	series := &riskstats.Series{
		Dates:  make([]string, 0, len(prices)),
		Closes: make([]float64, 0, len(prices)),
	}
	for _, p := range prices {
		series.Dates = append(series.Dates, p.Date)
		series.Closes = append(series.Closes, p.Close)
	}
	return series, nil
}

// PriceSource exposes current prices for alert checks. Alert tickers are
// stored exactly as the quote provider knows them, so lookups skip market
// suffixing.
type PriceSource struct {
	svc *Service
}

// NewPriceSource creates a price source for alert checking
func NewPriceSource(svc *Service) *PriceSource {
	return &PriceSource{svc: svc}
}

// Prices implements alerts.QuoteSource. Tickers the provider has no quote
// for are simply absent from the result.
func (p *PriceSource) Prices(ctx context.Context, tickers []string) (map[string]float64, error) {
	// US-market resolution passes symbols through untouched.
	quotes, err := p.svc.GetQuotes(ctx, tickers, domain.MarketUS)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(quotes))
	for ticker, q := range quotes {
		out[ticker] = q.Price
	}
	return out, nil
}
