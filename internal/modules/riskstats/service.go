package riskstats

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
)

// DefaultLookbackDays is roughly one year of calendar days of history
const DefaultLookbackDays = 365

// Service fetches price history and runs the risk computation
type Service struct {
	source    PriceHistorySource
	log       zerolog.Logger
	benchmark string
	riskFree  float64
}

// NewService creates a risk statistics service. The benchmark ticker and
// risk-free rate come from configuration and apply to every computation.
func NewService(source PriceHistorySource, benchmark string, riskFreeRate float64, log zerolog.Logger) *Service {
	return &Service{
		source:    source,
		benchmark: benchmark,
		riskFree:  riskFreeRate,
		log:       log.With().Str("service", "riskstats").Logger(),
	}
}

// Compute fetches history for every portfolio ticker plus the benchmark and
// computes the full risk report. A ticker whose fetch fails is excluded and
// reported, not fatal; a failed benchmark fetch aborts the call.
func (s *Service) Compute(ctx context.Context, holdings []domain.Holding, lookbackDays int) (*Statistics, error) {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}

	tickers, _ := tickerAmounts(holdings)
	if len(tickers) == 0 {
		return nil, domain.ErrNoTickerData
	}

	benchmark, err := s.source.DailyCloses(ctx, s.benchmark, lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch benchmark history for %s: %w", s.benchmark, err)
	}

	history := make(map[string]*Series, len(tickers))
	for _, ticker := range tickers {
		series, err := s.source.DailyCloses(ctx, ticker, lookbackDays)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to fetch price history, excluding ticker")
			continue
		}
		history[ticker] = series
	}

	//nolint:gosec // G404: frontier sampling does not require crypto-grade randomness
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	stats, err := ComputeFromSeries(holdings, history, s.benchmark, benchmark, s.riskFree, lookbackDays, rng)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Int("tickers", len(stats.TickerStats)).
		Int("excluded", len(stats.ExcludedTickers)).
		Float64("portfolio_beta", stats.PortfolioBeta).
		Msg("Computed risk statistics")

	return stats, nil
}
