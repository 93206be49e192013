package advice

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
)

// Service generates portfolio advice and keeps a per-portfolio record of
// everything it produced.
type Service struct {
	gen     Generator
	history *HistoryRepository
	log     zerolog.Logger
}

func NewService(gen Generator, history *HistoryRepository, log zerolog.Logger) *Service {
	return &Service{
		gen:     gen,
		history: history,
		log:     log.With().Str("service", "advice").Logger(),
	}
}

// Advise generates advice for the request and records it under the
// portfolio. A generation failure degrades to the canned advice carrying the
// error, so the caller always gets an answer. Requests without a portfolio
// ID are served but not recorded.
func (s *Service) Advise(ctx context.Context, portfolioID string, req Request) (*Advice, error) {
	if req.RiskProfile == "" {
		req.RiskProfile = domain.DefaultRiskProfile
	}
	if req.Market == "" {
		req.Market = domain.MarketIndia
	}

	source := s.gen.Name()
	advice, err := s.gen.Generate(ctx, req)
	if err != nil {
		s.log.Error().Err(err).Str("generator", source).Msg("Advice generation failed")
		advice = UnavailableAdvice()
		advice.RiskWarning = fmt.Sprintf("Error: %s", err)
		source = "unavailable"
	}

	if portfolioID != "" {
		rec := &Record{PortfolioID: portfolioID, Source: source, Advice: *advice}
		if err := s.history.Save(rec); err != nil {
			s.log.Error().Err(err).Str("portfolio_id", portfolioID).Msg("Failed to record advice")
		}
	}

	return advice, nil
}

// History lists previously generated advice for a portfolio, newest first
func (s *Service) History(portfolioID string, limit int) ([]Record, error) {
	return s.history.List(portfolioID, limit)
}
