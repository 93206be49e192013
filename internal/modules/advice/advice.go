// Package advice turns a portfolio snapshot into structured investment
// advice: an assessment, specific recommendations, a long-term strategy,
// and one risk warning. Generation is pluggable; the shipped implementations
// are a Gemini-backed generator and a deterministic rule-based one used when
// no API key is configured.
package advice

import (
	"context"

	"github.com/niveshak/niveshak/internal/domain"
)

// Advice is the structured recommendation set returned to the user
type Advice struct {
	Assessment       string   `json:"assessment"`
	Recommendations  []string `json:"specific_recommendations"`
	LongTermStrategy string   `json:"long_term_strategy"`
	RiskWarning      string   `json:"risk_warning"`
}

// Request carries everything a generator needs to reason about a portfolio.
// Goals are optional context.
type Request struct {
	Holdings    []domain.Holding
	Goals       []domain.Goal
	RiskProfile domain.RiskProfile
	Market      domain.Market
}

// Generator produces advice for a portfolio snapshot. Name identifies the
// generator in persisted history.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Advice, error)
	Name() string
}

// UnavailableAdvice is the canned response served when generation fails
func UnavailableAdvice() *Advice {
	return &Advice{
		Assessment:       "Unable to provide AI assessment at this time.",
		Recommendations:  []string{},
		LongTermStrategy: "Please try again later.",
		RiskWarning:      "AI recommendation service temporarily unavailable.",
	}
}
