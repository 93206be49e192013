package portfolio

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/modules/allocation"
)

// Insight severity levels, least to most severe
const (
	InsightSuccess = "success"
	InsightInfo    = "info"
	InsightWarning = "warning"
)

// Insight is a single allocation observation for UI consumption
type Insight struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Analysis holds current-vs-target allocation and the derived insights.
// Allocation maps are percentages of total value.
type Analysis struct {
	CurrentAllocation map[domain.Category]float64 `json:"current_allocation"`
	TargetAllocation  map[domain.Category]float64 `json:"target_allocation"`
	Insights          []Insight                   `json:"insights"`
	TotalValue        float64                     `json:"total_value"`
}

// Service analyzes portfolio snapshots against risk-profile targets
type Service struct {
	model *allocation.Model
	log   zerolog.Logger
}

// NewService creates a portfolio analysis service
func NewService(model *allocation.Model, log zerolog.Logger) *Service {
	return &Service{
		model: model,
		log:   log.With().Str("service", "portfolio").Logger(),
	}
}

// Analyze compares the current allocation against the profile target and
// emits insight messages. An empty portfolio is not an error here; it yields
// the target allocation plus a prompt to add investments.
func (s *Service) Analyze(holdings []domain.Holding, profile domain.RiskProfile) (*Analysis, error) {
	target := s.model.TargetAllocation(profile)

	if len(holdings) == 0 {
		return &Analysis{
			CurrentAllocation: map[domain.Category]float64{},
			TargetAllocation:  target,
			Insights: []Insight{
				{Type: InsightInfo, Message: "Add investments to analyze your portfolio."},
			},
		}, nil
	}

	summary, err := Aggregate(holdings)
	if err != nil {
		return nil, err
	}

	current := make(map[domain.Category]float64, len(summary.CategoryWeights))
	for cat, w := range summary.CategoryWeights {
		current[cat] = w * 100
	}

	insights := make([]Insight, 0, len(target))

	// Compare against every target category in display order
	for _, cat := range sortedCategories(target) {
		targetPct := target[cat]
		currentPct, held := current[cat]

		switch {
		case !held:
			insights = append(insights, Insight{
				Type:    InsightWarning,
				Message: fmt.Sprintf("You have no investments in %s, which should be %g%% of your portfolio.", cat, targetPct),
			})
		case math.Abs(currentPct-targetPct) > 10:
			insights = append(insights, Insight{
				Type:    InsightWarning,
				Message: fmt.Sprintf("Your %s allocation (%.1f%%) is significantly %s than the recommended %g%%.", cat, currentPct, direction(currentPct, targetPct), targetPct),
			})
		case math.Abs(currentPct-targetPct) > 5:
			insights = append(insights, Insight{
				Type:    InsightInfo,
				Message: fmt.Sprintf("Your %s allocation (%.1f%%) is slightly %s than the recommended %g%%.", cat, currentPct, direction(currentPct, targetPct), targetPct),
			})
		}
	}

	// Flag holdings that breach the single-position concentration ceiling
	ceiling := ConcentrationCeiling(profile)
	for _, h := range holdings {
		pct := h.Amount / summary.TotalValue * 100
		if pct > ceiling {
			insights = append(insights, Insight{
				Type:    InsightWarning,
				Message: fmt.Sprintf("%s represents %.1f%% of your portfolio, which exceeds the %g%% recommended maximum for a %s risk profile.", h.Name, pct, ceiling, profile),
			})
		}
	}

	// Callers always receive at least one insight
	if len(insights) == 0 {
		insights = append(insights, Insight{
			Type:    InsightSuccess,
			Message: "Your portfolio is well-balanced according to your risk profile.",
		})
	}

	s.log.Debug().
		Str("risk_profile", string(profile)).
		Float64("total_value", summary.TotalValue).
		Int("insights", len(insights)).
		Msg("Analyzed portfolio")

	return &Analysis{
		CurrentAllocation: current,
		TargetAllocation:  target,
		Insights:          insights,
		TotalValue:        summary.TotalValue,
	}, nil
}

func direction(current, target float64) string {
	if current > target {
		return "higher"
	}
	return "lower"
}
