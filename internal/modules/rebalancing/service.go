// Package rebalancing diffs a portfolio's current allocation against its
// risk-profile target and emits corrective actions in dollar terms.
package rebalancing

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/modules/allocation"
	"github.com/niveshak/niveshak/internal/modules/portfolio"
)

// Rebalancing action types
const (
	ActionIncrease = "increase"
	ActionDecrease = "decrease"
)

// rebalanceThreshold is the dead band around the target: differences within
// 1% of total portfolio value are not worth acting on.
const rebalanceThreshold = 0.01

// Action is one corrective step toward the target allocation. Difference is
// signed: positive means money should move into the category.
type Action struct {
	Category      domain.Category `json:"category"`
	Action        string          `json:"action"`
	CurrentAmount float64         `json:"current_amount"`
	TargetAmount  float64         `json:"target_amount"`
	Difference    float64         `json:"difference"`
	Message       string          `json:"message"`
}

// Recommendation is the full set of actions for one portfolio snapshot.
// Allocation maps are percentages over the target's categories, kept so the
// recommendation can be stored and replayed without the holdings.
type Recommendation struct {
	CurrentAllocation map[domain.Category]float64 `json:"current_allocation"`
	TargetAllocation  map[domain.Category]float64 `json:"target_allocation"`
	Actions           []Action                    `json:"actions"`
	TotalInvestment   float64                     `json:"total_investment"`
}

// Service computes rebalancing recommendations
type Service struct {
	model *allocation.Model
	log   zerolog.Logger
}

// NewService creates a rebalancing service
func NewService(model *allocation.Model, log zerolog.Logger) *Service {
	return &Service{
		model: model,
		log:   log.With().Str("service", "rebalancing").Logger(),
	}
}

// Recommend walks every category in the target allocation and emits an
// increase or decrease action wherever the portfolio deviates by more than
// the dead band. Actions come out in category display order.
func (s *Service) Recommend(holdings []domain.Holding, profile domain.RiskProfile) (*Recommendation, error) {
	summary, err := portfolio.Aggregate(holdings)
	if err != nil {
		return nil, err
	}

	target := s.model.TargetAllocation(profile)
	threshold := summary.TotalValue * rebalanceThreshold

	current := make(map[domain.Category]float64, len(target))
	actions := make([]Action, 0, len(target))
	for _, cat := range domain.KnownCategories {
		targetPct, ok := target[cat]
		if !ok {
			continue
		}

		currentPct := summary.CategoryWeights[cat] * 100
		current[cat] = currentPct
		currentAmount := summary.TotalValue * (currentPct / 100)
		targetAmount := summary.TotalValue * (targetPct / 100)
		difference := targetAmount - currentAmount

		if math.Abs(difference) <= threshold {
			continue
		}

		action := Action{
			Category:      cat,
			CurrentAmount: currentAmount,
			TargetAmount:  targetAmount,
			Difference:    difference,
		}
		if difference > 0 {
			action.Action = ActionIncrease
			action.Message = fmt.Sprintf("Increase by $%s to reach target allocation of %g%%",
				humanize.FormatFloat("#,###.##", difference), targetPct)
		} else {
			action.Action = ActionDecrease
			action.Message = fmt.Sprintf("Decrease by $%s to reach target allocation of %g%%",
				humanize.FormatFloat("#,###.##", math.Abs(difference)), targetPct)
		}
		actions = append(actions, action)
	}

	s.log.Debug().
		Str("risk_profile", string(profile)).
		Float64("total_value", summary.TotalValue).
		Int("actions", len(actions)).
		Msg("Computed rebalancing recommendation")

	return &Recommendation{
		CurrentAllocation: current,
		TargetAllocation:  target,
		Actions:           actions,
		TotalInvestment:   summary.TotalValue,
	}, nil
}
