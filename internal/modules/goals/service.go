// Package goals manages financial goals and turns them into investment
// plans: a horizon-and-risk keyed allocation, the monthly contribution
// needed to close the gap, and progress toward the target.
package goals

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
)

// Service owns goal persistence and planning
type Service struct {
	repo *Repository
	log  zerolog.Logger
}

// NewService creates a goals service
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "goals").Logger(),
	}
}

// CreateInput carries the caller-supplied fields for a new goal
type CreateInput struct {
	Name          string
	Description   string
	RiskLevel     domain.RiskProfile
	TargetAmount  float64
	TimelineYears int
}

// Create validates and stores a new goal. The saved amount always starts at
// zero; progress updates raise it later.
func (s *Service) Create(userID string, in CreateInput) (*domain.Goal, error) {
	if userID == "" {
		return nil, &domain.InvalidInputError{Field: "user_id", Reason: "is required"}
	}
	if in.Name == "" {
		return nil, &domain.InvalidInputError{Field: "name", Reason: "is required"}
	}
	if in.TargetAmount <= 0 {
		return nil, &domain.InvalidInputError{Field: "target_amount", Reason: "must be positive"}
	}
	if in.TimelineYears < 1 {
		return nil, &domain.InvalidInputError{Field: "timeline_years", Reason: "must be at least 1"}
	}
	risk := in.RiskLevel
	if risk == "" {
		risk = domain.DefaultRiskProfile
	}

	g := &domain.Goal{
		UserID:        userID,
		Name:          in.Name,
		Description:   in.Description,
		TargetAmount:  in.TargetAmount,
		TimelineYears: in.TimelineYears,
		RiskLevel:     risk,
	}
	if err := s.repo.Create(g); err != nil {
		return nil, err
	}
	return g, nil
}

// List returns the user's active goals
func (s *Service) List(userID string) ([]domain.Goal, error) {
	return s.repo.ListForUser(userID)
}

// Get fetches a goal by ID. Returns nil if not found.
func (s *Service) Get(id string) (*domain.Goal, error) {
	return s.repo.Get(id)
}

// UpdateProgress records the amount saved so far toward a goal
func (s *Service) UpdateProgress(id string, currentAmount float64) error {
	if currentAmount < 0 {
		return &domain.InvalidInputError{Field: "current_amount", Reason: "cannot be negative"}
	}
	return s.repo.UpdateProgress(id, currentAmount)
}

// UpdateRiskLevel changes the risk level a goal is planned with
func (s *Service) UpdateRiskLevel(id string, risk domain.RiskProfile) error {
	if risk == "" {
		return &domain.InvalidInputError{Field: "risk_level", Reason: "is required"}
	}
	return s.repo.UpdateRiskLevel(id, risk)
}

// Delete marks a goal inactive
func (s *Service) Delete(id string) error {
	return s.repo.Delete(id)
}

// Plan computes the investment plan for a goal: the recommended allocation
// for its horizon and risk, the monthly contribution needed, and progress so
// far. A positive monthlyCapacity adds a feasibility note when the needed
// contribution exceeds it. The goal itself is not persisted, so callers can
// plan for hypothetical goals as well as stored ones.
func (s *Service) Plan(g *domain.Goal, monthlyCapacity float64) (*Plan, error) {
	if g.TargetAmount <= 0 {
		return nil, &domain.InvalidInputError{Field: "target_amount", Reason: "must be positive"}
	}
	if g.TimelineYears < 1 {
		return nil, &domain.InvalidInputError{Field: "timeline_years", Reason: "must be at least 1"}
	}

	rate := ExpectedReturnRate(g.RiskLevel)
	plan := &Plan{
		Allocation:      RecommendedAllocation(g.RiskLevel, g.TimelineYears),
		ExpectedReturn:  rate,
		MonthlyNeeded:   MonthlyInvestmentNeeded(g.TargetAmount, g.CurrentAmount, g.TimelineYears, rate),
		ProgressPercent: ProgressPercent(g.CurrentAmount, g.TargetAmount),
	}
	if monthlyCapacity > 0 && plan.MonthlyNeeded > monthlyCapacity {
		plan.Note = fmt.Sprintf(
			"Reaching this goal takes $%s per month, above the stated capacity of $%s. Consider a longer timeline or a lower target.",
			humanize.FormatFloat("#,###.##", plan.MonthlyNeeded),
			humanize.FormatFloat("#,###.##", monthlyCapacity))
	}

	s.log.Debug().
		Str("risk_level", string(g.RiskLevel)).
		Int("timeline_years", g.TimelineYears).
		Float64("monthly_needed", plan.MonthlyNeeded).
		Msg("Computed goal plan")
	return plan, nil
}

// PlanStored loads a goal by ID and plans for it
func (s *Service) PlanStored(id string, monthlyCapacity float64) (*Plan, error) {
	g, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, domain.ErrNotFound
	}
	return s.Plan(g, monthlyCapacity)
}
