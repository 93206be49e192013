// Package projection produces deterministic growth bands for a portfolio
// over a multi-year horizon.
package projection

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/modules/allocation"
	"github.com/niveshak/niveshak/internal/modules/portfolio"
)

// DefaultHorizonYears is used when the caller does not choose a horizon
const DefaultHorizonYears = 5

// Snapshot is the projection sampled at a whole-year mark
type Snapshot struct {
	Year        int     `json:"year"`
	Expected    float64 `json:"expected"`
	Pessimistic float64 `json:"pessimistic"`
	Optimistic  float64 `json:"optimistic"`
}

// Projection is a monthly three-band growth series. The slices are parallel:
// Months[i] is the grid position in months since today for Expected[i],
// Pessimistic[i] and Optimistic[i].
type Projection struct {
	Months             []int      `json:"months"`
	Expected           []float64  `json:"expected"`
	Pessimistic        []float64  `json:"pessimistic"`
	Optimistic         []float64  `json:"optimistic"`
	Snapshots          []Snapshot `json:"snapshots"`
	WeightedReturn     float64    `json:"weighted_return"`
	WeightedVolatility float64    `json:"weighted_volatility"`
	InitialValue       float64    `json:"initial_value"`
	HorizonYears       int        `json:"horizon_years"`
}

// Service projects portfolio growth from the allocation model's per-category
// return and volatility assumptions.
type Service struct {
	model *allocation.Model
	log   zerolog.Logger
}

// NewService creates a projection service
func NewService(model *allocation.Model, log zerolog.Logger) *Service {
	return &Service{
		model: model,
		log:   log.With().Str("service", "projection").Logger(),
	}
}

// Project compounds the portfolio value month by month over the horizon.
// The expected band grows at the weighted annual return; the pessimistic and
// optimistic bands shift that rate down and up by the weighted volatility.
//
// Both weighted scalars are linear blends over the categories present in the
// lookup tables. Categories without table entries contribute nothing, and the
// volatility blend ignores cross-category correlation, so it overstates
// diversification benefit. The risk statistics use a covariance matrix
// instead; the two figures are different approximations and will not agree.
func (s *Service) Project(holdings []domain.Holding, profile domain.RiskProfile, horizonYears int) (*Projection, error) {
	if horizonYears <= 0 {
		return nil, &domain.InvalidInputError{Field: "horizon_years", Reason: "must be a positive number of years"}
	}

	summary, err := portfolio.Aggregate(holdings)
	if err != nil {
		return nil, err
	}

	returns := s.model.ExpectedReturns(profile)
	volatility := s.model.Volatility(profile)

	weightedReturn := 0.0
	weightedVolatility := 0.0
	for cat, weight := range summary.CategoryWeights {
		if r, ok := returns[cat]; ok {
			weightedReturn += weight * r
		}
		if v, ok := volatility[cat]; ok {
			weightedVolatility += weight * v
		}
	}

	expectedBase := 1 + weightedReturn
	pessimisticBase := 1 + weightedReturn - weightedVolatility
	optimisticBase := 1 + weightedReturn + weightedVolatility
	if pessimisticBase < 0 {
		pessimisticBase = 0
	}

	points := horizonYears*12 + 1
	p := &Projection{
		Months:             make([]int, points),
		Expected:           make([]float64, points),
		Pessimistic:        make([]float64, points),
		Optimistic:         make([]float64, points),
		WeightedReturn:     weightedReturn,
		WeightedVolatility: weightedVolatility,
		InitialValue:       summary.TotalValue,
		HorizonYears:       horizonYears,
	}

	for month := 0; month < points; month++ {
		t := float64(month) / 12
		p.Months[month] = month
		p.Expected[month] = summary.TotalValue * math.Pow(expectedBase, t)
		p.Pessimistic[month] = math.Max(0, summary.TotalValue*math.Pow(pessimisticBase, t))
		p.Optimistic[month] = summary.TotalValue * math.Pow(optimisticBase, t)
	}

	for _, year := range []int{1, 3, 5} {
		if year > horizonYears {
			continue
		}
		idx := year * 12
		p.Snapshots = append(p.Snapshots, Snapshot{
			Year:        year,
			Expected:    p.Expected[idx],
			Pessimistic: p.Pessimistic[idx],
			Optimistic:  p.Optimistic[idx],
		})
	}

	s.log.Debug().
		Str("risk_profile", string(profile)).
		Int("horizon_years", horizonYears).
		Float64("weighted_return", weightedReturn).
		Float64("weighted_volatility", weightedVolatility).
		Msg("Projected portfolio performance")

	return p, nil
}
