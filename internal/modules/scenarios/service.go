// Package scenarios projects a portfolio through a fixed set of
// probability-weighted macro scenarios and aggregates an expected value.
package scenarios

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/modules/portfolio"
)

// ScenarioDefinition fixes the annual return assumptions for one macro
// scenario. Probabilities are subjective weights; the run trusts the caller
// to hand in a set that sums to 1 and does not normalize.
type ScenarioDefinition struct {
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
	Probability float64                     `json:"probability"`
	Returns     map[domain.Category]float64 `json:"returns"`
}

// DefaultScenarios is the standard four-scenario set. Categories missing
// from a Returns map (Other, Bonds/Fixed Income) fall back to the Large Cap
// rate during the run.
var DefaultScenarios = []ScenarioDefinition{
	{
		Name:        "Base Case",
		Description: "Moderate growth, inflation around 2-3%, gradual interest rate changes.",
		Probability: 0.50,
		Returns: map[domain.Category]float64{
			domain.CategoryLargeCap:   0.08,
			domain.CategoryMidCap:     0.10,
			domain.CategorySmallCap:   0.12,
			domain.CategoryGold:       0.03,
			domain.CategoryETFsCrypto: 0.10,
		},
	},
	{
		Name:        "High Inflation",
		Description: "Elevated inflation (4-6%), aggressive interest rate hikes, pressure on growth stocks.",
		Probability: 0.20,
		Returns: map[domain.Category]float64{
			domain.CategoryLargeCap:   0.06,
			domain.CategoryMidCap:     0.07,
			domain.CategorySmallCap:   0.08,
			domain.CategoryGold:       0.10,
			domain.CategoryETFsCrypto: 0.05,
		},
	},
	{
		Name:        "Recession",
		Description: "Economic contraction, declining corporate profits, higher volatility.",
		Probability: 0.15,
		Returns: map[domain.Category]float64{
			domain.CategoryLargeCap:   -0.05,
			domain.CategoryMidCap:     -0.10,
			domain.CategorySmallCap:   -0.15,
			domain.CategoryGold:       0.08,
			domain.CategoryETFsCrypto: -0.20,
		},
	},
	{
		Name:        "Bull Market",
		Description: "Strong economic growth, low unemployment, favorable corporate conditions.",
		Probability: 0.15,
		Returns: map[domain.Category]float64{
			domain.CategoryLargeCap:   0.12,
			domain.CategoryMidCap:     0.15,
			domain.CategorySmallCap:   0.20,
			domain.CategoryGold:       0.01,
			domain.CategoryETFsCrypto: 0.25,
		},
	},
}

// ScenarioResult is one scenario played out over the horizon
type ScenarioResult struct {
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Probability    float64   `json:"probability"`
	WeightedReturn float64   `json:"weighted_return"`
	FinalValue     float64   `json:"final_value"`
	YearlyValues   []float64 `json:"yearly_values"`
}

// Analysis is the full scenario run: per-scenario outcomes, the
// probability-weighted expected value, and derived recommendations.
type Analysis struct {
	Scenarios       []ScenarioResult `json:"scenarios"`
	Recommendations []string         `json:"recommendations"`
	ExpectedValue   float64          `json:"expected_value"`
	InitialValue    float64          `json:"initial_value"`
	HorizonYears    int              `json:"horizon_years"`
}

// Service runs scenario projections
// DefaultHorizonYears is used when the caller does not choose a horizon
const DefaultHorizonYears = 5

type Service struct {
	log zerolog.Logger
}

// NewService creates a scenario service
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("service", "scenarios").Logger(),
	}
}

// Run plays the default scenario set against the portfolio
func (s *Service) Run(holdings []domain.Holding, horizonYears int) (*Analysis, error) {
	return s.RunWith(holdings, horizonYears, DefaultScenarios)
}

// RunWith plays an explicit scenario set against the portfolio. Results come
// out in the order the scenarios were given.
func (s *Service) RunWith(holdings []domain.Holding, horizonYears int, scenarios []ScenarioDefinition) (*Analysis, error) {
	if horizonYears <= 0 {
		return nil, &domain.InvalidInputError{Field: "horizon_years", Reason: "must be a positive number of years"}
	}

	summary, err := portfolio.Aggregate(holdings)
	if err != nil {
		return nil, err
	}

	results := make([]ScenarioResult, 0, len(scenarios))
	expectedValue := 0.0
	for _, sc := range scenarios {
		weightedReturn := 0.0
		for cat, weight := range summary.CategoryWeights {
			rate, ok := sc.Returns[cat]
			if !ok {
				rate = sc.Returns[domain.DefaultCategory]
			}
			weightedReturn += weight * rate
		}

		yearly := make([]float64, horizonYears+1)
		for year := 0; year <= horizonYears; year++ {
			yearly[year] = summary.TotalValue * math.Pow(1+weightedReturn, float64(year))
		}
		finalValue := yearly[horizonYears]
		expectedValue += finalValue * sc.Probability

		results = append(results, ScenarioResult{
			Name:           sc.Name,
			Description:    sc.Description,
			Probability:    sc.Probability,
			WeightedReturn: weightedReturn,
			FinalValue:     finalValue,
			YearlyValues:   yearly,
		})
	}

	analysis := &Analysis{
		Scenarios:       results,
		ExpectedValue:   expectedValue,
		InitialValue:    summary.TotalValue,
		HorizonYears:    horizonYears,
		Recommendations: recommendations(results, summary.TotalValue, expectedValue, horizonYears),
	}

	s.log.Debug().
		Int("scenarios", len(results)).
		Int("horizon_years", horizonYears).
		Float64("expected_value", expectedValue).
		Msg("Ran scenario analysis")

	return analysis, nil
}

// recommendations derives deterministic advice from the scenario outcomes
func recommendations(results []ScenarioResult, totalValue, expectedValue float64, horizonYears int) []string {
	recs := make([]string, 0, 4)

	var worst *ScenarioResult
	for i := range results {
		if worst == nil || results[i].FinalValue < worst.FinalValue {
			worst = &results[i]
		}
	}
	if worst != nil && totalValue-worst.FinalValue > 0.20*totalValue {
		recs = append(recs, fmt.Sprintf(
			"Your portfolio may be vulnerable to a %s scenario. Consider adding more defensive assets.", worst.Name))
	}

	if scenarioProbability(results, "Recession") > 0.10 {
		recs = append(recs,
			"Given the recession risk, consider increasing allocation to defensive sectors (utilities, consumer staples) and gold.")
	}
	if scenarioProbability(results, "High Inflation") > 0.10 {
		recs = append(recs,
			"With inflation risk present, consider adding TIPS, commodities, or real estate to protect purchasing power.")
	}

	annualized := math.Pow(expectedValue/totalValue, 1/float64(horizonYears)) - 1
	if annualized < 0.05 {
		recs = append(recs,
			"Your expected returns may be lower than traditional benchmarks. Consider reviewing your asset allocation.")
	}

	return recs
}

func scenarioProbability(results []ScenarioResult, name string) float64 {
	for _, r := range results {
		if r.Name == name {
			return r.Probability
		}
	}
	return 0
}
