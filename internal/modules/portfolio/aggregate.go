// Package portfolio reduces raw holdings into per-category totals and
// weights, and derives allocation insights against a risk-profile target.
package portfolio

import (
	"github.com/niveshak/niveshak/internal/domain"
)

// Summary is the normalized view of a portfolio snapshot. Weights are
// fractions of TotalValue and sum to 1 within floating point tolerance.
type Summary struct {
	CategoryTotals  map[domain.Category]float64 `json:"category_totals"`
	CategoryWeights map[domain.Category]float64 `json:"category_weights"`
	TotalValue      float64                     `json:"total_value"`
}

// Aggregate reduces holdings into per-category totals and weights. A zero or
// negative amount is a caller error and is rejected outright, since it would
// silently skew every weight derived from the total.
func Aggregate(holdings []domain.Holding) (*Summary, error) {
	if len(holdings) == 0 {
		return nil, domain.ErrEmptyPortfolio
	}

	totals := make(map[domain.Category]float64)
	total := 0.0
	for i, h := range holdings {
		if h.Amount <= 0 {
			return nil, &domain.InvalidHoldingError{
				Name:   h.Name,
				Index:  i,
				Reason: "amount must be positive",
			}
		}
		totals[h.Category] += h.Amount
		total += h.Amount
	}

	weights := make(map[domain.Category]float64, len(totals))
	for cat, amount := range totals {
		weights[cat] = amount / total
	}

	return &Summary{
		TotalValue:      total,
		CategoryTotals:  totals,
		CategoryWeights: weights,
	}, nil
}

// concentrationCeilings is the maximum share a single holding may take of the
// total value before it is flagged, in percent.
var concentrationCeilings = map[domain.RiskProfile]float64{
	domain.RiskLow:    10,
	domain.RiskMedium: 15,
	domain.RiskHigh:   20,
}

// ConcentrationCeiling returns the single-position ceiling in percent,
// defaulting to the Medium ceiling for unknown profiles.
func ConcentrationCeiling(profile domain.RiskProfile) float64 {
	if ceiling, ok := concentrationCeilings[profile]; ok {
		return ceiling
	}
	return concentrationCeilings[domain.DefaultRiskProfile]
}

// sortedCategories returns the categories present in m in display order, so
// derived insight lists are deterministic.
func sortedCategories(m map[domain.Category]float64) []domain.Category {
	out := make([]domain.Category, 0, len(m))
	for _, cat := range domain.KnownCategories {
		if _, ok := m[cat]; ok {
			out = append(out, cat)
		}
	}
	return out
}
