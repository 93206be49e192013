// Package allocation holds the static lookup tables mapping risk profiles to
// target category weights, expected returns and volatility estimates.
package allocation

import (
	"github.com/niveshak/niveshak/internal/domain"
)

// Model performs pure lookups against the static allocation tables.
// An unrecognized risk profile falls back to the Medium row rather than
// erroring, matching the tolerant degradation of the UI.
type Model struct{}

// NewModel creates an allocation model
func NewModel() *Model {
	return &Model{}
}

// targetAllocations maps risk profile to recommended category weights in
// percent. Rows sum to 100; the model never renormalizes them.
var targetAllocations = map[domain.RiskProfile]map[domain.Category]float64{
	domain.RiskLow: {
		domain.CategoryLargeCap:   40,
		domain.CategoryMidCap:     25,
		domain.CategorySmallCap:   20,
		domain.CategoryGold:       10,
		domain.CategoryETFsCrypto: 5,
	},
	domain.RiskMedium: {
		domain.CategoryLargeCap:   30,
		domain.CategoryMidCap:     30,
		domain.CategorySmallCap:   25,
		domain.CategoryGold:       10,
		domain.CategoryETFsCrypto: 5,
	},
	domain.RiskHigh: {
		domain.CategoryLargeCap:   25,
		domain.CategoryMidCap:     25,
		domain.CategorySmallCap:   35,
		domain.CategoryETFsCrypto: 10,
		domain.CategoryGold:       5,
	},
}

// expectedReturns maps risk profile to expected annual return per category,
// as fractions (0.08 = 8%). Simplified estimates, not market forecasts.
var expectedReturns = map[domain.RiskProfile]map[domain.Category]float64{
	domain.RiskLow: {
		domain.CategoryLargeCap:   0.06,
		domain.CategoryMidCap:     0.08,
		domain.CategorySmallCap:   0.10,
		domain.CategoryGold:       0.04,
		domain.CategoryETFsCrypto: 0.07,
	},
	domain.RiskMedium: {
		domain.CategoryLargeCap:   0.08,
		domain.CategoryMidCap:     0.10,
		domain.CategorySmallCap:   0.13,
		domain.CategoryGold:       0.04,
		domain.CategoryETFsCrypto: 0.12,
	},
	domain.RiskHigh: {
		domain.CategoryLargeCap:   0.09,
		domain.CategoryMidCap:     0.12,
		domain.CategorySmallCap:   0.15,
		domain.CategoryGold:       0.04,
		domain.CategoryETFsCrypto: 0.18,
	},
}

// volatilityEstimates maps risk profile to annualized standard deviation per
// category, as fractions.
var volatilityEstimates = map[domain.RiskProfile]map[domain.Category]float64{
	domain.RiskLow: {
		domain.CategoryLargeCap:   0.10,
		domain.CategoryMidCap:     0.14,
		domain.CategorySmallCap:   0.18,
		domain.CategoryGold:       0.12,
		domain.CategoryETFsCrypto: 0.20,
	},
	domain.RiskMedium: {
		domain.CategoryLargeCap:   0.12,
		domain.CategoryMidCap:     0.16,
		domain.CategorySmallCap:   0.20,
		domain.CategoryGold:       0.12,
		domain.CategoryETFsCrypto: 0.25,
	},
	domain.RiskHigh: {
		domain.CategoryLargeCap:   0.15,
		domain.CategoryMidCap:     0.20,
		domain.CategorySmallCap:   0.25,
		domain.CategoryGold:       0.12,
		domain.CategoryETFsCrypto: 0.35,
	},
}

// TargetAllocation returns the recommended category weights in percent for the
// given risk profile. The returned map is a copy the caller may mutate.
func (m *Model) TargetAllocation(profile domain.RiskProfile) map[domain.Category]float64 {
	return lookupRow(targetAllocations, profile)
}

// ExpectedReturns returns expected annual return per category for the given
// risk profile. The returned map is a copy the caller may mutate.
func (m *Model) ExpectedReturns(profile domain.RiskProfile) map[domain.Category]float64 {
	return lookupRow(expectedReturns, profile)
}

// Volatility returns the annualized standard deviation per category for the
// given risk profile. The returned map is a copy the caller may mutate.
func (m *Model) Volatility(profile domain.RiskProfile) map[domain.Category]float64 {
	return lookupRow(volatilityEstimates, profile)
}

// lookupRow selects the profile's row, falling back to the Medium row for
// unknown profiles, and copies it so table state can never be mutated.
func lookupRow(table map[domain.RiskProfile]map[domain.Category]float64, profile domain.RiskProfile) map[domain.Category]float64 {
	row, ok := table[profile]
	if !ok {
		row = table[domain.DefaultRiskProfile]
	}

	out := make(map[domain.Category]float64, len(row))
	for cat, v := range row {
		out[cat] = v
	}
	return out
}
