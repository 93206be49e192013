package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshak/niveshak/internal/domain"
)

func TestTargetAllocationRows(t *testing.T) {
	model := NewModel()

	tests := []struct {
		name     string
		profile  domain.RiskProfile
		expected map[domain.Category]float64
	}{
		{
			name:    "low risk",
			profile: domain.RiskLow,
			expected: map[domain.Category]float64{
				domain.CategoryLargeCap:   40,
				domain.CategoryMidCap:     25,
				domain.CategorySmallCap:   20,
				domain.CategoryGold:       10,
				domain.CategoryETFsCrypto: 5,
			},
		},
		{
			name:    "medium risk",
			profile: domain.RiskMedium,
			expected: map[domain.Category]float64{
				domain.CategoryLargeCap:   30,
				domain.CategoryMidCap:     30,
				domain.CategorySmallCap:   25,
				domain.CategoryGold:       10,
				domain.CategoryETFsCrypto: 5,
			},
		},
		{
			name:    "high risk",
			profile: domain.RiskHigh,
			expected: map[domain.Category]float64{
				domain.CategoryLargeCap:   25,
				domain.CategoryMidCap:     25,
				domain.CategorySmallCap:   35,
				domain.CategoryETFsCrypto: 10,
				domain.CategoryGold:       5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, model.TargetAllocation(tt.profile))
		})
	}
}

func TestTargetAllocationRowsSumToHundred(t *testing.T) {
	model := NewModel()

	for _, profile := range []domain.RiskProfile{domain.RiskLow, domain.RiskMedium, domain.RiskHigh} {
		sum := 0.0
		for _, pct := range model.TargetAllocation(profile) {
			sum += pct
		}
		assert.InDelta(t, 100.0, sum, 1e-9, "profile %s", profile)
	}
}

func TestUnknownProfileFallsBackToMedium(t *testing.T) {
	model := NewModel()

	medium := model.TargetAllocation(domain.RiskMedium)
	unknown := model.TargetAllocation(domain.RiskProfile("Cowboy"))
	assert.Equal(t, medium, unknown)

	assert.Equal(t, model.ExpectedReturns(domain.RiskMedium), model.ExpectedReturns(""))
	assert.Equal(t, model.Volatility(domain.RiskMedium), model.Volatility(""))
}

func TestExpectedReturnsMediumRow(t *testing.T) {
	model := NewModel()

	returns := model.ExpectedReturns(domain.RiskMedium)
	assert.InDelta(t, 0.08, returns[domain.CategoryLargeCap], 1e-12)
	assert.InDelta(t, 0.10, returns[domain.CategoryMidCap], 1e-12)
	assert.InDelta(t, 0.13, returns[domain.CategorySmallCap], 1e-12)
	assert.InDelta(t, 0.04, returns[domain.CategoryGold], 1e-12)
	assert.InDelta(t, 0.12, returns[domain.CategoryETFsCrypto], 1e-12)
}

func TestVolatilityHighRow(t *testing.T) {
	model := NewModel()

	vol := model.Volatility(domain.RiskHigh)
	assert.InDelta(t, 0.15, vol[domain.CategoryLargeCap], 1e-12)
	assert.InDelta(t, 0.20, vol[domain.CategoryMidCap], 1e-12)
	assert.InDelta(t, 0.25, vol[domain.CategorySmallCap], 1e-12)
	assert.InDelta(t, 0.12, vol[domain.CategoryGold], 1e-12)
	assert.InDelta(t, 0.35, vol[domain.CategoryETFsCrypto], 1e-12)
}

func TestReturnedMapsAreCopies(t *testing.T) {
	model := NewModel()

	row := model.TargetAllocation(domain.RiskLow)
	row[domain.CategoryLargeCap] = 99

	fresh := model.TargetAllocation(domain.RiskLow)
	require.InDelta(t, 40.0, fresh[domain.CategoryLargeCap], 1e-12)
}

func TestEveryProfileCoversSameCategories(t *testing.T) {
	model := NewModel()

	for _, profile := range []domain.RiskProfile{domain.RiskLow, domain.RiskMedium, domain.RiskHigh} {
		targets := model.TargetAllocation(profile)
		returns := model.ExpectedReturns(profile)
		vol := model.Volatility(profile)

		require.Len(t, returns, len(targets), "profile %s", profile)
		require.Len(t, vol, len(targets), "profile %s", profile)
		for cat := range targets {
			_, hasReturn := returns[cat]
			_, hasVol := vol[cat]
			assert.True(t, hasReturn, "profile %s missing return for %s", profile, cat)
			assert.True(t, hasVol, "profile %s missing volatility for %s", profile, cat)
		}
	}
}
