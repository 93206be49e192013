package goals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/niveshak/niveshak/internal/domain"
)

func TestBandFor(t *testing.T) {
	assert.Equal(t, bandShort, bandFor(1))
	assert.Equal(t, bandShort, bandFor(4))
	assert.Equal(t, bandMedium, bandFor(5))
	assert.Equal(t, bandMedium, bandFor(14))
	assert.Equal(t, bandLong, bandFor(15))
	assert.Equal(t, bandLong, bandFor(40))
}

func TestRecommendedAllocation_ShortConservative(t *testing.T) {
	alloc := RecommendedAllocation(domain.RiskLow, 3)

	assert.Equal(t, 30.0, alloc[domain.CategoryLargeCap])
	assert.Equal(t, 15.0, alloc[domain.CategoryGold])
	assert.Equal(t, 30.0, alloc[domain.CategoryBondsFixedIncome])
}

func TestRecommendedAllocation_LongAggressive(t *testing.T) {
	alloc := RecommendedAllocation(domain.RiskHigh, 20)

	assert.Equal(t, 35.0, alloc[domain.CategorySmallCap])
	assert.Equal(t, 15.0, alloc[domain.CategoryETFsCrypto])

	// Zero weights stay present so every category renders.
	gold, ok := alloc[domain.CategoryGold]
	assert.True(t, ok)
	assert.Equal(t, 0.0, gold)
	assert.Equal(t, 0.0, alloc[domain.CategoryBondsFixedIncome])
}

func TestRecommendedAllocation_UnknownRiskTakesHighRow(t *testing.T) {
	unknown := RecommendedAllocation(domain.RiskProfile("Aggressive"), 10)
	high := RecommendedAllocation(domain.RiskHigh, 10)

	assert.Equal(t, high, unknown)
}

func TestRecommendedAllocation_RowsSumTo100(t *testing.T) {
	for band, rows := range goalAllocations {
		for risk, row := range rows {
			var sum float64
			for _, pct := range row {
				sum += pct
			}
			assert.Equalf(t, 100.0, sum, "band %d risk %s", band, risk)
		}
	}
}

func TestRecommendedAllocation_ReturnsCopy(t *testing.T) {
	alloc := RecommendedAllocation(domain.RiskMedium, 10)
	alloc[domain.CategoryLargeCap] = 99

	again := RecommendedAllocation(domain.RiskMedium, 10)
	assert.Equal(t, 35.0, again[domain.CategoryLargeCap])
}
