package rebalancing

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/modules/allocation"
)

func newTestService() *Service {
	return NewService(allocation.NewModel(), zerolog.New(nil).Level(zerolog.Disabled))
}

func TestRecommend_MediumProfile(t *testing.T) {
	svc := newTestService()

	holdings := []domain.Holding{
		{Name: "Nifty Fund", Category: domain.CategoryLargeCap, Amount: 6000},
		{Name: "Midcap Fund", Category: domain.CategoryMidCap, Amount: 3000},
		{Name: "Smallcap Fund", Category: domain.CategorySmallCap, Amount: 1000},
	}

	rec, err := svc.Recommend(holdings, domain.RiskMedium)
	require.NoError(t, err)

	assert.InDelta(t, 10000, rec.TotalInvestment, 1e-9)

	// Allocation snapshots cover every target category, in percent
	assert.InDelta(t, 60, rec.CurrentAllocation[domain.CategoryLargeCap], 1e-9)
	assert.InDelta(t, 30, rec.CurrentAllocation[domain.CategoryMidCap], 1e-9)
	assert.InDelta(t, 0, rec.CurrentAllocation[domain.CategoryGold], 1e-9)
	assert.InDelta(t, 30, rec.TargetAllocation[domain.CategoryLargeCap], 1e-9)
	assert.InDelta(t, 10, rec.TargetAllocation[domain.CategoryGold], 1e-9)

	// Mid Cap sits exactly on target; the other four categories need moves,
	// reported in display order.
	require.Len(t, rec.Actions, 4)

	lc := rec.Actions[0]
	assert.Equal(t, domain.CategoryLargeCap, lc.Category)
	assert.Equal(t, ActionDecrease, lc.Action)
	assert.InDelta(t, 6000, lc.CurrentAmount, 1e-6)
	assert.InDelta(t, 3000, lc.TargetAmount, 1e-6)
	assert.InDelta(t, -3000, lc.Difference, 1e-6)
	assert.Equal(t, "Decrease by $3,000.00 to reach target allocation of 30%", lc.Message)

	sc := rec.Actions[1]
	assert.Equal(t, domain.CategorySmallCap, sc.Category)
	assert.Equal(t, ActionIncrease, sc.Action)
	assert.InDelta(t, 1500, sc.Difference, 1e-6)
	assert.Equal(t, "Increase by $1,500.00 to reach target allocation of 25%", sc.Message)

	gold := rec.Actions[2]
	assert.Equal(t, domain.CategoryGold, gold.Category)
	assert.Equal(t, ActionIncrease, gold.Action)
	assert.InDelta(t, 0, gold.CurrentAmount, 1e-9)
	assert.Equal(t, "Increase by $1,000.00 to reach target allocation of 10%", gold.Message)

	crypto := rec.Actions[3]
	assert.Equal(t, domain.CategoryETFsCrypto, crypto.Category)
	assert.Equal(t, "Increase by $500.00 to reach target allocation of 5%", crypto.Message)
}

func TestRecommend_WithinDeadBand(t *testing.T) {
	svc := newTestService()

	// Each deviation is exactly 1% of total value, which is not enough to act on
	holdings := []domain.Holding{
		{Name: "LC", Category: domain.CategoryLargeCap, Amount: 3100},
		{Name: "MC", Category: domain.CategoryMidCap, Amount: 3000},
		{Name: "SC", Category: domain.CategorySmallCap, Amount: 2400},
		{Name: "Gold", Category: domain.CategoryGold, Amount: 1000},
		{Name: "Crypto", Category: domain.CategoryETFsCrypto, Amount: 500},
	}

	rec, err := svc.Recommend(holdings, domain.RiskMedium)
	require.NoError(t, err)
	assert.Empty(t, rec.Actions)
	assert.InDelta(t, 10000, rec.TotalInvestment, 1e-9)
}

func TestRecommend_DifferenceIsExactDelta(t *testing.T) {
	svc := newTestService()

	holdings := []domain.Holding{
		{Name: "A", Category: domain.CategoryLargeCap, Amount: 7321.55},
		{Name: "B", Category: domain.CategoryMidCap, Amount: 1234.10},
		{Name: "C", Category: domain.CategoryGold, Amount: 444.35},
	}

	rec, err := svc.Recommend(holdings, domain.RiskHigh)
	require.NoError(t, err)
	require.NotEmpty(t, rec.Actions)

	for _, a := range rec.Actions {
		assert.Equal(t, a.TargetAmount-a.CurrentAmount, a.Difference, "category %s", a.Category)
		if a.Difference > 0 {
			assert.Equal(t, ActionIncrease, a.Action)
		} else {
			assert.Equal(t, ActionDecrease, a.Action)
		}
	}
}

func TestRecommend_EmptyPortfolio(t *testing.T) {
	svc := newTestService()

	_, err := svc.Recommend(nil, domain.RiskMedium)
	assert.ErrorIs(t, err, domain.ErrEmptyPortfolio)
}

func TestRecommend_UnknownProfileFallsBackToMedium(t *testing.T) {
	svc := newTestService()

	holdings := []domain.Holding{
		{Name: "All In", Category: domain.CategoryLargeCap, Amount: 10000},
	}

	rec, err := svc.Recommend(holdings, domain.RiskProfile("Unheard Of"))
	require.NoError(t, err)

	// Medium target: Large Cap should come down from 100% to 30%
	require.NotEmpty(t, rec.Actions)
	assert.Equal(t, domain.CategoryLargeCap, rec.Actions[0].Category)
	assert.Equal(t, ActionDecrease, rec.Actions[0].Action)
	assert.InDelta(t, -7000, rec.Actions[0].Difference, 1e-6)
}
