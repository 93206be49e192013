package portfolio

import (
	"strings"
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

func holding(name string, cat domain.Category, amount float64) domain.Holding {
	return domain.Holding{Name: name, Category: cat, Amount: amount}
}

func insightMessages(a *Analysis) []string {
	msgs := make([]string, 0, len(a.Insights))
	for _, in := range a.Insights {
		msgs = append(msgs, in.Message)
	}
	return msgs
}

func TestAnalyze_EmptyPortfolio(t *testing.T) {
	svc := newTestService()

	analysis, err := svc.Analyze(nil, domain.RiskMedium)
	require.NoError(t, err)

	require.Len(t, analysis.Insights, 1)
	assert.Equal(t, InsightInfo, analysis.Insights[0].Type)
	assert.Equal(t, "Add investments to analyze your portfolio.", analysis.Insights[0].Message)

	// Target allocation is still reported so the UI can render it
	assert.InDelta(t, 30, analysis.TargetAllocation[domain.CategoryLargeCap], 1e-9)
	assert.Empty(t, analysis.CurrentAllocation)
	assert.Zero(t, analysis.TotalValue)
}

func TestAnalyze_WellBalanced(t *testing.T) {
	svc := newTestService()

	// Matches the Medium target exactly, no single position above 15%
	holdings := []domain.Holding{
		holding("LC 1", domain.CategoryLargeCap, 1000),
		holding("LC 2", domain.CategoryLargeCap, 1000),
		holding("LC 3", domain.CategoryLargeCap, 1000),
		holding("MC 1", domain.CategoryMidCap, 1000),
		holding("MC 2", domain.CategoryMidCap, 1000),
		holding("MC 3", domain.CategoryMidCap, 1000),
		holding("SC 1", domain.CategorySmallCap, 1000),
		holding("SC 2", domain.CategorySmallCap, 1000),
		holding("SC 3", domain.CategorySmallCap, 500),
		holding("Gold ETF", domain.CategoryGold, 1000),
		holding("Crypto", domain.CategoryETFsCrypto, 500),
	}

	analysis, err := svc.Analyze(holdings, domain.RiskMedium)
	require.NoError(t, err)

	require.Len(t, analysis.Insights, 1)
	assert.Equal(t, InsightSuccess, analysis.Insights[0].Type)
	assert.Equal(t, "Your portfolio is well-balanced according to your risk profile.", analysis.Insights[0].Message)
	assert.InDelta(t, 10000, analysis.TotalValue, 1e-9)
	assert.InDelta(t, 30, analysis.CurrentAllocation[domain.CategoryLargeCap], 1e-9)
}

func TestAnalyze_SignificantDeviation(t *testing.T) {
	svc := newTestService()

	// Large Cap at 45% against a 30% target, everything else within 5pp
	holdings := []domain.Holding{
		holding("LC 1", domain.CategoryLargeCap, 12),
		holding("LC 2", domain.CategoryLargeCap, 11),
		holding("LC 3", domain.CategoryLargeCap, 11),
		holding("LC 4", domain.CategoryLargeCap, 11),
		holding("MC 1", domain.CategoryMidCap, 9),
		holding("MC 2", domain.CategoryMidCap, 8),
		holding("MC 3", domain.CategoryMidCap, 8),
		holding("SC 1", domain.CategorySmallCap, 7),
		holding("SC 2", domain.CategorySmallCap, 7),
		holding("SC 3", domain.CategorySmallCap, 6),
		holding("Gold", domain.CategoryGold, 5),
		holding("Crypto", domain.CategoryETFsCrypto, 5),
	}

	analysis, err := svc.Analyze(holdings, domain.RiskMedium)
	require.NoError(t, err)

	require.Len(t, analysis.Insights, 1)
	assert.Equal(t, InsightWarning, analysis.Insights[0].Type)
	assert.Equal(t,
		"Your Large Cap allocation (45.0%) is significantly higher than the recommended 30%.",
		analysis.Insights[0].Message)
}

func TestAnalyze_SlightDeviation(t *testing.T) {
	svc := newTestService()

	// Large Cap +8pp and Small Cap -8pp, both inside the 10pp band
	holdings := []domain.Holding{
		holding("LC 1", domain.CategoryLargeCap, 13),
		holding("LC 2", domain.CategoryLargeCap, 13),
		holding("LC 3", domain.CategoryLargeCap, 12),
		holding("MC 1", domain.CategoryMidCap, 10),
		holding("MC 2", domain.CategoryMidCap, 10),
		holding("MC 3", domain.CategoryMidCap, 10),
		holding("SC 1", domain.CategorySmallCap, 9),
		holding("SC 2", domain.CategorySmallCap, 8),
		holding("Gold", domain.CategoryGold, 10),
		holding("Crypto", domain.CategoryETFsCrypto, 5),
	}

	analysis, err := svc.Analyze(holdings, domain.RiskMedium)
	require.NoError(t, err)

	require.Len(t, analysis.Insights, 2)
	assert.Equal(t, InsightInfo, analysis.Insights[0].Type)
	assert.Equal(t,
		"Your Large Cap allocation (38.0%) is slightly higher than the recommended 30%.",
		analysis.Insights[0].Message)
	assert.Equal(t, InsightInfo, analysis.Insights[1].Type)
	assert.Equal(t,
		"Your Small Cap allocation (17.0%) is slightly lower than the recommended 25%.",
		analysis.Insights[1].Message)
}

func TestAnalyze_MissingCategory(t *testing.T) {
	svc := newTestService()

	// No gold at all; remaining categories stay within 5pp of target
	holdings := []domain.Holding{
		holding("LC 1", domain.CategoryLargeCap, 10),
		holding("LC 2", domain.CategoryLargeCap, 10),
		holding("LC 3", domain.CategoryLargeCap, 10),
		holding("MC 1", domain.CategoryMidCap, 10),
		holding("MC 2", domain.CategoryMidCap, 10),
		holding("MC 3", domain.CategoryMidCap, 10),
		holding("SC 1", domain.CategorySmallCap, 10),
		holding("SC 2", domain.CategorySmallCap, 10),
		holding("SC 3", domain.CategorySmallCap, 10),
		holding("Crypto", domain.CategoryETFsCrypto, 10),
	}

	analysis, err := svc.Analyze(holdings, domain.RiskMedium)
	require.NoError(t, err)

	require.Len(t, analysis.Insights, 1)
	assert.Equal(t, InsightWarning, analysis.Insights[0].Type)
	assert.Equal(t,
		"You have no investments in Gold, which should be 10% of your portfolio.",
		analysis.Insights[0].Message)
}

func TestAnalyze_ConcentrationBreach(t *testing.T) {
	svc := newTestService()

	// Allocation matches the Medium target but one position holds 20%
	holdings := []domain.Holding{
		holding("Reliance Industries", domain.CategoryLargeCap, 2000),
		holding("Index Fund", domain.CategoryLargeCap, 1000),
		holding("MC 1", domain.CategoryMidCap, 1000),
		holding("MC 2", domain.CategoryMidCap, 1000),
		holding("MC 3", domain.CategoryMidCap, 1000),
		holding("SC 1", domain.CategorySmallCap, 1000),
		holding("SC 2", domain.CategorySmallCap, 1000),
		holding("SC 3", domain.CategorySmallCap, 500),
		holding("Gold ETF", domain.CategoryGold, 1000),
		holding("Crypto", domain.CategoryETFsCrypto, 500),
	}

	analysis, err := svc.Analyze(holdings, domain.RiskMedium)
	require.NoError(t, err)

	require.Len(t, analysis.Insights, 1)
	assert.Equal(t, InsightWarning, analysis.Insights[0].Type)
	assert.Equal(t,
		"Reliance Industries represents 20.0% of your portfolio, which exceeds the 15% recommended maximum for a Medium risk profile.",
		analysis.Insights[0].Message)
}

func TestAnalyze_ConcentrationCeilingVariesByProfile(t *testing.T) {
	svc := newTestService()

	// 18% in one position: breach for Low and Medium, fine for High
	holdings := []domain.Holding{
		holding("Big Position", domain.CategoryLargeCap, 18),
		holding("Rest 1", domain.CategoryLargeCap, 14),
		holding("Rest 2", domain.CategoryMidCap, 14),
		holding("Rest 3", domain.CategoryMidCap, 14),
		holding("Rest 4", domain.CategorySmallCap, 14),
		holding("Rest 5", domain.CategorySmallCap, 14),
		holding("Rest 6", domain.CategoryGold, 7),
		holding("Rest 7", domain.CategoryETFsCrypto, 5),
	}

	for _, tt := range []struct {
		profile  domain.RiskProfile
		breached bool
	}{
		{domain.RiskLow, true},
		{domain.RiskMedium, true},
		{domain.RiskHigh, false},
	} {
		analysis, err := svc.Analyze(holdings, tt.profile)
		require.NoError(t, err)

		found := false
		for _, msg := range insightMessages(analysis) {
			if strings.HasPrefix(msg, "Big Position represents") {
				found = true
			}
		}
		assert.Equal(t, tt.breached, found, "profile %s", tt.profile)
	}
}

func TestAnalyze_UnknownProfileUsesMediumTarget(t *testing.T) {
	svc := newTestService()

	analysis, err := svc.Analyze(nil, domain.RiskProfile("Speculative"))
	require.NoError(t, err)

	medium := allocation.NewModel().TargetAllocation(domain.RiskMedium)
	assert.Equal(t, medium, analysis.TargetAllocation)
}
