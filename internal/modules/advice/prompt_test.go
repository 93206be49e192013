package advice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/niveshak/niveshak/internal/domain"
)

func TestPortfolioSummary(t *testing.T) {
	holdings := []domain.Holding{
		{
			Name:     "HDFC Bank",
			Ticker:   "HDFCBANK.NS",
			Category: domain.CategoryLargeCap,
			Type:     domain.InvestmentStock,
			Amount:   50000,
		},
		{
			Name:           "Index SIP",
			Category:       domain.CategoryETFsCrypto,
			Type:           domain.InvestmentSIP,
			Amount:         24000,
			MonthlyAmount:  2000,
			MonthsInvested: 12,
		},
	}

	summary := portfolioSummary(holdings)

	assert.Contains(t, summary, "Total portfolio value: $74,000.00")
	assert.Contains(t, summary, "- HDFC Bank (HDFCBANK.NS): $50,000.00, Category: Large Cap, Type: Stock/ETF")
	assert.Contains(t, summary, "- Index SIP (N/A): $24,000.00, Category: ETFs/Crypto, Type: SIP")
	assert.Contains(t, summary, "  Monthly: $2,000.00, Months: 12")
}

func TestPortfolioSummary_Empty(t *testing.T) {
	assert.Contains(t, portfolioSummary(nil), "Empty portfolio")
}

func TestGoalsSummary(t *testing.T) {
	goals := []domain.Goal{
		{
			Name:          "House",
			TargetAmount:  5000000,
			CurrentAmount: 1250000,
			TimelineYears: 8,
			RiskLevel:     domain.RiskMedium,
		},
	}

	summary := goalsSummary(goals)
	assert.Contains(t, summary, "FINANCIAL GOALS:")
	assert.Contains(t, summary, "- House: Target $5,000,000.00, Current: $1,250,000.00, Timeline: 8 years, Risk: Medium")

	assert.Empty(t, goalsSummary(nil))
}

func TestBuildPrompt(t *testing.T) {
	req := Request{
		Holdings:    []domain.Holding{{Name: "Apple", Ticker: "AAPL", Category: domain.CategoryLargeCap, Amount: 1000}},
		RiskProfile: domain.RiskHigh,
		Market:      domain.MarketUS,
		Goals:       []domain.Goal{{Name: "Retirement", TargetAmount: 100000, TimelineYears: 20, RiskLevel: domain.RiskHigh}},
	}

	prompt := buildPrompt(req)

	assert.Contains(t, prompt, "PORTFOLIO DATA:")
	assert.Contains(t, prompt, "RISK PROFILE: High")
	assert.Contains(t, prompt, "MARKET: US")
	assert.Contains(t, prompt, "FINANCIAL GOALS:")
	assert.Contains(t, prompt, `"assessment", "specific_recommendations", "long_term_strategy", "risk_warning"`)
}

func TestBuildPrompt_NoGoalsSection(t *testing.T) {
	prompt := buildPrompt(Request{RiskProfile: domain.RiskLow, Market: domain.MarketIndia})

	assert.Contains(t, prompt, "Empty portfolio")
	assert.NotContains(t, prompt, "FINANCIAL GOALS:")
}
