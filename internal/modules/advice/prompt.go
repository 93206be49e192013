package advice

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/niveshak/niveshak/internal/domain"
)

const adviceSystemInstruction = "As a financial advisor, analyze this investment portfolio and provide recommendations."

// buildPrompt renders the portfolio, profile, and goals into the advisor
// prompt, ending with the JSON contract the response must follow.
func buildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("PORTFOLIO DATA:\n")
	b.WriteString(portfolioSummary(req.Holdings))
	b.WriteString("\n")
	fmt.Fprintf(&b, "RISK PROFILE: %s\n", req.RiskProfile)
	fmt.Fprintf(&b, "MARKET: %s\n", req.Market)

	if goals := goalsSummary(req.Goals); goals != "" {
		b.WriteString("\n")
		b.WriteString(goals)
	}

	b.WriteString(`
Provide the following in JSON format:
1. A brief assessment of the current portfolio
2. Three specific investment recommendations with tickers
3. Long-term strategy suggestions
4. One area of concern or risk

Response should be valid JSON with these keys:
"assessment", "specific_recommendations", "long_term_strategy", "risk_warning"
`)

	return b.String()
}

// portfolioSummary renders holdings one line per investment, with SIP
// contribution detail where present.
func portfolioSummary(holdings []domain.Holding) string {
	if len(holdings) == 0 {
		return "Empty portfolio\n"
	}

	var total float64
	for _, h := range holdings {
		total += h.Amount
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Total portfolio value: $%s\n\n", money(total))
	b.WriteString("INVESTMENTS:\n")

	for _, h := range holdings {
		ticker := h.Ticker
		if ticker == "" {
			ticker = "N/A"
		}
		investmentType := h.Type
		if investmentType == "" {
			investmentType = domain.InvestmentStock
		}

		fmt.Fprintf(&b, "- %s (%s): $%s, Category: %s, Type: %s\n",
			h.Name, ticker, money(h.Amount), h.Category, investmentType)

		if investmentType == domain.InvestmentSIP && h.MonthlyAmount > 0 {
			fmt.Fprintf(&b, "  Monthly: $%s, Months: %d\n", money(h.MonthlyAmount), h.MonthsInvested)
		}
	}

	return b.String()
}

// goalsSummary renders active goals for the prompt, empty when there are none
func goalsSummary(goals []domain.Goal) string {
	if len(goals) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("FINANCIAL GOALS:\n")
	for _, g := range goals {
		fmt.Fprintf(&b, "- %s: Target $%s, Current: $%s, Timeline: %d years, Risk: %s\n",
			g.Name, money(g.TargetAmount), money(g.CurrentAmount), g.TimelineYears, g.RiskLevel)
	}
	return b.String()
}

func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}
