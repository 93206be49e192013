package goals

import (
	"math"

	"github.com/niveshak/niveshak/internal/domain"
)

// Plan is the computed investment plan for one goal
type Plan struct {
	Allocation      map[domain.Category]float64 `json:"recommended_allocation"`
	Note            string                      `json:"note,omitempty"`
	ExpectedReturn  float64                     `json:"expected_return_rate"`
	MonthlyNeeded   float64                     `json:"monthly_investment_needed"`
	ProgressPercent float64                     `json:"progress_percent"`
}

// ExpectedReturnRate maps a risk level to the annual return assumed in goal
// planning: 6% for Low, 8% for Medium, 10% otherwise.
func ExpectedReturnRate(risk domain.RiskProfile) float64 {
	switch risk {
	case domain.RiskLow:
		return 0.06
	case domain.RiskMedium:
		return 0.08
	default:
		return 0.10
	}
}

// MonthlyInvestmentNeeded returns the level monthly contribution that closes
// the gap between the compounded current savings and the target over the
// timeline. Never negative: once current savings alone compound past the
// target, no further contribution is needed.
func MonthlyInvestmentNeeded(targetAmount, currentAmount float64, years int, annualRate float64) float64 {
	if years <= 0 {
		return 0
	}
	months := float64(years * 12)
	monthlyRate := annualRate / 12

	// What is already saved keeps compounding until the target date.
	amountNeeded := targetAmount - currentAmount*math.Pow(1+annualRate, float64(years))

	var payment float64
	if monthlyRate == 0 {
		payment = amountNeeded / months
	} else {
		payment = amountNeeded * monthlyRate / (1 - math.Pow(1+monthlyRate, -months))
	}
	return math.Max(0, payment)
}

// ProgressPercent returns completion toward the target in percent, capped at
// 100. A non-positive target reports 0.
func ProgressPercent(currentAmount, targetAmount float64) float64 {
	if targetAmount <= 0 {
		return 0
	}
	return math.Min(100, currentAmount/targetAmount*100)
}
