package goals

import "github.com/niveshak/niveshak/internal/domain"

// timelineBand buckets years-to-goal into the three planning horizons
type timelineBand int

const (
	bandShort  timelineBand = iota // under 5 years
	bandMedium                     // 5 to under 15 years
	bandLong                       // 15 years and up
)

func bandFor(years int) timelineBand {
	switch {
	case years < 5:
		return bandShort
	case years < 15:
		return bandMedium
	default:
		return bandLong
	}
}

// goalAllocations maps horizon band and risk level to recommended category
// weights in percent. Rows sum to 100 and, unlike the portfolio-level
// targets, include fixed income. Zero weights stay in the row so callers
// render every category.
var goalAllocations = map[timelineBand]map[domain.RiskProfile]map[domain.Category]float64{
	bandShort: {
		domain.RiskLow: {
			domain.CategoryLargeCap:         30,
			domain.CategoryMidCap:           15,
			domain.CategorySmallCap:         5,
			domain.CategoryGold:             15,
			domain.CategoryETFsCrypto:       5,
			domain.CategoryBondsFixedIncome: 30,
		},
		domain.RiskMedium: {
			domain.CategoryLargeCap:         40,
			domain.CategoryMidCap:           20,
			domain.CategorySmallCap:         10,
			domain.CategoryGold:             10,
			domain.CategoryETFsCrypto:       5,
			domain.CategoryBondsFixedIncome: 15,
		},
		domain.RiskHigh: {
			domain.CategoryLargeCap:         40,
			domain.CategoryMidCap:           25,
			domain.CategorySmallCap:         20,
			domain.CategoryGold:             5,
			domain.CategoryETFsCrypto:       10,
			domain.CategoryBondsFixedIncome: 0,
		},
	},
	bandMedium: {
		domain.RiskLow: {
			domain.CategoryLargeCap:         35,
			domain.CategoryMidCap:           20,
			domain.CategorySmallCap:         10,
			domain.CategoryGold:             10,
			domain.CategoryETFsCrypto:       5,
			domain.CategoryBondsFixedIncome: 20,
		},
		domain.RiskMedium: {
			domain.CategoryLargeCap:         35,
			domain.CategoryMidCap:           30,
			domain.CategorySmallCap:         20,
			domain.CategoryGold:             5,
			domain.CategoryETFsCrypto:       5,
			domain.CategoryBondsFixedIncome: 5,
		},
		domain.RiskHigh: {
			domain.CategoryLargeCap:         25,
			domain.CategoryMidCap:           30,
			domain.CategorySmallCap:         30,
			domain.CategoryGold:             5,
			domain.CategoryETFsCrypto:       10,
			domain.CategoryBondsFixedIncome: 0,
		},
	},
	bandLong: {
		domain.RiskLow: {
			domain.CategoryLargeCap:         40,
			domain.CategoryMidCap:           25,
			domain.CategorySmallCap:         15,
			domain.CategoryGold:             10,
			domain.CategoryETFsCrypto:       5,
			domain.CategoryBondsFixedIncome: 5,
		},
		domain.RiskMedium: {
			domain.CategoryLargeCap:         30,
			domain.CategoryMidCap:           30,
			domain.CategorySmallCap:         25,
			domain.CategoryGold:             5,
			domain.CategoryETFsCrypto:       10,
			domain.CategoryBondsFixedIncome: 0,
		},
		domain.RiskHigh: {
			domain.CategoryLargeCap:         20,
			domain.CategoryMidCap:           30,
			domain.CategorySmallCap:         35,
			domain.CategoryGold:             0,
			domain.CategoryETFsCrypto:       15,
			domain.CategoryBondsFixedIncome: 0,
		},
	},
}

// RecommendedAllocation returns the category weights in percent for a goal
// with the given risk level and years remaining. Risk levels other than Low
// and Medium take the High row. The returned map is a copy the caller may
// mutate.
func RecommendedAllocation(risk domain.RiskProfile, timelineYears int) map[domain.Category]float64 {
	band := goalAllocations[bandFor(timelineYears)]
	row, ok := band[risk]
	if !ok {
		row = band[domain.RiskHigh]
	}

	out := make(map[domain.Category]float64, len(row))
	for cat, v := range row {
		out[cat] = v
	}
	return out
}
