package advice

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/modules/allocation"
	"github.com/niveshak/niveshak/internal/modules/suggestions"
)

const maxRecommendations = 3

// gapThreshold is the drift, in percentage points, below which a category
// counts as on target.
const gapThreshold = 2.0

var longTermStrategies = map[domain.RiskProfile]string{
	domain.RiskLow:    "Keep most of the portfolio in large caps and gold, and rebalance once a year rather than reacting to short-term moves.",
	domain.RiskMedium: "Hold the balanced mix through market cycles and rebalance whenever a category drifts more than five points from its target.",
	domain.RiskHigh:   "Give the mid and small cap allocation multi-year room to run, but take profits back to target after strong rallies so winners do not dominate the book.",
}

// RuleBasedGenerator produces deterministic advice from the allocation
// tables. It compares the current category mix against the target for the
// risk profile, recommends the largest underweights with a catalog
// instrument for each, and flags the worst overweight as the risk warning.
type RuleBasedGenerator struct {
	model *allocation.Model
	log   zerolog.Logger
}

func NewRuleBasedGenerator(model *allocation.Model, log zerolog.Logger) *RuleBasedGenerator {
	return &RuleBasedGenerator{
		model: model,
		log:   log.With().Str("component", "rule_advisor").Logger(),
	}
}

func (g *RuleBasedGenerator) Name() string { return "rules" }

// Generate builds advice from the allocation tables alone, so it works
// without network access or credentials.
func (g *RuleBasedGenerator) Generate(_ context.Context, req Request) (*Advice, error) {
	target := g.model.TargetAllocation(req.RiskProfile)

	var total float64
	currentPct := make(map[domain.Category]float64)
	for _, h := range req.Holdings {
		total += h.Amount
		currentPct[h.Category] += h.Amount
	}
	if total <= 0 {
		return g.startingAdvice(req), nil
	}
	for cat := range currentPct {
		currentPct[cat] = currentPct[cat] / total * 100
	}

	gaps := sortedGaps(currentPct, target)

	adv := &Advice{
		Assessment:       g.assessment(req, total, currentPct, target),
		Recommendations:  g.recommendations(req.Market, gaps),
		LongTermStrategy: g.strategy(req),
		RiskWarning:      g.warning(gaps),
	}

	g.log.Debug().Int("holdings", len(req.Holdings)).Msg("Generated rule-based advice")
	return adv, nil
}

// startingAdvice covers the empty portfolio: recommend opening positions in
// the heaviest target categories instead of assessing holdings.
func (g *RuleBasedGenerator) startingAdvice(req Request) *Advice {
	target := g.model.TargetAllocation(req.RiskProfile)

	var recs []string
	for _, gp := range sortedGaps(nil, target) {
		if len(recs) == maxRecommendations || gp.target <= 0 {
			break
		}
		rec := fmt.Sprintf("Start with %s at %.0f%% of contributions", gp.category, gp.target)
		if inst := firstListed(req.Market, gp.category); inst != nil {
			rec = fmt.Sprintf("%s; %s (%s) is a liquid way in", rec, inst.Ticker, inst.Name)
		}
		recs = append(recs, rec+".")
	}

	return &Advice{
		Assessment:       "The portfolio is empty, so there is nothing to assess yet.",
		Recommendations:  recs,
		LongTermStrategy: g.strategy(req),
		RiskWarning:      "Uninvested cash loses ground to inflation; spreading purchases over a few months reduces timing risk.",
	}
}

func (g *RuleBasedGenerator) assessment(req Request, total float64, current, target map[domain.Category]float64) string {
	var top domain.Category
	var topPct float64
	for _, cat := range domain.KnownCategories {
		if pct, ok := current[cat]; ok && pct > topPct {
			top, topPct = cat, pct
		}
	}

	return fmt.Sprintf(
		"The portfolio holds $%s across %d investments. The largest allocation is %s at %.1f%%, against a %.1f%% target for a %s risk profile.",
		money(total), len(req.Holdings), top, topPct, target[top], normalizeProfile(req.RiskProfile))
}

// recommendations names the most underweight categories, worst first. A
// portfolio already on target gets a single hold-course entry.
func (g *RuleBasedGenerator) recommendations(market domain.Market, gaps []categoryGap) []string {
	var recs []string
	for _, gp := range gaps {
		if len(recs) == maxRecommendations || gp.target-gp.current < gapThreshold {
			break
		}
		rec := fmt.Sprintf("Increase %s from %.1f%% toward the %.1f%% target", gp.category, gp.current, gp.target)
		if inst := firstListed(market, gp.category); inst != nil {
			rec = fmt.Sprintf("%s; %s (%s) is one way to build the position", rec, inst.Ticker, inst.Name)
		}
		recs = append(recs, rec+".")
	}

	if len(recs) == 0 {
		recs = append(recs, "The portfolio already tracks its target allocation closely; keep new contributions aligned with the current mix.")
	}
	return recs
}

func (g *RuleBasedGenerator) strategy(req Request) string {
	strategy, ok := longTermStrategies[req.RiskProfile]
	if !ok {
		strategy = longTermStrategies[domain.DefaultRiskProfile]
	}
	if len(req.Goals) > 0 {
		strategy += " Fund the stated financial goals on schedule before adding new positions."
	}
	return strategy
}

func (g *RuleBasedGenerator) warning(gaps []categoryGap) string {
	if len(gaps) > 0 {
		worst := gaps[len(gaps)-1]
		if over := worst.current - worst.target; over >= gapThreshold {
			return fmt.Sprintf(
				"%s makes up %.1f%% of the portfolio, %.1f points above its %.1f%% target; trimming it would reduce concentration risk.",
				worst.category, worst.current, over, worst.target)
		}
	}
	return "No single category sits far above target; the remaining risk is a broad market drawdown, which diversification does not remove."
}

// categoryGap pairs a category with its current and target weights in percent
type categoryGap struct {
	category domain.Category
	current  float64
	target   float64
}

// sortedGaps merges the current and target category sets and orders them
// most-underweight first. Ties keep the display order of KnownCategories.
func sortedGaps(current, target map[domain.Category]float64) []categoryGap {
	seen := make(map[domain.Category]bool)
	var gaps []categoryGap
	for _, cat := range domain.KnownCategories {
		cw, inCurrent := current[cat]
		tw, inTarget := target[cat]
		if !inCurrent && !inTarget {
			continue
		}
		gaps = append(gaps, categoryGap{category: cat, current: cw, target: tw})
		seen[cat] = true
	}
	for cat, cw := range current {
		if !seen[cat] {
			gaps = append(gaps, categoryGap{category: cat, current: cw, target: target[cat]})
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].target-gaps[i].current > gaps[j].target-gaps[j].current
	})
	return gaps
}

func firstListed(market domain.Market, category domain.Category) *suggestions.Instrument {
	listed := suggestions.Catalog(market, category)
	if len(listed) == 0 {
		return nil
	}
	return &listed[0]
}

func normalizeProfile(p domain.RiskProfile) domain.RiskProfile {
	switch p {
	case domain.RiskLow, domain.RiskMedium, domain.RiskHigh:
		return p
	}
	return domain.DefaultRiskProfile
}
