package portfolio

import (
	"fmt"
	"math"
	"sort"

	"github.com/niveshak/niveshak/internal/domain"
)

// SectorLookup resolves an instrument ticker to its market sector.
// Unknown tickers report ok=false and are bucketed under "Unknown".
type SectorLookup interface {
	Sector(ticker string) (string, bool)
}

// SectorExposure summarizes how ticker-bearing holdings spread across sectors.
// Weights are fractions of the ticker-bearing value and sum to 1.
type SectorExposure struct {
	SectorWeights        map[string]float64  `json:"sector_weights"`
	SectorTickers        map[string][]string `json:"sector_tickers"`
	DiversificationScore float64             `json:"diversification_score"`
	Recommendations      []string            `json:"recommendations"`
}

// benchmarkSectorWeights approximates S&P 500 sector weights, used as the
// baseline for over/underweight calls.
var benchmarkSectorWeights = map[string]float64{
	"Information Technology": 0.28,
	"Health Care":            0.14,
	"Financials":             0.11,
	"Consumer Discretionary": 0.10,
	"Communication Services": 0.09,
	"Industrials":            0.08,
	"Consumer Staples":       0.06,
	"Energy":                 0.05,
	"Utilities":              0.03,
	"Real Estate":            0.03,
	"Materials":              0.03,
}

// AnalyzeSectorExposure groups ticker-bearing holdings by sector and scores
// diversification with a Herfindahl-Hirschman index (0-100, higher is more
// diversified). Holdings without tickers are ignored; if none carry a ticker
// the analysis cannot run at all.
func (s *Service) AnalyzeSectorExposure(holdings []domain.Holding, sectors SectorLookup) (*SectorExposure, error) {
	tickerTotal := 0.0
	for _, h := range holdings {
		if h.Ticker != "" {
			tickerTotal += h.Amount
		}
	}
	if tickerTotal <= 0 {
		return nil, domain.ErrNoTickerData
	}

	rawWeights := make(map[string]float64)
	sectorTickers := make(map[string][]string)
	for _, h := range holdings {
		if h.Ticker == "" {
			continue
		}
		sector, ok := sectors.Sector(h.Ticker)
		if !ok || sector == "" {
			sector = "Unknown"
		}
		rawWeights[sector] += h.Amount / tickerTotal
		sectorTickers[sector] = append(sectorTickers[sector], h.Ticker)
	}

	// Normalize so the weights always sum to exactly 1
	totalWeight := 0.0
	for _, w := range rawWeights {
		totalWeight += w
	}
	weights := make(map[string]float64, len(rawWeights))
	for sector, w := range rawWeights {
		weights[sector] = w / totalWeight
	}

	// Herfindahl-Hirschman index: sum of squared weights. Lower is more
	// diversified, so the score inverts it onto 0-100.
	hhi := 0.0
	for _, w := range weights {
		hhi += w * w
	}
	score := math.Max(0, math.Min(100, 100*(1-hhi)))
	score = math.Round(score*10) / 10

	recommendations := make([]string, 0)
	for _, sector := range benchmarkSectorsByWeight() {
		benchmarkWeight := benchmarkSectorWeights[sector]
		portfolioWeight := weights[sector]
		difference := portfolioWeight - benchmarkWeight

		if math.Abs(difference) > 0.05 {
			position := "underweight"
			if difference > 0 {
				position = "overweight"
			}
			recommendations = append(recommendations, fmt.Sprintf(
				"Your portfolio is %s in %s (%.1f%% vs %.1f%% benchmark).",
				position, sector, portfolioWeight*100, benchmarkWeight*100))
		}
	}

	if score < 60 {
		recommendations = append(recommendations,
			"Your portfolio has low sector diversification. Consider investing across more sectors to reduce risk.")
	}

	return &SectorExposure{
		SectorWeights:        weights,
		SectorTickers:        sectorTickers,
		DiversificationScore: score,
		Recommendations:      recommendations,
	}, nil
}

// benchmarkSectorsByWeight returns benchmark sectors ordered largest first,
// ties broken alphabetically, so recommendation order is stable.
func benchmarkSectorsByWeight() []string {
	names := make([]string, 0, len(benchmarkSectorWeights))
	for name := range benchmarkSectorWeights {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		wi, wj := benchmarkSectorWeights[names[i]], benchmarkSectorWeights[names[j]]
		if wi != wj {
			return wi > wj
		}
		return names[i] < names[j]
	})
	return names
}
