// Package riskstats computes classical portfolio-theory statistics (beta,
// alpha, Sharpe, Treynor, R squared, an efficient frontier) from historical
// daily price series.
package riskstats

import (
	"context"
	"fmt"
	"sort"
)

// Series is a dated daily close-price series. Dates are ISO days
// (YYYY-MM-DD) in strictly increasing order.
type Series struct {
	Dates  []string  `json:"dates"`
	Closes []float64 `json:"closes"`
}

// PriceHistorySource supplies daily close series for a ticker. Implemented
// by the market data client; tests substitute fixed series.
type PriceHistorySource interface {
	DailyCloses(ctx context.Context, ticker string, days int) (*Series, error)
}

// minDataPoints is the fewest closes a series may have before its covariance
// estimates are considered noise and the ticker is excluded.
const minDataPoints = 30

// tradingDaysPerYear is the annualization factor for daily statistics
const tradingDaysPerYear = 252

// alignSeries inner-joins the given series on date: only days present in
// every series survive. Days missing anywhere are dropped, never
// interpolated. Returns the surviving dates in ascending order and, per
// input key, the closes on those dates.
func alignSeries(series map[string]*Series) ([]string, map[string][]float64, error) {
	if len(series) == 0 {
		return nil, nil, fmt.Errorf("no series to align")
	}

	byDate := make(map[string]map[string]float64, len(series))
	for key, s := range series {
		if len(s.Dates) != len(s.Closes) {
			return nil, nil, fmt.Errorf("series %s has %d dates but %d closes", key, len(s.Dates), len(s.Closes))
		}
		m := make(map[string]float64, len(s.Dates))
		for i, d := range s.Dates {
			m[d] = s.Closes[i]
		}
		byDate[key] = m
	}

	// Collect dates present everywhere
	var shared []string
	for d := range byDate[anyKey(byDate)] {
		inAll := true
		for _, m := range byDate {
			if _, ok := m[d]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			shared = append(shared, d)
		}
	}
	sort.Strings(shared)

	aligned := make(map[string][]float64, len(series))
	for key, m := range byDate {
		closes := make([]float64, len(shared))
		for i, d := range shared {
			closes[i] = m[d]
		}
		aligned[key] = closes
	}

	return shared, aligned, nil
}

func anyKey(m map[string]map[string]float64) string {
	for k := range m {
		return k
	}
	return ""
}

// dailyReturns converts closes into simple returns, dropping the first
// (undefined) observation. A zero close would make the next return
// undefined; it is treated as a data error.
func dailyReturns(closes []float64) ([]float64, error) {
	if len(closes) < 2 {
		return nil, fmt.Errorf("need at least 2 closes, have %d", len(closes))
	}

	returns := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			return nil, fmt.Errorf("zero close at index %d", i-1)
		}
		returns[i-1] = closes[i]/closes[i-1] - 1
	}
	return returns, nil
}
