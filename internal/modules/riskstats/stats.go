package riskstats

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/niveshak/niveshak/internal/domain"
)

// frontierSamples is how many random weight vectors the efficient frontier
// draws. Must stay at 20 or above for the sampled cloud to be meaningful.
const frontierSamples = 100

// TickerStats holds per-instrument CAPM statistics
type TickerStats struct {
	Ticker               string  `json:"ticker"`
	Weight               float64 `json:"weight"`
	AnnualizedReturn     float64 `json:"annualized_return"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	Beta                 float64 `json:"beta"`
	Alpha                float64 `json:"alpha"`
}

// FrontierPoint is one sampled portfolio on the efficient frontier chart.
// Weights are in the same ticker order as Statistics.TickerStats.
type FrontierPoint struct {
	Weights    []float64 `json:"weights"`
	Return     float64   `json:"return"`
	Volatility float64   `json:"volatility"`
	IsCurrent  bool      `json:"is_current"`
}

// CorrelationMatrix is a labeled square matrix over the portfolio tickers
// plus the benchmark (always the last row/column).
type CorrelationMatrix struct {
	Tickers []string    `json:"tickers"`
	Matrix  [][]float64 `json:"matrix"`
}

// Statistics is the full risk report for one portfolio snapshot
type Statistics struct {
	TickerStats         []TickerStats     `json:"ticker_stats"`
	ExcludedTickers     []string          `json:"excluded_tickers,omitempty"`
	EfficientFrontier   []FrontierPoint   `json:"efficient_frontier"`
	CorrelationMatrix   CorrelationMatrix `json:"correlation_matrix"`
	TreynorRatio        *float64          `json:"treynor_ratio"`
	Benchmark           string            `json:"benchmark"`
	PortfolioReturn     float64           `json:"portfolio_return"`
	PortfolioVolatility float64           `json:"portfolio_volatility"`
	PortfolioBeta       float64           `json:"portfolio_beta"`
	PortfolioAlpha      float64           `json:"portfolio_alpha"`
	SharpeRatio         float64           `json:"sharpe_ratio"`
	RSquared            float64           `json:"r_squared"`
	RiskFreeRate        float64           `json:"risk_free_rate"`
	LookbackDays        int               `json:"lookback_days"`
}

// ComputeFromSeries runs the whole risk computation over pre-fetched price
// history. Tickers whose series are missing or shorter than minDataPoints
// are excluded from every aggregate and listed in ExcludedTickers; the
// benchmark series is mandatory. Weights are dollar weights over the
// included tickers, renormalized after exclusions.
//
// The rng drives efficient frontier sampling only; a fixed seed makes the
// whole result deterministic.
func ComputeFromSeries(
	holdings []domain.Holding,
	priceHistory map[string]*Series,
	benchmarkTicker string,
	benchmarkHistory *Series,
	riskFreeRate float64,
	lookbackDays int,
	rng *rand.Rand,
) (*Statistics, error) {
	tickers, amounts := tickerAmounts(holdings)
	if len(tickers) == 0 {
		return nil, domain.ErrNoTickerData
	}

	if benchmarkHistory == nil || len(benchmarkHistory.Closes) < minDataPoints {
		have := 0
		if benchmarkHistory != nil {
			have = len(benchmarkHistory.Closes)
		}
		return nil, &domain.InsufficientHistoryError{Ticker: benchmarkTicker, Have: have, Need: minDataPoints}
	}

	// Drop tickers without enough raw history before aligning, so one bad
	// series cannot collapse the shared date window.
	var included []string
	var excluded []string
	for _, ticker := range tickers {
		s := priceHistory[ticker]
		if s == nil || len(s.Closes) < minDataPoints {
			excluded = append(excluded, ticker)
			continue
		}
		included = append(included, ticker)
	}
	if len(included) == 0 {
		return nil, domain.ErrNoTickerData
	}

	toAlign := make(map[string]*Series, len(included)+1)
	for _, ticker := range included {
		toAlign[ticker] = priceHistory[ticker]
	}
	toAlign[benchmarkTicker] = benchmarkHistory

	sharedDates, alignedCloses, err := alignSeries(toAlign)
	if err != nil {
		return nil, err
	}
	if len(sharedDates) < minDataPoints {
		return nil, fmt.Errorf("only %d overlapping trading days across series, need %d", len(sharedDates), minDataPoints)
	}

	returns := make(map[string][]float64, len(alignedCloses))
	for key, closes := range alignedCloses {
		r, err := dailyReturns(closes)
		if err != nil {
			return nil, fmt.Errorf("bad series for %s: %w", key, err)
		}
		returns[key] = r
	}
	benchReturns := returns[benchmarkTicker]
	benchMean := stat.Mean(benchReturns, nil)
	benchVariance := stat.Variance(benchReturns, nil)
	// Benchmark annual return in CAPM uses the arithmetic mean scaled to a
	// year, matching how alpha has always been quoted here.
	benchAnnualReturn := benchMean * tradingDaysPerYear

	weights := renormalizedWeights(included, amounts)

	numObs := len(sharedDates) - 1
	stats := &Statistics{
		ExcludedTickers: excluded,
		Benchmark:       benchmarkTicker,
		RiskFreeRate:    riskFreeRate,
		LookbackDays:    lookbackDays,
	}

	means := make([]float64, len(included))
	for i, ticker := range included {
		r := returns[ticker]
		mean := stat.Mean(r, nil)
		means[i] = mean

		beta := 0.0
		if benchVariance > 0 {
			beta = stat.Covariance(r, benchReturns, nil) / benchVariance
		}
		annualizedReturn := math.Pow(1+mean, tradingDaysPerYear) - 1
		alpha := annualizedReturn - (riskFreeRate + beta*(benchAnnualReturn-riskFreeRate))

		stats.TickerStats = append(stats.TickerStats, TickerStats{
			Ticker:               ticker,
			Weight:               weights[i],
			AnnualizedReturn:     annualizedReturn,
			AnnualizedVolatility: stat.StdDev(r, nil) * math.Sqrt(tradingDaysPerYear),
			Beta:                 beta,
			Alpha:                alpha,
		})

		stats.PortfolioBeta += weights[i] * beta
		stats.PortfolioAlpha += weights[i] * alpha
	}

	// Portfolio return compounds the weighted mean daily return; variance
	// goes through the full covariance matrix, not a linear volatility blend.
	portfolioDailyMean := 0.0
	for i := range included {
		portfolioDailyMean += weights[i] * means[i]
	}
	stats.PortfolioReturn = math.Pow(1+portfolioDailyMean, tradingDaysPerYear) - 1

	cov := covarianceMatrix(included, returns, numObs)
	stats.PortfolioVolatility = annualizedPortfolioVolatility(cov, weights)

	if stats.PortfolioVolatility > 0 {
		stats.SharpeRatio = (stats.PortfolioReturn - riskFreeRate) / stats.PortfolioVolatility
	}
	if stats.PortfolioBeta != 0 {
		treynor := (stats.PortfolioReturn - riskFreeRate) / stats.PortfolioBeta
		stats.TreynorRatio = &treynor
	}

	portfolioSeries := make([]float64, numObs)
	for t := 0; t < numObs; t++ {
		for i, ticker := range included {
			portfolioSeries[t] += weights[i] * returns[ticker][t]
		}
	}
	if corr := stat.Correlation(portfolioSeries, benchReturns, nil); !math.IsNaN(corr) {
		stats.RSquared = corr * corr
	}

	stats.CorrelationMatrix = correlationMatrix(included, benchmarkTicker, returns, numObs)
	stats.EfficientFrontier = efficientFrontier(cov, means, weights, rng)

	return stats, nil
}

// tickerAmounts reduces holdings to unique tickers in first-seen order with
// summed dollar amounts. Holdings without a ticker do not participate.
func tickerAmounts(holdings []domain.Holding) ([]string, map[string]float64) {
	var tickers []string
	amounts := make(map[string]float64)
	for _, h := range holdings {
		if h.Ticker == "" || h.Amount <= 0 {
			continue
		}
		if _, seen := amounts[h.Ticker]; !seen {
			tickers = append(tickers, h.Ticker)
		}
		amounts[h.Ticker] += h.Amount
	}
	return tickers, amounts
}

func renormalizedWeights(included []string, amounts map[string]float64) []float64 {
	total := 0.0
	for _, ticker := range included {
		total += amounts[ticker]
	}
	weights := make([]float64, len(included))
	for i, ticker := range included {
		weights[i] = amounts[ticker] / total
	}
	return weights
}

// covarianceMatrix builds the sample covariance matrix of daily returns,
// observations in rows, tickers in columns.
func covarianceMatrix(tickers []string, returns map[string][]float64, numObs int) *mat.SymDense {
	data := make([]float64, numObs*len(tickers))
	for t := 0; t < numObs; t++ {
		for i, ticker := range tickers {
			data[t*len(tickers)+i] = returns[ticker][t]
		}
	}
	cov := mat.NewSymDense(len(tickers), nil)
	stat.CovarianceMatrix(cov, mat.NewDense(numObs, len(tickers), data), nil)
	return cov
}

func annualizedPortfolioVolatility(cov *mat.SymDense, weights []float64) float64 {
	w := mat.NewVecDense(len(weights), weights)
	var cw mat.VecDense
	cw.MulVec(cov, w)
	return math.Sqrt(mat.Dot(w, &cw) * tradingDaysPerYear)
}

func correlationMatrix(tickers []string, benchmarkTicker string, returns map[string][]float64, numObs int) CorrelationMatrix {
	labels := make([]string, 0, len(tickers)+1)
	labels = append(labels, tickers...)
	labels = append(labels, benchmarkTicker)

	data := make([]float64, numObs*len(labels))
	for t := 0; t < numObs; t++ {
		for i, label := range labels {
			data[t*len(labels)+i] = returns[label][t]
		}
	}
	corr := mat.NewSymDense(len(labels), nil)
	stat.CorrelationMatrix(corr, mat.NewDense(numObs, len(labels), data), nil)

	matrix := make([][]float64, len(labels))
	for i := range labels {
		row := make([]float64, len(labels))
		for j := range labels {
			v := corr.At(i, j)
			if math.IsNaN(v) {
				v = 0
			}
			row[j] = v
		}
		matrix[i] = row
	}

	return CorrelationMatrix{Tickers: labels, Matrix: matrix}
}

// efficientFrontier samples random fully-invested portfolios over the
// included tickers and appends the actual portfolio as the final point.
// Returns here are arithmetic annualizations of mean daily returns, the
// convention frontier charts have always used in this app.
func efficientFrontier(cov *mat.SymDense, means, actualWeights []float64, rng *rand.Rand) []FrontierPoint {
	n := len(means)
	points := make([]FrontierPoint, 0, frontierSamples+1)

	for k := 0; k < frontierSamples; k++ {
		w := make([]float64, n)
		sum := 0.0
		for i := range w {
			w[i] = rng.Float64()
			sum += w[i]
		}
		if sum == 0 {
			for i := range w {
				w[i] = 1 / float64(n)
			}
		} else {
			for i := range w {
				w[i] /= sum
			}
		}
		points = append(points, frontierPoint(cov, means, w, false))
	}

	actual := make([]float64, n)
	copy(actual, actualWeights)
	points = append(points, frontierPoint(cov, means, actual, true))

	return points
}

func frontierPoint(cov *mat.SymDense, means, weights []float64, current bool) FrontierPoint {
	ret := 0.0
	for i, w := range weights {
		ret += w * means[i] * tradingDaysPerYear
	}
	return FrontierPoint{
		Weights:    weights,
		Return:     ret,
		Volatility: annualizedPortfolioVolatility(cov, weights),
		IsCurrent:  current,
	}
}
