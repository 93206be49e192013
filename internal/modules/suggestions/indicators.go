package suggestions

import (
	"github.com/markcheno/go-talib"
)

// Technical annotation windows. RSI needs one extra bar for its first reading.
const (
	smaLength = 50
	rsiLength = 14
)

// LatestSMA returns the most recent simple moving average over length bars,
// or nil when the series is too short.
func LatestSMA(closes []float64, length int) *float64 {
	if length <= 0 || len(closes) < length {
		return nil
	}

	sma := talib.Sma(closes, length)
	return lastValue(sma)
}

// LatestRSI returns the most recent Relative Strength Index value (0-100),
// or nil when the series is shorter than length+1 bars.
func LatestRSI(closes []float64, length int) *float64 {
	if length <= 0 || len(closes) < length+1 {
		return nil
	}

	rsi := talib.Rsi(closes, length)
	return lastValue(rsi)
}

func lastValue(series []float64) *float64 {
	if len(series) == 0 {
		return nil
	}

	last := series[len(series)-1]
	if isNaN(last) {
		return nil
	}
	return &last
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
