package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across analysis modules.
var (
	// ErrEmptyPortfolio reports that an analysis was requested for a
	// portfolio with no contributing holdings. Downstream engines treat
	// this as terminal rather than dividing by zero.
	ErrEmptyPortfolio = errors.New("portfolio has no holdings")

	// ErrNoTickerData reports that none of the requested tickers had any
	// usable price history.
	ErrNoTickerData = errors.New("no price history available for any requested ticker")

	// ErrNotFound reports a missing stored entity (portfolio, goal, alert)
	ErrNotFound = errors.New("not found")
)

// InvalidHoldingError reports a holding that cannot contribute to weight
// calculations, such as a zero or negative amount.
type InvalidHoldingError struct {
	Name   string
	Reason string
	Index  int
}

func (e *InvalidHoldingError) Error() string {
	return fmt.Sprintf("invalid holding %q at index %d: %s", e.Name, e.Index, e.Reason)
}

// InsufficientHistoryError reports a ticker whose price history is too short
// for the requested statistic.
type InsufficientHistoryError struct {
	Ticker string
	Have   int
	Need   int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient price history for %s: have %d points, need %d", e.Ticker, e.Have, e.Need)
}

// InvalidInputError reports a caller-supplied parameter outside its valid range
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
