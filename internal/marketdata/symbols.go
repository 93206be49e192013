package marketdata

import (
	"strings"

	"github.com/niveshak/niveshak/internal/domain"
)

// QuoteSymbol converts a user-entered ticker to the quote provider's symbol
// for the given market.
//
// Examples:
//
//	INFY, INDIA  -> INFY.NS  (NSE listing)
//	AAPL, US     -> AAPL
//	^NSEI, INDIA -> ^NSEI    (indices are global symbols)
//	GOLDBEES.NS  -> GOLDBEES.NS (already qualified)
func QuoteSymbol(ticker string, market domain.Market) string {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return ticker
	}

	// Index symbols and already-qualified symbols pass through
	if strings.HasPrefix(ticker, "^") || strings.Contains(ticker, ".") {
		return ticker
	}

	if market == domain.MarketIndia {
		return ticker + ".NS"
	}

	return ticker
}
