package papertrade

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var maxShares = decimal.NewFromInt(math.MaxInt64)

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", invalid("symbol", "must specify stock symbol")
	}
	return s, nil
}

// ParseShares parses a requested share count.
//
// Shares are whole numbers: "10" and "10.0" are accepted, "1.5" is rejected.
// Nothing is rounded.
func ParseShares(shares string) (int64, error) {
	s := strings.TrimSpace(shares)
	if s == "" {
		return 0, invalid("shares", "must specify number of shares")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, invalid("shares", "must be a number, got "+s)
	}
	if !d.IsPositive() {
		return 0, invalid("shares", "must specify positive number of shares")
	}
	if !d.IsInteger() {
		return 0, invalid("shares", "must be a whole number of shares, got "+s)
	}
	if d.GreaterThan(maxShares) {
		return 0, invalid("shares", "too many shares")
	}
	return d.IntPart(), nil
}

// parseOrder validates the user input of a buy or sell request.
func parseOrder(symbol, shares string) (string, int64, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return "", 0, err
	}
	n, err := ParseShares(shares)
	if err != nil {
		return "", 0, err
	}
	return sym, n, nil
}
