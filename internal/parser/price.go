package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// priceTokenPattern matches a canonical two-decimal currency amount:
// optional dollar sign, digits, a period, exactly two digits.
var priceTokenPattern = regexp.MustCompile(`\$?\d+\.\d{2}`)

// barePricePattern matches a line consisting of nothing but one price
// token. Receipts in table-OCR mode often emit the amount on its own
// line, separated from the item name.
var barePricePattern = regexp.MustCompile(`^\$?\d+\.\d{2}$`)

// Plausibility ceilings for a single line item. Values at or above the
// ceiling are treated as absent, not as errors; they are usually
// totals, phone numbers, or OCR misreads. The single-pass strategy
// predates the tighter structured bound.
const (
	maxSinglePassPrice = 1000
	maxStructuredPrice = 500
)

// findPriceTokens returns all price tokens in the line, left to right.
func findPriceTokens(s string) []string {
	return priceTokenPattern.FindAllString(s, -1)
}

// priceValue converts a matched token to its numeric value.
func priceValue(token string) float64 {
	v, err := strconv.ParseFloat(strings.TrimPrefix(token, "$"), 64)
	if err != nil {
		return 0
	}
	return v
}

// isBarePriceLine reports whether the trimmed line is exactly one
// price token.
func isBarePriceLine(s string) bool {
	return barePricePattern.MatchString(strings.TrimSpace(s))
}

// inRange reports whether v is a plausible item price under the given
// ceiling. The range is open on both ends: zero is not a price.
func inRange(v, ceiling float64) bool {
	return v > 0 && v < ceiling
}
