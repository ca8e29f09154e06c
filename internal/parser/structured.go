package parser

import (
	"regexp"
	"strings"

	"github.com/howmuchah/howmuchah/internal/models"
)

// structuredExtractor is the two-pass line-consuming matcher. It
// first tries to read name and price from a single line; failing
// that, it pairs a quantity+name line with a bare price token on a
// nearby unconsumed line, the way table-mode OCR splits columns.
// It never emits a zero-price item.
type structuredExtractor struct{}

var (
	// "Chicken Rice $10.00": anything, whitespace, price at line end.
	sameLinePattern = regexp.MustCompile(`^(.+?)\s+\$?(\d+\.\d{2})$`)

	// "2 Chicken Rice": quantity then a capitalized word phrase.
	quantityNamePattern = regexp.MustCompile(`^\d+\s+([A-Z].*)$`)

	// Trailing price token, used to rule a line out of the
	// quantity+name-only case even when the price is out of range.
	trailingPricePattern = regexp.MustCompile(`\$?\d+\.\d{2}$`)

	// Leading item modifiers like "*" or "+" that OCR keeps attached
	// to names.
	modifierSymbols = regexp.MustCompile(`^[\*\+]+\s*`)
)

// Price-search windows around a quantity+name line, in lines.
// Table-mode OCR usually emits the amount column just before the name
// column, so the upward window is wider.
const (
	searchAbove = 3
	searchBelow = 2
)

func (e *structuredExtractor) Extract(text string) []models.LineItem {
	lines := normalizeLines(text)
	consumed := make([]bool, len(lines))

	var items []models.LineItem
	for i, ln := range lines {
		if ln.excluded || consumed[i] {
			continue
		}

		if name, price, ok := e.matchSameLine(ln.text); ok {
			consumed[i] = true
			if !isDuplicate(items, name, price) {
				items = append(items, models.LineItem{Name: name, Price: price})
			}
			continue
		}

		name, ok := e.matchQuantityNameOnly(ln.text)
		if !ok {
			continue
		}
		priceIdx, price, found := e.findNearbyPrice(lines, consumed, i)
		if !found {
			// No associated price within the windows: drop the
			// candidate rather than emit a zero-price item.
			continue
		}
		consumed[i] = true
		consumed[priceIdx] = true
		if !isDuplicate(items, name, price) {
			items = append(items, models.LineItem{Name: name, Price: price})
		}
	}

	return items
}

// matchSameLine extracts "name ... price-at-end" from a single line.
func (e *structuredExtractor) matchSameLine(text string) (string, float64, bool) {
	m := sameLinePattern.FindStringSubmatch(text)
	if m == nil {
		return "", 0, false
	}
	price := priceValue(m[2])
	if !inRange(price, maxStructuredPrice) {
		return "", 0, false
	}
	name := cleanStructuredName(m[1])
	if len(name) < 3 || isExcluded(name) {
		return "", 0, false
	}
	return name, price, true
}

// matchQuantityNameOnly recognizes a "<digits> <Capitalized phrase>"
// line with no trailing price.
func (e *structuredExtractor) matchQuantityNameOnly(text string) (string, bool) {
	if trailingPricePattern.MatchString(text) {
		return "", false
	}
	m := quantityNamePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	name := cleanStructuredName(m[1])
	if len(name) < 3 || isExcluded(name) {
		return "", false
	}
	return name, true
}

// findNearbyPrice scans unconsumed lines for a bare in-range price
// token: up to searchAbove lines above the name line, closest first,
// then up to searchBelow lines below.
func (e *structuredExtractor) findNearbyPrice(lines []line, consumed []bool, nameIdx int) (int, float64, bool) {
	for off := 1; off <= searchAbove; off++ {
		if idx := nameIdx - off; idx >= 0 {
			if v, ok := bareInRangePrice(lines[idx], consumed[idx]); ok {
				return idx, v, true
			}
		}
	}
	for off := 1; off <= searchBelow; off++ {
		if idx := nameIdx + off; idx < len(lines) {
			if v, ok := bareInRangePrice(lines[idx], consumed[idx]); ok {
				return idx, v, true
			}
		}
	}
	return 0, 0, false
}

func bareInRangePrice(ln line, consumed bool) (float64, bool) {
	if consumed || ln.excluded || !isBarePriceLine(ln.text) {
		return 0, false
	}
	v := priceValue(strings.TrimSpace(ln.text))
	if !inRange(v, maxStructuredPrice) {
		return 0, false
	}
	return v, true
}

// cleanStructuredName strips the quantity prefix and leading modifier
// symbols, then collapses whitespace.
func cleanStructuredName(s string) string {
	s = leadingQuantity.ReplaceAllString(s, "")
	s = modifierSymbols.ReplaceAllString(s, "")
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(s, " "))
}
