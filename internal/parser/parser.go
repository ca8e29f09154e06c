// Package parser converts raw OCR text from a photographed receipt
// into structured line items. It is pure: no I/O, no shared state,
// and unparseable input yields an empty item list rather than an
// error, signalling the caller to fall back to manual entry.
package parser

import (
	"fmt"
	"math"
	"strings"

	"github.com/howmuchah/howmuchah/internal/models"
)

// Strategy selects one of the two item-extraction algorithms. Their
// outputs differ on ambiguous receipts, so the choice is explicit
// rather than merged.
type Strategy string

const (
	// StrategySinglePass is the original priority-table extractor:
	// one pass, each line judged in isolation.
	StrategySinglePass Strategy = "singlepass"

	// StrategyStructured is the two-pass line-consuming matcher that
	// can pair a quantity+name line with a bare price on a nearby
	// line. More precise on table-mode OCR output.
	StrategyStructured Strategy = "structured"
)

// DefaultStrategy is what Parse uses. Structured is the better-tested
// behavior on real receipts.
const DefaultStrategy = StrategyStructured

// Extractor is the interface both strategies implement.
type Extractor interface {
	// Extract converts raw receipt text into line items, preserving
	// source line order.
	Extract(text string) []models.LineItem
}

// New returns the extractor for the given strategy.
func New(s Strategy) (Extractor, error) {
	switch s {
	case StrategySinglePass:
		return &singlePassExtractor{}, nil
	case StrategyStructured:
		return &structuredExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported parse strategy: %q", s)
	}
}

// Parse extracts line items from raw receipt text using the default
// strategy. An empty result is a legitimate outcome, not a failure.
func Parse(text string) []models.LineItem {
	items, _ := ParseWith(text, DefaultStrategy)
	return items
}

// ParseWith extracts line items using an explicit strategy.
func ParseWith(text string, strategy Strategy) ([]models.LineItem, error) {
	ex, err := New(strategy)
	if err != nil {
		return nil, err
	}
	return ex.Extract(text), nil
}

// isDuplicate reports whether an equivalent item was already accepted
// in this parse: case-insensitive equal name and price within one
// cent. Identity fields play no part here.
func isDuplicate(items []models.LineItem, name string, price float64) bool {
	for _, it := range items {
		if strings.EqualFold(it.Name, name) && math.Abs(it.Price-price) < 0.01 {
			return true
		}
	}
	return false
}
