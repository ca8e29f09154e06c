package parser

import "strings"

// excludeTerms flags lines that are receipt furniture rather than
// purchased items: totals, taxes, payment lines, boilerplate, dates,
// and station/table identifiers. Matching is substring-based on the
// lowercased line, which trades a little recall for precision: an item
// legitimately named "Tax Fried Chicken" would be lost, and that is
// accepted.
var excludeTerms = []string{
	"total", "subtotal", "tax", "gst", "service", "charge", "svr", "chrg",
	"cash", "change", "payment", "tender", "receipt", "thank", "welcome",
	"invoice", "bill", "discount", "pos", "table", "cashier", "station",
	"quay", "robertson", "buayside", "guayside", "rept", "pax", "april", "date",
}

// isExcluded reports whether the text contains any stoplist term,
// case-insensitively.
func isExcluded(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range excludeTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// line is one normalized receipt line.
type line struct {
	text     string
	excluded bool
}

// normalizeLines splits raw OCR text into trimmed lines, dropping
// anything shorter than two characters and tagging stoplist matches.
// Excluded lines are never item candidates, even when they carry a
// valid price token.
func normalizeLines(text string) []line {
	var lines []line
	for _, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if len(trimmed) < 2 {
			continue
		}
		lines = append(lines, line{
			text:     trimmed,
			excluded: isExcluded(trimmed),
		})
	}
	return lines
}
