package parser

import (
	"regexp"
	"strings"

	"github.com/howmuchah/howmuchah/internal/models"
)

// singlePassExtractor judges every line in isolation against a fixed
// priority table. It keeps more candidates than the structured
// extractor, at the cost of emitting zero-price items that need manual
// correction.
type singlePassExtractor struct{}

var (
	// "2 NASI LEMAK": digits, space, capital letter. A quantity
	// prefix is the strongest signal a line is an item.
	quantityPrefixPattern = regexp.MustCompile(`^\d+\s+[A-Z]`)

	leadingQuantity    = regexp.MustCompile(`^\d+\s+`)
	leadingQuantityDot = regexp.MustCompile(`^\d+\.\s*`)
	leadingSymbols     = regexp.MustCompile(`^[\*\-\+\#]+\s*`)
	repeatedPlus       = regexp.MustCompile(`\+{2,}`)
	repeatedDots       = regexp.MustCompile(`\.{2,}`)
	innerWhitespace    = regexp.MustCompile(`\s+`)
)

func (e *singlePassExtractor) Extract(text string) []models.LineItem {
	var items []models.LineItem

	for _, ln := range normalizeLines(text) {
		if ln.excluded {
			continue
		}

		tokens := findPriceTokens(ln.text)

		// Receipts put the line total at the right edge, so scan the
		// matched tokens from the last one backwards.
		var price float64
		priceFound := false
		for i := len(tokens) - 1; i >= 0; i-- {
			if v := priceValue(tokens[i]); inRange(v, maxSinglePassPrice) {
				price = v
				priceFound = true
				break
			}
		}

		name := cleanItemName(ln.text, tokens)

		barePrice := isBarePriceLine(ln.text)
		hasQuantity := quantityPrefixPattern.MatchString(ln.text)

		var accept bool
		var finalName string
		var finalPrice float64

		switch {
		// Quantity + name + price: accept outright.
		case hasQuantity && len(name) >= 2 && priceFound:
			accept, finalName, finalPrice = true, name, price

		// Name + price, no quantity prefix: require a longer name and
		// re-check the cleaned name against the stoplist.
		case !hasQuantity && len(name) >= 3 && priceFound && !isExcluded(name):
			accept, finalName, finalPrice = true, name, price

		// A price alone on its own line. Small amounts only; a bare
		// three-digit figure is more likely a total.
		case barePrice && priceFound && price < 100:
			accept, finalName, finalPrice = true, "Item", price

		// Quantity + name with no usable price: keep it at zero so
		// the user can fill the price in manually.
		case hasQuantity && len(name) >= 2 && !isExcluded(name):
			accept, finalName, finalPrice = true, name, 0
		}

		if !accept || isDuplicate(items, finalName, finalPrice) {
			continue
		}
		items = append(items, models.LineItem{Name: finalName, Price: finalPrice})
	}

	return items
}

// cleanItemName strips matched price tokens, quantity and bullet
// prefixes, and repeated-punctuation OCR noise from a line, leaving
// the candidate item name.
func cleanItemName(text string, priceTokens []string) string {
	name := text
	for _, tok := range priceTokens {
		name = strings.Replace(name, tok, "", 1)
	}
	name = leadingQuantity.ReplaceAllString(name, "")
	name = leadingQuantityDot.ReplaceAllString(name, "")
	name = leadingSymbols.ReplaceAllString(name, "")
	name = repeatedPlus.ReplaceAllString(name, "")
	name = repeatedDots.ReplaceAllString(name, "")
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(name, " "))
}
