// Package money extracts the first currency-like value from free text.
//
// Retailer cards rarely expose a clean machine-readable price, so the
// extractors fall back to scanning a card's full visible text. Failure is
// a "no value" result, never an error.
package money

import (
	"regexp"
	"strconv"
	"strings"
)

// pricePattern matches an optional dollar sign followed by 1-3 leading
// digits, optional comma-separated thousands groups, and an optional 1-2
// digit fraction. The first match in the text wins.
var pricePattern = regexp.MustCompile(`\$?\s*([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{1,2})?)`)

// Parse returns the first currency-like value found in text. The second
// return is false when no value could be extracted.
func Parse(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	// Non-breaking spaces show up between symbol and digits on some sites.
	text = strings.ReplaceAll(text, " ", " ")

	m := pricePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
