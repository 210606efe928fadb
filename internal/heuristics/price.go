package heuristics

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Currency symbol or 3-letter code immediately followed by an amount.
	priceRegex = regexp.MustCompile(`(?i)(€|eur|£|gbp)\s*(\d{1,5}(?:[.,]\d{2})?)`)

	percentRegex = regexp.MustCompile(`(\d{1,3})\s*%`)
)

// Scanning more than a handful of amounts per text block only picks up
// shipping thresholds and unrelated footer prices.
const maxPriceTokens = 6

// ExtractPrices scans free text for currency amounts and a percent token.
// Zero amounts found yields (nil, nil, discount); one amount is the new
// price only; with two or more, the first two found are sorted so the
// larger becomes the old price. A struck-through original price is almost
// always higher than the sale price, but pages listing unrelated amounts
// (shipping thresholds and the like) will misclassify.
func ExtractPrices(text string) (newPrice, oldPrice *float64, discount *int) {
	var prices []float64
	for _, m := range priceRegex.FindAllStringSubmatch(text, maxPriceTokens) {
		amount := strings.ReplaceAll(m[2], ",", ".")
		if v, err := strconv.ParseFloat(amount, 64); err == nil {
			prices = append(prices, v)
		}
	}

	if m := percentRegex.FindStringSubmatch(text); m != nil {
		if d, err := strconv.Atoi(m[1]); err == nil {
			discount = &d
		}
	}

	switch len(prices) {
	case 0:
		return nil, nil, discount
	case 1:
		return &prices[0], nil, discount
	}

	older, newer := prices[0], prices[1]
	if newer > older {
		older, newer = newer, older
	}
	return &newer, &older, discount
}
