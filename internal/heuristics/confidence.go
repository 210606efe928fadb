// Package heuristics holds the pure text-classification functions shared
// by the extractor: purchase-location confidence, price/discount token
// parsing and title/url normalization. Everything here is stateless.
package heuristics

import "strings"

// Confidence estimates whether a deal is available for walk-in purchase.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// Phrases that indicate a walk-in offer.
var inStorePhrases = []string{
	"in-store", "in store", "participating stores", "while stocks last",
	"selected stores", "in selected stores", "available in store",
}

// Phrases that indicate online-only checkout flows.
var onlineOnlyPhrases = []string{
	"delivery", "shipping", "checkout", "add to cart", "add to basket",
	"buy now", "order online", "cart",
}

type confidenceRule struct {
	phrases []string
	outcome Confidence
}

// confidenceRules is evaluated top to bottom, first match wins. The
// in-store list comes first, so text matching both lists yields HIGH.
var confidenceRules = []confidenceRule{
	{phrases: inStorePhrases, outcome: ConfidenceHigh},
	{phrases: onlineOnlyPhrases, outcome: ConfidenceLow},
}

// ConfidenceFromText classifies free text by case-insensitive substring
// match against the rule table. Text matching neither list is MEDIUM.
func ConfidenceFromText(text string) Confidence {
	lower := strings.ToLower(text)
	for _, rule := range confidenceRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(lower, phrase) {
				return rule.outcome
			}
		}
	}
	return ConfidenceMedium
}
