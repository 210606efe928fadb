package heuristics

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page-level title probes, most specific first.
var pageTitleProbes = []string{"h1", "h2"}

// BestTitle picks a page-level title: the first non-empty h1/h2, then the
// document title, then the fallback, then "(untitled)".
func BestTitle(doc *goquery.Document, fallback string) string {
	for _, probe := range pageTitleProbes {
		if text := CleanSpace(doc.Find(probe).First().Text()); text != "" {
			return TruncateRunes(text, maxTitleLen)
		}
	}
	if text := CleanSpace(doc.Find("title").First().Text()); text != "" {
		return TruncateRunes(text, maxTitleLen)
	}
	if fallback = strings.TrimSpace(fallback); fallback != "" {
		return TruncateRunes(fallback, maxTitleLen)
	}
	return "(untitled)"
}

// ElementTitle extracts a title from within a tile by probing an ordered
// list of sub-element kinds and taking the first with non-empty text.
func ElementTitle(sel *goquery.Selection, probes []string) string {
	for _, probe := range probes {
		if text := CleanSpace(sel.Find(probe).First().Text()); text != "" {
			return TruncateRunes(text, maxTitleLen)
		}
	}
	return ""
}
