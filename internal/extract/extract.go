// Package extract turns promo pages into structured RawDeal rows. It
// locates repeated tile structures on a page, applies the price and
// confidence heuristics per tile, and falls back to a single whole-page
// deal when no repeating structure is found.
package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"dealradar/helpers"
	"dealradar/internal/deal"
	"dealradar/internal/heuristics"
	"dealradar/logger"
)

// Tile selector families, most specific first. A family only counts when
// it matches at least minTileMatches elements; fewer is noise, not a real
// repeating structure.
var tileFamilies = []string{
	"[class*='product']",
	"[class*='tile']",
	"[class*='item']",
	"[class*='card']",
}

// Sub-element kinds probed for a tile title, in order.
var titleProbes = []string{"h3", "h2", "h4", "a", "span"}

const (
	minTileMatches  = 4
	minTileTextLen  = 20
	maxTilesPerPage = 40
	maxDealsPerPage = 12
)

// PageInfo carries the store context a page is extracted under.
type PageInfo struct {
	URL       string
	StoreName string
	Category  string
	Addr      string
	Lat       *float64
	Lon       *float64
}

// Extractor runs deal extraction over the promo candidate queue.
type Extractor struct {
	Fetch    helpers.FetchFunc
	Wait     helpers.Waiter
	MaxPages int

	log *logger.Logger
}

// NewExtractor creates an extractor with the given page budget
func NewExtractor(fetch helpers.FetchFunc, wait helpers.Waiter, maxPages int) *Extractor {
	return &Extractor{
		Fetch:    fetch,
		Wait:     wait,
		MaxPages: maxPages,
		log:      logger.ForExtractor(),
	}
}

// Run fetches each promo page in score order up to the page budget and
// extracts deals. A failed fetch skips the page, never the run.
func (e *Extractor) Run(promos []deal.PromoCandidate, meta map[string]deal.StoreSite) []deal.RawDeal {
	queue := make([]deal.PromoCandidate, len(promos))
	copy(queue, promos)
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].PriorityScore > queue[j].PriorityScore
	})
	if len(queue) > e.MaxPages {
		queue = queue[:e.MaxPages]
	}

	var deals []deal.RawDeal
	for i, promo := range queue {
		domain := promo.WebsiteDomain
		if domain == "" {
			domain = heuristics.DomainOf(promo.PromoURL)
		}

		info := PageInfo{
			URL:       promo.PromoURL,
			StoreName: orDefault(promo.StoreName, "(unnamed)"),
			Category:  orDefault(promo.Category, "unknown"),
		}
		if site, ok := meta[domain]; ok {
			info.Addr = site.Addr
			info.Lat = site.Lat
			info.Lon = site.Lon
		}

		html, err := e.Fetch(promo.PromoURL)
		e.Wait.Wait()
		if err != nil {
			e.log.Warn().
				Err(err).
				Int("page", i+1).
				Int("pages_total", len(queue)).
				Str("url", promo.PromoURL).
				Msg("Fetch failed, skipping page")
			continue
		}

		deals = append(deals, ExtractPage(html, info, deal.NowISO())...)

		if (i+1)%20 == 0 {
			e.log.Info().
				Int("pages", i+1).
				Int("pages_total", len(queue)).
				Int("deals_so_far", len(deals)).
				Msg("Extraction progress")
		}
	}
	return deals
}

// ExtractPage extracts zero or more deals from a single page. Confidence
// is computed once from the whole page text, not per tile. Every produced
// row defaults needs_review to true and leaves publish unset.
func ExtractPage(html string, info PageInfo, capturedAt string) []deal.RawDeal {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	pageText := heuristics.CleanSpace(doc.Text())
	confidence := heuristics.ConfidenceFromText(pageText)

	newRow := func(title string, newPrice, oldPrice *float64, discount *int) deal.RawDeal {
		return deal.RawDeal{
			StoreName:         info.StoreName,
			Category:          info.Category,
			WebsiteDomain:     heuristics.DomainOf(info.URL),
			SourceURL:         info.URL,
			Title:             title,
			NewPrice:          newPrice,
			OldPrice:          oldPrice,
			DiscountPercent:   discount,
			InStoreConfidence: string(confidence),
			NeedsReview:       true,
			Addr:              info.Addr,
			Lat:               info.Lat,
			Lon:               info.Lon,
			CapturedAt:        capturedAt,
		}
	}

	var candidates []deal.RawDeal
	seen := make(map[string]bool)

	for _, family := range tileFamilies {
		tiles := doc.Find(family)
		if tiles.Length() < minTileMatches {
			continue
		}

		tiles.EachWithBreak(func(i int, tile *goquery.Selection) bool {
			if i >= maxTilesPerPage {
				return false
			}
			text := heuristics.CleanSpace(tile.Text())
			if len(text) < minTileTextLen {
				return true
			}
			newPrice, oldPrice, discount := heuristics.ExtractPrices(text)
			if newPrice == nil && oldPrice == nil && discount == nil {
				return true
			}

			title := heuristics.ElementTitle(tile, titleProbes)
			if title == "" {
				title = heuristics.BestTitle(doc, "Offer")
			}

			key := dedupeKey(title, newPrice, oldPrice, discount)
			if seen[key] {
				return true
			}
			seen[key] = true

			candidates = append(candidates, newRow(title, newPrice, oldPrice, discount))
			return true
		})

		if len(candidates) > 0 {
			break
		}
	}

	// Fallback: exactly one deal from the whole page.
	if len(candidates) == 0 {
		title := heuristics.BestTitle(doc, info.StoreName)
		newPrice, oldPrice, discount := heuristics.ExtractPrices(pageText)
		candidates = append(candidates, newRow(title, newPrice, oldPrice, discount))
	}

	if len(candidates) > maxDealsPerPage {
		candidates = candidates[:maxDealsPerPage]
	}
	return candidates
}

func dedupeKey(title string, newPrice, oldPrice *float64, discount *int) string {
	return fmt.Sprintf("%s|%s|%s|%s",
		strings.ToLower(title),
		deal.FormatFloat(newPrice),
		deal.FormatFloat(oldPrice),
		deal.FormatInt(discount))
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}
