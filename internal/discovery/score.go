package discovery

import (
	"strings"

	"dealradar/internal/deal"
)

// PromoPaths are conventional promotional path segments probed against
// every store root without a network call.
var PromoPaths = []string{
	"/sale", "/sales",
	"/offers", "/offer",
	"/promotions", "/promotion",
	"/clearance",
	"/deals", "/deal",
	"/weekly-ad", "/weeklyad",
	"/catalogue", "/catalog", "/brochure",
	"/leaflet",
	"/special-offers",
	"/outlet",
}

// PromoKeywords mark a URL as promotional. Substring match against the
// lowercased URL; one URL can match several keywords at once.
var PromoKeywords = []string{
	"sale", "offer", "offers", "promotion", "promotions", "clearance",
	"deals", "discount", "save", "special", "outlet", "black-friday",
	"leaflet", "catalogue", "catalog", "weekly",
}

// SitemapPaths are conventional sitemap locations tried in order.
var SitemapPaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap-index.xml",
}

const (
	keywordScore = 8
	// Printed leaflets are usually published as PDFs.
	leafletScore = 10

	sitemapBonus      = 3
	commonPathBonus   = 5
	homepageScanBonus = 4
)

// ScoreURL ranks a promo candidate: 8 per matching keyword, 10 for a PDF
// leaflet, plus a flat strategy bonus. Common-path URLs get the largest
// bonus because they are highest-precision.
func ScoreURL(rawURL string, via deal.DiscoveryVia) int {
	lower := strings.ToLower(rawURL)
	score := 0
	for _, kw := range PromoKeywords {
		if strings.Contains(lower, kw) {
			score += keywordScore
		}
	}
	if strings.HasSuffix(lower, ".pdf") {
		score += leafletScore
	}
	switch via {
	case deal.ViaSitemap:
		score += sitemapBonus
	case deal.ViaCommonPath:
		score += commonPathBonus
	case deal.ViaHomepageScan:
		score += homepageScanBonus
	}
	return score
}

// HasPromoKeyword reports whether any promotional keyword appears in the
// lowercased URL.
func HasPromoKeyword(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, kw := range PromoKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
