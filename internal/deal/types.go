package deal

// DiscoveryVia identifies which strategy found a promo URL.
type DiscoveryVia string

const (
	ViaCommonPath   DiscoveryVia = "common_path"
	ViaSitemap      DiscoveryVia = "sitemap"
	ViaHomepageScan DiscoveryVia = "homepage_scan"
)

// StoreSite is one store record from the store table. Immutable once loaded.
type StoreSite struct {
	Name     string
	Category string
	Website  string
	Addr     string
	Lat      *float64
	Lon      *float64
}

// PromoCandidate is a URL hypothesized to host sale/discount content,
// with a heuristic priority score. Identity is the normalized absolute URL.
type PromoCandidate struct {
	StoreName     string
	Category      string
	Website       string
	WebsiteDomain string
	PromoURL      string
	PriorityScore int
	DiscoveredVia DiscoveryVia
	CapturedAt    string
}

// RawDeal is one scraped assertion about a deal on a promo page.
// NeedsReview always starts true; Publish stays unset until a curator
// flips it.
type RawDeal struct {
	StoreName         string
	Category          string
	WebsiteDomain     string
	SourceURL         string
	Title             string
	NewPrice          *float64
	OldPrice          *float64
	DiscountPercent   *int
	InStoreConfidence string
	NeedsReview       bool
	Addr              string
	Lat               *float64
	Lon               *float64
	CapturedAt        string
	Publish           *bool
}

// PublishedDeal is a RawDeal projected under its content-derived identity.
// Optional fields are pointers so they serialize as null, never omitted.
type PublishedDeal struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	StoreName         string   `json:"store_name"`
	Category          string   `json:"category"`
	NewPrice          *float64 `json:"new_price"`
	OldPrice          *float64 `json:"old_price"`
	DiscountPercent   *int     `json:"discount_percent"`
	InStoreConfidence string   `json:"in_store_confidence"`
	NeedsReview       bool     `json:"needs_review"`
	SourceURL         string   `json:"source_url"`
	Addr              string   `json:"addr"`
	Lat               *float64 `json:"lat"`
	Lon               *float64 `json:"lon"`
	CapturedAt        string   `json:"captured_at"`
}

// Column order for the promo-candidate table.
var PromoHeader = []string{
	"store_name", "category", "website", "website_domain",
	"promo_url", "priority_score", "discovered_via", "captured_at",
}

// Column order for the raw-deal table. The publish column is always
// present even though the extractor never fills it.
var RawDealHeader = []string{
	"store_name", "category", "website_domain", "source_url", "title",
	"new_price", "old_price", "discount_percent", "in_store_confidence",
	"needs_review", "addr", "lat", "lon", "captured_at", "publish",
}

// Column order for the published feed table.
var PublishedHeader = []string{
	"id", "title", "store_name", "category",
	"new_price", "old_price", "discount_percent", "in_store_confidence",
	"needs_review", "source_url", "addr", "lat", "lon", "captured_at",
}
