package deal

import (
	"strconv"
	"strings"
)

// StoreSiteFromRow maps a store-table row to a StoreSite. The name may
// live under "name" or "store_name" depending on who produced the table.
func StoreSiteFromRow(row map[string]string) StoreSite {
	name := strings.TrimSpace(row["name"])
	if name == "" {
		name = strings.TrimSpace(row["store_name"])
	}
	return StoreSite{
		Name:     name,
		Category: strings.TrimSpace(row["category"]),
		Website:  strings.TrimSpace(row["website"]),
		Addr:     strings.TrimSpace(row["addr"]),
		Lat:      ToFloat(row["lat"]),
		Lon:      ToFloat(row["lon"]),
	}
}

// PromoCandidateFromRow maps a promo-table row back to a PromoCandidate.
// A malformed priority score coerces to 0.
func PromoCandidateFromRow(row map[string]string) PromoCandidate {
	score := 0
	if v, err := strconv.Atoi(strings.TrimSpace(row["priority_score"])); err == nil {
		score = v
	}
	return PromoCandidate{
		StoreName:     strings.TrimSpace(row["store_name"]),
		Category:      strings.TrimSpace(row["category"]),
		Website:       strings.TrimSpace(row["website"]),
		WebsiteDomain: strings.ToLower(strings.TrimSpace(row["website_domain"])),
		PromoURL:      strings.TrimSpace(row["promo_url"]),
		PriorityScore: score,
		DiscoveredVia: DiscoveryVia(strings.TrimSpace(row["discovered_via"])),
		CapturedAt:    strings.TrimSpace(row["captured_at"]),
	}
}

// Row renders a PromoCandidate for the promo table.
func (c PromoCandidate) Row() map[string]string {
	return map[string]string{
		"store_name":     c.StoreName,
		"category":       c.Category,
		"website":        c.Website,
		"website_domain": c.WebsiteDomain,
		"promo_url":      c.PromoURL,
		"priority_score": strconv.Itoa(c.PriorityScore),
		"discovered_via": string(c.DiscoveredVia),
		"captured_at":    c.CapturedAt,
	}
}

// Row renders a RawDeal for the raw-deal table.
func (d RawDeal) Row() map[string]string {
	return map[string]string{
		"store_name":          d.StoreName,
		"category":            d.Category,
		"website_domain":      d.WebsiteDomain,
		"source_url":          d.SourceURL,
		"title":               d.Title,
		"new_price":           FormatFloat(d.NewPrice),
		"old_price":           FormatFloat(d.OldPrice),
		"discount_percent":    FormatInt(d.DiscountPercent),
		"in_store_confidence": d.InStoreConfidence,
		"needs_review":        strconv.FormatBool(d.NeedsReview),
		"addr":                d.Addr,
		"lat":                 FormatFloat(d.Lat),
		"lon":                 FormatFloat(d.Lon),
		"captured_at":         d.CapturedAt,
		"publish":             FormatBool(d.Publish),
	}
}

// Row renders a PublishedDeal for the published feed table.
func (p PublishedDeal) Row() map[string]string {
	return map[string]string{
		"id":                  p.ID,
		"title":               p.Title,
		"store_name":          p.StoreName,
		"category":            p.Category,
		"new_price":           FormatFloat(p.NewPrice),
		"old_price":           FormatFloat(p.OldPrice),
		"discount_percent":    FormatInt(p.DiscountPercent),
		"in_store_confidence": p.InStoreConfidence,
		"needs_review":        strconv.FormatBool(p.NeedsReview),
		"source_url":          p.SourceURL,
		"addr":                p.Addr,
		"lat":                 FormatFloat(p.Lat),
		"lon":                 FormatFloat(p.Lon),
		"captured_at":         p.CapturedAt,
	}
}
