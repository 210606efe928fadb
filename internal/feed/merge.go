// Package feed merges the raw deal table into a deduplicated, stable
// publish set: content-derived ids, latest-capture-wins duplicate
// resolution and id-sorted output that is byte-stable across runs.
package feed

import (
	"sort"
	"strings"
	"time"

	"dealradar/internal/deal"
	"dealradar/internal/table"
)

// Merge turns the full raw-deal table into the publish set. When at least
// one row is explicitly marked publish=true, only such rows are
// considered; otherwise curation is assumed not in use and every row
// qualifies.
func Merge(tbl *table.Table) []deal.PublishedDeal {
	filterPublish := false
	if tbl.HasColumn("publish") {
		for _, row := range tbl.Rows {
			if v := deal.ToBool(row["publish"]); v != nil && *v {
				filterPublish = true
				break
			}
		}
	}

	type entry struct {
		item       deal.PublishedDeal
		capturedAt time.Time
	}
	latest := make(map[string]entry)

	for _, row := range tbl.Rows {
		if filterPublish {
			v := deal.ToBool(row["publish"])
			if v == nil || !*v {
				continue
			}
		}

		item := buildItem(row)
		capturedAt := deal.ParseTime(item.CapturedAt)

		existing, ok := latest[item.ID]
		// Later capture wins; on equal timestamps the later-arriving row
		// replaces the earlier one.
		if !ok || !capturedAt.Before(existing.capturedAt) {
			latest[item.ID] = entry{item: item, capturedAt: capturedAt}
		}
	}

	ids := make([]string, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	items := make([]deal.PublishedDeal, 0, len(ids))
	for _, id := range ids {
		items = append(items, latest[id].item)
	}
	return items
}

// buildItem normalizes one raw row into a published item. Unparsable
// numeric fields coerce to null, never fail.
func buildItem(row map[string]string) deal.PublishedDeal {
	storeDomain := strings.ToLower(strings.TrimSpace(row["website_domain"]))
	title := strings.TrimSpace(row["title"])
	if title == "" {
		title = "(untitled)"
	}
	sourceURL := strings.TrimSpace(row["source_url"])
	newPrice := deal.ToFloat(row["new_price"])

	confidence := strings.ToUpper(strings.TrimSpace(row["in_store_confidence"]))
	if confidence == "" {
		confidence = "LOW"
	}

	needsReview := true
	if v := deal.ToBool(row["needs_review"]); v != nil {
		needsReview = *v
	}

	capturedAt := strings.TrimSpace(row["captured_at"])
	if capturedAt == "" {
		capturedAt = deal.NowISO()
	}

	return deal.PublishedDeal{
		ID:                DeterministicID(storeDomain, title, newPrice, sourceURL),
		Title:             title,
		StoreName:         strings.TrimSpace(row["store_name"]),
		Category:          strings.TrimSpace(row["category"]),
		NewPrice:          newPrice,
		OldPrice:          deal.ToFloat(row["old_price"]),
		DiscountPercent:   deal.ToInt(row["discount_percent"]),
		InStoreConfidence: confidence,
		NeedsReview:       needsReview,
		SourceURL:         sourceURL,
		Addr:              strings.TrimSpace(row["addr"]),
		Lat:               deal.ToFloat(row["lat"]),
		Lon:               deal.ToFloat(row["lon"]),
		CapturedAt:        capturedAt,
	}
}
