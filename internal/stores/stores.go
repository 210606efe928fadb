package stores

import (
	"strconv"
	"strings"

	"dealradar/internal/deal"
)

const sourceName = "OpenStreetMap Overpass"

// StoreRow is one retail POI as written to the store tables.
type StoreRow struct {
	OSMType      string
	OSMID        string
	Name         string
	Category     string
	Website      string
	Phone        string
	OpeningHours string
	Addr         string
	Lat          *float64
	Lon          *float64
	Source       string
	CapturedAt   string
}

// Column order for both store tables.
var StoreHeader = []string{
	"osm_type", "osm_id", "name", "category", "website", "phone",
	"opening_hours", "addr", "lat", "lon", "source", "captured_at",
}

// Row renders a StoreRow for the store tables.
func (s StoreRow) Row() map[string]string {
	return map[string]string{
		"osm_type":      s.OSMType,
		"osm_id":        s.OSMID,
		"name":          s.Name,
		"category":      s.Category,
		"website":       s.Website,
		"phone":         s.Phone,
		"opening_hours": s.OpeningHours,
		"addr":          s.Addr,
		"lat":           deal.FormatFloat(s.Lat),
		"lon":           deal.FormatFloat(s.Lon),
		"source":        s.Source,
		"captured_at":   s.CapturedAt,
	}
}

// categoryRule maps a set of OSM shop values to one pipeline category.
// Rules are checked in order; the first match wins.
type categoryRule struct {
	shops    []string
	category string
}

var categoryRules = []categoryRule{
	{[]string{"electronics", "mobile_phone", "computer", "hifi", "radiotechnics"}, "gadgets/electronics"},
	{[]string{"clothes", "fashion", "shoes", "boutique"}, "clothes"},
	{[]string{"jewelry", "jewellery"}, "jewellery"},
	{[]string{"perfume", "beauty", "cosmetics", "chemist", "hairdresser"}, "perfumes/beauty"},
	{[]string{"appliance", "houseware", "furniture"}, "home appliances"},
}

// InferCategory maps OSM tags to one of the pipeline's retail
// categories. Department stores and anything unrecognized fall back to
// gadgets/electronics; curation narrows those later.
func InferCategory(tags map[string]string) string {
	shop := strings.ToLower(tags["shop"])
	for _, rule := range categoryRules {
		for _, s := range rule.shops {
			if shop == s {
				return rule.category
			}
		}
	}
	return "gadgets/electronics"
}

// addrTags in the order they join into a display address.
var addrTags = []string{"addr:housenumber", "addr:street", "addr:suburb", "addr:city", "addr:postcode"}

// BuildAddr joins the addr:* tags that are present into one line.
func BuildAddr(tags map[string]string) string {
	parts := make([]string, 0, len(addrTags))
	for _, k := range addrTags {
		if v := strings.TrimSpace(tags[k]); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// NormalizeWebsite ensures a scheme on bare-host website tags.
func NormalizeWebsite(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return "https://" + url
}

// FromElement maps one Overpass element to a StoreRow.
func FromElement(el Element, capturedAt string) StoreRow {
	tags := el.Tags
	if tags == nil {
		tags = map[string]string{}
	}

	name := strings.TrimSpace(tags["name"])
	if name == "" {
		name = strings.TrimSpace(tags["brand"])
	}
	if name == "" {
		name = "(unnamed)"
	}

	website := strings.TrimSpace(tags["website"])
	if website == "" {
		website = strings.TrimSpace(tags["contact:website"])
	}

	phone := strings.TrimSpace(tags["phone"])
	if phone == "" {
		phone = strings.TrimSpace(tags["contact:phone"])
	}

	lat, lon := el.Position()

	return StoreRow{
		OSMType:      el.Type,
		OSMID:        strconv.FormatInt(el.ID, 10),
		Name:         name,
		Category:     InferCategory(tags),
		Website:      NormalizeWebsite(website),
		Phone:        phone,
		OpeningHours: strings.TrimSpace(tags["opening_hours"]),
		Addr:         BuildAddr(tags),
		Lat:          lat,
		Lon:          lon,
		Source:       sourceName,
		CapturedAt:   capturedAt,
	}
}

// BuildRows maps elements to store rows, dropping duplicate type:id pairs.
func BuildRows(elements []Element, capturedAt string) []StoreRow {
	seen := make(map[string]bool, len(elements))
	rows := make([]StoreRow, 0, len(elements))
	for _, el := range elements {
		key := el.Type + ":" + strconv.FormatInt(el.ID, 10)
		if seen[key] {
			continue
		}
		seen[key] = true
		rows = append(rows, FromElement(el, capturedAt))
	}
	return rows
}
