package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealradar/helpers"
	"dealradar/internal/deal"
)

const tilePage = `<html><head><title>Spring Offers</title></head><body>
<p>All offers available in store while stocks last.</p>
<div class="product"><h3>Kettle</h3><p>Now €19.99 was €39.99, save 50%</p></div>
<div class="product"><h3>Toaster</h3><p>Only €24.99 this week in all branches</p></div>
<div class="product"><h3>Blender</h3><p>Now €49.99 was €89.99, save 44%</p></div>
<div class="product"><h3>Iron</h3><p>Special price €12.50 for members today</p></div>
<div class="product"><h3>Mixer</h3><p>New arrivals, no pricing announced yet here</p></div>
</body></html>`

func pageInfo() PageInfo {
	return PageInfo{
		URL:       "https://shop.example/sale",
		StoreName: "Shop",
		Category:  "home appliances",
		Addr:      "1 Main St",
	}
}

func TestExtractPageTiles(t *testing.T) {
	deals := ExtractPage(tilePage, pageInfo(), "2024-06-01T00:00:00Z")

	// Four tiles carry price signals; the fifth has none and is skipped.
	require.Len(t, deals, 4)

	titles := make([]string, 0, len(deals))
	for _, d := range deals {
		titles = append(titles, d.Title)
	}
	assert.Equal(t, []string{"Kettle", "Toaster", "Blender", "Iron"}, titles)

	kettle := deals[0]
	require.NotNil(t, kettle.NewPrice)
	require.NotNil(t, kettle.OldPrice)
	require.NotNil(t, kettle.DiscountPercent)
	assert.Equal(t, 19.99, *kettle.NewPrice)
	assert.Equal(t, 39.99, *kettle.OldPrice)
	assert.Equal(t, 50, *kettle.DiscountPercent)

	toaster := deals[1]
	require.NotNil(t, toaster.NewPrice)
	assert.Equal(t, 24.99, *toaster.NewPrice)
	assert.Nil(t, toaster.OldPrice)

	for _, d := range deals {
		// Confidence is page-level: the in-store banner applies to all.
		assert.Equal(t, "HIGH", d.InStoreConfidence)
		assert.True(t, d.NeedsReview)
		assert.Nil(t, d.Publish)
		assert.Equal(t, "shop.example", d.WebsiteDomain)
		assert.Equal(t, "https://shop.example/sale", d.SourceURL)
		assert.Equal(t, "1 Main St", d.Addr)
		assert.Equal(t, "2024-06-01T00:00:00Z", d.CapturedAt)
	}
}

func TestExtractPageWholePageFallback(t *testing.T) {
	// Three tiles per family is below the repeating-structure threshold,
	// so the page collapses to exactly one whole-page deal.
	page := `<html><head><title>Weekend Sale</title></head><body>
<div class="product"><h3>A</h3><p>Now €5.00 reduced from more</p></div>
<div class="product"><h3>B</h3><p>Now €6.00 reduced from more</p></div>
<div class="product"><h3>C</h3><p>Now €7.00 reduced from more</p></div>
<p>Everything must go, up to 60% off until Sunday, delivery available.</p>
</body></html>`

	deals := ExtractPage(page, pageInfo(), "2024-06-01T00:00:00Z")

	require.Len(t, deals, 1)
	assert.Equal(t, "Weekend Sale", deals[0].Title)
	require.NotNil(t, deals[0].DiscountPercent)
	assert.Equal(t, 60, *deals[0].DiscountPercent)
	assert.Equal(t, "LOW", deals[0].InStoreConfidence)
}

func TestExtractPageDedupesTiles(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<html><body>`)
	for i := 0; i < 6; i++ {
		b.WriteString(`<div class="tile"><h3>Lamp</h3><p>Bargain price €9.99 while it lasts</p></div>`)
	}
	b.WriteString(`</body></html>`)

	deals := ExtractPage(b.String(), pageInfo(), "2024-06-01T00:00:00Z")
	assert.Len(t, deals, 1)
}

func TestExtractPageSkipsShortTiles(t *testing.T) {
	page := `<html><body>
<div class="item">€1.00</div>
<div class="item">€2.00</div>
<div class="item">€3.00</div>
<div class="item">€4.00</div>
</body></html>`

	// Four matches activate the family, but every tile's text is under
	// the noise floor, so the page falls back to a single deal.
	deals := ExtractPage(page, pageInfo(), "2024-06-01T00:00:00Z")
	require.Len(t, deals, 1)
	assert.Equal(t, "Shop", deals[0].Title)
}

func TestExtractPagePerPageCap(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<html><body>`)
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, `<div class="card"><h3>Item %d</h3><p>Priced at €%d.99 for a limited period</p></div>`, i, i+10)
	}
	b.WriteString(`</body></html>`)

	deals := ExtractPage(b.String(), pageInfo(), "2024-06-01T00:00:00Z")
	assert.Len(t, deals, 12)
}

func TestExtractPageTitleFallsBackToPage(t *testing.T) {
	page := `<html><head><title>Clearance Corner</title></head><body>
<div class="tile"><p>Reduced to €3.99 while stocks remain on shelves</p></div>
<div class="tile"><p>Reduced to €4.99 while stocks remain on shelves</p></div>
<div class="tile"><p>Reduced to €5.99 while stocks remain on shelves</p></div>
<div class="tile"><p>Reduced to €6.99 while stocks remain on shelves</p></div>
</body></html>`

	deals := ExtractPage(page, pageInfo(), "2024-06-01T00:00:00Z")
	require.Len(t, deals, 4)
	for _, d := range deals {
		assert.Equal(t, "Clearance Corner", d.Title)
	}
}

func TestExtractorRunSkipsFailedPages(t *testing.T) {
	fetch := func(url string) (string, error) {
		if strings.Contains(url, "broken") {
			return "", fmt.Errorf("fetch %s unexpected status code: 503", url)
		}
		return tilePage, nil
	}

	e := NewExtractor(fetch, helpers.NopWaiter{}, 100)
	promos := []deal.PromoCandidate{
		{PromoURL: "https://shop.example/broken", StoreName: "Shop", PriorityScore: 50},
		{PromoURL: "https://shop.example/sale", StoreName: "Shop", WebsiteDomain: "shop.example", PriorityScore: 10},
	}

	deals := e.Run(promos, nil)
	require.Len(t, deals, 4)
	for _, d := range deals {
		assert.Equal(t, "https://shop.example/sale", d.SourceURL)
	}
}

func TestExtractorRunHonorsPageBudget(t *testing.T) {
	var fetched []string
	fetch := func(url string) (string, error) {
		fetched = append(fetched, url)
		return tilePage, nil
	}

	e := NewExtractor(fetch, helpers.NopWaiter{}, 2)
	promos := []deal.PromoCandidate{
		{PromoURL: "https://a.example/sale", PriorityScore: 1},
		{PromoURL: "https://b.example/sale", PriorityScore: 30},
		{PromoURL: "https://c.example/sale", PriorityScore: 20},
	}

	e.Run(promos, nil)

	// Highest scores first, budget of two pages.
	assert.Equal(t, []string{"https://b.example/sale", "https://c.example/sale"}, fetched)
}

func TestExtractorRunJoinsStoreMeta(t *testing.T) {
	fetch := func(url string) (string, error) { return tilePage, nil }
	lat := 53.35
	meta := map[string]deal.StoreSite{
		"shop.example": {Addr: "42 Quay St", Lat: &lat},
	}

	e := NewExtractor(fetch, helpers.NopWaiter{}, 10)
	promos := []deal.PromoCandidate{
		{PromoURL: "https://shop.example/sale", WebsiteDomain: "shop.example", StoreName: "Shop"},
	}

	deals := e.Run(promos, meta)
	require.NotEmpty(t, deals)
	assert.Equal(t, "42 Quay St", deals[0].Addr)
	require.NotNil(t, deals[0].Lat)
	assert.Equal(t, 53.35, *deals[0].Lat)
	assert.Nil(t, deals[0].Lon)
}
