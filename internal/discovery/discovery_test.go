package discovery

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealradar/helpers"
	"dealradar/internal/deal"
)

const testSitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://shop.example/clearance-event</loc></url>
  <url><loc> https://shop.example/about-us </loc></url>
  <url><loc>https://shop.example/weekly-specials#top</loc></url>
</urlset>`

const testHomepage = `<html><body>
  <a href="/special-offers-march">Offers</a>
  <a href="https://shop.example/news">News</a>
  <a href="https://other.example/sale">External sale</a>
  <a href="/sale">Sale</a>
</body></html>`

// cannedFetch serves fixed bodies per URL and records every request.
func cannedFetch(bodies map[string]string, requested *[]string) helpers.FetchFunc {
	return func(url string) (string, error) {
		if requested != nil {
			*requested = append(*requested, url)
		}
		if body, ok := bodies[url]; ok {
			return body, nil
		}
		return "", fmt.Errorf("fetch %s unexpected status code: 404", url)
	}
}

func testStore() deal.StoreSite {
	return deal.StoreSite{Name: "Shop", Category: "clothes", Website: "https://shop.example"}
}

func TestDiscovererCombinesStrategies(t *testing.T) {
	bodies := map[string]string{
		"https://shop.example/sitemap.xml": testSitemap,
		"https://shop.example":             testHomepage,
	}
	d := NewDiscoverer(cannedFetch(bodies, nil), helpers.NopWaiter{}, 100, 1000)

	rows := d.Run([]deal.StoreSite{testStore()})
	require.NotEmpty(t, rows)

	byURL := make(map[string]deal.PromoCandidate)
	for _, r := range rows {
		byURL[r.PromoURL] = r
	}

	// Common paths are generated without a network call.
	cp, ok := byURL["https://shop.example/offers"]
	require.True(t, ok)
	assert.Equal(t, deal.ViaCommonPath, cp.DiscoveredVia)

	// Sitemap entries are filtered to promo keywords, fragments stripped.
	sm, ok := byURL["https://shop.example/clearance-event"]
	require.True(t, ok)
	assert.Equal(t, deal.ViaSitemap, sm.DiscoveredVia)
	_, ok = byURL["https://shop.example/weekly-specials"]
	assert.True(t, ok)
	_, ok = byURL["https://shop.example/about-us"]
	assert.False(t, ok)

	// Homepage links are same-domain only.
	hp, ok := byURL["https://shop.example/special-offers-march"]
	require.True(t, ok)
	assert.Equal(t, deal.ViaHomepageScan, hp.DiscoveredVia)
	_, ok = byURL["https://other.example/sale"]
	assert.False(t, ok)

	// Ranking is score descending.
	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].PriorityScore, rows[i].PriorityScore)
	}
}

func TestDiscovererLastStrategyWins(t *testing.T) {
	// The homepage links to /sale, which common-path generation already
	// produced. The later strategy overwrites the score and via.
	bodies := map[string]string{
		"https://shop.example": testHomepage,
	}
	d := NewDiscoverer(cannedFetch(bodies, nil), helpers.NopWaiter{}, 100, 1000)

	rows := d.Run([]deal.StoreSite{testStore()})

	var sale *deal.PromoCandidate
	for i := range rows {
		if rows[i].PromoURL == "https://shop.example/sale" {
			sale = &rows[i]
		}
	}
	require.NotNil(t, sale)
	assert.Equal(t, deal.ViaHomepageScan, sale.DiscoveredVia)
	assert.Equal(t, 12, sale.PriorityScore) // 8 keyword + 4 homepage bonus
}

func TestDiscovererPerStoreCap(t *testing.T) {
	d := NewDiscoverer(cannedFetch(nil, nil), helpers.NopWaiter{}, 3, 1000)

	rows := d.Run([]deal.StoreSite{testStore()})
	assert.Len(t, rows, 3)
}

func TestDiscovererGlobalCapStopsStores(t *testing.T) {
	var requested []string
	d := NewDiscoverer(cannedFetch(nil, &requested), helpers.NopWaiter{}, 10, 5)

	stores := []deal.StoreSite{
		{Name: "First", Website: "https://first.example"},
		{Name: "Second", Website: "https://second.example"},
	}
	rows := d.Run(stores)

	// The first store alone satisfies the global cap, so the second store
	// is never touched at all.
	assert.GreaterOrEqual(t, len(rows), 5)
	for _, r := range rows {
		assert.Equal(t, "first.example", r.WebsiteDomain)
	}
	for _, u := range requested {
		assert.False(t, strings.Contains(u, "second.example"), "second store should not be fetched")
	}
}

func TestDiscovererSkipsStoresWithoutWebsite(t *testing.T) {
	d := NewDiscoverer(cannedFetch(nil, nil), helpers.NopWaiter{}, 10, 1000)

	rows := d.Run([]deal.StoreSite{{Name: "No Site"}})
	assert.Empty(t, rows)
}

func TestDiscovererFetchFailuresYieldFewerCandidates(t *testing.T) {
	// Every fetch fails: sitemap and homepage strategies contribute
	// nothing, common paths still come through.
	d := NewDiscoverer(cannedFetch(nil, nil), helpers.NopWaiter{}, 100, 1000)

	rows := d.Run([]deal.StoreSite{testStore()})
	require.NotEmpty(t, rows)
	for _, r := range rows {
		assert.Equal(t, deal.ViaCommonPath, r.DiscoveredVia)
	}
}

func TestSitemapFirstHitWins(t *testing.T) {
	var requested []string
	bodies := map[string]string{
		"https://shop.example/sitemap.xml": testSitemap,
	}
	d := NewDiscoverer(cannedFetch(bodies, &requested), helpers.NopWaiter{}, 100, 1000)

	urls := d.sitemapURLs("https://shop.example")
	assert.Len(t, urls, 3)

	// Later sitemap locations are not probed once one yields entries.
	for _, u := range requested {
		assert.NotContains(t, u, "sitemap_index")
	}
}
