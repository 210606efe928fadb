// Package discovery finds promo URL candidates per store by combining
// three strategies (common paths, sitemap enumeration, homepage scan)
// into a scored, deduplicated, capped candidate set.
package discovery

import (
	"sort"
	"strings"

	"dealradar/helpers"
	"dealradar/internal/deal"
	"dealradar/internal/heuristics"
	"dealradar/logger"
)

// Discoverer runs promo URL discovery over a store list. Fetch and Wait
// are injectable so tests can supply canned bodies and skip delays.
type Discoverer struct {
	Fetch       helpers.FetchFunc
	Wait        helpers.Waiter
	MaxPerStore int
	MaxTotal    int

	log *logger.Logger
}

// NewDiscoverer creates a discoverer with the given caps
func NewDiscoverer(fetch helpers.FetchFunc, wait helpers.Waiter, maxPerStore, maxTotal int) *Discoverer {
	return &Discoverer{
		Fetch:       fetch,
		Wait:        wait,
		MaxPerStore: maxPerStore,
		MaxTotal:    maxTotal,
		log:         logger.ForDiscovery(),
	}
}

type candidate struct {
	score int
	via   deal.DiscoveryVia
}

// candidateSet is the per-store URL map plus insertion order, so ranking
// ties stay stable on discovery order. A later strategy finding the same
// URL overwrites the score and via but keeps the original position.
type candidateSet struct {
	order []string
	byURL map[string]candidate
}

func newCandidateSet() *candidateSet {
	return &candidateSet{byURL: make(map[string]candidate)}
}

func (s *candidateSet) add(url string, via deal.DiscoveryVia) {
	if _, seen := s.byURL[url]; !seen {
		s.order = append(s.order, url)
	}
	s.byURL[url] = candidate{score: ScoreURL(url, via), via: via}
}

// ranked returns the URLs sorted by score descending, stable on ties.
func (s *candidateSet) ranked() []string {
	urls := make([]string, len(s.order))
	copy(urls, s.order)
	sort.SliceStable(urls, func(i, j int) bool {
		return s.byURL[urls[i]].score > s.byURL[urls[j]].score
	})
	return urls
}

// Run discovers promo candidates for every store, deduplicated globally
// and capped per store and per run. Once the global cap is reached no
// further stores are processed.
func (d *Discoverer) Run(stores []deal.StoreSite) []deal.PromoCandidate {
	var rows []deal.PromoCandidate
	seenGlobal := make(map[string]bool)

	for i, store := range stores {
		website := heuristics.NormalizeURL(store.Website)
		domain := heuristics.DomainOf(website)
		if website == "" || domain == "" {
			continue
		}

		set := newCandidateSet()
		d.addCommonPaths(set, website)
		d.addSitemapURLs(set, website)
		d.addHomepageLinks(set, website)

		kept := 0
		for _, promoURL := range set.ranked() {
			if kept >= d.MaxPerStore {
				break
			}
			if seenGlobal[promoURL] {
				continue
			}
			seenGlobal[promoURL] = true

			c := set.byURL[promoURL]
			rows = append(rows, deal.PromoCandidate{
				StoreName:     orDefault(store.Name, "(unnamed)"),
				Category:      orDefault(store.Category, "unknown"),
				Website:       website,
				WebsiteDomain: domain,
				PromoURL:      promoURL,
				PriorityScore: c.score,
				DiscoveredVia: c.via,
				CapturedAt:    deal.NowISO(),
			})
			kept++
		}

		if (i+1)%25 == 0 {
			d.log.Info().
				Int("stores_scanned", i+1).
				Int("stores_total", len(stores)).
				Int("promo_urls_total", len(rows)).
				Msg("Discovery progress")
		}

		if len(rows) >= d.MaxTotal {
			d.log.Info().
				Int("max_pages_per_run", d.MaxTotal).
				Msg("Reached global promo URL cap, stopping discovery")
			break
		}

		// be polite between stores too
		d.Wait.Wait()
	}

	return rows
}

// addCommonPaths joins the store root with each conventional promo path.
// No network call is involved.
func (d *Discoverer) addCommonPaths(set *candidateSet, website string) {
	base := strings.TrimSuffix(website, "/")
	for _, p := range PromoPaths {
		set.add(base+p, deal.ViaCommonPath)
	}
}

// addSitemapURLs keeps sitemap entries containing a promo keyword.
func (d *Discoverer) addSitemapURLs(set *candidateSet, website string) {
	for _, u := range d.sitemapURLs(website) {
		if HasPromoKeyword(u) {
			set.add(u, deal.ViaSitemap)
		}
	}
}

// addHomepageLinks keeps same-domain homepage links containing a promo
// keyword.
func (d *Discoverer) addHomepageLinks(set *candidateSet, website string) {
	for _, u := range d.homepageLinks(website) {
		if HasPromoKeyword(u) && heuristics.SameDomain(u, website) {
			set.add(u, deal.ViaHomepageScan)
		}
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}
