package discovery

import (
	"regexp"
	"strings"
)

var locRegex = regexp.MustCompile(`(?is)<loc>\s*(.*?)\s*</loc>`)

// Index sitemaps on large sites can run to tens of thousands of entries.
const maxSitemapURLs = 4000

// sitemapURLs fetches conventional sitemap locations in order and returns
// the location entries of the first one that yields any. A sitemap index
// is treated the same way, its child sitemap URLs are returned as-is.
// Fetch failures just move on to the next candidate location.
func (d *Discoverer) sitemapURLs(website string) []string {
	base := strings.TrimSuffix(website, "/")
	for _, path := range SitemapPaths {
		xml, err := d.Fetch(base + path)
		d.Wait.Wait()
		if err != nil || xml == "" {
			continue
		}

		var found []string
		seen := make(map[string]bool)
		for _, m := range locRegex.FindAllStringSubmatch(xml, maxSitemapURLs) {
			loc := strings.TrimSpace(m[1])
			if !strings.HasPrefix(loc, "http://") && !strings.HasPrefix(loc, "https://") {
				continue
			}
			loc = stripFragment(loc)
			if !seen[loc] {
				seen[loc] = true
				found = append(found, loc)
			}
		}
		if len(found) > 0 {
			return found
		}
	}
	return nil
}

func stripFragment(u string) string {
	if i := strings.Index(u, "#"); i >= 0 {
		return u[:i]
	}
	return u
}
