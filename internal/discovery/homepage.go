package discovery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// homepageLinks fetches the store homepage and returns all absolute
// hyperlink targets, fragment-stripped and deduplicated in document
// order. A fetch or parse failure yields no links.
func (d *Discoverer) homepageLinks(website string) []string {
	html, err := d.Fetch(website)
	d.Wait.Wait()
	if err != nil || html == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	base, err := url.Parse(website)
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if !strings.HasPrefix(abs, "http://") && !strings.HasPrefix(abs, "https://") {
			return
		}
		abs = stripFragment(abs)
		if !seen[abs] {
			seen[abs] = true
			links = append(links, abs)
		}
	})
	return links
}
