package heuristics

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.ie", NormalizeURL("example.ie"))
	assert.Equal(t, "http://example.ie", NormalizeURL("http://example.ie"))
	assert.Equal(t, "https://example.ie/sale", NormalizeURL("  https://example.ie/sale "))
	assert.Equal(t, "", NormalizeURL("   "))
}

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "example.ie", DomainOf("https://Example.IE/offers?x=1"))
	assert.Equal(t, "", DomainOf("not a url ::"))
}

func TestSameDomain(t *testing.T) {
	assert.True(t, SameDomain("https://example.ie/a", "https://example.ie/b"))
	assert.False(t, SameDomain("https://example.ie", "https://other.ie"))
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "winter sale 50% off", NormalizeTitle("  Winter   SALE\t50% off!! "))

	long := strings.Repeat("a", 300)
	assert.Len(t, NormalizeTitle(long), 220)
}

func TestBestTitle(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><head><title>Page Title</title></head><body><h1> Big  Sale </h1></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "Big Sale", BestTitle(doc, ""))

	doc, err = goquery.NewDocumentFromReader(strings.NewReader(
		`<html><head><title>Page Title</title></head><body><p>no headings</p></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "Page Title", BestTitle(doc, ""))

	doc, err = goquery.NewDocumentFromReader(strings.NewReader(`<html><body></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "Fallback Store", BestTitle(doc, "Fallback Store"))
	assert.Equal(t, "(untitled)", BestTitle(doc, ""))
}

func TestElementTitle(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div class="tile"><span>span text</span><h3>Heading Three</h3></div>`))
	require.NoError(t, err)

	sel := doc.Find("div.tile")
	assert.Equal(t, "Heading Three", ElementTitle(sel, []string{"h3", "h2", "h4", "a", "span"}))
	assert.Equal(t, "", ElementTitle(sel, []string{"h2"}))
}
