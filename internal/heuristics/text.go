package heuristics

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	maxTitleLen     = 160
	maxNormTitleLen = 220
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	titleCharsRegex = regexp.MustCompile(`[^a-z0-9 €£%.\-_/]`)
)

// NormalizeURL trims a website value and defaults the scheme to https
// when none is present. Empty input stays empty.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// DomainOf returns the lowercased host of a URL, or "" when unparsable.
func DomainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// SameDomain reports whether two URLs share the same host.
func SameDomain(a, b string) bool {
	return DomainOf(a) == DomainOf(b)
}

// NormalizeTitle canonicalizes a deal title for identity hashing:
// lowercase, collapsed whitespace, restricted character set, capped
// length. Must stay deterministic across runs — the published feed's
// stable ids depend on it.
func NormalizeTitle(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespaceRegex.ReplaceAllString(s, " ")
	s = titleCharsRegex.ReplaceAllString(s, "")
	return TruncateRunes(s, maxNormTitleLen)
}

// TruncateRunes shortens a string to at most n runes.
func TruncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// CleanSpace collapses all whitespace runs in extracted element text to
// single spaces and trims the ends.
func CleanSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
