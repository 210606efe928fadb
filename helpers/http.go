package helpers

import (
	"bytes"
	"fmt"
	"io"
	mathrand "math/rand"
	"net/http"
	"net/url"
	"slices"
	"time"

	"golang.org/x/net/html/charset"

	"dealradar/services/cache"
)

// FetchFunc retrieves the body of a URL as UTF-8 text. Implementations
// return an error for transport failures, timeouts and non-2xx statuses;
// callers treat any error as "no data" for that URL.
type FetchFunc func(url string) (string, error)

// HTTP header configurations
var (
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Safari/605.1.15",
	}

	referers = []string{
		"https://www.google.com/",
		"https://www.bing.com/",
		"https://duckduckgo.com/",
	}
)

// Fetcher is the production FetchFunc provider. When a host answers with
// a rate-limit status it is blocked in the cache for BlockTime so the rest
// of the run skips it instead of hammering it.
type Fetcher struct {
	Client    *http.Client
	CacheSvc  cache.CacheService
	BlockTime time.Duration
}

// NewFetcher creates a fetcher with the given per-request timeout
func NewFetcher(timeout time.Duration, cacheSvc cache.CacheService, blockTime time.Duration) *Fetcher {
	return &Fetcher{
		Client:    &http.Client{Timeout: timeout},
		CacheSvc:  cacheSvc,
		BlockTime: blockTime,
	}
}

// Fetch sends an HTTP GET request with browser-like headers, converts the
// response body to UTF-8 if needed, and returns it as a string.
func (f *Fetcher) Fetch(rawURL string) (string, error) {
	host := hostOf(rawURL)
	if f.CacheSvc != nil && host != "" {
		if _, err := f.CacheSvc.Get(blockKey(host)); err == nil {
			return "", fmt.Errorf("host %s is rate limited, skipping for %ds", host, int(f.BlockTime/time.Second))
		}
	}

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	rnd := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	req.Header.Set("User-Agent", userAgents[rnd.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-IE,en;q=0.9")
	req.Header.Set("Referer", referers[rnd.Intn(len(referers))])

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		if f.CacheSvc != nil && host != "" {
			f.CacheSvc.Set(blockKey(host), []byte("blocked"), f.BlockTime)
		}
		return "", fmt.Errorf("rate limited by %s; retry after %s", host, resp.Header.Get("Retry-After"))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s unexpected status code: %d", rawURL, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	// Convert to UTF-8 when the page declares another encoding
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header.Get("Content-Type"))
	if name == "utf-8" || name == "UTF-8" {
		return string(bodyBytes), nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return "", fmt.Errorf("failed to read converted UTF-8 body: %w", err)
	}
	return buf.String(), nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

func blockKey(host string) string {
	return "blocked:" + host
}
