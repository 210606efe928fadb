// Package stores discovers brick-and-mortar retail stores in a metro
// bounding box from OpenStreetMap via the Overpass API and writes the
// store tables the rest of the pipeline consumes.
package stores

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"dealradar/logger"
	"dealradar/pkg/errors"
)

// Public Overpass mirrors, rotated across retry attempts.
var DefaultEndpoints = []string{
	"https://overpass-api.de/api/interpreter",
	"https://overpass.kumi.systems/api/interpreter",
	"https://overpass.nchc.org.tw/api/interpreter",
}

const (
	maxBackoff         = 90 * time.Second
	maxBackoffExponent = 6
)

// shopRegex matches the OSM shop values the pipeline cares about.
const shopRegex = "electronics|mobile_phone|computer|hifi|radiotechnics|" +
	"clothes|fashion|shoes|boutique|jewelry|jewellery|" +
	"perfume|beauty|cosmetics|chemist|appliance|houseware|furniture"

// BBox is a south/west/north/east bounding box in decimal degrees.
type BBox struct {
	South, West, North, East float64
}

// ParseBBox parses a "south, west, north, east" string.
func ParseBBox(raw string) (BBox, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return BBox{}, fmt.Errorf("bounding box must be 'south, west, north, east', got %q", raw)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("invalid bounding box coordinate %q: %w", p, err)
		}
		vals[i] = v
	}
	return BBox{South: vals[0], West: vals[1], North: vals[2], East: vals[3]}, nil
}

// Response is the Overpass JSON payload.
type Response struct {
	Elements []Element `json:"elements"`
}

// Center carries the computed centroid of a way or relation.
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Element is one OSM node, way or relation with its tags.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *Center           `json:"center"`
	Tags   map[string]string `json:"tags"`
}

// Position returns the element's own coordinates for nodes, or the
// computed center for ways and relations.
func (e Element) Position() (lat, lon *float64) {
	if e.Lat != nil && e.Lon != nil {
		return e.Lat, e.Lon
	}
	if e.Center != nil {
		return &e.Center.Lat, &e.Center.Lon
	}
	return nil, nil
}

// Client queries Overpass with endpoint rotation and exponential backoff.
type Client struct {
	http        *resty.Client
	endpoints   []string
	timeoutSecs int
	maxRetries  int
	backoffBase float64
	sleep       func(time.Duration)
	rnd         *rand.Rand
	log         *logger.Logger
}

// NewClient creates an Overpass client. Endpoints defaults to the public
// mirrors when empty.
func NewClient(endpoints []string, timeout time.Duration, maxRetries int, backoffBase float64) *Client {
	if len(endpoints) == 0 {
		endpoints = DefaultEndpoints
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	http := resty.New()
	http.SetTimeout(timeout)
	http.SetHeader("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")

	return &Client{
		http:        http,
		endpoints:   endpoints,
		timeoutSecs: int(timeout.Seconds()),
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		sleep:       time.Sleep,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		log:         logger.ForStores(),
	}
}

// Query renders the Overpass QL statement for retail POIs in the box.
// Ways and relations come back with a computed center.
func (c *Client) Query(bbox BBox) string {
	coords := fmt.Sprintf("(%v,%v,%v,%v)", bbox.South, bbox.West, bbox.North, bbox.East)

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", c.timeoutSecs)
	for _, kind := range []string{"node", "way", "relation"} {
		fmt.Fprintf(&b, "  %s[\"shop\"~\"%s\"]%s;\n", kind, shopRegex, coords)
	}
	for _, kind := range []string{"node", "way", "relation"} {
		fmt.Fprintf(&b, "  %s[\"amenity\"=\"department_store\"]%s;\n", kind, coords)
	}
	b.WriteString(");\nout center tags;")
	return b.String()
}

// Fetch posts the query, rotating endpoints and backing off between
// attempts. It fails only after every retry is exhausted.
func (c *Client) Fetch(query string) (*Response, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		endpoint := c.endpoints[(attempt-1)%len(c.endpoints)]
		c.log.Debug().
			Int("attempt", attempt).
			Int("max", c.maxRetries).
			Str("endpoint", endpoint).
			Msg("Querying Overpass")

		var result Response
		resp, err := c.http.R().
			SetFormData(map[string]string{"data": query}).
			SetResult(&result).
			Post(endpoint)

		switch {
		case err != nil:
			lastErr = err
			c.log.Warn().Err(err).Str("endpoint", endpoint).Msg("Overpass request failed")
		case resp.StatusCode() != 200:
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode())
			c.log.Warn().
				Int("status", resp.StatusCode()).
				Str("endpoint", endpoint).
				Msg("Overpass returned non-200")
		default:
			return &result, nil
		}

		if attempt < c.maxRetries {
			c.sleep(c.backoff(attempt))
		}
	}

	return nil, errors.NewNetwork(stageName, "overpass failed across all endpoints", lastErr)
}

func (c *Client) backoff(attempt int) time.Duration {
	exp := attempt
	if exp > maxBackoffExponent {
		exp = maxBackoffExponent
	}
	secs := math.Pow(c.backoffBase, float64(exp)) + c.rnd.Float64()
	d := time.Duration(secs * float64(time.Second))
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}
