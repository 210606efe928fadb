package feed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dealradar/internal/deal"
	"dealradar/internal/table"
)

// Feed is the consumer-facing publish artifact.
type Feed struct {
	GeneratedAt string               `json:"generated_at"`
	Count       int                  `json:"count"`
	Items       []deal.PublishedDeal `json:"items"`
}

// WriteFeed writes the JSON feed and the equivalent flat table into dir.
// Items must already be merged and id-sorted.
func WriteFeed(dir string, items []deal.PublishedDeal) (jsonPath, csvPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create feed dir: %w", err)
	}

	feed := Feed{
		GeneratedAt: deal.NowISO(),
		Count:       len(items),
		Items:       items,
	}
	if feed.Items == nil {
		feed.Items = []deal.PublishedDeal{}
	}

	data, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal feed: %w", err)
	}
	data = append(data, '\n')

	jsonPath = filepath.Join(dir, "published_deals.json")
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write feed: %w", err)
	}

	records := make([]map[string]string, 0, len(items))
	for _, item := range items {
		records = append(records, item.Row())
	}
	csvPath = filepath.Join(dir, "published_deals.csv")
	if err := table.Write(csvPath, deal.PublishedHeader, records); err != nil {
		return "", "", err
	}

	return jsonPath, csvPath, nil
}
