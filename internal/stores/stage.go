package stores

import (
	"dealradar/config"
	"dealradar/internal/deal"
	"dealradar/internal/table"
	"dealradar/logger"
	"dealradar/pkg/errors"
)

const stageName = "stores"

// RunStage queries Overpass for retail POIs in the configured bounding
// box and writes the full store table plus the website-bearing subset
// the discovery stage crawls.
func RunStage(cfg *config.Config, client *Client) error {
	log := logger.ForStores()

	bbox, err := ParseBBox(cfg.MetroBBox)
	if err != nil {
		return errors.NewConfiguration("invalid metro bounding box", err)
	}

	if client == nil {
		client = NewClient(nil, cfg.OverpassTimeout, cfg.OverpassMaxRetries, cfg.OverpassBackoffBase)
	}

	resp, err := client.Fetch(client.Query(bbox))
	if err != nil {
		return err
	}
	log.Info().Int("elements", len(resp.Elements)).Msg("Received Overpass elements")

	rows := BuildRows(resp.Elements, deal.NowISO())

	all := make([]map[string]string, 0, len(rows))
	withSites := make([]map[string]string, 0, len(rows))
	for _, r := range rows {
		record := r.Row()
		all = append(all, record)
		if r.Website != "" {
			withSites = append(withSites, record)
		}
	}

	if err := table.Write(cfg.StoresAllFile, StoreHeader, all); err != nil {
		return errors.NewStorage(stageName, "failed to write store table", err)
	}
	if err := table.Write(cfg.StoresFile, StoreHeader, withSites); err != nil {
		return errors.NewStorage(stageName, "failed to write website store table", err)
	}

	log.Info().
		Str("all", cfg.StoresAllFile).
		Int("stores", len(all)).
		Str("with_websites", cfg.StoresFile).
		Int("crawlable", len(withSites)).
		Msg("Wrote store tables")
	return nil
}
