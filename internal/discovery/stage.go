package discovery

import (
	"os"
	"sort"

	"dealradar/config"
	"dealradar/helpers"
	"dealradar/internal/deal"
	"dealradar/internal/table"
	"dealradar/logger"
	"dealradar/pkg/errors"
)

const stageName = "discovery"

// RunStage reads the store table, discovers promo candidates and writes
// the promo-candidate table sorted by score descending.
func RunStage(cfg *config.Config, fetch helpers.FetchFunc, wait helpers.Waiter) error {
	log := logger.ForDiscovery()

	if _, err := os.Stat(cfg.StoresFile); err != nil {
		log.Error().Str("path", cfg.StoresFile).Msg("Store table missing, run the stores stage first")
		return errors.NewMissingInput(stageName, cfg.StoresFile)
	}

	tbl, err := table.Read(cfg.StoresFile)
	if err != nil {
		return errors.NewParsing(stageName, "failed to read store table", err)
	}

	stores := make([]deal.StoreSite, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		stores = append(stores, deal.StoreSiteFromRow(row))
	}

	log.Info().
		Int("stores", len(stores)).
		Int("max_pages_per_run", cfg.MaxPagesPerRun).
		Msg("Starting promo URL discovery")

	d := NewDiscoverer(fetch, wait, cfg.MaxPromoURLsPerStore, cfg.MaxPagesPerRun)
	rows := d.Run(stores)

	// The table is the extractor's work queue, highest score first.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PriorityScore > rows[j].PriorityScore
	})

	records := make([]map[string]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.Row())
	}
	if err := table.Write(cfg.PromoURLsFile, deal.PromoHeader, records); err != nil {
		return errors.NewStorage(stageName, "failed to write promo table", err)
	}

	log.Info().
		Str("path", cfg.PromoURLsFile).
		Int("rows", len(rows)).
		Msg("Wrote promo candidate table")
	return nil
}
