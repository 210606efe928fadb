package extract

import (
	"os"

	"dealradar/config"
	"dealradar/helpers"
	"dealradar/internal/deal"
	"dealradar/internal/heuristics"
	"dealradar/internal/table"
	"dealradar/logger"
	"dealradar/pkg/errors"
)

const stageName = "extract"

// RunStage reads the promo-candidate table, joins store metadata by
// domain, extracts deals page by page and writes the raw-deal table.
func RunStage(cfg *config.Config, fetch helpers.FetchFunc, wait helpers.Waiter) error {
	log := logger.ForExtractor()

	if _, err := os.Stat(cfg.PromoURLsFile); err != nil {
		log.Error().Str("path", cfg.PromoURLsFile).Msg("Promo table missing, run the promos stage first")
		return errors.NewMissingInput(stageName, cfg.PromoURLsFile)
	}

	promoTbl, err := table.Read(cfg.PromoURLsFile)
	if err != nil {
		return errors.NewParsing(stageName, "failed to read promo table", err)
	}
	promos := make([]deal.PromoCandidate, 0, len(promoTbl.Rows))
	for _, row := range promoTbl.Rows {
		promos = append(promos, deal.PromoCandidateFromRow(row))
	}

	// Store metadata join is best-effort; a missing store table just
	// leaves addr/lat/lon empty.
	meta := make(map[string]deal.StoreSite)
	if storeTbl, err := table.Read(cfg.StoresFile); err == nil {
		for _, row := range storeTbl.Rows {
			site := deal.StoreSiteFromRow(row)
			if domain := heuristics.DomainOf(heuristics.NormalizeURL(site.Website)); domain != "" {
				meta[domain] = site
			}
		}
	} else {
		log.Warn().Str("path", cfg.StoresFile).Msg("Store table unavailable, extracting without geo metadata")
	}

	log.Info().
		Int("promo_urls", len(promos)).
		Dur("timeout", cfg.RequestTimeout).
		Msg("Starting deal extraction")

	e := NewExtractor(fetch, wait, cfg.MaxPagesPerRun)
	deals := e.Run(promos, meta)

	records := make([]map[string]string, 0, len(deals))
	for _, d := range deals {
		records = append(records, d.Row())
	}
	if err := table.Write(cfg.DealsFile, deal.RawDealHeader, records); err != nil {
		return errors.NewStorage(stageName, "failed to write raw deal table", err)
	}

	log.Info().
		Str("path", cfg.DealsFile).
		Int("rows", len(deals)).
		Msg("Wrote raw deal table")
	return nil
}
