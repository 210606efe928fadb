package feed

import (
	"encoding/json"
	"os"

	"dealradar/config"
	"dealradar/internal/table"
	"dealradar/logger"
	"dealradar/pkg/errors"
	"dealradar/services/publisher"
)

const stageName = "feed"

// RunStage merges the raw deal table and writes the published feed. When
// a publisher is supplied, every published item is also pushed to it;
// publish failures are logged, not fatal.
func RunStage(cfg *config.Config, pub publisher.Publisher) error {
	log := logger.ForFeed()

	if _, err := os.Stat(cfg.DealsFile); err != nil {
		log.Warn().Str("path", cfg.DealsFile).Msg("Raw deal table missing, skipping feed export")
		return errors.NewMissingInput(stageName, cfg.DealsFile)
	}

	tbl, err := table.Read(cfg.DealsFile)
	if err != nil {
		return errors.NewParsing(stageName, "failed to read raw deal table", err)
	}

	items := Merge(tbl)

	jsonPath, csvPath, err := WriteFeed(cfg.FeedDir, items)
	if err != nil {
		return errors.NewStorage(stageName, "failed to write feed", err)
	}

	log.Info().
		Str("json", jsonPath).
		Str("csv", csvPath).
		Int("items", len(items)).
		Msg("Wrote published feed")

	if pub != nil {
		published := 0
		for _, item := range items {
			data, err := json.Marshal(item)
			if err != nil {
				logger.LogError(stageName, err, "Failed to marshal feed item %s", item.ID)
				continue
			}
			if err := pub.Publish(item.ID, data); err != nil {
				logger.LogError(stageName, err, "Failed to publish feed item %s", item.ID)
				continue
			}
			published++
		}
		if err := pub.TrimStream(); err != nil {
			logger.LogError(stageName, err, "Failed to trim feed stream")
		}
		log.Info().Int("published", published).Msg("Published feed items to stream")
	}

	return nil
}
