// Command dealradar runs the metro retail deal pipeline: store discovery
// from OpenStreetMap, promo URL discovery, deal extraction and feed
// publishing. Each stage reads and writes flat tables so stages can run
// independently or chained with the run command.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"dealradar/config"
	"dealradar/helpers"
	"dealradar/internal/discovery"
	"dealradar/internal/extract"
	"dealradar/internal/feed"
	"dealradar/internal/stores"
	"dealradar/logger"
	"dealradar/services/cache"
	"dealradar/services/publisher"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dealradar",
		Short: "Metro-area retail deal aggregation pipeline",
		Long: `dealradar discovers retail stores in a metro bounding box, crawls
their websites for promotion pages, extracts deals and merges them into
a stable published feed.

Stages exchange CSV tables, so each one can be run on its own:

  dealradar stores   # stores_all.csv, stores_with_websites.csv
  dealradar promos   # promo_urls.csv
  dealradar deals    # deals.csv
  dealradar feed     # published_deals.json, published_deals.csv
  dealradar run      # all of the above in order`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newStoresCmd())
	cmd.AddCommand(newPromosCmd())
	cmd.AddCommand(newDealsCmd())
	cmd.AddCommand(newFeedCmd())
	cmd.AddCommand(newRunCmd())

	return cmd
}

func newStoresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stores",
		Short: "Discover retail stores in the metro bounding box",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			return stores.RunStage(cfg, nil)
		},
	}
}

func newPromosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promos",
		Short: "Discover promo URLs on store websites",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			fetcher, waiter := newFetchAndWait(cfg)
			return discovery.RunStage(cfg, fetcher.Fetch, waiter)
		},
	}
}

func newDealsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deals",
		Short: "Extract deals from discovered promo pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			fetcher, waiter := newFetchAndWait(cfg)
			return extract.RunStage(cfg, fetcher.Fetch, waiter)
		},
	}
}

func newFeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "Merge raw deals into the published feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			pub := newPublisher(cmd.Context(), cfg)
			if pub != nil {
				defer pub.Close()
			}
			return feed.RunStage(cfg, pub)
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the whole pipeline in order",
		Long: `Run executes stores, promos, deals and feed in order. The stores
stage is skipped when the store tables already exist, so repeated runs
reuse the geodata instead of re-querying Overpass. A failing stage is
logged and the pipeline moves on; later stages fail softly when their
input table is missing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			log := logger.ForStage("run")

			if storeTablesExist(cfg) {
				log.Info().Str("path", cfg.StoresFile).Msg("Store tables present, skipping store discovery")
			} else if err := stores.RunStage(cfg, nil); err != nil {
				logger.LogError("run", err, "Store discovery failed")
			}

			fetcher, waiter := newFetchAndWait(cfg)
			if err := discovery.RunStage(cfg, fetcher.Fetch, waiter); err != nil {
				logger.LogError("run", err, "Promo discovery failed")
			}
			if err := extract.RunStage(cfg, fetcher.Fetch, waiter); err != nil {
				logger.LogError("run", err, "Deal extraction failed")
			}

			pub := newPublisher(cmd.Context(), cfg)
			if pub != nil {
				defer pub.Close()
			}
			if err := feed.RunStage(cfg, pub); err != nil {
				logger.LogError("run", err, "Feed export failed")
			}

			log.Info().Msg("Pipeline finished")
			return nil
		},
	}
}

func storeTablesExist(cfg *config.Config) bool {
	if _, err := os.Stat(cfg.StoresFile); err != nil {
		return false
	}
	_, err := os.Stat(cfg.StoresAllFile)
	return err == nil
}

// newFetchAndWait builds the shared polite HTTP fetcher. Host rate-limit
// blocks live in memcache when an address is configured so parallel
// stage invocations share them; otherwise an in-process cache is used.
func newFetchAndWait(cfg *config.Config) (*helpers.Fetcher, helpers.Waiter) {
	var cacheSvc cache.CacheService
	if cfg.MemcacheAddr != "" {
		cacheSvc = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Using memcache at %s for host blocks", cfg.MemcacheAddr)
	} else {
		cacheSvc = cache.NewMemoryCache()
	}

	fetcher := helpers.NewFetcher(cfg.RequestTimeout, cacheSvc, cfg.FetchBlockTime)
	waiter := helpers.NewPoliteWaiter(cfg.SleepBase, cfg.SleepJitter)
	return fetcher, waiter
}

// newPublisher returns a feed publisher, or nil when Redis is not
// configured.
func newPublisher(ctx context.Context, cfg *config.Config) publisher.Publisher {
	if cfg.RedisAddr == "" {
		return nil
	}
	logger.Info("Publishing feed to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	return publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLength)
}
