package config

import (
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// HTTP fetch configuration
	RequestTimeout time.Duration
	FetchBlockTime time.Duration

	// Politeness delay between network calls
	SleepBase   time.Duration
	SleepJitter time.Duration

	// Discovery and extraction caps
	MaxPromoURLsPerStore int
	MaxPagesPerRun       int

	// Stage tables
	StoresAllFile string
	StoresFile    string
	PromoURLsFile string
	DealsFile     string
	FeedDir       string

	// Geodata discovery (Overpass)
	MetroBBox           string
	OverpassTimeout     time.Duration
	OverpassMaxRetries  int
	OverpassBackoffBase float64

	// Memcache configuration (optional; empty means in-process cache)
	MemcacheAddr string

	// Redis configuration (optional feed publishing)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with
// defaults. Malformed numeric values silently fall back to the default.
func LoadConfig() *Config {
	return &Config{
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SECS", 25)) * time.Second,
		FetchBlockTime: time.Duration(getEnvInt("FETCH_BLOCK_SECS", 60)) * time.Second,

		SleepBase:   secondsDuration(getEnvFloat("SLEEP_BASE_SECS", 0.6)),
		SleepJitter: secondsDuration(getEnvFloat("SLEEP_JITTER_SECS", 0.9)),

		MaxPromoURLsPerStore: getEnvInt("MAX_PROMO_URLS_PER_STORE", 25),
		MaxPagesPerRun:       getEnvInt("MAX_PAGES_PER_RUN", 350),

		StoresAllFile: getEnv("STORES_ALL_FILE", "stores_all.csv"),
		StoresFile:    getEnv("STORES_FILE", "stores_with_websites.csv"),
		PromoURLsFile: getEnv("PROMO_URLS_FILE", "promo_urls.csv"),
		DealsFile:     getEnv("DEALS_FILE", "deals.csv"),
		FeedDir:       getEnv("FEED_DIR", "data"),

		MetroBBox:           getEnv("METRO_BBOX", "53.245, -6.385, 53.427, -6.065"),
		OverpassTimeout:     time.Duration(getEnvInt("OVERPASS_TIMEOUT_SECS", 180)) * time.Second,
		OverpassMaxRetries:  getEnvInt("OVERPASS_MAX_RETRIES", 6),
		OverpassBackoffBase: getEnvFloat("OVERPASS_BACKOFF_BASE", 2.0),

		MemcacheAddr: getEnv("MEMCACHE_ADDR", ""),

		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "published_deals"),
		RedisStreamMaxLength: getEnvInt("REDIS_STREAM_MAX_LENGTH", 500),

		Environment: getEnv("DEALRADAR_ENVIRONMENT", "development"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an integer environment variable, falling back to
// the default on missing or malformed values.
func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvFloat retrieves a float environment variable, falling back to
// the default on missing or malformed values.
func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func secondsDuration(secs float64) time.Duration {
	if secs < 0 {
		secs = 0
	}
	return time.Duration(secs * float64(time.Second))
}
