// Package config loads the application-level settings cmd/planctl needs to
// wire a ServiceProvider and a Searcher together: where fixture/mock data
// lives, board cache sizing, and the planner's own search tunables. The
// core planner package has no opinion on where these values came from —
// this package is purely an outer-edge concern.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/onwardrail/core/planner"
)

// Config is the full set of environment-driven settings for a planctl run.
type Config struct {
	// MockDataDir points at the directory of {CRS}.json fixtures
	// mockprovider.New loads.
	MockDataDir string

	// CacheTTL bounds how long a fetched board stays in the board cache.
	CacheTTL time.Duration

	// CacheCapacity caps the number of distinct board cache entries.
	CacheCapacity int

	// Search holds the planner's own search tunables.
	Search planner.Config
}

// Load reads .env (and .env.local, which overrides it) from the working
// directory if present, then builds a Config from environment variables,
// falling back to sane defaults for anything unset. A missing .env file is
// not an error — this matches running against real process environment
// variables with no dotenv file at all.
func Load() Config {
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg := Config{
		MockDataDir:   getEnv("ONWARDRAIL_MOCK_DATA_DIR", "mockprovider/testdata/boards"),
		CacheTTL:      getEnvDuration("ONWARDRAIL_CACHE_TTL", 60*time.Second),
		CacheCapacity: getEnvInt("ONWARDRAIL_CACHE_CAPACITY", 256),
		Search:        planner.DefaultConfig(),
	}

	cfg.Search.MaxChanges = getEnvInt("ONWARDRAIL_MAX_CHANGES", cfg.Search.MaxChanges)
	cfg.Search.MaxResults = getEnvInt("ONWARDRAIL_MAX_RESULTS", cfg.Search.MaxResults)
	cfg.Search.TimeWindow = getEnvDuration("ONWARDRAIL_TIME_WINDOW", cfg.Search.TimeWindow)
	cfg.Search.MinConnection = getEnvDuration("ONWARDRAIL_MIN_CONNECTION", cfg.Search.MinConnection)
	cfg.Search.MaxWalk = getEnvDuration("ONWARDRAIL_MAX_WALK", cfg.Search.MaxWalk)
	cfg.Search.MaxJourney = getEnvDuration("ONWARDRAIL_MAX_JOURNEY", cfg.Search.MaxJourney)
	cfg.Search.BatchSize = getEnvInt("ONWARDRAIL_BATCH_SIZE", cfg.Search.BatchSize)

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
