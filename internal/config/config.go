// Package config loads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Cache backends for distance lookups.
const (
	CacheSQLite   = "sqlite"
	CachePostgres = "postgres"
	CacheRedis    = "redis"
	CacheNone     = "none"
)

// Distance providers.
const (
	ProviderORS  = "ors"
	ProviderMock = "mock"
)

type Config struct {
	Port string

	CacheBackend string
	DBPath       string
	DatabaseURL  string
	RedisURL     string
	CacheTTL     time.Duration

	CitiesPath string

	DistanceProvider  string
	ORSAPIKey         string
	ORSBaseURL        string
	MockDistancesPath string

	BatchConcurrency int
	LogLevel         string
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// LoadDotEnv loads .env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(paths ...string) (bool, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
	}

	if err := godotenv.Load(paths...); err != nil {
		return false, fmt.Errorf("load dotenv: %w", err)
	}
	return true, nil
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              Get("PORT", "8080"),
		CacheBackend:      strings.ToLower(Get("CACHE_BACKEND", CacheSQLite)),
		DBPath:            Get("DB_PATH", "data/app.db"),
		DatabaseURL:       Get("DATABASE_URL", ""),
		RedisURL:          Get("REDIS_URL", ""),
		CitiesPath:        Get("CITIES_PATH", "data/cities.json"),
		DistanceProvider:  strings.ToLower(Get("DISTANCE_PROVIDER", ProviderORS)),
		ORSAPIKey:         Get("ORS_API_KEY", ""),
		ORSBaseURL:        Get("ORS_BASE_URL", ""),
		MockDistancesPath: Get("MOCK_DISTANCES_PATH", ""),
		LogLevel:          Get("LOG_LEVEL", "info"),
	}

	ttl, err := time.ParseDuration(Get("CACHE_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("config: CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	concurrency, err := strconv.Atoi(Get("BATCH_CONCURRENCY", "4"))
	if err != nil {
		return nil, fmt.Errorf("config: BATCH_CONCURRENCY: %w", err)
	}
	cfg.BatchConcurrency = concurrency

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required settings for the selected backends are present.
func (c *Config) Validate() error {
	switch c.CacheBackend {
	case CacheSQLite:
		if c.DBPath == "" {
			return errors.New("config: DB_PATH is required for sqlite cache")
		}
	case CachePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for postgres cache")
		}
	case CacheRedis:
		if c.RedisURL == "" {
			return errors.New("config: REDIS_URL is required for redis cache")
		}
	case CacheNone:
	default:
		return fmt.Errorf("config: unknown CACHE_BACKEND %q", c.CacheBackend)
	}

	switch c.DistanceProvider {
	case ProviderORS:
		if c.ORSAPIKey == "" {
			return errors.New("config: ORS_API_KEY is required")
		}
	case ProviderMock:
		if c.MockDistancesPath == "" {
			return errors.New("config: MOCK_DISTANCES_PATH is required for mock provider")
		}
	default:
		return fmt.Errorf("config: unknown DISTANCE_PROVIDER %q", c.DistanceProvider)
	}

	if c.BatchConcurrency < 1 || c.BatchConcurrency > 32 {
		return errors.New("config: BATCH_CONCURRENCY must be between 1 and 32")
	}
	if c.CacheTTL < 0 {
		return errors.New("config: CACHE_TTL must be non-negative")
	}

	return nil
}
