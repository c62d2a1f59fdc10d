package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	t.Setenv("ROUTE_TEST_KEY", "  value ")
	assert.Equal(t, "value", Get("ROUTE_TEST_KEY", "fallback"))

	t.Setenv("ROUTE_TEST_KEY", "")
	assert.Equal(t, "fallback", Get("ROUTE_TEST_KEY", "fallback"))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ORS_API_KEY", "key")
	t.Setenv("CACHE_BACKEND", "")
	t.Setenv("DISTANCE_PROVIDER", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("BATCH_CONCURRENCY", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, CacheSQLite, cfg.CacheBackend)
	assert.Equal(t, ProviderORS, cfg.DistanceProvider)
	assert.Equal(t, 168*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 4, cfg.BatchConcurrency)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("ORS_API_KEY", "key")

	t.Setenv("CACHE_TTL", "forever")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("BATCH_CONCURRENCY", "many")
	_, err = Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		CacheBackend:     CacheNone,
		DistanceProvider: ProviderORS,
		ORSAPIKey:        "key",
		BatchConcurrency: 4,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing ors key", func(c *Config) { c.ORSAPIKey = "" }},
		{"postgres without url", func(c *Config) { c.CacheBackend = CachePostgres }},
		{"redis without url", func(c *Config) { c.CacheBackend = CacheRedis }},
		{"sqlite without path", func(c *Config) { c.CacheBackend = CacheSQLite }},
		{"unknown cache", func(c *Config) { c.CacheBackend = "memcached" }},
		{"unknown provider", func(c *Config) { c.DistanceProvider = "google" }},
		{"mock without path", func(c *Config) { c.DistanceProvider = ProviderMock }},
		{"concurrency too high", func(c *Config) { c.BatchConcurrency = 100 }},
		{"negative ttl", func(c *Config) { c.CacheTTL = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ROUTE_DOTENV_TEST=from-file\n"), 0644))

	t.Setenv("ROUTE_DOTENV_TEST", "")
	os.Unsetenv("ROUTE_DOTENV_TEST")

	loaded, err := LoadDotEnv(path)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "from-file", os.Getenv("ROUTE_DOTENV_TEST"))

	loaded, err = LoadDotEnv(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.False(t, loaded)
}
