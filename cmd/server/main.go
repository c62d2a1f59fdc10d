package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"route-safety-service/internal/adapters/cache"
	"route-safety-service/internal/adapters/distance"
	"route-safety-service/internal/adapters/locations"
	"route-safety-service/internal/api"
	"route-safety-service/internal/config"
	"route-safety-service/internal/platform/db"
	"route-safety-service/internal/platform/obs"
	"route-safety-service/internal/ports"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// main is the application composition root.
// It wires concrete adapters (catalog, cache backend, ORS) behind ports and starts the HTTP server.
func main() {
	loaded, dotenvErr := config.LoadDotEnv()
	obs.SetupLogger(os.Stderr, config.Get("LOG_LEVEL", "info"))

	if dotenvErr != nil {
		log.Fatal().Err(dotenvErr).Msg("read .env")
	}
	if !loaded {
		log.Info().Msg("no .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := locations.LoadJSONCatalog(cfg.CitiesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load location catalog")
	}

	distanceCache, closeCache, err := openDistanceCache(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.CacheBackend).Msg("open distance cache")
	}
	defer closeCache()

	provider, err := newDistanceProvider(cfg, distanceCache)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.DistanceProvider).Msg("create distance provider")
	}

	router := api.NewRouter(catalog, provider, cfg.BatchConcurrency)

	// Write timeout covers cold-cache batches against the external matrix API.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().
		Str("addr", srv.Addr).
		Str("cache", cfg.CacheBackend).
		Str("provider", cfg.DistanceProvider).
		Msg("server listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

// openDistanceCache returns the configured cache backend, or nil for "none".
func openDistanceCache(ctx context.Context, cfg *config.Config) (ports.DistanceCache, func(), error) {
	noop := func() {}

	switch cfg.CacheBackend {
	case config.CacheSQLite:
		sqlDB, err := db.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, noop, err
		}
		if err := cache.InitSchema(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, noop, err
		}
		c := cache.NewSqliteDistanceCache(sqlDB, cfg.CacheTTL)
		pruneStale(ctx, c)
		return c, func() { sqlDB.Close() }, nil

	case config.CachePostgres:
		// Schema is created by cmd/dbtool.
		sqlDB, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		c := cache.NewPostgresDistanceCache(sqlDB, cfg.CacheTTL)
		pruneStale(ctx, c)
		return c, func() { sqlDB.Close() }, nil

	case config.CacheRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, noop, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("ping redis: %w", err)
		}
		return cache.NewRedisDistanceCache(client, cfg.CacheTTL), func() { client.Close() }, nil

	default:
		return nil, noop, nil
	}
}

// pruneStale drops expired rows once at startup. Failure only costs disk space.
func pruneStale(ctx context.Context, c *cache.SQLDistanceCache) {
	n, err := c.Prune(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("prune distance cache")
		return
	}
	if n > 0 {
		log.Info().Int64("rows", n).Msg("pruned stale distance cache rows")
	}
}

func newDistanceProvider(cfg *config.Config, c ports.DistanceCache) (ports.DistanceProvider, error) {
	if cfg.DistanceProvider == config.ProviderMock {
		p, err := distance.LoadMockDistanceProvider(cfg.MockDistancesPath)
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	var opts []distance.ORSOption
	if cfg.ORSBaseURL != "" {
		opts = append(opts, distance.WithBaseURL(cfg.ORSBaseURL))
	}
	p, err := distance.NewORSDistanceProvider(cfg.ORSAPIKey, c, opts...)
	if err != nil {
		return nil, err
	}
	return p, nil
}
