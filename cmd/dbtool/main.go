package main

import (
	"context"
	"os"
	"route-safety-service/internal/adapters/cache"
	"route-safety-service/internal/config"
	"route-safety-service/internal/platform/db"
	"route-safety-service/internal/platform/obs"
	"time"

	"github.com/rs/zerolog/log"
)

// dbtool prepares a PostgreSQL database for CACHE_BACKEND=postgres.
func main() {
	if _, err := config.LoadDotEnv(); err != nil {
		log.Warn().Err(err).Msg("read .env")
	}
	obs.SetupLogger(os.Stderr, config.Get("LOG_LEVEL", "info"))

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	sqlDB, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Info().Msg("initializing distance cache schema")
	if err := cache.InitSchema(ctx, sqlDB); err != nil {
		log.Fatal().Err(err).Msg("schema initialization failed")
	}
	log.Info().Msg("schema ready")
}
