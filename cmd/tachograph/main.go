package main

import (
	"fmt"
	"os"
	"route-safety-service/internal/adapters/distance"
	"route-safety-service/internal/adapters/locations"
	"route-safety-service/internal/cli"
	"route-safety-service/internal/config"
	"route-safety-service/internal/platform/obs"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if _, err := config.LoadDotEnv(); err != nil {
		return err
	}
	obs.SetupLogger(os.Stderr, config.Get("LOG_LEVEL", "warn"))

	app := &cli.App{}

	// City lookup is optional; "breaks" and "trip --distance-km" work without it.
	citiesPath := config.Get("CITIES_PATH", "data/cities.json")
	if catalog, err := locations.LoadJSONCatalog(citiesPath); err != nil {
		log.Debug().Err(err).Str("path", citiesPath).Msg("catalog unavailable")
	} else {
		app.Catalog = catalog
	}

	if path := config.Get("MOCK_DISTANCES_PATH", ""); path != "" {
		p, err := distance.LoadMockDistanceProvider(path)
		if err != nil {
			return err
		}
		app.Provider = p
	} else if key := config.Get("ORS_API_KEY", ""); key != "" {
		var opts []distance.ORSOption
		if baseURL := config.Get("ORS_BASE_URL", ""); baseURL != "" {
			opts = append(opts, distance.WithBaseURL(baseURL))
		}
		p, err := distance.NewORSDistanceProvider(key, nil, opts...)
		if err != nil {
			return err
		}
		app.Provider = p
	}

	return cli.NewRootCmd(app).Execute()
}
