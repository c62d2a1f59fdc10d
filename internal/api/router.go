package api

import (
	"net/http"
	"route-safety-service/internal/api/handlers"
	"route-safety-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers only see ports; concrete adapters are chosen by the caller.
func NewRouter(catalog ports.LocationCatalog, provider ports.DistanceProvider, batchConcurrency int) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Catalog: catalog}
	locHandler := &handlers.LocationHandler{Catalog: catalog}
	estHandler := &handlers.EstimateHandler{
		Catalog:  catalog,
		Provider: provider,
	}
	batchHandler := &handlers.BatchHandler{
		Catalog:     catalog,
		Provider:    provider,
		Concurrency: batchConcurrency,
	}

	mux.HandleFunc("/health", healthHandler.Check)
	mux.HandleFunc("/locations", locHandler.List)
	mux.HandleFunc("/breaks", handlers.Breaks)
	mux.HandleFunc("/estimates", estHandler.Estimate)
	mux.HandleFunc("/estimates/batch", batchHandler.Estimate)

	return requestIDMiddleware(loggingMiddleware(mux))
}
