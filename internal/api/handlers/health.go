package handlers

import (
	"net/http"
	"route-safety-service/internal/ports"
)

// HealthHandler reports liveness and how many cities the catalog serves.
type HealthHandler struct {
	Catalog ports.LocationCatalog
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	cities := 0
	if h.Catalog != nil {
		cities = len(h.Catalog.Cities())
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"status": "ok", "cities": cities})
}
