package handlers

import (
	"net/http"
	"route-safety-service/internal/api/dto"
	"route-safety-service/internal/ports"
)

// LocationHandler lists the cities and counties the service can resolve.
type LocationHandler struct {
	Catalog ports.LocationCatalog
}

func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	cities := h.Catalog.Cities()

	res := dto.ListLocationsResponse{
		Cities: make([]dto.CityResponse, 0, len(cities)),
	}
	for _, c := range cities {
		counties := c.Counties
		if counties == nil {
			counties = []string{}
		}
		res.Cities = append(res.Cities, dto.CityResponse{Name: c.Name, Counties: counties})
	}

	writeJSON(w, r, http.StatusOK, res)
}
