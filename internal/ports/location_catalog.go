package ports

import "route-safety-service/internal/domain"

// Port: lookup of known cities and counties with their coordinates.
type LocationCatalog interface {
	// Resolve a city and optional county. Unknown cities return Matched=false.
	FindLocation(city string, county string) domain.Location
	// List all cities with their county names.
	Cities() []domain.CityCounties
}
