package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// String renders the "lat,lng" form used as a location key by distance providers and caches.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

// ParseCoordinates parses a "lat,lng" string.
func ParseCoordinates(s string) (Coordinates, error) {
	latStr, lonStr, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Coordinates{}, fmt.Errorf("parse coordinates %q: expected \"lat,lng\"", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse coordinates %q: latitude: %w", s, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse coordinates %q: longitude: %w", s, err)
	}

	c := Coordinates{Lon: lon, Lat: lat}
	if err := c.Validate(); err != nil {
		return Coordinates{}, fmt.Errorf("parse coordinates %q: %w", s, err)
	}
	return c, nil
}

func (c Coordinates) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return errors.New("latitude out of range")
	}
	if c.Lon < -180 || c.Lon > 180 {
		return errors.New("longitude out of range")
	}
	return nil
}
