package locations

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"route-safety-service/internal/domain"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// coordValue accepts coordinates encoded either as JSON strings or numbers.
// Empty strings and null decode to "unset".
type coordValue struct {
	v   float64
	set bool
}

func (c *coordValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	s := string(b)
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	if s == "" {
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid coordinate %s: %w", b, err)
	}
	c.v, c.set = f, true
	return nil
}

type countyRecord struct {
	Name      string     `json:"name"`
	Latitude  coordValue `json:"latitude"`
	Longitude coordValue `json:"longitude"`
}

type cityRecord struct {
	Name      string         `json:"name"`
	Plate     string         `json:"plate"`
	Latitude  coordValue     `json:"latitude"`
	Longitude coordValue     `json:"longitude"`
	Counties  []countyRecord `json:"counties"`
}

// JSONCatalog is an immutable, in-memory city/county dataset.
//
// It is loaded once at startup and shared read-only across requests; there is
// no invalidation. The zero value is not usable; construct with
// LoadJSONCatalog or NewJSONCatalog.
type JSONCatalog struct {
	cities []cityRecord
	byKey  map[string]int
}

// LoadJSONCatalog reads a cities dataset from disk.
func LoadJSONCatalog(path string) (*JSONCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load location catalog: read %q: %w", path, err)
	}

	c, err := NewJSONCatalog(raw)
	if err != nil {
		return nil, fmt.Errorf("load location catalog %q: %w", path, err)
	}
	return c, nil
}

// NewJSONCatalog builds a catalog from raw JSON bytes.
func NewJSONCatalog(raw []byte) (*JSONCatalog, error) {
	var cities []cityRecord
	if err := json.Unmarshal(raw, &cities); err != nil {
		return nil, fmt.Errorf("parse cities json: %w", err)
	}
	if len(cities) == 0 {
		return nil, errors.New("parse cities json: dataset is empty")
	}

	byKey := make(map[string]int, len(cities))
	for i, city := range cities {
		if strings.TrimSpace(city.Name) == "" {
			continue
		}
		key := Normalize(city.Name)
		// First record wins on duplicate names.
		if _, ok := byKey[key]; !ok {
			byKey[key] = i
		}
	}

	return &JSONCatalog{cities: cities, byKey: byKey}, nil
}

// FindLocation resolves a city and optional county, case- and
// diacritic-insensitively. County coordinates win over city coordinates;
// a county the dataset does not know falls back to the city and keeps the
// caller's county text.
func (c *JSONCatalog) FindLocation(city string, county string) domain.Location {
	idx, ok := c.byKey[Normalize(city)]
	if !ok {
		return domain.Location{City: city, County: county, Matched: false}
	}
	rec := c.cities[idx]

	if countyKey := Normalize(county); countyKey != "" {
		for _, cr := range rec.Counties {
			if Normalize(cr.Name) != countyKey {
				continue
			}
			return domain.Location{
				City:    rec.Name,
				County:  cr.Name,
				Coords:  pickCoords(cr.Latitude, cr.Longitude, rec.Latitude, rec.Longitude),
				Matched: true,
			}
		}
	}

	return domain.Location{
		City:    rec.Name,
		County:  strings.TrimSpace(county),
		Coords:  pickCoords(rec.Latitude, rec.Longitude, coordValue{}, coordValue{}),
		Matched: true,
	}
}

// Cities lists city names and their county names in dataset order.
func (c *JSONCatalog) Cities() []domain.CityCounties {
	out := make([]domain.CityCounties, 0, len(c.cities))
	for _, city := range c.cities {
		if strings.TrimSpace(city.Name) == "" {
			continue
		}
		counties := make([]string, 0, len(city.Counties))
		for _, cr := range city.Counties {
			counties = append(counties, cr.Name)
		}
		out = append(out, domain.CityCounties{Name: city.Name, Counties: counties})
	}
	return out
}

// pickCoords takes each axis from the primary record when present, else the fallback.
func pickCoords(lat, lon, fallbackLat, fallbackLon coordValue) *domain.Coordinates {
	if !lat.set {
		lat = fallbackLat
	}
	if !lon.set {
		lon = fallbackLon
	}
	if !lat.set || !lon.set {
		return nil
	}
	return &domain.Coordinates{Lat: lat.v, Lon: lon.v}
}

var dotlessI = strings.NewReplacer("ı", "i", "I", "i", "İ", "i")

// Normalize folds a place name to a lookup key: Turkish dotted/dotless i
// unified, lower-cased, diacritics stripped, and only [a-z0-9] kept.
func Normalize(s string) string {
	s = strings.ToLower(dotlessI.Replace(s))

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
