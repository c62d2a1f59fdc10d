package distance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"route-safety-service/internal/domain"
	"route-safety-service/internal/platform/obs"
	"route-safety-service/internal/ports"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultORSBaseURL = "https://api.openrouteservice.org"
	// Heavy goods vehicle routing; trucks are the only vehicles this service plans for.
	defaultORSProfile = "driving-hgv"
)

// ORSDistanceProvider implements DistanceMatrixProvider using the
// OpenRouteService matrix API.
//
// Locations are "lat,lng" strings; no geocoding is performed. Results are
// read through and written back to an optional DistanceCache. External calls
// retry transient failures with backoff.
//
// The provider is safe for concurrent use.
type ORSDistanceProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
	backoff time.Duration
	cache   ports.DistanceCache
}

type ORSOption func(*ORSDistanceProvider)

func WithBaseURL(u string) ORSOption {
	return func(o *ORSDistanceProvider) { o.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(c *http.Client) ORSOption {
	return func(o *ORSDistanceProvider) { o.session = c }
}

func WithProfile(p string) ORSOption {
	return func(o *ORSDistanceProvider) { o.profile = p }
}

// WithInitialBackoff sets the first retry delay; it doubles on each attempt.
func WithInitialBackoff(d time.Duration) ORSOption {
	return func(o *ORSDistanceProvider) { o.backoff = d }
}

func NewORSDistanceProvider(
	apiKey string,
	cache ports.DistanceCache,
	opts ...ORSOption,
) (*ORSDistanceProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSDistanceProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: defaultORSBaseURL,
		profile: defaultORSProfile,
		backoff: 200 * time.Millisecond,
		cache:   cache,
	}
	for _, opt := range opts {
		opt(provider)
	}

	return provider, nil
}

// normalize parses and re-renders a "lat,lng" key so equal coordinates share
// one cache entry regardless of spacing or trailing zeros.
func (o *ORSDistanceProvider) normalize(s string) (string, domain.Coordinates, error) {
	c, err := domain.ParseCoordinates(s)
	if err != nil {
		return "", domain.Coordinates{}, err
	}
	return c.String(), c, nil
}

// Delegate to batched path to reuse caching and matrix logic.
func (o *ORSDistanceProvider) GetDistance(
	ctx context.Context,
	origin string,
	destination string,
) (ports.DistanceResult, error) {
	if origin == "" || destination == "" {
		return ports.DistanceResult{}, errors.New("get ORS distance: origin and destination must be non-empty")
	}

	normOrigin, _, err := o.normalize(origin)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("get ORS distance: origin: %w", err)
	}

	normDestination, _, err := o.normalize(destination)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("get ORS distance: destination: %w", err)
	}

	// Same point: no API call needed.
	if normOrigin == normDestination {
		return ports.DistanceResult{}, nil
	}

	results, err := o.GetDistances(ctx, normOrigin, []string{normDestination})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf(
			"get distances %q -> %q: %w",
			normOrigin, normDestination, err,
		)
	}

	result, ok := results[normDestination]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("no distance result for %q -> %q", origin, destination)
	}

	return result, nil
}

// GetDistances returns distances from one origin to many destinations,
// keyed by normalized destination. Duplicates and destinations equal to the
// origin are dropped. Cached pairs skip the API; the rest are fetched in a
// single matrix row and written back.
func (o *ORSDistanceProvider) GetDistances(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDistances")(&err)

	if origin == "" {
		return nil, errors.New("get ORS distances: origin must be non-empty")
	}

	normOrigin, originCoord, err := o.normalize(origin)
	if err != nil {
		return nil, fmt.Errorf("get ORS distances: origin: %w", err)
	}

	keys, coords, err := o.normalizeDestinations(normOrigin, destinations)
	if err != nil {
		return nil, fmt.Errorf("get ORS distances: %w", err)
	}
	if len(keys) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	out := make(map[string]ports.DistanceResult, len(keys))
	if o.cache != nil {
		hits, err := o.cache.GetMany(ctx, normOrigin, keys)
		if err != nil {
			return nil, fmt.Errorf("get ORS distances: read cache: %w", err)
		}
		for k, v := range hits {
			out[k] = v
		}
	}

	var missKeys []string
	var missCoords []domain.Coordinates
	for _, k := range keys {
		if _, ok := out[k]; !ok {
			missKeys = append(missKeys, k)
			missCoords = append(missCoords, coords[k])
		}
	}
	if len(missKeys) == 0 {
		return out, nil
	}

	fetched, err := o.fetchMatrixRow(ctx, originCoord, missKeys, missCoords)
	if err != nil {
		return nil, fmt.Errorf("get ORS distances from %q: %w", normOrigin, err)
	}

	if o.cache != nil {
		if err := o.cache.PutMany(ctx, normOrigin, fetched); err != nil {
			log.Warn().Err(err).Str("origin", normOrigin).Msg("distance cache write failed")
		}
	}

	for k, v := range fetched {
		out[k] = v
	}
	return out, nil
}

// normalizeDestinations parses destinations, preserving first-seen order.
func (o *ORSDistanceProvider) normalizeDestinations(
	normOrigin string,
	destinations []string,
) ([]string, map[string]domain.Coordinates, error) {
	keys := make([]string, 0, len(destinations))
	coords := make(map[string]domain.Coordinates, len(destinations))

	for _, d := range destinations {
		key, c, err := o.normalize(d)
		if err != nil {
			return nil, nil, fmt.Errorf("destination: %w", err)
		}
		if _, dup := coords[key]; dup || key == normOrigin {
			continue
		}
		coords[key] = c
		keys = append(keys, key)
	}

	return keys, coords, nil
}
