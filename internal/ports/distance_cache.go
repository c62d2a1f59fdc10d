package ports

import "context"

// Persistent origin->destination distance store consulted before external calls.
// Keys are expected to be normalized by the caller.
type DistanceCache interface {
	// Return cached results for the destinations that are present; misses are omitted.
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
	PutMany(ctx context.Context, origin string, results map[string]DistanceResult) error
}
