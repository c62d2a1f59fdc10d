package ports

import "context"

// DistanceMatrixProvider is implemented by providers that can answer one
// origin to many destinations in a single upstream call. Batch estimation
// uses it to prefetch distances.
type DistanceMatrixProvider interface {
	DistanceProvider
	// Result keys are destinations in normalized "lat,lng" form; any equal to origin is omitted.
	GetDistances(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
}
