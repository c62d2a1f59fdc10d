package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"route-safety-service/internal/domain"
	"route-safety-service/internal/platform/obs"
	"route-safety-service/internal/ports"
)

// matrixRequest is the ORS /v2/matrix body. Locations are [lon, lat]; index 0
// is the single source and the rest are destinations.
type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Sources      []int       `json:"sources"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Units        string      `json:"units"`
	ID           string      `json:"id,omitempty"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

func newMatrixRequest(origin domain.Coordinates, destinations []domain.Coordinates, id string) matrixRequest {
	req := matrixRequest{
		Locations:    make([][]float64, 0, 1+len(destinations)),
		Sources:      []int{0},
		Destinations: make([]int, 0, len(destinations)),
		Metrics:      []string{"distance", "duration"},
		Units:        "m",
		ID:           id,
	}

	req.Locations = append(req.Locations, origin.CoordsToList())
	for i, c := range destinations {
		req.Locations = append(req.Locations, c.CoordsToList())
		req.Destinations = append(req.Destinations, i+1)
	}
	return req
}

// row maps the single source row onto keys, in destination order. Metrics
// arrive as floats and are rounded. A null cell means ORS found no route.
func (mr matrixResponse) row(keys []string) (map[string]ports.DistanceResult, error) {
	if len(mr.Distances) != 1 || len(mr.Durations) != 1 {
		return nil, fmt.Errorf("expected 1 source row; got distances=%d durations=%d",
			len(mr.Distances), len(mr.Durations))
	}

	distances, durations := mr.Distances[0], mr.Durations[0]
	if len(distances) != len(keys) || len(durations) != len(keys) {
		return nil, fmt.Errorf("row lengths do not match destinations: distances=%d durations=%d destinations=%d",
			len(distances), len(durations), len(keys))
	}

	out := make(map[string]ports.DistanceResult, len(keys))
	for i, key := range keys {
		if distances[i] == nil || durations[i] == nil {
			return nil, fmt.Errorf("matrix returned no route to %q", key)
		}
		out[key] = ports.DistanceResult{
			DistanceMeters:  int(math.Round(*distances[i])),
			DurationSeconds: int(math.Round(*durations[i])),
		}
	}
	return out, nil
}

// fetchMatrixRow asks ORS for one origin to many destinations. keys and
// coords are parallel; results are keyed by keys.
func (o *ORSDistanceProvider) fetchMatrixRow(
	ctx context.Context,
	origin domain.Coordinates,
	keys []string,
	coords []domain.Coordinates,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.fetchMatrixRow")(&err)

	if len(keys) != len(coords) {
		return nil, errors.New("fetch matrix row: keys and coords differ in length")
	}
	if len(keys) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	payload, err := json.Marshal(newMatrixRequest(origin, coords, obs.RequestID(ctx)))
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	endpoint := o.baseURL + "/v2/matrix/" + o.profile
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	return mr.row(keys)
}
