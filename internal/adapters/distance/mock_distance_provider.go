package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"route-safety-service/internal/ports"
	"sync/atomic"
)

type MockPair struct {
	From, To string
	Meters   int
	Seconds  int
}

// MockDistanceProvider serves fixed pairs keyed by "from|to". Pairs are
// directional unless added in both directions. Calls counts single lookups and
// MatrixCalls counts GetDistances calls.
type MockDistanceProvider struct {
	m           map[string]ports.DistanceResult
	calls       atomic.Int64
	matrixCalls atomic.Int64
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) GetDistance(ctx context.Context, origin, destination string) (ports.DistanceResult, error) {
	p.calls.Add(1)

	if err := ctx.Err(); err != nil {
		return ports.DistanceResult{}, err
	}

	r, ok := p.m[origin+"|"+destination]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %q -> %q", origin, destination)
	}

	return r, nil
}

// GetDistances fails when any destination has no pair, as the ORS matrix does.
func (p *MockDistanceProvider) GetDistances(
	ctx context.Context,
	origin string,
	destinations []string,
) (map[string]ports.DistanceResult, error) {
	p.matrixCalls.Add(1)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[string]ports.DistanceResult, len(destinations))
	for _, d := range destinations {
		r, ok := p.m[origin+"|"+d]
		if !ok {
			return nil, fmt.Errorf("missing pair %q -> %q", origin, d)
		}
		out[d] = r
	}
	return out, nil
}

func (p *MockDistanceProvider) Calls() int64 {
	return p.calls.Load()
}

func (p *MockDistanceProvider) MatrixCalls() int64 {
	return p.matrixCalls.Load()
}

type mockPairJSON struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Meters  int    `json:"meters"`
	Seconds int    `json:"seconds"`
}

// LoadMockDistanceProvider reads pairs from a JSON array of
// {"from","to","meters","seconds"} objects, for offline runs.
func LoadMockDistanceProvider(path string) (*MockDistanceProvider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load mock distances: read %q: %w", path, err)
	}

	var data []mockPairJSON
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("load mock distances: parse json: %w", err)
	}

	pairs := make([]MockPair, 0, len(data))
	for i, d := range data {
		if d.From == "" || d.To == "" {
			return nil, fmt.Errorf("load mock distances: pair at index %d: from and to must be non-empty", i)
		}
		if d.Meters < 0 || d.Seconds < 0 {
			return nil, fmt.Errorf("load mock distances: pair at index %d: negative metrics", i)
		}
		pairs = append(pairs, MockPair{From: d.From, To: d.To, Meters: d.Meters, Seconds: d.Seconds})
	}

	return NewMockDistanceProvider(pairs), nil
}
