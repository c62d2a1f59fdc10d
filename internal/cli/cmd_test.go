package cli

import (
	"bytes"
	"route-safety-service/internal/adapters/distance"
	"route-safety-service/internal/adapters/locations"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCities = `[
  {"name": "İstanbul", "latitude": "41.0082", "longitude": "28.9784"},
  {"name": "Ankara", "latitude": "39.9334", "longitude": "32.8597"}
]`

func testApp(t *testing.T) *App {
	t.Helper()

	catalog, err := locations.NewJSONCatalog([]byte(testCities))
	require.NoError(t, err)

	return &App{
		Catalog: catalog,
		Provider: distance.NewMockDistanceProvider([]distance.MockPair{
			{From: "41.0082,28.9784", To: "39.9334,32.8597", Meters: 450_000, Seconds: 16_200},
		}),
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestBreaksCmd(t *testing.T) {
	out, err := executeCmd(t, nil, "breaks", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "Breaks for 9 h 0 min of driving")
	assert.Contains(t, out, "1 x 45-minute break + 1 x 11-hour rest (tachograph rules)")

	out, err = executeCmd(t, nil, "breaks", "--hours", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "no break required")
}

func TestBreaksCmd_Errors(t *testing.T) {
	_, err := executeCmd(t, nil, "breaks")
	assert.Error(t, err)

	_, err = executeCmd(t, nil, "breaks", "nine")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid hours")

	_, err = executeCmd(t, nil, "breaks", "--hours", "-2")
	assert.Error(t, err)
}

func TestTripCmd_Distance(t *testing.T) {
	out, err := executeCmd(t, nil, "trip", "--distance-km", "1600")
	require.NoError(t, err)
	assert.Contains(t, out, "Trip of 1600 km")
	assert.Contains(t, out, "26 h 40 min")
	assert.Contains(t, out, "3 x 45-minute break + 2 x 11-hour rest (tachograph rules)")
	assert.Contains(t, out, "50 h 55 min")
}

func TestTripCmd_Lookup(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "trip", "--from", "istanbul", "--to", "ankara",
		"--depart-at", "2030-06-21T06:00:00Z")
	require.NoError(t, err)
	assert.Contains(t, out, "İstanbul -> Ankara")
	assert.Contains(t, out, "450.0 km")
	assert.Contains(t, out, "1 x 45-minute break (tachograph rules)")
	assert.Contains(t, out, "8 h 15 min")
}

func TestTripCmd_Errors(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "trip", "--from", "istanbul")
	assert.Error(t, err)

	_, err = executeCmd(t, nil, "trip", "--from", "istanbul", "--to", "ankara")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "city lookup unavailable")

	_, err = executeCmd(t, testApp(t), "trip", "--from", "Atlantis", "--to", "ankara")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "location not found")

	_, err = executeCmd(t, testApp(t), "trip", "--from", "istanbul", "--to", "ankara", "--depart-at", "noon")
	assert.Error(t, err)

	_, err = executeCmd(t, nil, "trip", "--distance-km", "-5")
	assert.Error(t, err)
}
