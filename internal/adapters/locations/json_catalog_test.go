package locations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCities = `[
  {"name": "İstanbul", "plate": "34", "latitude": "41.0082", "longitude": "28.9784",
   "counties": [{"name": "Kadıköy", "latitude": "40.9903", "longitude": "29.0275"}]},
  {"name": "Diyarbakır", "latitude": 37.9144, "longitude": 40.2306},
  {"name": "Muğla", "latitude": "37.2153", "longitude": "28.3636",
   "counties": [{"name": "Fethiye"}, {"name": "Bodrum", "latitude": "37.0344", "longitude": ""}]},
  {"name": "Hakkari", "latitude": "", "longitude": null}
]`

func newTestCatalog(t *testing.T) *JSONCatalog {
	t.Helper()
	c, err := NewJSONCatalog([]byte(testCities))
	require.NoError(t, err)
	return c
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "istanbul", Normalize("İstanbul"))
	assert.Equal(t, "istanbul", Normalize("ISTANBUL"))
	assert.Equal(t, "diyarbakir", Normalize("Diyarbakır"))
	assert.Equal(t, "sanliurfa", Normalize("  Şanlı-Urfa "))
	assert.Equal(t, "mugla", Normalize("MUĞLA"))
	assert.Equal(t, "cankaya", Normalize("Çankaya"))
	assert.Equal(t, "", Normalize(""))
}

func TestFindLocation_CityOnly(t *testing.T) {
	c := newTestCatalog(t)

	loc := c.FindLocation("istanbul", "")
	require.True(t, loc.Matched)
	require.NotNil(t, loc.Coords)

	assert.Equal(t, "İstanbul", loc.City)
	assert.Equal(t, 41.0082, loc.Coords.Lat)
	assert.Equal(t, 28.9784, loc.Coords.Lon)
}

func TestFindLocation_NumericCoordinates(t *testing.T) {
	c := newTestCatalog(t)

	loc := c.FindLocation("DIYARBAKIR", "")
	require.True(t, loc.Matched)
	require.NotNil(t, loc.Coords)
	assert.Equal(t, 37.9144, loc.Coords.Lat)
}

func TestFindLocation_County(t *testing.T) {
	c := newTestCatalog(t)

	loc := c.FindLocation("Istanbul", "kadikoy")
	require.True(t, loc.Matched)
	require.NotNil(t, loc.Coords)

	assert.Equal(t, "Kadıköy", loc.County)
	assert.Equal(t, 40.9903, loc.Coords.Lat)
	assert.Equal(t, 29.0275, loc.Coords.Lon)
}

func TestFindLocation_CountyFallsBackToCityCoordinates(t *testing.T) {
	c := newTestCatalog(t)

	loc := c.FindLocation("Mugla", "Fethiye")
	require.True(t, loc.Matched)
	require.NotNil(t, loc.Coords)
	assert.Equal(t, "Fethiye", loc.County)
	assert.Equal(t, 37.2153, loc.Coords.Lat)

	// Partial county coordinates: latitude from the county, longitude from the city.
	loc = c.FindLocation("Mugla", "Bodrum")
	require.NotNil(t, loc.Coords)
	assert.Equal(t, 37.0344, loc.Coords.Lat)
	assert.Equal(t, 28.3636, loc.Coords.Lon)
}

func TestFindLocation_UnknownCounty(t *testing.T) {
	c := newTestCatalog(t)

	loc := c.FindLocation("İstanbul", "Nowhere")
	require.True(t, loc.Matched)
	assert.Equal(t, "Nowhere", loc.County)
	assert.Equal(t, 41.0082, loc.Coords.Lat)
}

func TestFindLocation_Unmatched(t *testing.T) {
	c := newTestCatalog(t)

	loc := c.FindLocation("Atlantis", "Center")
	assert.False(t, loc.Matched)
	assert.Equal(t, "Atlantis", loc.City)
	assert.Equal(t, "Center", loc.County)
	assert.Nil(t, loc.Coords)
}

func TestFindLocation_NoCoordinates(t *testing.T) {
	c := newTestCatalog(t)

	loc := c.FindLocation("Hakkari", "")
	assert.True(t, loc.Matched)
	assert.Nil(t, loc.Coords)
}

func TestCities(t *testing.T) {
	c := newTestCatalog(t)

	cities := c.Cities()
	require.Len(t, cities, 4)
	assert.Equal(t, "İstanbul", cities[0].Name)
	assert.Equal(t, []string{"Kadıköy"}, cities[0].Counties)
	assert.Empty(t, cities[1].Counties)
}

func TestNewJSONCatalog_Invalid(t *testing.T) {
	_, err := NewJSONCatalog([]byte(`{not json`))
	assert.Error(t, err)

	_, err = NewJSONCatalog([]byte(`[]`))
	assert.Error(t, err)

	_, err = NewJSONCatalog([]byte(`[{"name": "X", "latitude": "north"}]`))
	assert.Error(t, err)
}

func TestLoadJSONCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.json")
	require.NoError(t, os.WriteFile(path, []byte(testCities), 0644))

	c, err := LoadJSONCatalog(path)
	require.NoError(t, err)
	assert.True(t, c.FindLocation("Muğla", "").Matched)

	_, err = LoadJSONCatalog(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadJSONCatalog_ShippedDataset(t *testing.T) {
	c, err := LoadJSONCatalog(filepath.Join("..", "..", "..", "data", "cities.json"))
	require.NoError(t, err)

	loc := c.FindLocation("Van", "")
	require.True(t, loc.Matched)
	require.NotNil(t, loc.Coords)
	assert.Equal(t, "38.5012,43.4089", loc.Coords.String())
}
