package export

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/radiocov/pkg/models"
)

func TestMarshalGeoJSON(t *testing.T) {
	resp := &models.CoverageResponse{
		CRS:       models.CRS,
		GridStepM: 250,
		Cells: []models.CoverageCell{
			{Lat: 49.99, Lon: 30.0, RxLevelDBm: -71.5},
			{Lat: 50.0, Lon: 29.99, RxLevelDBm: -65.25},
			{Lat: 50.0, Lon: 30.0, RxLevelDBm: 28.45},
		},
	}

	data, err := MarshalGeoJSON(resp)
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 3)

	for i, f := range fc.Features {
		p, ok := f.Geometry.(orb.Point)
		require.True(t, ok, "feature %d geometry is %T", i, f.Geometry)
		assert.Equal(t, resp.Cells[i].Lon, p.Lon())
		assert.Equal(t, resp.Cells[i].Lat, p.Lat())
		assert.Equal(t, resp.Cells[i].RxLevelDBm, f.Properties.MustFloat64("rx_level_dbm"))
	}

	assert.Equal(t, "EPSG:4326", fc.ExtraMembers.MustString("crs"))
	assert.Equal(t, 250.0, fc.ExtraMembers.MustFloat64("grid_step_m"))
}

func TestMarshalGeoJSON_EmptyCells(t *testing.T) {
	data, err := MarshalGeoJSON(&models.CoverageResponse{CRS: models.CRS, GridStepM: 100, Cells: []models.CoverageCell{}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"features":[]`)
}
