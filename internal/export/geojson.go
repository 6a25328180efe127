// Package export renders coverage responses in formats consumed by map clients.
package export

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/RMahshie/radiocov/pkg/models"
)

// GeoJSONContentType is the media type of MarshalGeoJSON output.
const GeoJSONContentType = "application/geo+json"

// FeatureCollection converts resp into one Point feature per cell, preserving
// cell order. Collection-level members carry the CRS and grid step.
func FeatureCollection(resp *models.CoverageResponse) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Features = make([]*geojson.Feature, 0, len(resp.Cells))

	for _, cell := range resp.Cells {
		f := geojson.NewFeature(orb.Point{cell.Lon, cell.Lat})
		f.Properties["rx_level_dbm"] = cell.RxLevelDBm
		fc.Append(f)
	}

	fc.ExtraMembers = geojson.Properties{
		"crs":         resp.CRS,
		"grid_step_m": resp.GridStepM,
	}
	return fc
}

// MarshalGeoJSON encodes resp as a GeoJSON FeatureCollection.
func MarshalGeoJSON(resp *models.CoverageResponse) ([]byte, error) {
	return FeatureCollection(resp).MarshalJSON()
}
