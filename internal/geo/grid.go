package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// KmPerDegreeLat is the planar approximation used to size the raster.
const KmPerDegreeLat = 111.0

// DefaultMaxPoints bounds the candidate raster when no limit is configured.
const DefaultMaxPoints = 250_000

var (
	// ErrInvalidGrid is returned for a non-positive or non-finite radius or step.
	ErrInvalidGrid = errors.New("invalid grid")
	// ErrGridTooLarge is returned when the candidate raster exceeds the sampler limit.
	ErrGridTooLarge = errors.New("grid exceeds point limit")
)

// Sampler enumerates raster points inside a disc. MaxPoints caps the number of
// candidate points in the bounding box; zero means DefaultMaxPoints and a
// negative value disables the cap.
type Sampler struct {
	MaxPoints int
}

// Raster is the bounding box and degree steps derived from a disc.
type Raster struct {
	Bound   orb.Bound
	LatStep float64
	LonStep float64
}

// NewRaster converts a disc into degree deltas using 111 km per degree of
// latitude and 111*cos(lat) km per degree of longitude at the center.
func NewRaster(center orb.Point, radiusKm, stepM float64) (Raster, error) {
	if !(radiusKm > 0) || math.IsInf(radiusKm, 0) {
		return Raster{}, fmt.Errorf("%w: radius_km must be positive, got %v", ErrInvalidGrid, radiusKm)
	}
	if !(stepM > 0) || math.IsInf(stepM, 0) {
		return Raster{}, fmt.Errorf("%w: step_m must be positive, got %v", ErrInvalidGrid, stepM)
	}

	kmPerDegLon := KmPerDegreeLat * math.Cos(center.Lat()*degToRad)
	stepKm := stepM / 1000.0

	maxDLat := radiusKm / KmPerDegreeLat
	maxDLon := radiusKm / kmPerDegLon

	return Raster{
		Bound: orb.Bound{
			Min: orb.Point{center.Lon() - maxDLon, center.Lat() - maxDLat},
			Max: orb.Point{center.Lon() + maxDLon, center.Lat() + maxDLat},
		},
		LatStep: stepKm / KmPerDegreeLat,
		LonStep: stepKm / kmPerDegLon,
	}, nil
}

// Candidates estimates the number of raster points in the bounding box. It
// over-counts by one row and one column to absorb accumulated step error.
func (r Raster) Candidates() float64 {
	rows := math.Floor((r.Bound.Max.Lat()-r.Bound.Min.Lat())/r.LatStep) + 2
	cols := math.Floor((r.Bound.Max.Lon()-r.Bound.Min.Lon())/r.LonStep) + 2
	if math.IsNaN(rows) || math.IsNaN(cols) {
		return math.Inf(1)
	}
	return rows * cols
}

// Sample returns every raster point whose haversine distance from center is at
// most radiusKm. Points are ordered by ascending latitude, then ascending
// longitude. The raster is scanned by accumulating the degree steps from the
// lower-left corner, so the exact coordinates are reproducible across runs.
func (s Sampler) Sample(center orb.Point, radiusKm, stepM float64) ([]orb.Point, error) {
	raster, err := NewRaster(center, radiusKm, stepM)
	if err != nil {
		return nil, err
	}

	limit := s.MaxPoints
	if limit == 0 {
		limit = DefaultMaxPoints
	}
	if limit > 0 {
		if n := raster.Candidates(); n > float64(limit) {
			return nil, fmt.Errorf("%w: about %.0f candidate points, limit %d", ErrGridTooLarge, n, limit)
		}
	}

	var points []orb.Point
	for lat := raster.Bound.Min.Lat(); lat <= raster.Bound.Max.Lat(); lat += raster.LatStep {
		for lon := raster.Bound.Min.Lon(); lon <= raster.Bound.Max.Lon(); lon += raster.LonStep {
			if DistanceKm(center.Lat(), center.Lon(), lat, lon) <= radiusKm {
				points = append(points, orb.Point{lon, lat})
			}
		}
	}

	return points, nil
}

// SamplePoints samples with the default point limit.
func SamplePoints(center orb.Point, radiusKm, stepM float64) ([]orb.Point, error) {
	return Sampler{}.Sample(center, radiusKm, stepM)
}
