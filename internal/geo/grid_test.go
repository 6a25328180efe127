package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplePoints_InsideDisc(t *testing.T) {
	tests := []struct {
		name     string
		center   orb.Point
		radiusKm float64
		stepM    float64
	}{
		{name: "kyiv 1km/500m", center: orb.Point{30.0, 50.0}, radiusKm: 1, stepM: 500},
		{name: "equator 5km/250m", center: orb.Point{0, 0}, radiusKm: 5, stepM: 250},
		{name: "high latitude", center: orb.Point{25.0, 70.0}, radiusKm: 3, stepM: 300},
		{name: "southern hemisphere", center: orb.Point{151.2, -33.9}, radiusKm: 2, stepM: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := SamplePoints(tt.center, tt.radiusKm, tt.stepM)
			require.NoError(t, err)
			require.NotEmpty(t, points)

			for _, p := range points {
				d := DistanceKm(tt.center.Lat(), tt.center.Lon(), p.Lat(), p.Lon())
				assert.LessOrEqual(t, d, tt.radiusKm)
			}
		})
	}
}

func TestSamplePoints_RasterOrder(t *testing.T) {
	points, err := SamplePoints(orb.Point{30.0, 50.0}, 2, 200)
	require.NoError(t, err)
	require.Greater(t, len(points), 1)

	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		if cur.Lat() == prev.Lat() {
			assert.Greater(t, cur.Lon(), prev.Lon(), "longitude must ascend within a row (index %d)", i)
		} else {
			assert.Greater(t, cur.Lat(), prev.Lat(), "latitude must ascend between rows (index %d)", i)
		}
	}
}

func TestSamplePoints_Deterministic(t *testing.T) {
	first, err := SamplePoints(orb.Point{30.0, 50.0}, 1.5, 150)
	require.NoError(t, err)
	second, err := SamplePoints(orb.Point{30.0, 50.0}, 1.5, 150)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSamplePoints_CenterRow(t *testing.T) {
	// radius/step = 2 exactly, so the scan passes through the center latitude row.
	center := orb.Point{30.0, 50.0}
	points, err := SamplePoints(center, 1, 500)
	require.NoError(t, err)

	nearest := math.Inf(1)
	for _, p := range points {
		nearest = math.Min(nearest, PointDistanceKm(center, p))
	}
	assert.Less(t, nearest, 0.001)
}

func TestSamplePoints_InvalidGrid(t *testing.T) {
	tests := []struct {
		name     string
		radiusKm float64
		stepM    float64
	}{
		{name: "zero radius", radiusKm: 0, stepM: 100},
		{name: "negative radius", radiusKm: -1, stepM: 100},
		{name: "zero step", radiusKm: 1, stepM: 0},
		{name: "negative step", radiusKm: 1, stepM: -5},
		{name: "nan step", radiusKm: 1, stepM: math.NaN()},
		{name: "infinite radius", radiusKm: math.Inf(1), stepM: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SamplePoints(orb.Point{30.0, 50.0}, tt.radiusKm, tt.stepM)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidGrid))
		})
	}
}

func TestSampler_MaxPoints(t *testing.T) {
	center := orb.Point{30.0, 50.0}

	_, err := Sampler{MaxPoints: 10}.Sample(center, 1, 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGridTooLarge)

	points, err := Sampler{MaxPoints: 1000}.Sample(center, 1, 100)
	require.NoError(t, err)
	assert.NotEmpty(t, points)

	_, err = SamplePoints(center, 100, 1)
	assert.ErrorIs(t, err, ErrGridTooLarge)
}

func TestRaster_CandidatesCoversScan(t *testing.T) {
	center := orb.Point{30.0, 50.0}
	raster, err := NewRaster(center, 2, 100)
	require.NoError(t, err)

	var scanned int
	for lat := raster.Bound.Min.Lat(); lat <= raster.Bound.Max.Lat(); lat += raster.LatStep {
		for lon := raster.Bound.Min.Lon(); lon <= raster.Bound.Max.Lon(); lon += raster.LonStep {
			scanned++
		}
	}

	assert.GreaterOrEqual(t, raster.Candidates(), float64(scanned))
}
