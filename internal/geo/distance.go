// Package geo provides the spherical-earth geometry used by the coverage
// engine: great-circle distance and disc sampling around a center point.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusKm is the mean Earth radius in kilometers.
const EarthRadiusKm = 6371.0

const degToRad = math.Pi / 180

// DistanceKm returns the haversine distance between two lat/lon points in
// degrees. orb/geo uses the WGS84 equatorial radius, so it is not used here.
func DistanceKm(latA, lonA, latB, lonB float64) float64 {
	dLat := (latB - latA) * degToRad
	dLon := (lonB - lonA) * degToRad

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	sinLat2 := sinLat * sinLat
	sinLon2 := sinLon * sinLon

	a := sinLat2 + math.Cos(latA*degToRad)*math.Cos(latB*degToRad)*sinLon2
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// PointDistanceKm is DistanceKm for orb points (X = lon, Y = lat).
func PointDistanceKm(a, b orb.Point) float64 {
	return DistanceKm(a.Lat(), a.Lon(), b.Lat(), b.Lon())
}
