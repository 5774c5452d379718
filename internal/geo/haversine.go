// Package geo holds the great-circle math used by the proximity engine.
package geo

import "math"

// EarthRadiusM is the mean Earth radius used by the Haversine formula.
const EarthRadiusM = 6371000.0

// DistanceM returns the great-circle distance in meters between two
// lat/lng points. Symmetric, zero for identical coordinates.
func DistanceM(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := deg2rad(lat2 - lat1)
	dLng := deg2rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusM * c
}

// Midpoint returns the arithmetic midpoint of two coordinates. Friend pairs
// that matter here are within a few hundred meters of each other, where the
// arithmetic mean and the geodesic midpoint are indistinguishable.
func Midpoint(lat1, lng1, lat2, lng2 float64) (lat, lng float64) {
	return (lat1 + lat2) / 2, (lng1 + lng2) / 2
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
