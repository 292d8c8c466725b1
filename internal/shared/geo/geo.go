// Package geo holds the planar proximity arithmetic used for post discovery.
//
// Coordinates are compared as plain numbers in whatever unit they were stored
// with; there is no projection and no earth model.
package geo

import "math"

// NearRadius is the cut-off used by the post filter, in stored-coordinate units.
const NearRadius = 10.0

// CollapsedDistance returns the planar distance between a center and a point
// after each coordinate has been reduced to its absolute value. Points mirrored
// across an axis from the center therefore measure as close to it.
func CollapsedDistance(centerLat, centerLng, lat, lng float64) float64 {
	a := math.Abs(math.Abs(centerLat) - math.Abs(lat))
	b := math.Abs(math.Abs(centerLng) - math.Abs(lng))
	return math.Sqrt(a*a + b*b)
}

// Within reports whether the collapsed distance is strictly below radius.
// NaN inputs are never within any radius.
func Within(centerLat, centerLng, lat, lng, radius float64) bool {
	return CollapsedDistance(centerLat, centerLng, lat, lng) < radius
}
