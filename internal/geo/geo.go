// Package geo implements the store distance gate. Coordinates live on a flat
// 0–100 grid, so distance is planar Euclidean rather than great-circle.
package geo

import "math"

// Distance returns the planar distance between two coordinate pairs.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat1 - lat2
	dLon := lon1 - lon2
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

// WithinRange reports whether the two points are at most maxDistance apart.
func WithinRange(lat1, lon1, lat2, lon2, maxDistance float64) bool {
	return Distance(lat1, lon1, lat2, lon2) <= maxDistance
}
