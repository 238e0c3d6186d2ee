// Package geo has the spherical distance helpers used to relate pins to
// the map center.
package geo

import (
	"math"

	"github.com/marcus/places/internal/models"
)

// EarthRadius is the WGS84 semi-major axis in meters.
const EarthRadius = 6378137.0

// DegreesToRadians converts degrees to radians.
func DegreesToRadians(d float64) float64 {
	return d * math.Pi / 180.0
}

// Distance returns the haversine great-circle distance between two
// coordinates in meters.
func Distance(p1, p2 models.Coordinate) float64 {
	lat1 := DegreesToRadians(p1.Latitude)
	lon1 := DegreesToRadians(p1.Longitude)
	lat2 := DegreesToRadians(p2.Latitude)
	lon2 := DegreesToRadians(p2.Longitude)

	dLat := lat2 - lat1
	dLon := lon2 - lon1
	// a = sin²(Δlat/2) + cos(lat1) * cos(lat2) * sin²(Δlon/2)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadius * c
}

// Nearest returns the index of the annotation closest to target, or -1
// for an empty slice. Ties go to the earlier annotation.
func Nearest(target models.Coordinate, annotations []models.Annotation) int {
	best := -1
	minDist := -1.0
	for i, a := range annotations {
		d := Distance(target, a.Coordinate())
		if minDist < 0 || d < minDist {
			minDist = d
			best = i
		}
	}
	return best
}

// WrapLongitude folds a longitude into [-180, 180).
func WrapLongitude(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// ClampLatitude limits a latitude to [-90, 90].
func ClampLatitude(lat float64) float64 {
	return math.Max(-90, math.Min(90, lat))
}
