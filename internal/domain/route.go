package domain

import (
	"fmt"
	"math"
)

// RoutePath is the ordered polyline of a driving route, origin first.
// It is produced once per route request and never mutated afterwards.
type RoutePath []Coordinates

// Midpoint returns the point at index floor(len/2).
func (p RoutePath) Midpoint() (Coordinates, bool) {
	if len(p) == 0 {
		return Coordinates{}, false
	}
	return p[len(p)/2], true
}

// Aggregate metrics reported by the routing service for a whole route.
type RouteSummary struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// DistanceLabel renders the total distance, e.g. "12.3 km".
func (s RouteSummary) DistanceLabel() string {
	return fmt.Sprintf("%.1f km", s.DistanceMeters/1000)
}

// DurationLabel renders the total duration in whole minutes, e.g. "18 menit".
func (s RouteSummary) DurationLabel() string {
	return fmt.Sprintf("%d menit", int(math.Round(s.DurationSeconds/60)))
}

// Represents a driving route between two points.
type Route struct {
	Path    RoutePath
	Summary RouteSummary
}

// Bounds returns the smallest Viewport containing every point of the path.
func (p RoutePath) Bounds() (Viewport, bool) {
	if len(p) == 0 {
		return Viewport{}, false
	}

	v := Viewport{South: p[0].Lat, North: p[0].Lat, West: p[0].Lon, East: p[0].Lon}
	for _, c := range p[1:] {
		v.South = math.Min(v.South, c.Lat)
		v.North = math.Max(v.North, c.Lat)
		v.West = math.Min(v.West, c.Lon)
		v.East = math.Max(v.East, c.Lon)
	}
	return v, true
}
