package domain

import "math"

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Valid reports whether both components are finite and inside WGS84 ranges.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// FromLonLat builds Coordinates from a GeoJSON-style [lng, lat] pair.
func FromLonLat(pair []float64) (Coordinates, bool) {
	if len(pair) < 2 {
		return Coordinates{}, false
	}
	return Coordinates{Lat: pair[1], Lon: pair[0]}, true
}
