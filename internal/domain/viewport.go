package domain

// Viewport is the axis-aligned lat/lng box currently shown by the map.
type Viewport struct {
	South float64
	West  float64
	North float64
	East  float64
}

// Contains reports whether c lies inside the box. Edges are inclusive.
func (v Viewport) Contains(c Coordinates) bool {
	return c.Lat >= v.South && c.Lat <= v.North &&
		c.Lon >= v.West && c.Lon <= v.East
}

// Center returns the midpoint of the box.
func (v Viewport) Center() Coordinates {
	return Coordinates{
		Lat: (v.South + v.North) / 2,
		Lon: (v.West + v.East) / 2,
	}
}

// Valid reports whether the box has ordered, in-range corners.
func (v Viewport) Valid() bool {
	sw := Coordinates{Lat: v.South, Lon: v.West}
	ne := Coordinates{Lat: v.North, Lon: v.East}
	return sw.Valid() && ne.Valid() && v.South <= v.North && v.West <= v.East
}
