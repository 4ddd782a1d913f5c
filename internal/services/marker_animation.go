package services

import (
	"coffeemap-service/internal/domain"
	"math"
)

const (
	DefaultEase    = 0.04
	DefaultEpsilon = 0.000005
)

// MarkerAnimation eases a position toward a target by a fixed fraction per step.
type MarkerAnimation struct {
	Current domain.Coordinates
	Target  domain.Coordinates
	Ease    float64
	Epsilon float64
}

func NewMarkerAnimation(start domain.Coordinates) MarkerAnimation {
	return MarkerAnimation{
		Current: start,
		Target:  start,
		Ease:    DefaultEase,
		Epsilon: DefaultEpsilon,
	}
}

// Step advances one frame and reports whether another frame is needed.
// Once the remaining delta is within Epsilon the position snaps to Target.
func (a *MarkerAnimation) Step() bool {
	dLat := a.Target.Lat - a.Current.Lat
	dLon := a.Target.Lon - a.Current.Lon

	a.Current = domain.Coordinates{
		Lat: a.Current.Lat + dLat*a.Ease,
		Lon: a.Current.Lon + dLon*a.Ease,
	}

	if math.Sqrt(dLat*dLat+dLon*dLon) > a.Epsilon {
		return true
	}

	a.Current = a.Target
	return false
}

// Retarget redirects the animation without touching Current.
func (a *MarkerAnimation) Retarget(target domain.Coordinates) {
	a.Target = target
}

// Settled reports whether Current already equals Target.
func (a *MarkerAnimation) Settled() bool {
	return a.Current == a.Target
}
