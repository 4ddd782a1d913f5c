package dto

import (
	"coffeemap-service/internal/domain"
	"math"
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func NewLatLng(c domain.Coordinates) LatLng {
	return LatLng{Lat: c.Lat, Lng: c.Lon}
}

type OptionalLatLng struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// Coordinates returns NaN components for missing fields.
func (l *OptionalLatLng) Coordinates() domain.Coordinates {
	c := domain.Coordinates{Lat: nan(), Lon: nan()}
	if l == nil {
		return c
	}
	if l.Lat != nil {
		c.Lat = *l.Lat
	}
	if l.Lng != nil {
		c.Lon = *l.Lng
	}
	return c
}

type ViewportRequest struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

func (v ViewportRequest) ToViewport() domain.Viewport {
	return domain.Viewport{South: v.South, West: v.West, North: v.North, East: v.East}
}

type StartRouteRequest struct {
	Origin   *OptionalLatLng  `json:"origin"`
	ShopID   string           `json:"shopId"`
	Viewport *ViewportRequest `json:"viewport"`
}

type RouteSummaryResponse struct {
	DistanceMeters  float64 `json:"distanceMeters"`
	DurationSeconds float64 `json:"durationSeconds"`
	DistanceLabel   string  `json:"distanceLabel"`
	DurationLabel   string  `json:"durationLabel"`
}

func NewRouteSummaryResponse(s domain.RouteSummary) RouteSummaryResponse {
	return RouteSummaryResponse{
		DistanceMeters:  s.DistanceMeters,
		DurationSeconds: s.DurationSeconds,
		DistanceLabel:   s.DistanceLabel(),
		DurationLabel:   s.DurationLabel(),
	}
}

type MarkerResponse struct {
	Current   LatLng               `json:"current"`
	Target    LatLng               `json:"target"`
	Animating bool                 `json:"animating"`
	Summary   RouteSummaryResponse `json:"summary"`
}

type RouteSessionResponse struct {
	SessionID string               `json:"sessionId"`
	ShopID    string               `json:"shopId"`
	ShopName  string               `json:"shopName"`
	Path      []LatLng             `json:"path"`
	Summary   RouteSummaryResponse `json:"summary"`
	Marker    MarkerResponse       `json:"marker"`
}

func NewPath(p domain.RoutePath) []LatLng {
	out := make([]LatLng, 0, len(p))
	for _, c := range p {
		out = append(out, NewLatLng(c))
	}
	return out
}

func nan() float64 { return math.NaN() }
