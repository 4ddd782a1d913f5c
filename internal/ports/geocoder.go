package ports

import (
	"coffeemap-service/internal/domain"
	"context"
)

// Resolves a coordinate into a human readable place name.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, c domain.Coordinates) (string, error)
}
