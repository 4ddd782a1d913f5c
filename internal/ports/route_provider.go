package ports

import (
	"coffeemap-service/internal/domain"
	"context"
)

// Contract for the external driving-route service.
type RouteProvider interface {
	// Return the driving route between two points. The returned path is non-empty on success.
	GetRoute(ctx context.Context, from, to domain.Coordinates) (domain.Route, error)
}
