package services

import (
	"coffeemap-service/internal/domain"
	"coffeemap-service/internal/platform/obs"
	"coffeemap-service/internal/ports"
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidLocation  = errors.New("user location is missing or invalid")
	ErrRouteUnavailable = errors.New("route unavailable")
)

// RouteToShop fetches the driving route from origin to the given shop.
//
// The caller guards for a known user location; an invalid origin is reported
// as ErrInvalidLocation before any external call is made. Routing failures
// are wrapped in ErrRouteUnavailable so route mode is never activated on them.
func RouteToShop(
	ctx context.Context,
	origin domain.Coordinates,
	shopID string,
	shops ports.ShopRepository,
	provider ports.RouteProvider,
) (_ domain.Shop, _ domain.Route, err error) {
	defer obs.Time(ctx, "services.RouteToShop")(&err)

	if !origin.Valid() {
		return domain.Shop{}, domain.Route{}, ErrInvalidLocation
	}

	shop, err := shops.GetShop(ctx, shopID)
	if err != nil {
		return domain.Shop{}, domain.Route{}, fmt.Errorf("route to shop: get shop %q: %w", shopID, err)
	}

	route, err := provider.GetRoute(ctx, origin, shop.Location)
	if err != nil {
		return domain.Shop{}, domain.Route{}, fmt.Errorf("route to shop %q: %w: %w", shopID, ErrRouteUnavailable, err)
	}

	if len(route.Path) == 0 {
		return domain.Shop{}, domain.Route{}, fmt.Errorf("route to shop %q: %w: %w", shopID, ErrRouteUnavailable, ErrEmptyRoute)
	}

	return shop, route, nil
}
