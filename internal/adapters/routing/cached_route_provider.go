package routing

import (
	"coffeemap-service/internal/adapters/cache"
	"coffeemap-service/internal/domain"
	"coffeemap-service/internal/platform/obs"
	"coffeemap-service/internal/ports"
	"context"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// CachedRouteProvider serves routes from a SQL cache and falls through to
// the wrapped provider on a miss. Cache failures never fail a request.
type CachedRouteProvider struct {
	next  ports.RouteProvider
	cache *cache.SQLRouteCache
}

func NewCachedRouteProvider(next ports.RouteProvider, c *cache.SQLRouteCache) *CachedRouteProvider {
	return &CachedRouteProvider{next: next, cache: c}
}

// RouteKey hashes both endpoints rounded to 5 decimal places.
func RouteKey(from, to domain.Coordinates) string {
	raw := fmt.Sprintf("%.5f,%.5f;%.5f,%.5f", from.Lat, from.Lon, to.Lat, to.Lon)
	return strconv.FormatUint(xxhash.Sum64String(raw), 16)
}

func (p *CachedRouteProvider) GetRoute(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
) (domain.Route, error) {
	logger := obs.FromContext(ctx)
	key := RouteKey(from, to)

	if p.cache != nil {
		route, ok, err := p.cache.Get(ctx, key)
		if err != nil {
			logger.Warn("route cache lookup failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return route, nil
		}
	}

	route, err := p.next.GetRoute(ctx, from, to)
	if err != nil {
		return domain.Route{}, err
	}

	if p.cache != nil && len(route.Path) > 0 {
		if err := p.cache.Put(ctx, key, route); err != nil {
			logger.Warn("route cache store failed", zap.String("key", key), zap.Error(err))
		}
	}

	return route, nil
}
