package routing

import (
	"coffeemap-service/internal/domain"
	"context"
	"fmt"
	"sync"
)

// MockRouteProvider returns canned routes keyed by destination.
type MockRouteProvider struct {
	mu     sync.Mutex
	routes map[domain.Coordinates]domain.Route
	Calls  int
}

func NewMockRouteProvider(routes map[domain.Coordinates]domain.Route) *MockRouteProvider {
	if routes == nil {
		routes = map[domain.Coordinates]domain.Route{}
	}
	return &MockRouteProvider{routes: routes}
}

func (p *MockRouteProvider) GetRoute(ctx context.Context, from, to domain.Coordinates) (domain.Route, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls++

	r, ok := p.routes[to]
	if !ok {
		return domain.Route{}, fmt.Errorf("missing route to %v: %w", to, ErrNoRoute)
	}
	return r, nil
}
