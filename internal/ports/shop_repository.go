package ports

import (
	"coffeemap-service/internal/domain"
	"context"
)

// Port: persistence boundary for coffee shop listings.
type ShopRepository interface {
	// Return all shops, newest first.
	ListShops(ctx context.Context) ([]domain.Shop, error)
	// Return one shop or domain.ErrNotFound.
	GetShop(ctx context.Context, id string) (domain.Shop, error)
	CreateShop(ctx context.Context, shop domain.Shop) (domain.Shop, error)
	// Replace a shop's fields; domain.ErrNotFound when the id is unknown.
	UpdateShop(ctx context.Context, shop domain.Shop) (domain.Shop, error)
	DeleteShop(ctx context.Context, id string) error
}
