package ports

import "context"

// Port: per-visitor favorites.
type FavoriteRepository interface {
	// Return shop ids favorited by userID, newest first.
	ListFavoriteShopIDs(ctx context.Context, userID string) ([]string, error)
	// domain.ErrAlreadyExists when the pair is already stored.
	AddFavorite(ctx context.Context, userID, shopID string) error
	// domain.ErrNotFound when nothing was removed.
	RemoveFavorite(ctx context.Context, userID, shopID string) error
}
