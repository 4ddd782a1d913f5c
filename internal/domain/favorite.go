package domain

import "time"

// Favorite links an anonymous visitor session to a shop.
// The (UserID, ShopID) pair is unique.
type Favorite struct {
	UserID    string
	ShopID    string
	CreatedAt time.Time
}
