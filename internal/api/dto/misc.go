package dto

type FavoriteRequest struct {
	CoffeeShopID string `json:"coffeeShopId"`
}

type FavoritesResponse struct {
	Favorites []string `json:"favorites"`
}

type FavoriteResponse struct {
	Favorite struct {
		UserID       string `json:"userId"`
		CoffeeShopID string `json:"coffeeShopId"`
	} `json:"favorite"`
}

type LoginRequest struct {
	Password string `json:"password"`
}

type MessageResponse struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message"`
}

type AuthCheckResponse struct {
	Authenticated bool   `json:"authenticated"`
	Message       string `json:"message"`
}

type UploadResponse struct {
	URL         string `json:"url"`
	Pathname    string `json:"pathname,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size"`
	Name        string `json:"name,omitempty"`
	Fallback    bool   `json:"fallback,omitempty"`
}

type GeocodeResponse struct {
	Name string `json:"name"`
}
