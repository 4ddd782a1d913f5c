package handlers

import (
	"coffeemap-service/internal/api/dto"
	"coffeemap-service/internal/domain"
	"coffeemap-service/internal/ports"
	"errors"
	"net/http"
	"strings"
)

const msgNoVisitor = "Session not found. Please refresh the page."

type FavoriteHandler struct {
	Favorites ports.FavoriteRepository
	Shops     ports.ShopRepository
}

func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := VisitorID(r.Context())
	if userID == "" {
		writeError(w, r, http.StatusUnauthorized, msgNoVisitor)
		return
	}

	ids, err := h.Favorites.ListFavoriteShopIDs(r.Context(), userID)
	if err != nil {
		internalError(w, r, "list favorites failed", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FavoritesResponse{Favorites: ids})
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := VisitorID(r.Context())
	if userID == "" {
		writeError(w, r, http.StatusUnauthorized, msgNoVisitor)
		return
	}

	var req dto.FavoriteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	shopID := strings.TrimSpace(req.CoffeeShopID)
	if shopID == "" {
		writeError(w, r, http.StatusBadRequest, "coffeeShopId is required")
		return
	}

	if _, err := h.Shops.GetShop(r.Context(), shopID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, msgShopNotFound)
			return
		}
		internalError(w, r, "check shop failed", err)
		return
	}

	err := h.Favorites.AddFavorite(r.Context(), userID, shopID)
	if errors.Is(err, domain.ErrAlreadyExists) {
		writeError(w, r, http.StatusConflict, "Favorite already exists")
		return
	}
	if err != nil {
		internalError(w, r, "add favorite failed", err)
		return
	}

	var res dto.FavoriteResponse
	res.Favorite.UserID = userID
	res.Favorite.CoffeeShopID = shopID
	writeJSON(w, r, http.StatusCreated, res)
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := VisitorID(r.Context())
	if userID == "" {
		writeError(w, r, http.StatusUnauthorized, msgNoVisitor)
		return
	}

	shopID := strings.TrimSpace(r.URL.Query().Get("coffeeShopId"))
	if shopID == "" {
		writeError(w, r, http.StatusBadRequest, "coffeeShopId is required")
		return
	}

	err := h.Favorites.RemoveFavorite(r.Context(), userID, shopID)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "Favorite not found")
		return
	}
	if err != nil {
		internalError(w, r, "remove favorite failed", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.MessageResponse{Message: "Favorite removed successfully"})
}
