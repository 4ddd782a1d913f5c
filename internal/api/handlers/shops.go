package handlers

import (
	"coffeemap-service/internal/api/dto"
	"coffeemap-service/internal/domain"
	"coffeemap-service/internal/ports"
	"coffeemap-service/internal/services"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultNearbyLimit = 5
	maxNearbyLimit     = 50

	msgEnableLocation = "Aktifkan lokasi Anda terlebih dahulu"
	msgShopNotFound   = "Coffee shop not found"
)

type ShopHandler struct {
	Shops ports.ShopRepository
	Blobs ports.BlobStore
}

// List returns every shop, newest first, optionally filtered by ?q=.
func (h *ShopHandler) List(w http.ResponseWriter, r *http.Request) {
	shops, err := h.Shops.ListShops(r.Context())
	if err != nil {
		internalError(w, r, "list shops failed", err)
		return
	}

	shops = services.FilterShops(shops, r.URL.Query().Get("q"))

	res := make([]dto.ShopResponse, 0, len(shops))
	for _, s := range shops {
		res = append(res, dto.NewShopResponse(s))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ShopHandler) Get(w http.ResponseWriter, r *http.Request) {
	shop, err := h.Shops.GetShop(r.Context(), param(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, msgShopNotFound)
		return
	}
	if err != nil {
		internalError(w, r, "get shop failed", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewShopResponse(shop))
}

// Nearby ranks shops by great-circle distance from ?lat=&lng=.
func (h *ShopHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(q.Get("lat")), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(q.Get("lng")), 64)
	origin := domain.Coordinates{Lat: lat, Lon: lng}
	if latErr != nil || lngErr != nil || !origin.Valid() {
		writeError(w, r, http.StatusBadRequest, msgEnableLocation)
		return
	}

	limit := defaultNearbyLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxNearbyLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 50")
			return
		}
		limit = n
	}

	shops, err := h.Shops.ListShops(r.Context())
	if err != nil {
		internalError(w, r, "list shops failed", err)
		return
	}

	ranked := services.FindNearby(origin, shops, limit)

	res := dto.NearbyResponse{
		Origin: dto.NewLatLng(origin),
		Shops:  make([]dto.NearbyShopResponse, 0, len(ranked)),
	}
	for _, rs := range ranked {
		res.Shops = append(res.Shops, dto.NearbyShopResponse{
			ShopResponse:  dto.NewShopResponse(rs.Shop),
			DistanceKm:    rs.DistanceKm,
			DistanceLabel: services.FormatDistance(rs.DistanceKm),
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ShopHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ShopRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	shop := req.ToShop("")
	if err := shop.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.Shops.CreateShop(r.Context(), shop)
	if err != nil {
		internalError(w, r, "create shop failed", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.NewShopResponse(created))
}

func (h *ShopHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.ShopRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	shop := req.ToShop(param(r, "id"))
	if err := shop.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.Shops.UpdateShop(r.Context(), shop)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, msgShopNotFound)
		return
	}
	if err != nil {
		internalError(w, r, "update shop failed", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewShopResponse(updated))
}

// Delete removes the shop and any photos or logo held in the blob store.
func (h *ShopHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := param(r, "id")

	deleted, err := services.DeleteShop(r.Context(), id, h.Shops, h.Blobs)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, msgShopNotFound)
		return
	}
	if err != nil {
		internalError(w, r, "delete shop failed", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DeleteShopResponse{
		Success:      true,
		Message:      "Coffee shop deleted successfully",
		DeletedID:    id,
		DeletedBlobs: deleted,
	})
}
