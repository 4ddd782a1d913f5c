package handlers

import (
	"coffeemap-service/internal/api/dto"
	"coffeemap-service/internal/domain"
	"coffeemap-service/internal/platform/obs"
	"coffeemap-service/internal/ports"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// Shown when a location cannot be named.
const fallbackPlaceName = "Lokasi ditemukan"

type GeocodeHandler struct {
	Geocoder ports.ReverseGeocoder
}

// Reverse names the place at ?lat=&lng=. Lookup failures still answer 200
// with a generic name.
func (h *GeocodeHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
	c := domain.Coordinates{Lat: lat, Lon: lng}
	if latErr != nil || lngErr != nil || !c.Valid() {
		writeError(w, r, http.StatusBadRequest, msgEnableLocation)
		return
	}

	name, err := h.Geocoder.ReverseGeocode(r.Context(), c)
	if err != nil {
		obs.FromContext(r.Context()).Warn("reverse geocode failed", zap.Error(err))
		name = fallbackPlaceName
	}
	writeJSON(w, r, http.StatusOK, dto.GeocodeResponse{Name: name})
}
