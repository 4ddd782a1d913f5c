package handlers

import (
	"coffeemap-service/internal/api/dto"
	"coffeemap-service/internal/domain"
	"coffeemap-service/internal/platform/obs"
	"coffeemap-service/internal/ports"
	"coffeemap-service/internal/services"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const msgRouteFailed = "Gagal mendapatkan rute"

type RouteHandler struct {
	Shops    ports.ShopRepository
	Provider ports.RouteProvider
	Sessions *services.RouteSessions
}

// Start fetches a route from the visitor to a shop and activates route mode.
func (h *RouteHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req dto.StartRouteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	shopID := strings.TrimSpace(req.ShopID)
	if shopID == "" {
		writeError(w, r, http.StatusBadRequest, "shopId is required")
		return
	}

	var viewport *domain.Viewport
	if req.Viewport != nil {
		v := req.Viewport.ToViewport()
		if !v.Valid() {
			writeError(w, r, http.StatusBadRequest, "invalid viewport")
			return
		}
		viewport = &v
	}

	shop, route, err := services.RouteToShop(r.Context(), req.Origin.Coordinates(), shopID, h.Shops, h.Provider)
	switch {
	case errors.Is(err, services.ErrInvalidLocation):
		writeError(w, r, http.StatusBadRequest, msgEnableLocation)
		return
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, msgShopNotFound)
		return
	case errors.Is(err, services.ErrRouteUnavailable):
		obs.FromContext(r.Context()).Warn("route unavailable", zap.String("shop_id", shopID), zap.Error(err))
		writeError(w, r, http.StatusBadGateway, msgRouteFailed)
		return
	case err != nil:
		internalError(w, r, "route to shop failed", err)
		return
	}

	session, err := h.Sessions.Start(route, shop.ID, viewport)
	if err != nil {
		internalError(w, r, "start route session failed", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.RouteSessionResponse{
		SessionID: session.ID,
		ShopID:    shop.ID,
		ShopName:  shop.Name,
		Path:      dto.NewPath(session.Tracker.Path()),
		Summary:   dto.NewRouteSummaryResponse(route.Summary),
		Marker:    markerResponse(session),
	})
}

// Viewport recomputes the marker target after a map move or zoom.
func (h *RouteHandler) Viewport(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.ViewportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	v := req.ToViewport()
	if !v.Valid() {
		writeError(w, r, http.StatusBadRequest, "invalid viewport")
		return
	}

	session.Tracker.Update(v)
	writeJSON(w, r, http.StatusOK, markerResponse(session))
}

func (h *RouteHandler) Marker(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, markerResponse(session))
}

// Dismiss leaves route mode; path and marker are discarded together.
func (h *RouteHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Dismiss(param(r, "id")); err != nil {
		writeError(w, r, http.StatusNotFound, "Route session not found")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.MessageResponse{Success: true, Message: "Route cleared"})
}

func (h *RouteHandler) session(w http.ResponseWriter, r *http.Request) (*services.RouteSession, bool) {
	session, err := h.Sessions.Get(param(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, "Route session not found")
		return nil, false
	}
	return session, true
}

func markerResponse(s *services.RouteSession) dto.MarkerResponse {
	current, target, animating := s.Tracker.Position()
	return dto.MarkerResponse{
		Current:   dto.NewLatLng(current),
		Target:    dto.NewLatLng(target),
		Animating: animating,
		Summary:   dto.NewRouteSummaryResponse(s.Route.Summary),
	}
}
