package handlers

import (
	"coffeemap-service/internal/platform/obs"
	"coffeemap-service/internal/services"
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type HealthResponse struct {
	Status        string `json:"status"`
	RouteSessions int    `json:"routeSessions"`
}

// HealthHandler reports liveness plus database reachability.
type HealthHandler struct {
	// Ping is optional; nil skips the database check.
	Ping     func(ctx context.Context) error
	Sessions *services.RouteSessions
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := HealthResponse{Status: "ok"}
	if h.Sessions != nil {
		res.RouteSessions = h.Sessions.Len()
	}

	if h.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.Ping(ctx); err != nil {
			obs.FromContext(r.Context()).Warn("health: database unreachable", zap.Error(err))
			res.Status = "unavailable"
			writeJSON(w, r, http.StatusServiceUnavailable, res)
			return
		}
	}
	writeJSON(w, r, http.StatusOK, res)
}
