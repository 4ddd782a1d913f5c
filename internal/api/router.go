package api

import (
	"coffeemap-service/internal/api/handlers"
	"coffeemap-service/internal/auth"
	"coffeemap-service/internal/ports"
	"coffeemap-service/internal/services"
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Shops     ports.ShopRepository
	Favorites ports.FavoriteRepository
	Routes    ports.RouteProvider
	Sessions  *services.RouteSessions
	Geocoder  ports.ReverseGeocoder
	Blobs     ports.BlobStore
	Auth      *auth.Manager
	Logger    *zap.Logger

	// Ping checks the database for /health; optional.
	Ping func(ctx context.Context) error

	// RateLimitPerSecond of 0 disables rate limiting.
	RateLimitPerSecond int
	// TrustProxy keys rate limits by X-Forwarded-For.
	TrustProxy    bool
	SecureCookies bool
	// UploadDir, when set, is served under UploadURLPrefix.
	UploadDir       string
	UploadURLPrefix string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	router := httprouter.New()

	shopHandler := &handlers.ShopHandler{Shops: d.Shops, Blobs: d.Blobs}
	routeHandler := &handlers.RouteHandler{
		Shops:    d.Shops,
		Provider: d.Routes,
		Sessions: d.Sessions,
	}
	favHandler := &handlers.FavoriteHandler{Favorites: d.Favorites, Shops: d.Shops}
	authHandler := &handlers.AuthHandler{Auth: d.Auth, Secure: d.SecureCookies}
	uploadHandler := &handlers.UploadHandler{Blobs: d.Blobs}
	geocodeHandler := &handlers.GeocodeHandler{Geocoder: d.Geocoder}
	healthHandler := &handlers.HealthHandler{Ping: d.Ping, Sessions: d.Sessions}

	admin := func(h http.HandlerFunc) http.Handler { return requireAdmin(d.Auth, h) }

	router.HandlerFunc(http.MethodGet, "/health", healthHandler.Health)

	router.HandlerFunc(http.MethodGet, "/api/coffee-shops", shopHandler.List)
	router.HandlerFunc(http.MethodGet, "/api/coffee-shops/:id", shopHandler.Get)
	router.Handler(http.MethodPost, "/api/coffee-shops", admin(shopHandler.Create))
	router.Handler(http.MethodPut, "/api/coffee-shops/:id", admin(shopHandler.Update))
	router.Handler(http.MethodDelete, "/api/coffee-shops/:id", admin(shopHandler.Delete))
	router.HandlerFunc(http.MethodGet, "/api/nearby", shopHandler.Nearby)

	router.HandlerFunc(http.MethodPost, "/api/routes", routeHandler.Start)
	router.HandlerFunc(http.MethodPut, "/api/routes/:id/viewport", routeHandler.Viewport)
	router.HandlerFunc(http.MethodGet, "/api/routes/:id/marker", routeHandler.Marker)
	router.HandlerFunc(http.MethodDelete, "/api/routes/:id", routeHandler.Dismiss)

	router.HandlerFunc(http.MethodGet, "/api/favorites", favHandler.List)
	router.HandlerFunc(http.MethodPost, "/api/favorites", favHandler.Add)
	router.HandlerFunc(http.MethodDelete, "/api/favorites", favHandler.Remove)

	router.HandlerFunc(http.MethodPost, "/api/auth/login", authHandler.Login)
	router.HandlerFunc(http.MethodGet, "/api/auth/check", authHandler.Check)
	router.HandlerFunc(http.MethodPost, "/api/auth/logout", authHandler.Logout)

	router.Handler(http.MethodPost, "/api/upload", admin(uploadHandler.Upload))
	router.HandlerFunc(http.MethodGet, "/api/placeholder/:width/:height", handlers.Placeholder)
	router.HandlerFunc(http.MethodGet, "/api/geocode/reverse", geocodeHandler.Reverse)

	if d.UploadDir != "" && d.UploadURLPrefix != "" {
		router.ServeFiles(d.UploadURLPrefix+"/*filepath", http.Dir(d.UploadDir))
	}

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}` + "\n"))
	})

	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var h http.Handler = visitorMiddleware(d.SecureCookies, router)
	if d.RateLimitPerSecond > 0 {
		h = newRateLimiter(d.RateLimitPerSecond, d.TrustProxy).middleware(h)
	}
	h = loggingMiddleware(h)
	return requestIDMiddleware(logger, h)
}
