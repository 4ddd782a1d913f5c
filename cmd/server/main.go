package main

import (
	"coffeemap-service/internal/adapters/blob"
	"coffeemap-service/internal/adapters/cache"
	"coffeemap-service/internal/adapters/geocode"
	"coffeemap-service/internal/adapters/kv"
	"coffeemap-service/internal/adapters/repositories"
	"coffeemap-service/internal/adapters/routing"
	"coffeemap-service/internal/api"
	"coffeemap-service/internal/auth"
	"coffeemap-service/internal/config"
	"coffeemap-service/internal/platform/db"
	"coffeemap-service/internal/platform/obs"
	"coffeemap-service/internal/ports"
	"coffeemap-service/internal/services"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const routeCacheMaxAge = 7 * 24 * time.Hour

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := obs.NewLogger(cfg.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, dialect, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(ctx, conn, dialect, cfg.SeedPath, logger); err != nil {
		return err
	}

	provider, err := newRouteProvider(cfg, conn, dialect)
	if err != nil {
		return err
	}
	geocoder := geocode.NewNominatimGeocoder(cfg.NominatimBaseURL, cache.NewSQLGeocodeCache(conn, dialect))

	blobs, err := newBlobStore(cfg)
	if err != nil {
		return err
	}

	revoked, closeKV, err := newKeyValueStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeKV()

	manager, err := auth.NewManager(cfg.AdminPassword, cfg.SessionSecret, revoked)
	if err != nil {
		return err
	}

	sessions := services.NewRouteSessions(
		services.NewTimerScheduler(cfg.FrameInterval),
		cfg.RouteSessionTTL,
		logger,
		services.WithEasing(cfg.MarkerEase, cfg.MarkerEpsilon),
	)
	defer sessions.Close()

	deps := api.Deps{
		Shops:              repositories.NewSQLShopRepository(conn, dialect),
		Favorites:          repositories.NewSQLFavoriteRepository(conn, dialect),
		Routes:             provider,
		Sessions:           sessions,
		Geocoder:           geocoder,
		Blobs:              blobs,
		Auth:               manager,
		Logger:             logger,
		Ping:               conn.PingContext,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		TrustProxy:         cfg.TrustProxy,
		SecureCookies:      cfg.Production(),
	}
	if _, local := blobs.(*blob.LocalStore); local {
		deps.UploadDir = cfg.UploadDir
		deps.UploadURLPrefix = cfg.UploadURLPrefix
	}

	// Timeouts are tuned for cold-cache routing (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("db", dialect.String()),
			zap.String("routing", cfg.RoutingProvider),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openDB picks postgres when DATABASE_URL is set, sqlite otherwise.
func openDB(cfg config.Config) (*sql.DB, db.Dialect, error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		return conn, db.DialectFor(cfg.DatabaseURL), err
	}
	conn, err := db.OpenSQLite(cfg.DBPath)
	return conn, db.SQLite, err
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect db.Dialect, seedPath string, logger *zap.Logger) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	n, err := repositories.SeedFromJSON(ctx, conn, dialect, seedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	logger.Info("database ready", zap.Int("seeded", n))
	return nil
}

func newRouteProvider(cfg config.Config, conn *sql.DB, dialect db.Dialect) (ports.RouteProvider, error) {
	var next ports.RouteProvider
	switch cfg.RoutingProvider {
	case "ors":
		p, err := routing.NewORSRouteProvider(cfg.ORSAPIKey)
		if err != nil {
			return nil, err
		}
		next = p
	default:
		next = routing.NewOSRMRouteProvider(cfg.OSRMBaseURL)
	}
	return routing.NewCachedRouteProvider(next, cache.NewSQLRouteCache(conn, dialect, routeCacheMaxAge)), nil
}

func newBlobStore(cfg config.Config) (ports.BlobStore, error) {
	if cfg.BlobToken != "" {
		return blob.NewVercelStore(cfg.BlobToken)
	}
	return blob.NewLocalStore(cfg.UploadDir, cfg.UploadURLPrefix)
}

// newKeyValueStore uses redis when REDIS_URL is set and process memory otherwise.
func newKeyValueStore(ctx context.Context, cfg config.Config) (ports.KeyValueStore, func(), error) {
	if cfg.RedisURL == "" {
		return kv.NewMemoryStore(), func() {}, nil
	}
	store, err := kv.NewRedisStore(ctx, cfg.RedisURL, "coffeemap:")
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}
