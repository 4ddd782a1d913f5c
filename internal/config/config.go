package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetInt parses key as an integer, falling back on absence or parse failure.
func GetInt(key string, fallback int) int {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// GetFloat parses key as a float64, falling back on absence or parse failure.
func GetFloat(key string, fallback float64) float64 {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// GetBool parses key with strconv.ParseBool ("1", "true", "false").
func GetBool(key string, fallback bool) bool {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// GetDuration parses key with time.ParseDuration ("30m", "16ms").
func GetDuration(key string, fallback time.Duration) time.Duration {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Config is the fully-resolved runtime configuration of the server.
type Config struct {
	Env  string
	Port string

	// DatabaseURL selects postgres (pgx); otherwise DBPath is opened with sqlite.
	DatabaseURL string
	DBPath      string
	SeedPath    string

	AdminPassword string
	SessionSecret string

	RoutingProvider  string
	OSRMBaseURL      string
	ORSAPIKey        string
	NominatimBaseURL string

	BlobToken       string
	UploadDir       string
	UploadURLPrefix string

	RedisURL string

	RateLimitPerSecond int
	// TrustProxy honours X-Forwarded-For; only set behind a proxy that overwrites it.
	TrustProxy      bool
	RouteSessionTTL time.Duration
	FrameInterval   time.Duration
	// MarkerEase is the per-frame fraction of the remaining distance the
	// marker covers; MarkerEpsilon is the snap distance in degrees.
	MarkerEase    float64
	MarkerEpsilon float64
}

func (c Config) Production() bool { return c.Env == "production" }

// Load reads configuration from the environment and validates it.
// Callers are expected to have run godotenv.Load beforehand.
func Load() (Config, error) {
	cfg := Config{
		Env:                Get("APP_ENV", "development"),
		Port:               Get("PORT", "8080"),
		DatabaseURL:        Get("DATABASE_URL", ""),
		DBPath:             Get("DB_PATH", "data/app.db"),
		SeedPath:           Get("SEED_PATH", "data/seeds/coffee_shops.json"),
		AdminPassword:      Get("ADMIN_PASSWORD", "admin123"),
		SessionSecret:      Get("SESSION_SECRET", ""),
		RoutingProvider:    strings.ToLower(Get("ROUTING_PROVIDER", "osrm")),
		OSRMBaseURL:        Get("OSRM_BASE_URL", "https://router.project-osrm.org"),
		ORSAPIKey:          Get("ORS_API_KEY", ""),
		NominatimBaseURL:   Get("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		BlobToken:          Get("BLOB_READ_WRITE_TOKEN", ""),
		UploadDir:          Get("UPLOAD_DIR", "data/uploads"),
		UploadURLPrefix:    Get("UPLOAD_URL_PREFIX", "/uploads"),
		RedisURL:           Get("REDIS_URL", ""),
		RateLimitPerSecond: GetInt("RATE_LIMIT_PER_SECOND", 20),
		TrustProxy:         GetBool("TRUST_PROXY", false),
		RouteSessionTTL:    GetDuration("ROUTE_SESSION_TTL", 30*time.Minute),
		FrameInterval:      GetDuration("FRAME_INTERVAL", 16*time.Millisecond),
		MarkerEase:         GetFloat("MARKER_EASE", 0.04),
		MarkerEpsilon:      GetFloat("MARKER_EPSILON", 0.000005),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.RoutingProvider {
	case "osrm":
	case "ors":
		if c.ORSAPIKey == "" {
			return errors.New("ORS_API_KEY is required when ROUTING_PROVIDER=ors")
		}
	default:
		return fmt.Errorf("unknown ROUTING_PROVIDER %q", c.RoutingProvider)
	}

	if c.Production() && c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required in production")
	}
	if c.MarkerEase <= 0 || c.MarkerEase > 1 {
		return errors.New("MARKER_EASE must be in (0, 1]")
	}
	if c.MarkerEpsilon <= 0 {
		return errors.New("MARKER_EPSILON must be positive")
	}
	if c.RateLimitPerSecond < 0 {
		return errors.New("RATE_LIMIT_PER_SECOND must not be negative")
	}
	return nil
}
