package cache

import (
	"coffeemap-service/internal/domain"
	"coffeemap-service/internal/platform/db"
	"coffeemap-service/internal/platform/obs"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLRouteCache is a SQL-backed cache of fetched driving routes.
// Keys are expected to be normalized by the caller.
type SQLRouteCache struct {
	DB      *sql.DB
	Dialect db.Dialect
	// MaxAge drops entries older than this on read; zero keeps them forever.
	MaxAge time.Duration
	now    func() time.Time
}

func NewSQLRouteCache(conn *sql.DB, dialect db.Dialect, maxAge time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: conn, Dialect: dialect, MaxAge: maxAge, now: time.Now}
}

// Get returns the cached route for key and whether it was found.
func (s *SQLRouteCache) Get(ctx context.Context, key string) (_ domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return domain.Route{}, false, errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return domain.Route{}, false, errors.New("get route cache: key must not be empty")
	}

	q := s.Dialect.Rebind(`
	SELECT distance_meters, duration_seconds, geometry, created_at
	FROM route_cache
	WHERE cache_key = $1;
	`)

	var (
		meters, seconds float64
		geometry        string
		createdAt       int64
	)
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&meters, &seconds, &geometry, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	if s.MaxAge > 0 && s.now().Sub(time.UnixMilli(createdAt)) > s.MaxAge {
		return domain.Route{}, false, nil
	}

	var pairs [][]float64
	if err := json.Unmarshal([]byte(geometry), &pairs); err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: decode geometry: %w", err)
	}

	path := make(domain.RoutePath, 0, len(pairs))
	for i, p := range pairs {
		c, ok := domain.FromLonLat(p)
		if !ok {
			return domain.Route{}, false, fmt.Errorf("get route cache: bad point at index %d", i)
		}
		path = append(path, c)
	}

	return domain.Route{
		Path: path,
		Summary: domain.RouteSummary{
			DistanceMeters:  meters,
			DurationSeconds: seconds,
		},
	}, true, nil
}

// Put stores route under key, replacing any previous entry.
func (s *SQLRouteCache) Put(ctx context.Context, key string, route domain.Route) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	if len(route.Path) == 0 {
		return errors.New("insert route cache: empty path")
	}

	pairs := make([][]float64, 0, len(route.Path))
	for _, c := range route.Path {
		pairs = append(pairs, c.CoordsToList())
	}
	geometry, err := json.Marshal(pairs)
	if err != nil {
		return fmt.Errorf("insert route cache: encode geometry: %w", err)
	}

	q := s.Dialect.Rebind(`
	INSERT INTO route_cache (cache_key, distance_meters, duration_seconds, geometry, created_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (cache_key) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds,
		geometry = EXCLUDED.geometry,
		created_at = EXCLUDED.created_at;
	`)

	_, err = s.DB.ExecContext(ctx, q,
		key,
		route.Summary.DistanceMeters,
		route.Summary.DurationSeconds,
		string(geometry),
		s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}
