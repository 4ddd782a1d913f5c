package cache

import (
	"coffeemap-service/internal/domain"
	"coffeemap-service/internal/platform/db"
	"coffeemap-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLGeocodeCache is a SQL-backed cache mapping coordinates to place names.
type SQLGeocodeCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLGeocodeCache(conn *sql.DB, dialect db.Dialect) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: conn, Dialect: dialect}
}

// GeocodeKey rounds c to 5 decimal places (about 1 m), so nearby lookups
// share an entry.
func GeocodeKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lon)
}

// Get returns the cached place name for c and whether it was found.
func (s *SQLGeocodeCache) Get(ctx context.Context, c domain.Coordinates) (_ string, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return "", false, errors.New("geocode cache: db is nil")
	}

	q := s.Dialect.Rebind(`
	SELECT display_name
	FROM geocode_cache
	WHERE cache_key = $1;
	`)

	var name string
	err = s.DB.QueryRowContext(ctx, q, GeocodeKey(c)).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return name, true, nil
}

// Put stores the place name for c.
func (s *SQLGeocodeCache) Put(ctx context.Context, c domain.Coordinates, name string) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	if name == "" {
		return errors.New("insert geocode cache: empty name")
	}

	q := s.Dialect.Rebind(`
	INSERT INTO geocode_cache (cache_key, display_name, created_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (cache_key) DO UPDATE
	SET display_name = EXCLUDED.display_name,
		created_at = EXCLUDED.created_at;
	`)

	key := GeocodeKey(c)
	if _, err := s.DB.ExecContext(ctx, q, key, name, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("insert geocode cache key=%q: %w", key, err)
	}

	return nil
}
