package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the application tables. The DDL is accepted by both
// postgres and sqlite.
func InitSchema(conn *sql.DB) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createShopsQuery := `
	CREATE TABLE IF NOT EXISTS coffee_shops (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		whatsapp TEXT NOT NULL DEFAULT '',
		instagram TEXT NOT NULL DEFAULT '',
		facilities TEXT NOT NULL DEFAULT '[]',
		photos TEXT NOT NULL DEFAULT '[]',
		logo TEXT NOT NULL DEFAULT '',
		wfc BOOLEAN NOT NULL DEFAULT FALSE,
		open_time TEXT NOT NULL DEFAULT '',
		close_time TEXT NOT NULL DEFAULT '',
		operating_days TEXT NOT NULL DEFAULT '',
		price_range TEXT NOT NULL DEFAULT '',
		service_tax TEXT NOT NULL DEFAULT '',
		connection_speed TEXT NOT NULL DEFAULT '',
		mushola BOOLEAN NOT NULL DEFAULT FALSE,
		parking TEXT NOT NULL DEFAULT '[]',
		payment_methods TEXT NOT NULL DEFAULT '[]',
		video_url TEXT NOT NULL DEFAULT '',
		video_platform TEXT NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	);
	`

	createFavoritesQuery := `
	CREATE TABLE IF NOT EXISTS favorites (
		user_id TEXT NOT NULL,
		coffee_shop_id TEXT NOT NULL REFERENCES coffee_shops(id) ON DELETE CASCADE,
		created_at BIGINT NOT NULL,
		PRIMARY KEY (user_id, coffee_shop_id)
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		cache_key TEXT PRIMARY KEY,
		distance_meters DOUBLE PRECISION NOT NULL,
		duration_seconds DOUBLE PRECISION NOT NULL,
		geometry TEXT NOT NULL,
		created_at BIGINT NOT NULL
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		cache_key TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		created_at BIGINT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_favorites_user_created
	ON favorites(user_id, created_at);
	`

	statements := []string{
		createShopsQuery,
		createFavoritesQuery,
		createRouteCacheQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
