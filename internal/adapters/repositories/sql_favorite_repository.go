package repositories

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

// SQL-backed implementation of the FavoriteRepository port.
type SQLFavoriteRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
	now     func() time.Time
}

func NewSQLFavoriteRepository(conn *sql.DB, dialect db.Dialect) *SQLFavoriteRepository {
	return &SQLFavoriteRepository{DB: conn, Dialect: dialect, now: time.Now}
}

func (s *SQLFavoriteRepository) ListFavoriteShopIDs(ctx context.Context, userID string) (_ []string, err error) {
	defer obs.Time(ctx, "favorites.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql favorite repository: DB is nil")
	}

	query := s.Dialect.Rebind(`
	SELECT coffee_shop_id
	FROM favorites
	WHERE user_id = $1
	ORDER BY created_at DESC, coffee_shop_id;
	`)
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: query favorites table: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0, 16)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list favorites: scan row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list favorites: row iteration: %w", err)
	}

	return ids, nil
}

// AddFavorite stores the pair. Callers check that the shop exists first.
func (s *SQLFavoriteRepository) AddFavorite(ctx context.Context, userID, shopID string) (err error) {
	defer obs.Time(ctx, "favorites.Add")(&err)

	if s.DB == nil {
		return errors.New("sql favorite repository: DB is nil")
	}

	query := s.Dialect.Rebind(`
	INSERT INTO favorites (user_id, coffee_shop_id, created_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id, coffee_shop_id) DO NOTHING;
	`)
	res, err := s.DB.ExecContext(ctx, query, userID, shopID, s.now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("add favorite %q: %w", shopID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("add favorite %q: %w", shopID, domain.ErrAlreadyExists)
	}
	return nil
}

func (s *SQLFavoriteRepository) RemoveFavorite(ctx context.Context, userID, shopID string) (err error) {
	defer obs.Time(ctx, "favorites.Remove")(&err)

	if s.DB == nil {
		return errors.New("sql favorite repository: DB is nil")
	}

	query := s.Dialect.Rebind(`DELETE FROM favorites WHERE user_id = $1 AND coffee_shop_id = $2;`)
	res, err := s.DB.ExecContext(ctx, query, userID, shopID)
	if err != nil {
		return fmt.Errorf("remove favorite %q: %w", shopID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("remove favorite %q: %w", shopID, domain.ErrNotFound)
	}
	return nil
}
