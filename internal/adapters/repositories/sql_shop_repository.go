package repositories

import (
	"coffeemap-service/internal/domain"
	"coffeemap-service/internal/platform/db"
	"coffeemap-service/internal/platform/obs"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const shopColumns = `
	id, name, address, lat, lng, whatsapp, instagram, facilities, photos, logo,
	wfc, open_time, close_time, operating_days, price_range, service_tax,
	connection_speed, mushola, parking, payment_methods, video_url, video_platform,
	created_at, updated_at`

const insertShopQuery = `
	INSERT INTO coffee_shops (` + shopColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		$17, $18, $19, $20, $21, $22, $23, $24)`

// SQL-backed implementation of the ShopRepository port.
type SQLShopRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
	now     func() time.Time
}

func NewSQLShopRepository(conn *sql.DB, dialect db.Dialect) *SQLShopRepository {
	return &SQLShopRepository{DB: conn, Dialect: dialect, now: time.Now}
}

// Return all shops, newest first.
func (s *SQLShopRepository) ListShops(ctx context.Context) (_ []domain.Shop, err error) {
	defer obs.Time(ctx, "shops.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql shop repository: DB is nil")
	}

	query := `SELECT` + shopColumns + `
	FROM coffee_shops
	ORDER BY created_at DESC, id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list shops: query coffee_shops table: %w", err)
	}
	defer rows.Close()

	shops := make([]domain.Shop, 0, 64)
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, fmt.Errorf("list shops: %w", err)
		}
		shops = append(shops, shop)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shops: row iteration: %w", err)
	}

	return shops, nil
}

func (s *SQLShopRepository) GetShop(ctx context.Context, id string) (_ domain.Shop, err error) {
	defer obs.Time(ctx, "shops.Get")(&err)

	if s.DB == nil {
		return domain.Shop{}, errors.New("sql shop repository: DB is nil")
	}

	query := s.Dialect.Rebind(`SELECT` + shopColumns + `
	FROM coffee_shops
	WHERE id = $1;
	`)
	shop, err := scanShop(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Shop{}, fmt.Errorf("get shop %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Shop{}, fmt.Errorf("get shop %q: %w", id, err)
	}
	return shop, nil
}

// CreateShop inserts shop, assigning an id when empty.
func (s *SQLShopRepository) CreateShop(ctx context.Context, shop domain.Shop) (_ domain.Shop, err error) {
	defer obs.Time(ctx, "shops.Create")(&err)

	if s.DB == nil {
		return domain.Shop{}, errors.New("sql shop repository: DB is nil")
	}

	if shop.ID == "" {
		shop.ID = uuid.NewString()
	}
	now := s.now().UTC().Truncate(time.Millisecond)
	shop.CreatedAt, shop.UpdatedAt = now, now

	args, err := shopArgs(shop)
	if err != nil {
		return domain.Shop{}, fmt.Errorf("create shop: %w", err)
	}

	if _, err := s.DB.ExecContext(ctx, s.Dialect.Rebind(insertShopQuery), args...); err != nil {
		return domain.Shop{}, fmt.Errorf("create shop: insert: %w", err)
	}
	return shop, nil
}

func (s *SQLShopRepository) UpdateShop(ctx context.Context, shop domain.Shop) (_ domain.Shop, err error) {
	defer obs.Time(ctx, "shops.Update")(&err)

	if s.DB == nil {
		return domain.Shop{}, errors.New("sql shop repository: DB is nil")
	}

	lists, err := encodeLists(shop.Facilities, shop.Photos, shop.Parking, shop.PaymentMethods)
	if err != nil {
		return domain.Shop{}, fmt.Errorf("update shop %q: %w", shop.ID, err)
	}

	query := s.Dialect.Rebind(`
	UPDATE coffee_shops SET
		name = $1, address = $2, lat = $3, lng = $4, whatsapp = $5, instagram = $6,
		facilities = $7, photos = $8, logo = $9, wfc = $10, open_time = $11,
		close_time = $12, operating_days = $13, price_range = $14, service_tax = $15,
		connection_speed = $16, mushola = $17, parking = $18, payment_methods = $19,
		video_url = $20, video_platform = $21, updated_at = $22
	WHERE id = $23;
	`)
	res, err := s.DB.ExecContext(ctx, query,
		shop.Name, shop.Address, shop.Location.Lat, shop.Location.Lon, shop.WhatsApp, shop.Instagram,
		lists[0], lists[1], shop.Logo, shop.WFC, shop.OpenTime,
		shop.CloseTime, shop.OperatingDays, shop.PriceRange, shop.ServiceTax,
		shop.ConnectionSpeed, shop.Mushola, lists[2], lists[3],
		shop.VideoURL, shop.VideoPlatform, s.now().UTC().UnixMilli(),
		shop.ID,
	)
	if err != nil {
		return domain.Shop{}, fmt.Errorf("update shop %q: %w", shop.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.Shop{}, fmt.Errorf("update shop %q: %w", shop.ID, domain.ErrNotFound)
	}

	return s.GetShop(ctx, shop.ID)
}

func (s *SQLShopRepository) DeleteShop(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, "shops.Delete")(&err)

	if s.DB == nil {
		return errors.New("sql shop repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, s.Dialect.Rebind(`DELETE FROM coffee_shops WHERE id = $1;`), id)
	if err != nil {
		return fmt.Errorf("delete shop %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete shop %q: %w", id, domain.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShop(row rowScanner) (domain.Shop, error) {
	var (
		shop                                  domain.Shop
		facilities, photos, parking, payments string
		createdAt, updatedAt                  int64
	)
	err := row.Scan(
		&shop.ID, &shop.Name, &shop.Address, &shop.Location.Lat, &shop.Location.Lon,
		&shop.WhatsApp, &shop.Instagram, &facilities, &photos, &shop.Logo,
		&shop.WFC, &shop.OpenTime, &shop.CloseTime, &shop.OperatingDays, &shop.PriceRange,
		&shop.ServiceTax, &shop.ConnectionSpeed, &shop.Mushola, &parking, &payments,
		&shop.VideoURL, &shop.VideoPlatform, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Shop{}, err
	}

	targets := []*[]string{&shop.Facilities, &shop.Photos, &shop.Parking, &shop.PaymentMethods}
	for i, raw := range []string{facilities, photos, parking, payments} {
		if err := json.Unmarshal([]byte(raw), targets[i]); err != nil {
			return domain.Shop{}, fmt.Errorf("decode list column for %q: %w", shop.ID, err)
		}
	}
	shop.CreatedAt = time.UnixMilli(createdAt).UTC()
	shop.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	return shop, nil
}

func shopArgs(shop domain.Shop) ([]any, error) {
	lists, err := encodeLists(shop.Facilities, shop.Photos, shop.Parking, shop.PaymentMethods)
	if err != nil {
		return nil, err
	}
	return []any{
		shop.ID, shop.Name, shop.Address, shop.Location.Lat, shop.Location.Lon,
		shop.WhatsApp, shop.Instagram, lists[0], lists[1], shop.Logo,
		shop.WFC, shop.OpenTime, shop.CloseTime, shop.OperatingDays, shop.PriceRange,
		shop.ServiceTax, shop.ConnectionSpeed, shop.Mushola, lists[2], lists[3],
		shop.VideoURL, shop.VideoPlatform, shop.CreatedAt.UnixMilli(), shop.UpdatedAt.UnixMilli(),
	}, nil
}

// encodeLists stores string lists as JSON text; nil becomes "[]".
func encodeLists(lists ...[]string) ([]string, error) {
	out := make([]string, len(lists))
	for i, l := range lists {
		if l == nil {
			l = []string{}
		}
		b, err := json.Marshal(l)
		if err != nil {
			return nil, fmt.Errorf("encode list column: %w", err)
		}
		out[i] = string(b)
	}
	return out, nil
}
