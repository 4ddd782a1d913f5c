package repositories

import (
	"coffeemap-service/internal/domain"
	"coffeemap-service/internal/platform/db"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// ShopSeed is one entry of the seed file.
type ShopSeed struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	Lat             float64  `json:"lat"`
	Lng             float64  `json:"lng"`
	WhatsApp        string   `json:"whatsapp"`
	Instagram       string   `json:"instagram"`
	Facilities      []string `json:"facilities"`
	Photos          []string `json:"photos"`
	Logo            string   `json:"logo"`
	WFC             bool     `json:"wfc"`
	OpenTime        string   `json:"openTime"`
	CloseTime       string   `json:"closeTime"`
	OperatingDays   string   `json:"operatingDays"`
	PriceRange      string   `json:"priceRange"`
	ServiceTax      string   `json:"serviceTax"`
	ConnectionSpeed string   `json:"connectionSpeed"`
	Mushola         bool     `json:"mushola"`
	Parking         []string `json:"parking"`
	PaymentMethods  []string `json:"paymentMethods"`
}

func (s ShopSeed) toShop() domain.Shop {
	return domain.Shop{
		ID:              strings.TrimSpace(s.ID),
		Name:            strings.TrimSpace(s.Name),
		Address:         strings.TrimSpace(s.Address),
		Location:        domain.Coordinates{Lat: s.Lat, Lon: s.Lng},
		WhatsApp:        s.WhatsApp,
		Instagram:       s.Instagram,
		Facilities:      s.Facilities,
		Photos:          s.Photos,
		Logo:            s.Logo,
		WFC:             s.WFC,
		OpenTime:        s.OpenTime,
		CloseTime:       s.CloseTime,
		OperatingDays:   s.OperatingDays,
		PriceRange:      s.PriceRange,
		ServiceTax:      s.ServiceTax,
		ConnectionSpeed: s.ConnectionSpeed,
		Mushola:         s.Mushola,
		Parking:         s.Parking,
		PaymentMethods:  s.PaymentMethods,
	}
}

// SeedFromJSON populates coffee_shops from a JSON file. Existing ids are
// left untouched. It returns the number of rows inserted.
func SeedFromJSON(ctx context.Context, conn *sql.DB, dialect db.Dialect, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed shops: read %q: %w", jsonPath, err)
	}

	var data []ShopSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed shops: parse json: %w", err)
	}

	shops := make([]domain.Shop, 0, len(data))
	for i, item := range data {
		shop := item.toShop()
		if shop.ID == "" {
			return 0, fmt.Errorf("seed shops: item at index %d: id cannot be empty", i+1)
		}
		if err := shop.Validate(); err != nil {
			return 0, fmt.Errorf("seed shops: item %q: %w", shop.ID, err)
		}
		shops = append(shops, shop)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed shops: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, dialect.Rebind(insertShopQuery+" ON CONFLICT (id) DO NOTHING"))
	if err != nil {
		return 0, fmt.Errorf("seed shops: prepare insert: %w", err)
	}
	defer stmt.Close()

	// Later entries get older timestamps so "newest first" keeps file order.
	now := time.Now()
	inserted := 0
	for i, s := range shops {
		ts := now.Add(-time.Duration(i) * time.Second)
		s.CreatedAt, s.UpdatedAt = ts, ts

		args, err := shopArgs(s)
		if err != nil {
			return 0, fmt.Errorf("seed shops: encode %q: %w", s.ID, err)
		}
		res, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return 0, fmt.Errorf("seed shops: insert id=%q: %w", s.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed shops: commit tx: %w", err)
	}

	return inserted, nil
}
