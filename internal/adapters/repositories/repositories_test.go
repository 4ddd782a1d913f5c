package repositories

import (
	"coffeemap-service/internal/domain"
	"coffeemap-service/internal/platform/db"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedPath = "../../../data/seeds/coffee_shops.json"

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, InitSchema(conn))
	return conn
}

// fixedClock returns a clock that advances one second per call.
func fixedClock() func() time.Time {
	t := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	assert.NoError(t, InitSchema(conn))
	assert.Error(t, InitSchema(nil))
}

func TestSeedFromJSON(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	n, err := SeedFromJSON(ctx, conn, db.SQLite, seedPath)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	// Reseeding leaves existing rows alone.
	n, err = SeedFromJSON(ctx, conn, db.SQLite, seedPath)
	require.NoError(t, err)
	assert.Zero(t, n)

	shops, err := NewSQLShopRepository(conn, db.SQLite).ListShops(ctx)
	require.NoError(t, err)
	require.Len(t, shops, 5)
	assert.Equal(t, "logos-central-001", shops[0].ID)
	assert.Equal(t, "logos-pasar-005", shops[4].ID)
	assert.Equal(t, domain.Coordinates{Lat: -2.1286, Lon: 106.1126}, shops[0].Location)
	assert.True(t, shops[0].WFC)
	assert.Contains(t, shops[0].Facilities, "wifi")
}

func TestSeedFromJSONRejectsInvalidEntries(t *testing.T) {
	conn := openTestDB(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"x","name":"","address":"a","lat":0,"lng":0}]`), 0o600))

	_, err := SeedFromJSON(context.Background(), conn, db.SQLite, path)
	assert.ErrorContains(t, err, "name is required")

	_, err = SeedFromJSON(context.Background(), conn, db.SQLite, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestShopRepositoryCRUD(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	repo := NewSQLShopRepository(conn, db.SQLite)
	repo.now = fixedClock()

	created, err := repo.CreateShop(ctx, domain.Shop{
		Name:       "Kopi Kenangan Bangka",
		Address:    "Jl. Mentok",
		Location:   domain.Coordinates{Lat: -2.13, Lon: 106.11},
		Facilities: []string{"wifi"},
		Mushola:    true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := repo.GetShop(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, []string{"wifi"}, got.Facilities)
	assert.Equal(t, []string{}, got.Photos)
	assert.True(t, got.Mushola)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

	got.Name = "Kopi Kenangan Pangkalpinang"
	got.Photos = []string{"https://blob.test/a.jpg"}
	updated, err := repo.UpdateShop(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Kopi Kenangan Pangkalpinang", updated.Name)
	assert.Equal(t, []string{"https://blob.test/a.jpg"}, updated.Photos)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	reread, err := repo.GetShop(ctx, created.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(updated, reread, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("GetShop after update mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, repo.DeleteShop(ctx, created.ID))
	_, err = repo.GetShop(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShopRepositoryMissingRows(t *testing.T) {
	repo := NewSQLShopRepository(openTestDB(t), db.SQLite)
	ctx := context.Background()

	_, err := repo.UpdateShop(ctx, domain.Shop{ID: "nope", Name: "n", Address: "a"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteShop(ctx, "nope"), domain.ErrNotFound)
}

func TestShopRepositoryListsNewestFirst(t *testing.T) {
	repo := NewSQLShopRepository(openTestDB(t), db.SQLite)
	repo.now = fixedClock()
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		_, err := repo.CreateShop(ctx, domain.Shop{
			Name: name, Address: "addr", Location: domain.Coordinates{Lat: -2.1, Lon: 106.1},
		})
		require.NoError(t, err)
	}

	shops, err := repo.ListShops(ctx)
	require.NoError(t, err)
	require.Len(t, shops, 3)
	assert.Equal(t, "third", shops[0].Name)
	assert.Equal(t, "first", shops[2].Name)
}

func TestFavoriteRepository(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	_, err := SeedFromJSON(ctx, conn, db.SQLite, seedPath)
	require.NoError(t, err)

	favs := NewSQLFavoriteRepository(conn, db.SQLite)
	favs.now = fixedClock()

	ids, err := favs.ListFavoriteShopIDs(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, favs.AddFavorite(ctx, "visitor-1", "logos-central-001"))
	require.NoError(t, favs.AddFavorite(ctx, "visitor-1", "logos-timur-002"))
	require.NoError(t, favs.AddFavorite(ctx, "visitor-2", "logos-central-001"))

	err = favs.AddFavorite(ctx, "visitor-1", "logos-central-001")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	ids, err = favs.ListFavoriteShopIDs(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"logos-timur-002", "logos-central-001"}, ids)

	require.NoError(t, favs.RemoveFavorite(ctx, "visitor-1", "logos-timur-002"))
	assert.ErrorIs(t, favs.RemoveFavorite(ctx, "visitor-1", "logos-timur-002"), domain.ErrNotFound)

	// Deleting a shop cascades to favorites.
	require.NoError(t, NewSQLShopRepository(conn, db.SQLite).DeleteShop(ctx, "logos-central-001"))
	ids, err = favs.ListFavoriteShopIDs(ctx, "visitor-2")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
