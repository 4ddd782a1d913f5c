package services

import (
	"coffeemap-service/internal/domain"
	"coffeemap-service/internal/platform/obs"
	"coffeemap-service/internal/ports"
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const blobDeleteConcurrency = 4

// DeleteShop removes a shop and the blob-hosted photos and logo it references.
//
// Blob deletion failures are logged and do not block the row delete.
// It returns the number of blob URLs that were submitted for deletion.
func DeleteShop(
	ctx context.Context,
	id string,
	shops ports.ShopRepository,
	blobs ports.BlobStore,
) (_ int, err error) {
	defer obs.Time(ctx, "services.DeleteShop")(&err)

	shop, err := shops.GetShop(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete shop %q: %w", id, err)
	}

	var urls []string
	if blobs != nil {
		candidates := append(append([]string{}, shop.Photos...), shop.Logo)
		for _, u := range candidates {
			if u != "" && blobs.Owns(u) {
				urls = append(urls, u)
			}
		}
	}

	if len(urls) > 0 {
		logger := obs.FromContext(ctx)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(blobDeleteConcurrency)
		for _, u := range urls {
			g.Go(func() error {
				if err := blobs.Delete(gctx, u); err != nil {
					return fmt.Errorf("delete blob %q: %w", u, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			logger.Warn("failed to delete some blobs", zap.String("shop_id", id), zap.Error(err))
		}
	}

	if err := shops.DeleteShop(ctx, id); err != nil {
		return 0, fmt.Errorf("delete shop %q: %w", id, err)
	}

	return len(urls), nil
}

// FilterShops keeps shops whose name or address contains query, ignoring
// case and diacritics. An empty query returns shops unchanged.
func FilterShops(shops []domain.Shop, query string) []domain.Shop {
	q := foldText(query)
	if q == "" {
		return shops
	}

	out := make([]domain.Shop, 0, len(shops))
	for _, s := range shops {
		if strings.Contains(foldText(s.Name), q) || strings.Contains(foldText(s.Address), q) {
			out = append(out, s)
		}
	}
	return out
}

func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
