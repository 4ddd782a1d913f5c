package services

import (
	"coffeemap-service/internal/domain"
	"fmt"
	"math"
	"slices"
)

const earthRadiusKm = 6371

// HaversineKm returns the great-circle distance between a and b in kilometers.
func HaversineKm(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// FindNearby ranks shops by distance from origin and returns the closest limit.
//
// Every shop is annotated before sorting. Ties keep input order. Shops with malformed coordinates produce NaN
// distances and are ranked after every finite distance.
func FindNearby(origin domain.Coordinates, shops []domain.Shop, limit int) []domain.RankedShop {
	if limit <= 0 {
		return []domain.RankedShop{}
	}

	ranked := make([]domain.RankedShop, 0, len(shops))
	for _, s := range shops {
		ranked = append(ranked, domain.RankedShop{
			Shop:       s,
			DistanceKm: HaversineKm(origin, s.Location),
		})
	}

	slices.SortStableFunc(ranked, func(a, b domain.RankedShop) int {
		return compareDistance(a.DistanceKm, b.DistanceKm)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// compareDistance orders ascending with NaN after all numbers.
func compareDistance(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// FormatDistance renders a distance for display: meters below 1 km,
// one-decimal kilometers otherwise.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1f km", km)
}
