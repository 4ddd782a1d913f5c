package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Represents a single coffee shop listing shown on the map.
// Descriptive fields are opaque to the ranking and routing logic;
// only ID and Location take part in computations.
type Shop struct {
	ID              string
	Name            string
	Address         string
	Location        Coordinates
	WhatsApp        string
	Instagram       string
	Facilities      []string
	Photos          []string
	Logo            string
	WFC             bool
	OpenTime        string
	CloseTime       string
	OperatingDays   string
	PriceRange      string
	ServiceTax      string
	ConnectionSpeed string
	Mushola         bool
	Parking         []string
	PaymentMethods  []string
	VideoURL        string
	VideoPlatform   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the fields the map cannot render without.
func (s *Shop) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(s.Address) == "" {
		return errors.New("address is required")
	}
	if !s.Location.Valid() {
		return errors.New("lat/lng must be valid coordinates")
	}
	return nil
}

// A Shop annotated with its great-circle distance from a reference point.
// RankedShops are created per query and never persisted.
type RankedShop struct {
	Shop
	DistanceKm float64
}
