package dto

import (
	"coffeemap-service/internal/domain"
	"time"
)

type ShopRequest struct {
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
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
	VideoURL        string   `json:"videoUrl"`
	VideoPlatform   string   `json:"videoPlatform"`
}

// ToShop maps the request onto a domain shop. Missing coordinates become
// NaN so validation rejects them.
func (r ShopRequest) ToShop(id string) domain.Shop {
	loc := domain.Coordinates{Lat: nan(), Lon: nan()}
	if r.Lat != nil && r.Lng != nil {
		loc = domain.Coordinates{Lat: *r.Lat, Lon: *r.Lng}
	}

	return domain.Shop{
		ID:              id,
		Name:            r.Name,
		Address:         r.Address,
		Location:        loc,
		WhatsApp:        r.WhatsApp,
		Instagram:       r.Instagram,
		Facilities:      r.Facilities,
		Photos:          r.Photos,
		Logo:            r.Logo,
		WFC:             r.WFC,
		OpenTime:        r.OpenTime,
		CloseTime:       r.CloseTime,
		OperatingDays:   r.OperatingDays,
		PriceRange:      r.PriceRange,
		ServiceTax:      r.ServiceTax,
		ConnectionSpeed: r.ConnectionSpeed,
		Mushola:         r.Mushola,
		Parking:         r.Parking,
		PaymentMethods:  r.PaymentMethods,
		VideoURL:        r.VideoURL,
		VideoPlatform:   r.VideoPlatform,
	}
}

type ShopResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	Lat             float64   `json:"lat"`
	Lng             float64   `json:"lng"`
	WhatsApp        string    `json:"whatsapp"`
	Instagram       string    `json:"instagram"`
	Facilities      []string  `json:"facilities"`
	Photos          []string  `json:"photos"`
	Logo            string    `json:"logo"`
	WFC             bool      `json:"wfc"`
	OpenTime        string    `json:"openTime"`
	CloseTime       string    `json:"closeTime"`
	OperatingDays   string    `json:"operatingDays"`
	PriceRange      string    `json:"priceRange"`
	ServiceTax      string    `json:"serviceTax"`
	ConnectionSpeed string    `json:"connectionSpeed"`
	Mushola         bool      `json:"mushola"`
	Parking         []string  `json:"parking"`
	PaymentMethods  []string  `json:"paymentMethods"`
	VideoURL        string    `json:"videoUrl"`
	VideoPlatform   string    `json:"videoPlatform"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func NewShopResponse(s domain.Shop) ShopResponse {
	return ShopResponse{
		ID:              s.ID,
		Name:            s.Name,
		Address:         s.Address,
		Lat:             s.Location.Lat,
		Lng:             s.Location.Lon,
		WhatsApp:        s.WhatsApp,
		Instagram:       s.Instagram,
		Facilities:      nonNil(s.Facilities),
		Photos:          nonNil(s.Photos),
		Logo:            s.Logo,
		WFC:             s.WFC,
		OpenTime:        s.OpenTime,
		CloseTime:       s.CloseTime,
		OperatingDays:   s.OperatingDays,
		PriceRange:      s.PriceRange,
		ServiceTax:      s.ServiceTax,
		ConnectionSpeed: s.ConnectionSpeed,
		Mushola:         s.Mushola,
		Parking:         nonNil(s.Parking),
		PaymentMethods:  nonNil(s.PaymentMethods),
		VideoURL:        s.VideoURL,
		VideoPlatform:   s.VideoPlatform,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

type NearbyShopResponse struct {
	ShopResponse
	DistanceKm    float64 `json:"distanceKm"`
	DistanceLabel string  `json:"distanceLabel"`
}

type NearbyResponse struct {
	Origin LatLng               `json:"origin"`
	Shops  []NearbyShopResponse `json:"shops"`
}

type DeleteShopResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedID    string `json:"deletedId"`
	DeletedBlobs int    `json:"deletedBlobs"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
