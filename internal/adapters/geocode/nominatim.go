package geocode

import (
	"coffeemap-service/internal/adapters/cache"
	"coffeemap-service/internal/domain"
	"coffeemap-service/internal/platform/httpclient"
	"coffeemap-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNoResult = errors.New("geocoder returned no display name")

	countrySuffix = regexp.MustCompile(`(?i), Indonesia$`)
)

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// NominatimGeocoder implements ReverseGeocoder against the OSM Nominatim API.
type NominatimGeocoder struct {
	client  *httpclient.Client
	baseURL string
	cache   *cache.SQLGeocodeCache
}

func NewNominatimGeocoder(baseURL string, c *cache.SQLGeocodeCache) *NominatimGeocoder {
	client := httpclient.New(8*time.Second, map[string]string{
		"Accept-Language": "id",
		"User-Agent":      "CoffeeMapApp/1.0",
	})
	// Nominatim's usage policy allows one request per second.
	client.MaxAttempts = 2
	client.Backoff = time.Second

	return &NominatimGeocoder{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   c,
	}
}

// ReverseGeocode returns the display name for c without the trailing
// ", Indonesia".
func (n *NominatimGeocoder) ReverseGeocode(ctx context.Context, c domain.Coordinates) (_ string, err error) {
	defer obs.Time(ctx, "nominatim.ReverseGeocode")(&err)

	if !c.Valid() {
		return "", fmt.Errorf("reverse geocode: invalid coordinates %v", c)
	}

	logger := obs.FromContext(ctx)
	if n.cache != nil {
		name, ok, err := n.cache.Get(ctx, c)
		if err != nil {
			logger.Warn("geocode cache lookup failed", zap.Error(err))
		} else if ok {
			return name, nil
		}
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Lon, 'f', -1, 64))
	q.Set("zoom", "18")
	q.Set("addressdetails", "1")
	endpoint := n.baseURL + "/reverse?" + q.Encode()

	resp, err := n.client.DoWithRetry(ctx, func() (*http.Request, error) {
		return n.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return "", fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	var rr reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return "", fmt.Errorf("decode reverse geocode response: %w", err)
	}

	name := strings.TrimSpace(countrySuffix.ReplaceAllString(rr.DisplayName, ""))
	if name == "" {
		return "", ErrNoResult
	}

	if n.cache != nil {
		if err := n.cache.Put(ctx, c, name); err != nil {
			logger.Warn("geocode cache store failed", zap.Error(err))
		}
	}

	return name, nil
}
