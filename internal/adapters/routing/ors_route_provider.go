package routing

import (
	"bytes"
	"coffeemap-service/internal/domain"
	"coffeemap-service/internal/platform/httpclient"
	"coffeemap-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

// ORSRouteProvider implements RouteProvider using the OpenRouteService
// directions endpoint in GeoJSON form.
type ORSRouteProvider struct {
	client  *httpclient.Client
	baseURL string
	profile string
}

func NewORSRouteProvider(apiKey string) (*ORSRouteProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSRouteProvider{
		client:  httpclient.New(10*time.Second, map[string]string{"Authorization": apiKey}),
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-car",
	}, nil
}

// WithBaseURL points the provider at another ORS deployment.
func (o *ORSRouteProvider) WithBaseURL(baseURL string) *ORSRouteProvider {
	o.baseURL = strings.TrimRight(baseURL, "/")
	return o
}

func (o *ORSRouteProvider) GetRoute(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
) (_ domain.Route, err error) {
	defer obs.Time(ctx, "ors.GetRoute")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	payload, err := json.Marshal(directionsRequest{
		Coordinates: [][]float64{from.CoordsToList(), to.CoordsToList()},
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.client.DoWithRetry(ctx, func() (*http.Request, error) {
		return o.client.NewRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Route{}, fmt.Errorf("read directions response: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return domain.Route{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(fc.Features) == 0 {
		return domain.Route{}, ErrNoRoute
	}

	f := fc.Features[0]
	path, err := pathFromGeometry(f.Geometry)
	if err != nil {
		return domain.Route{}, fmt.Errorf("ors geometry: %w", err)
	}

	return domain.Route{
		Path:    path,
		Summary: summaryFromProperties(f.Properties),
	}, nil
}

// summaryFromProperties reads properties.summary; missing values stay zero.
func summaryFromProperties(props geojson.Properties) domain.RouteSummary {
	summary, _ := props["summary"].(map[string]interface{})
	distance, _ := summary["distance"].(float64)
	duration, _ := summary["duration"].(float64)
	return domain.RouteSummary{DistanceMeters: distance, DurationSeconds: duration}
}
