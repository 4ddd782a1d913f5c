package routing

import (
	"coffeemap-service/internal/domain"
	"coffeemap-service/internal/platform/httpclient"
	"coffeemap-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var ErrNoRoute = errors.New("routing service returned no route")

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry geojson.Geometry `json:"geometry"`
	} `json:"routes"`
}

// OSRMRouteProvider implements RouteProvider against an OSRM server
// (/route/v1/driving) with full-overview GeoJSON geometry.
type OSRMRouteProvider struct {
	client  *httpclient.Client
	baseURL string
	profile string
}

func NewOSRMRouteProvider(baseURL string) *OSRMRouteProvider {
	return &OSRMRouteProvider{
		client:  httpclient.New(10*time.Second, nil),
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving",
	}
}

func (o *OSRMRouteProvider) GetRoute(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
) (_ domain.Route, err error) {
	defer obs.Time(ctx, "osrm.GetRoute")(&err)

	endpoint := fmt.Sprintf(
		"%s/route/v1/%s/%f,%f;%f,%f?overview=full&geometries=geojson",
		o.baseURL, o.profile, from.Lon, from.Lat, to.Lon, to.Lat,
	)

	resp, err := o.client.DoWithRetry(ctx, func() (*http.Request, error) {
		return o.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("osrm route request: %w", err)
	}
	defer resp.Body.Close()

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Route{}, fmt.Errorf("decode osrm response: %w", err)
	}

	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		return domain.Route{}, fmt.Errorf("osrm code=%q: %w", decoded.Code, ErrNoRoute)
	}

	r := decoded.Routes[0]
	path, err := pathFromGeometry(r.Geometry.Geometry())
	if err != nil {
		return domain.Route{}, fmt.Errorf("osrm geometry: %w", err)
	}

	return domain.Route{
		Path: path,
		Summary: domain.RouteSummary{
			DistanceMeters:  r.Distance,
			DurationSeconds: r.Duration,
		},
	}, nil
}

// pathFromGeometry converts a route LineString into a RoutePath.
func pathFromGeometry(g orb.Geometry) (domain.RoutePath, error) {
	if g == nil {
		return nil, ErrNoRoute
	}
	line, ok := g.(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("unexpected geometry type %q", g.GeoJSONType())
	}
	if len(line) == 0 {
		return nil, ErrNoRoute
	}

	path := make(domain.RoutePath, 0, len(line))
	for i, p := range line {
		c := domain.Coordinates{Lat: p.Lat(), Lon: p.Lon()}
		if !c.Valid() {
			return nil, fmt.Errorf("invalid coordinate at index %d", i)
		}
		path = append(path, c)
	}
	return path, nil
}
