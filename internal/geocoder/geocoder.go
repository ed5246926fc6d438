package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/USA-RedDragon/routesync-server/internal/config"
	"github.com/USA-RedDragon/routesync-server/internal/metrics"
	"github.com/USA-RedDragon/routesync-server/internal/utils"
	"github.com/go-errors/errors"
)

// ErrNotFound covers every way a lookup can fail: no candidates, no candidate
// inside the configured country, and provider-level errors. Callers cannot
// tell "place doesn't exist" apart from "provider is down".
var ErrNotFound = errors.New("location not found")

// Place is a geocoded location. DisplayName is the provider's canonical name,
// not the text the caller searched for.
type Place struct {
	DisplayName string
	Lat         float64
	Lng         float64
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type Geocoder struct {
	endpoint string
	country  string
	metrics  *metrics.Metrics
}

func NewGeocoder(config *config.Config, metrics *metrics.Metrics) *Geocoder {
	if config.Geocoder.URL == "" {
		slog.Error("Geocoder URL is not configured, location lookups are disabled")
	}
	return &Geocoder{
		endpoint: config.Geocoder.URL,
		country:  config.Geocoder.Country,
		metrics:  metrics,
	}
}

// Resolve maps a free-text place name to the provider's first candidate whose
// display name contains the configured country token. The country check is a
// substring match on the display name, so a foreign place that happens to
// mention the token will pass.
func (g *Geocoder) Resolve(ctx context.Context, place string) (Place, error) {
	if g.endpoint == "" {
		return Place{}, ErrNotFound
	}

	resp, err := utils.HTTPRequest(ctx, http.MethodGet, fmt.Sprintf("%s?q=%s&format=json", g.endpoint, url.QueryEscape(place)), nil, nil)
	if err != nil {
		g.countFailure("request")
		slog.Warn("Geocoding request failed", "place", place, "error", err)
		return Place{}, ErrNotFound
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.countFailure("status")
		slog.Warn("Geocoding provider returned an error", "place", place, "status_code", resp.StatusCode)
		return Place{}, ErrNotFound
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		g.countFailure("decode")
		slog.Warn("Failed to decode geocoding response", "place", place, "error", err)
		return Place{}, ErrNotFound
	}

	if len(results) == 0 {
		return Place{}, ErrNotFound
	}

	// Only the first candidate is considered
	first := results[0]
	if !strings.Contains(first.DisplayName, g.country) {
		return Place{}, ErrNotFound
	}

	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		g.countFailure("decode")
		slog.Warn("Geocoding provider returned an invalid latitude", "place", place, "lat", first.Lat)
		return Place{}, ErrNotFound
	}
	lng, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		g.countFailure("decode")
		slog.Warn("Geocoding provider returned an invalid longitude", "place", place, "lon", first.Lon)
		return Place{}, ErrNotFound
	}

	return Place{
		DisplayName: first.DisplayName,
		Lat:         lat,
		Lng:         lng,
	}, nil
}

func (g *Geocoder) countFailure(reason string) {
	if g.metrics != nil {
		g.metrics.IncrementGeocoderFailures(reason)
	}
}
