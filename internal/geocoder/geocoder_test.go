package geocoder_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/USA-RedDragon/routesync-server/internal/config"
	"github.com/USA-RedDragon/routesync-server/internal/geocoder"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *geocoder.Geocoder {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return geocoder.NewGeocoder(&config.Config{
		Geocoder: config.Geocoder{
			URL:     server.URL,
			Country: "India",
		},
	}, nil)
}

func TestResolve(t *testing.T) {
	t.Parallel()
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "New Delhi" {
			t.Errorf("unexpected query: %s", r.URL.Query().Get("q"))
		}
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("unexpected format: %s", r.URL.Query().Get("format"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"28.6139","lon":"77.2090","display_name":"New Delhi, Delhi, India"},{"lat":"0","lon":"0","display_name":"New Delhi, Somewhere Else"}]`))
	})

	place, err := g.Resolve(context.Background(), "New Delhi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place.DisplayName != "New Delhi, Delhi, India" {
		t.Errorf("unexpected display name: %s", place.DisplayName)
	}
	if place.Lat != 28.6139 || place.Lng != 77.2090 {
		t.Errorf("unexpected coordinates: %f, %f", place.Lat, place.Lng)
	}
}

func TestResolveWrongCountry(t *testing.T) {
	t.Parallel()
	// A non-empty result set whose first candidate is outside the
	// configured country must still report not found
	g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"51.5072","lon":"-0.1276","display_name":"London, Greater London, United Kingdom"}]`))
	})

	_, err := g.Resolve(context.Background(), "London")
	if !errors.Is(err, geocoder.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveFirstCandidateOnly(t *testing.T) {
	t.Parallel()
	// A matching second candidate does not rescue a non-matching first one
	g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"51.5072","lon":"-0.1276","display_name":"London, United Kingdom"},{"lat":"28.6139","lon":"77.2090","display_name":"New Delhi, India"}]`))
	})

	_, err := g.Resolve(context.Background(), "London")
	if !errors.Is(err, geocoder.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveEmptyResults(t *testing.T) {
	t.Parallel()
	g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := g.Resolve(context.Background(), "Nowhereville")
	if !errors.Is(err, geocoder.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveProviderError(t *testing.T) {
	t.Parallel()
	g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := g.Resolve(context.Background(), "New Delhi")
	if !errors.Is(err, geocoder.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveMalformedResponse(t *testing.T) {
	t.Parallel()
	g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	})

	_, err := g.Resolve(context.Background(), "New Delhi")
	if !errors.Is(err, geocoder.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveUnconfigured(t *testing.T) {
	t.Parallel()
	g := geocoder.NewGeocoder(&config.Config{
		Geocoder: config.Geocoder{Country: "India"},
	}, nil)

	_, err := g.Resolve(context.Background(), "New Delhi")
	if !errors.Is(err, geocoder.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
