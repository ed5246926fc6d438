package routing_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/USA-RedDragon/routesync-server/internal/db/models"
	"github.com/USA-RedDragon/routesync-server/internal/geocoder"
	"github.com/USA-RedDragon/routesync-server/internal/routing"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type fakeResolver struct {
	places map[string]geocoder.Place
	calls  int
}

func (f *fakeResolver) Resolve(_ context.Context, place string) (geocoder.Place, error) {
	f.calls++
	if p, ok := f.places[place]; ok {
		return p, nil
	}
	return geocoder.Place{}, geocoder.ErrNotFound
}

func makeTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&models.Location{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

func indianCities() map[string]geocoder.Place {
	return map[string]geocoder.Place{
		"Delhi":  {DisplayName: "New Delhi, Delhi, India", Lat: 28.6139, Lng: 77.2090},
		"Mumbai": {DisplayName: "Mumbai, Maharashtra, India", Lat: 19.0760, Lng: 72.8777},
	}
}

func TestCreateRoute(t *testing.T) {
	t.Parallel()
	db := makeTestDB(t)
	service := routing.NewService(db, &fakeResolver{places: indianCities()})

	result, err := service.CreateRoute(context.Background(), "Delhi", "Mumbai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The canonical resolved names are persisted, not the raw input
	if result.Location.Source != "New Delhi, Delhi, India" {
		t.Errorf("unexpected source: %s", result.Location.Source)
	}
	if result.Location.Destination != "Mumbai, Maharashtra, India" {
		t.Errorf("unexpected destination: %s", result.Location.Destination)
	}
	if result.Location.ID == 0 {
		t.Error("expected a persisted record with an ID")
	}
	if result.DistanceKm < 1150 || result.DistanceKm > 1160 {
		t.Errorf("expected 1150-1160 km between Delhi and Mumbai, got %f", result.DistanceKm)
	}
	if !strings.HasSuffix(result.Distance, " km") {
		t.Errorf("expected a km-suffixed distance, got %q", result.Distance)
	}

	locations, err := models.FindAllLocations(db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locations) != 1 {
		t.Fatalf("expected 1 persisted location, got %d", len(locations))
	}
}

func TestCreateRouteEmptyInput(t *testing.T) {
	t.Parallel()
	db := makeTestDB(t)
	resolver := &fakeResolver{places: indianCities()}
	service := routing.NewService(db, resolver)

	for _, pair := range [][2]string{{"", "Mumbai"}, {"Delhi", ""}, {"", ""}} {
		_, err := service.CreateRoute(context.Background(), pair[0], pair[1])
		if !errors.Is(err, routing.ErrMissingLocation) {
			t.Errorf("expected ErrMissingLocation for %v, got %v", pair, err)
		}
	}

	// Empty input is rejected before any lookup or storage call
	if resolver.calls != 0 {
		t.Errorf("expected no resolver calls, got %d", resolver.calls)
	}
	locations, err := models.FindAllLocations(db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locations) != 0 {
		t.Errorf("expected no persisted locations, got %d", len(locations))
	}
}

func TestCreateRouteUnresolvable(t *testing.T) {
	t.Parallel()
	db := makeTestDB(t)
	service := routing.NewService(db, &fakeResolver{places: indianCities()})

	_, err := service.CreateRoute(context.Background(), "Delhi", "Atlantis")
	if !errors.Is(err, routing.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}

	// No partial record is persisted when only one side resolves
	locations, err := models.FindAllLocations(db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locations) != 0 {
		t.Errorf("expected no persisted locations, got %d", len(locations))
	}
}

func TestCreateRouteDuplicates(t *testing.T) {
	t.Parallel()
	db := makeTestDB(t)
	service := routing.NewService(db, &fakeResolver{places: indianCities()})

	first, err := service.CreateRoute(context.Background(), "Delhi", "Mumbai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := service.CreateRoute(context.Background(), "Delhi", "Mumbai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Location.ID == second.Location.ID {
		t.Error("expected two distinct records for repeated routes")
	}
	if first.Location.SourceLat != second.Location.SourceLat ||
		first.Location.SourceLng != second.Location.SourceLng {
		t.Error("expected identical coordinates for repeated routes")
	}
}

func TestSearchFindsCreatedRoute(t *testing.T) {
	t.Parallel()
	db := makeTestDB(t)
	service := routing.NewService(db, &fakeResolver{places: indianCities()})

	created, err := service.CreateRoute(context.Background(), "Delhi", "Mumbai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, query := range []string{"Delhi", "delhi", "DELHI", "mumbai"} {
		matches, err := models.FindLocationsMatching(db, query)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		found := false
		for _, match := range matches {
			if match.ID == created.Location.ID {
				found = true
			}
		}
		if !found {
			t.Errorf("expected search %q to find the new record", query)
		}
	}

	matches, err := models.FindLocationsMatching(db, "Kolkata")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches for Kolkata, got %d", len(matches))
	}
}
