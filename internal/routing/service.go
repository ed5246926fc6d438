package routing

import (
	"context"
	"fmt"

	"github.com/USA-RedDragon/routesync-server/internal/db/models"
	"github.com/USA-RedDragon/routesync-server/internal/geocoder"
	"github.com/USA-RedDragon/routesync-server/internal/utils"
	"github.com/go-errors/errors"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrMissingLocation = errors.New("source and destination are required")
	ErrInvalidLocation = errors.New("invalid location or outside supported country")
	ErrStorage         = errors.New("failed to save location")
)

type Resolver interface {
	Resolve(ctx context.Context, place string) (geocoder.Place, error)
}

// Service resolves a source/destination pair to coordinates, computes the
// great-circle distance between them, and persists the result under the
// provider's canonical names.
type Service struct {
	db       *gorm.DB
	resolver Resolver
}

func NewService(db *gorm.DB, resolver Resolver) *Service {
	return &Service{
		db:       db,
		resolver: resolver,
	}
}

type RouteResult struct {
	Location   models.Location
	DistanceKm float64
	Distance   string
}

// CreateRoute is a single synchronous request: one geocoding failure or one
// storage failure surfaces immediately, nothing is retried, and no partial
// record is written.
func (s *Service) CreateRoute(ctx context.Context, source string, destination string) (RouteResult, error) {
	if source == "" || destination == "" {
		return RouteResult{}, ErrMissingLocation
	}

	var sourcePlace, destinationPlace geocoder.Place
	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		place, err := s.resolver.Resolve(grpCtx, source)
		sourcePlace = place
		return err
	})
	grp.Go(func() error {
		place, err := s.resolver.Resolve(grpCtx, destination)
		destinationPlace = place
		return err
	})
	if err := grp.Wait(); err != nil {
		if errors.Is(err, geocoder.ErrNotFound) {
			return RouteResult{}, ErrInvalidLocation
		}
		return RouteResult{}, err
	}

	distanceKm := utils.RoundKm(utils.Haversine(
		sourcePlace.Lat, sourcePlace.Lng,
		destinationPlace.Lat, destinationPlace.Lng))

	location := models.Location{
		Source:         sourcePlace.DisplayName,
		SourceLat:      sourcePlace.Lat,
		SourceLng:      sourcePlace.Lng,
		Destination:    destinationPlace.DisplayName,
		DestinationLat: destinationPlace.Lat,
		DestinationLng: destinationPlace.Lng,
	}
	if err := models.CreateLocation(s.db.WithContext(ctx), &location); err != nil {
		return RouteResult{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return RouteResult{
		Location:   location,
		DistanceKm: distanceKm,
		Distance:   fmt.Sprintf("%.2f km", distanceKm),
	}, nil
}
