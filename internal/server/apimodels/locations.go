package apimodels

import (
	"time"

	"github.com/USA-RedDragon/routesync-server/internal/db/models"
)

// LocationResponse is the wire shape of a persisted location. Coordinate
// pairs serialize as [lat, lng] arrays.
type LocationResponse struct {
	ID                uint       `json:"id"`
	Source            string     `json:"source"`
	SourceCoords      [2]float64 `json:"sourceCoords"`
	Destination       string     `json:"destination"`
	DestinationCoords [2]float64 `json:"destinationCoords"`
	CreatedAt         time.Time  `json:"created_at"`
}

func LocationResponseFromModel(location models.Location) LocationResponse {
	return LocationResponse{
		ID:                location.ID,
		Source:            location.Source,
		SourceCoords:      [2]float64{location.SourceLat, location.SourceLng},
		Destination:       location.Destination,
		DestinationCoords: [2]float64{location.DestinationLat, location.DestinationLng},
		CreatedAt:         location.CreatedAt,
	}
}

func LocationResponsesFromModels(locations []models.Location) []LocationResponse {
	responses := make([]LocationResponse, 0, len(locations))
	for _, location := range locations {
		responses = append(responses, LocationResponseFromModel(location))
	}
	return responses
}

type CreateLocationRequest struct {
	Source      string `json:"source" binding:"required"`
	Destination string `json:"destination" binding:"required"`
}

type CreateLocationResponse struct {
	LocationResponse
	Distance string `json:"distance"`
}
