package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Location is one resolved source/destination pair. Records are written once
// and never updated or deleted. The same pair may be saved any number of
// times; there is no uniqueness constraint.
type Location struct {
	ID             uint    `json:"id" gorm:"primaryKey"`
	Source         string  `json:"source"`
	SourceLat      float64 `json:"source_lat"`
	SourceLng      float64 `json:"source_lng"`
	Destination    string  `json:"destination"`
	DestinationLat float64 `json:"destination_lat"`
	DestinationLng float64 `json:"destination_lng"`

	CreatedAt time.Time `json:"created_at"`
}

func (l Location) TableName() string {
	return "locations"
}

func CreateLocation(db *gorm.DB, location *Location) error {
	return db.Create(location).Error
}

func FindAllLocations(db *gorm.DB) ([]Location, error) {
	var locations []Location
	err := db.Find(&locations).Error
	return locations, err
}

// FindLocationsMatching returns records whose source or destination contains
// the query as a case-insensitive substring.
func FindLocationsMatching(db *gorm.DB, query string) ([]Location, error) {
	var locations []Location
	pattern := "%" + strings.ToLower(query) + "%"
	err := db.Where("LOWER(source) LIKE ? OR LOWER(destination) LIKE ?", pattern, pattern).Find(&locations).Error
	return locations, err
}
