package models

import (
	"time"

	"github.com/google/uuid"
)

// Landmark categories. Category filters on the nearby-landmarks query accept
// only these values.
const (
	LandmarkHistoric       = "historic"
	LandmarkCultural       = "cultural"
	LandmarkNatural        = "natural"
	LandmarkTransportation = "transportation"
	LandmarkReligious      = "religious"
	LandmarkEducational    = "educational"
)

// LandmarkCategories lists every recognized category, in display order.
var LandmarkCategories = []string{
	LandmarkHistoric,
	LandmarkCultural,
	LandmarkNatural,
	LandmarkTransportation,
	LandmarkReligious,
	LandmarkEducational,
}

// Landmark is reference data for a named NYC landmark with a point location.
type Landmark struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description *string   `json:"description,omitempty"`
	Geom        Point     `json:"location"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ValidLandmarkCategory reports whether c is a recognized category.
func ValidLandmarkCategory(c string) bool {
	for _, known := range LandmarkCategories {
		if c == known {
			return true
		}
	}
	return false
}
