package models

import (
	"time"

	"github.com/google/uuid"
)

// Property represents a NYC tax lot under analysis.
// All nullable fields use pointers to distinguish between zero values and NULL.
// Geometry is a point location in SRID 4326 and is immutable after creation.
type Property struct {
	ID             uuid.UUID `json:"id"`
	Address        string    `json:"address"`
	Borough        string    `json:"borough"`
	LotNumber      *string   `json:"lotNumber,omitempty"`
	BlockNumber    *string   `json:"blockNumber,omitempty"`
	ZipCode        *string   `json:"zipCode,omitempty"`
	LandAreaSF     float64   `json:"landAreaSf"`
	BuildingAreaSF *float64  `json:"buildingAreaSf,omitempty"`
	CurrentUse     *string   `json:"currentUse,omitempty"`
	YearBuilt      *int      `json:"yearBuilt,omitempty"`
	Geom           Point     `json:"location"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FARUtilized returns built floor area divided by land area.
// A missing building area counts as zero utilization.
func (p Property) FARUtilized() float64 {
	if p.BuildingAreaSF == nil || p.LandAreaSF <= 0 {
		return 0
	}
	return *p.BuildingAreaSF / p.LandAreaSF
}

// BuildingAge returns the property's age in whole years as of now,
// or false when no construction year is recorded.
func (p Property) BuildingAge(now time.Time) (int, bool) {
	if p.YearBuilt == nil || *p.YearBuilt <= 0 {
		return 0, false
	}
	age := now.Year() - *p.YearBuilt
	if age < 0 {
		age = 0
	}
	return age, true
}

// Boroughs recognized in market-pricing configuration. Stored lowercase
// with underscores, matching the seeded reference data.
const (
	BoroughManhattan    = "manhattan"
	BoroughBrooklyn     = "brooklyn"
	BoroughQueens       = "queens"
	BoroughBronx        = "bronx"
	BoroughStatenIsland = "staten_island"
)
