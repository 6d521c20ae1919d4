package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// District categories, derived from the leading letter of the district code.
const (
	DistrictCategoryResidential   = "residential"
	DistrictCategoryCommercial    = "commercial"
	DistrictCategoryManufacturing = "manufacturing"
	DistrictCategorySpecial       = "special"
)

// ZoningDistrict is reference data describing one NYC zoning district.
// Boundaries come from authority shapefiles and are treated as read-only
// within a request. MaxHeightFt is nil when the district imposes no
// height limit.
type ZoningDistrict struct {
	ID             uuid.UUID    `json:"id"`
	DistrictCode   string       `json:"districtCode"`
	DistrictName   string       `json:"districtName"`
	FARBase        float64      `json:"farBase"`
	FARWithBonus   float64      `json:"farWithBonus"`
	MaxHeightFt    *float64     `json:"maxHeightFt,omitempty"`
	SetbackFrontFt float64      `json:"setbackFrontFt"`
	SetbackSideFt  float64      `json:"setbackSideFt"`
	SetbackRearFt  float64      `json:"setbackRearFt"`
	Category       string       `json:"category"`
	Geom           MultiPolygon `json:"boundary"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// CategoryForCode maps a district code to its category by prefix letter:
// R is residential, C commercial, M manufacturing, anything else special.
func CategoryForCode(code string) string {
	switch {
	case strings.HasPrefix(code, "R"):
		return DistrictCategoryResidential
	case strings.HasPrefix(code, "C"):
		return DistrictCategoryCommercial
	case strings.HasPrefix(code, "M"):
		return DistrictCategoryManufacturing
	default:
		return DistrictCategorySpecial
	}
}

// PropertyZoningLink associates a property with a zoning district and the
// percentage of the property's area falling inside it. Percentages across a
// property's links should sum to at most 100; they are read as stored and
// used as weights in FAR averaging, never silently corrected.
type PropertyZoningLink struct {
	ID                uuid.UUID `json:"id"`
	PropertyID        uuid.UUID `json:"propertyId"`
	ZoningDistrictID  uuid.UUID `json:"zoningDistrictId"`
	PercentInDistrict float64   `json:"percentInDistrict"`
	CreatedAt         time.Time `json:"createdAt"`
}

// DistrictShare pairs a district's attributes with the share of a property
// that falls inside it. This is the zoning calculator's input row, assembled
// by joining links to districts.
type DistrictShare struct {
	District          ZoningDistrict `json:"district"`
	PercentInDistrict float64        `json:"percentInDistrict"`
}

// Weight converts the stored percentage to a fractional weight.
func (s DistrictShare) Weight() float64 {
	return s.PercentInDistrict / 100.0
}
