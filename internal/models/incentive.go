package models

import (
	"time"

	"github.com/google/uuid"
)

// Assessment bases for abatement estimation. The basis selects which area
// figure a program's assessment rate applies to.
const (
	AssessmentBasisBuilding = "building"
	AssessmentBasisLand     = "land"
)

// AbatementPhase is one stretch of an abatement schedule: Rate of the annual
// tax is abated for Years consecutive years.
type AbatementPhase struct {
	Years int     `json:"years"`
	Rate  float64 `json:"rate"`
}

// TaxIncentiveProgram is reference data describing one incentive program's
// eligibility rules and value-estimation configuration.
//
// EligibleDistrictCodes entries match a property's district either exactly or
// as a code prefix ("M1" covers M1-1 through M1-6). An empty list means the
// program has no district restriction. MinBuildingAge nil means no age
// requirement.
type TaxIncentiveProgram struct {
	ID                    uuid.UUID        `json:"id"`
	ProgramCode           string           `json:"programCode"`
	ProgramName           string           `json:"programName"`
	Description           *string          `json:"description,omitempty"`
	EligibleDistrictCodes []string         `json:"eligibleDistrictCodes"`
	MinBuildingAge        *int             `json:"minBuildingAge,omitempty"`
	RequiresResidential   bool             `json:"requiresResidential"`
	AssessmentBasis       string           `json:"assessmentBasis"`
	AssessmentRatePerSF   float64          `json:"assessmentRatePerSf"`
	AbatementSchedule     []AbatementPhase `json:"abatementSchedule"`
	CreatedAt             time.Time        `json:"createdAt"`
	UpdatedAt             time.Time        `json:"updatedAt"`
}

// AbatementYears returns the total duration of the schedule.
func (p TaxIncentiveProgram) AbatementYears() int {
	total := 0
	for _, phase := range p.AbatementSchedule {
		total += phase.Years
	}
	return total
}
