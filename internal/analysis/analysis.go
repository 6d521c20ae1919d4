// Package analysis implements the zoning computation pipeline: weighted FAR
// aggregation, tax incentive eligibility, air rights valuation, and the
// orchestrator that assembles them into one result with per-section failure
// markers. Calculators are pure functions over snapshots fetched by the
// caller; tuning constants arrive through config.AnalysisConfig.
package analysis

import "errors"

// Calculation errors. Handlers map these to 400 responses.
var (
	// ErrInvalidLandArea is returned when a computation requires a positive
	// lot area and the property records zero or less.
	ErrInvalidLandArea = errors.New("land area must be positive")

	// ErrInvalidBuildingArea is returned when a compliance check receives a
	// non-positive proposed building area.
	ErrInvalidBuildingArea = errors.New("building area must be positive")

	// ErrInvalidTransfer is returned when a transfer simulation requests a
	// non-positive amount or more than the source can convey.
	ErrInvalidTransfer = errors.New("invalid transfer request")
)
