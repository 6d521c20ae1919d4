// Package reports assembles analysis results into client-facing report
// artifacts: a section-filtered JSON preview and an xlsx workbook. PDF
// rendering is left to external tooling; both artifacts here carry the full
// payload a renderer needs.
package reports

import (
	"errors"
	"fmt"

	"github.com/zonewise/api/internal/services"
)

// Section names accepted by the preview filter, in render order.
const (
	SectionSummary    = "summary"
	SectionZoning     = "zoning"
	SectionIncentives = "taxIncentives"
	SectionAirRights  = "airRights"
	SectionLandmarks  = "landmarks"
)

// SectionNames lists every known report section.
var SectionNames = []string{
	SectionSummary,
	SectionZoning,
	SectionIncentives,
	SectionAirRights,
	SectionLandmarks,
}

// ErrUnknownSection means the preview filter named a section that does not
// exist.
var ErrUnknownSection = errors.New("unknown report section")

// Preview assembles the report payload, restricted to the requested sections.
// An empty filter selects every section.
func Preview(full *services.FullAnalysis, sections []string) (map[string]interface{}, error) {
	selected := make(map[string]bool, len(sections))
	if len(sections) == 0 {
		for _, name := range SectionNames {
			selected[name] = true
		}
	}
	for _, name := range sections {
		if !knownSection(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSection, name)
		}
		selected[name] = true
	}

	payload := map[string]interface{}{
		"report": full.Report,
	}

	if selected[SectionSummary] {
		payload[SectionSummary] = map[string]interface{}{
			"property": full.Property,
			"partial":  full.Analysis.Partial,
		}
	}
	if selected[SectionZoning] {
		payload[SectionZoning] = map[string]interface{}{
			"result": full.Analysis.Zoning,
			"status": full.Analysis.ZoningStatus,
		}
	}
	if selected[SectionIncentives] {
		payload[SectionIncentives] = map[string]interface{}{
			"result": full.Analysis.Incentives,
			"status": full.Analysis.IncentivesStatus,
		}
	}
	if selected[SectionAirRights] {
		payload[SectionAirRights] = map[string]interface{}{
			"result": full.Analysis.AirRights,
			"status": full.Analysis.AirRightsStatus,
		}
	}
	if selected[SectionLandmarks] {
		payload[SectionLandmarks] = map[string]interface{}{
			"result": full.Analysis.Landmarks,
			"status": full.Analysis.LandmarksStatus,
		}
	}

	return payload, nil
}

func knownSection(name string) bool {
	for _, known := range SectionNames {
		if name == known {
			return true
		}
	}
	return false
}
