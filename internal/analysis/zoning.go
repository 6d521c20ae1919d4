package analysis

import (
	"fmt"

	"github.com/zonewise/api/internal/models"
)

// Setbacks holds the aggregate setback requirement per lot side, in feet.
type Setbacks struct {
	FrontFt float64 `json:"frontFt"`
	SideFt  float64 `json:"sideFt"`
	RearFt  float64 `json:"rearFt"`
}

// DistrictFAR is one row of the per-district breakdown in a ZoningSummary.
type DistrictFAR struct {
	DistrictCode      string   `json:"districtCode"`
	DistrictName      string   `json:"districtName"`
	Category          string   `json:"category"`
	PercentInDistrict float64  `json:"percentInDistrict"`
	FARBase           float64  `json:"farBase"`
	FARWithBonus      float64  `json:"farWithBonus"`
	MaxHeightFt       *float64 `json:"maxHeightFt,omitempty"`
}

// ZoningSummary is the zoning calculator's result. FAR totals are weighted by
// each district's share of the lot. MaxHeightFt is nil when no overlapping
// district imposes a height limit. PercentCovered records the raw sum of the
// stored shares; values short of 100 mean partial data and the totals are
// only as accurate as the recorded percentages.
type ZoningSummary struct {
	LandAreaSF           float64       `json:"landAreaSf"`
	TotalFARBase         float64       `json:"totalFarBase"`
	TotalFARWithBonus    float64       `json:"totalFarWithBonus"`
	TotalBuildableAreaSF float64       `json:"totalBuildableAreaSf"`
	Setbacks             Setbacks      `json:"setbacks"`
	MaxHeightFt          *float64      `json:"maxHeightFt,omitempty"`
	Unzoned              bool          `json:"unzoned"`
	PercentCovered       float64       `json:"percentCovered"`
	Districts            []DistrictFAR `json:"districts"`
}

// ComputeZoning aggregates district regulations over a lot.
//
// Weighted totals use each district's percent share of the lot as the weight.
// Setbacks take the maximum per side across districts and max height the
// minimum across districts that specify one, so the most restrictive rule
// governs. Buildable area multiplies land area by the bonus FAR, or the base
// FAR when useBonus is false.
//
// A lot with no overlapping districts yields zero FAR and Unzoned=true, not
// an error. Returns ErrInvalidLandArea when landAreaSF is zero or negative.
func ComputeZoning(landAreaSF float64, shares []models.DistrictShare, useBonus bool) (*ZoningSummary, error) {
	if landAreaSF <= 0 {
		return nil, fmt.Errorf("%w: got %g sf", ErrInvalidLandArea, landAreaSF)
	}

	summary := &ZoningSummary{
		LandAreaSF: landAreaSF,
		Districts:  make([]DistrictFAR, 0, len(shares)),
	}

	if len(shares) == 0 {
		summary.Unzoned = true
		return summary, nil
	}

	for _, share := range shares {
		d := share.District
		weight := share.Weight()

		summary.TotalFARBase += d.FARBase * weight
		summary.TotalFARWithBonus += d.FARWithBonus * weight
		summary.PercentCovered += share.PercentInDistrict

		if d.SetbackFrontFt > summary.Setbacks.FrontFt {
			summary.Setbacks.FrontFt = d.SetbackFrontFt
		}
		if d.SetbackSideFt > summary.Setbacks.SideFt {
			summary.Setbacks.SideFt = d.SetbackSideFt
		}
		if d.SetbackRearFt > summary.Setbacks.RearFt {
			summary.Setbacks.RearFt = d.SetbackRearFt
		}

		if d.MaxHeightFt != nil {
			if summary.MaxHeightFt == nil || *d.MaxHeightFt < *summary.MaxHeightFt {
				h := *d.MaxHeightFt
				summary.MaxHeightFt = &h
			}
		}

		summary.Districts = append(summary.Districts, DistrictFAR{
			DistrictCode:      d.DistrictCode,
			DistrictName:      d.DistrictName,
			Category:          d.Category,
			PercentInDistrict: share.PercentInDistrict,
			FARBase:           d.FARBase,
			FARWithBonus:      d.FARWithBonus,
			MaxHeightFt:       d.MaxHeightFt,
		})
	}

	if useBonus {
		summary.TotalBuildableAreaSF = landAreaSF * summary.TotalFARWithBonus
	} else {
		summary.TotalBuildableAreaSF = landAreaSF * summary.TotalFARBase
	}

	return summary, nil
}

// WeightedFARWithBonus returns the share-weighted bonus FAR across districts.
// Zero when no districts overlap the lot.
func WeightedFARWithBonus(shares []models.DistrictShare) float64 {
	total := 0.0
	for _, share := range shares {
		total += share.District.FARWithBonus * share.Weight()
	}
	return total
}

// DistrictCodes extracts the district codes from a set of shares, preserving
// order.
func DistrictCodes(shares []models.DistrictShare) []string {
	codes := make([]string, 0, len(shares))
	for _, share := range shares {
		codes = append(codes, share.District.DistrictCode)
	}
	return codes
}

// ComplianceViolation describes one rule a proposed development breaks.
type ComplianceViolation struct {
	Rule        string `json:"rule"`
	Description string `json:"description"`
}

// ComplianceResult reports whether a proposed building area fits within the
// buildable envelope of a lot's zoning.
type ComplianceResult struct {
	Compliant              bool                  `json:"compliant"`
	ProposedBuildingAreaSF float64               `json:"proposedBuildingAreaSf"`
	MaxBuildableAreaSF     float64               `json:"maxBuildableAreaSf"`
	ExcessAreaSF           float64               `json:"excessAreaSf"`
	Violations             []ComplianceViolation `json:"violations"`
	DistrictsChecked       int                   `json:"districtsChecked"`
}

// CheckCompliance compares a proposed building area against the buildable
// area allowed by the lot's zoning, using bonus FAR as the ceiling. Returns
// ErrInvalidBuildingArea for a non-positive proposed area and
// ErrInvalidLandArea via ComputeZoning for non-positive lots.
func CheckCompliance(landAreaSF, proposedBuildingAreaSF float64, shares []models.DistrictShare) (*ComplianceResult, error) {
	if proposedBuildingAreaSF <= 0 {
		return nil, fmt.Errorf("%w: got %g sf", ErrInvalidBuildingArea, proposedBuildingAreaSF)
	}

	summary, err := ComputeZoning(landAreaSF, shares, true)
	if err != nil {
		return nil, err
	}

	result := &ComplianceResult{
		Compliant:              proposedBuildingAreaSF <= summary.TotalBuildableAreaSF,
		ProposedBuildingAreaSF: proposedBuildingAreaSF,
		MaxBuildableAreaSF:     summary.TotalBuildableAreaSF,
		Violations:             []ComplianceViolation{},
		DistrictsChecked:       len(shares),
	}

	if !result.Compliant {
		result.ExcessAreaSF = proposedBuildingAreaSF - summary.TotalBuildableAreaSF
		result.Violations = append(result.Violations, ComplianceViolation{
			Rule: "building_area_exceeds_far",
			Description: fmt.Sprintf("proposed building area (%.0f sf) exceeds the maximum buildable area (%.0f sf)",
				proposedBuildingAreaSF, summary.TotalBuildableAreaSF),
		})
	}

	return result, nil
}
