package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/zonewise/api/internal/models"
)

// IncentiveEvaluation is the eligibility verdict for one program. Reason
// names the first failing check, or summarizes the passing ones. The
// abatement estimate is zero unless the property is eligible.
type IncentiveEvaluation struct {
	ProgramCode           string  `json:"programCode"`
	ProgramName           string  `json:"programName"`
	IsEligible            bool    `json:"isEligible"`
	Reason                string  `json:"reason"`
	EstimatedAbatementUSD float64 `json:"estimatedAbatementUsd"`
	AbatementYears        int     `json:"abatementYears"`
}

// SkippedProgram records a program whose rules could not be evaluated.
type SkippedProgram struct {
	ProgramCode string `json:"programCode"`
	Reason      string `json:"reason"`
}

// IncentiveReport is the batch result across all registered programs.
// Malformed programs land in Skipped instead of aborting the batch.
type IncentiveReport struct {
	Evaluations   []IncentiveEvaluation `json:"evaluations"`
	Skipped       []SkippedProgram      `json:"skipped"`
	EligibleCount int                   `json:"eligibleCount"`
}

// EvaluatePrograms checks a property against every program and estimates the
// abatement value for the eligible ones.
//
// Checks run in a fixed order per program: district, then building age, then
// residential use. The reason string reports the first check that fails, so
// reordering would change surfaced reasons. Unknown building age fails an age
// check outright rather than assuming eligibility. An empty eligible-district
// list means the program has no district restriction; district matching is
// exact or by code prefix, so "M1" covers M1-1 through M1-6.
//
// The function is pure: identical inputs produce identical verdicts. now
// anchors age computation.
func EvaluatePrograms(p models.Property, districtCodes []string, programs []models.TaxIncentiveProgram, taxRate float64, now time.Time) IncentiveReport {
	report := IncentiveReport{
		Evaluations: make([]IncentiveEvaluation, 0, len(programs)),
		Skipped:     []SkippedProgram{},
	}

	for _, program := range programs {
		if err := validateProgram(program); err != nil {
			report.Skipped = append(report.Skipped, SkippedProgram{
				ProgramCode: program.ProgramCode,
				Reason:      err.Error(),
			})
			continue
		}

		eval := evaluateProgram(p, districtCodes, program, taxRate, now)
		if eval.IsEligible {
			report.EligibleCount++
		}
		report.Evaluations = append(report.Evaluations, eval)
	}

	return report
}

// validateProgram rejects program definitions the evaluator cannot reason
// about. One malformed program must not abort the batch.
func validateProgram(program models.TaxIncentiveProgram) error {
	if program.MinBuildingAge != nil && *program.MinBuildingAge < 0 {
		return fmt.Errorf("negative minimum building age %d", *program.MinBuildingAge)
	}
	switch program.AssessmentBasis {
	case models.AssessmentBasisBuilding, models.AssessmentBasisLand:
	default:
		return fmt.Errorf("unknown assessment basis %q", program.AssessmentBasis)
	}
	if program.AssessmentRatePerSF < 0 {
		return fmt.Errorf("negative assessment rate %g", program.AssessmentRatePerSF)
	}
	if len(program.AbatementSchedule) == 0 {
		return fmt.Errorf("empty abatement schedule")
	}
	for i, phase := range program.AbatementSchedule {
		if phase.Years <= 0 {
			return fmt.Errorf("abatement phase %d has non-positive duration %d", i, phase.Years)
		}
		if phase.Rate < 0 || phase.Rate > 1 {
			return fmt.Errorf("abatement phase %d has rate %g outside [0, 1]", i, phase.Rate)
		}
	}
	return nil
}

func evaluateProgram(p models.Property, districtCodes []string, program models.TaxIncentiveProgram, taxRate float64, now time.Time) IncentiveEvaluation {
	eval := IncentiveEvaluation{
		ProgramCode: program.ProgramCode,
		ProgramName: program.ProgramName,
	}

	// Check 1: district eligibility.
	if len(program.EligibleDistrictCodes) > 0 && !districtsMatch(districtCodes, program.EligibleDistrictCodes) {
		eval.Reason = fmt.Sprintf("not in an eligible district (current: %s)", joinOrNone(districtCodes))
		return eval
	}

	// Check 2: building age.
	if program.MinBuildingAge != nil {
		age, known := p.BuildingAge(now)
		if !known {
			eval.Reason = fmt.Sprintf("building age unknown; program requires %d+ years", *program.MinBuildingAge)
			return eval
		}
		if age < *program.MinBuildingAge {
			eval.Reason = fmt.Sprintf("building is %d years old; program requires %d+ years", age, *program.MinBuildingAge)
			return eval
		}
	}

	// Check 3: residential use.
	if program.RequiresResidential {
		if p.CurrentUse == nil || *p.CurrentUse == "" {
			eval.Reason = "current use unknown; program requires residential use"
			return eval
		}
		if !strings.Contains(strings.ToLower(*p.CurrentUse), "residential") {
			eval.Reason = fmt.Sprintf("current use %q is not residential", *p.CurrentUse)
			return eval
		}
	}

	eval.IsEligible = true
	eval.Reason = "meets all program requirements"
	eval.AbatementYears = program.AbatementYears()
	eval.EstimatedAbatementUSD = estimateAbatement(p, program, taxRate)
	return eval
}

// districtsMatch reports whether any of the property's district codes matches
// an eligible entry, exactly or as a code prefix.
func districtsMatch(districtCodes, eligible []string) bool {
	for _, code := range districtCodes {
		for _, want := range eligible {
			if code == want || strings.HasPrefix(code, want) {
				return true
			}
		}
	}
	return false
}

// estimateAbatement values a program for an eligible property: assessed
// value from the basis area and $/sf rate, annual tax from the configured
// rate, then each schedule phase abates its share of that tax for its span.
func estimateAbatement(p models.Property, program models.TaxIncentiveProgram, taxRate float64) float64 {
	basisArea := 0.0
	switch program.AssessmentBasis {
	case models.AssessmentBasisBuilding:
		if p.BuildingAreaSF != nil {
			basisArea = *p.BuildingAreaSF
		}
	case models.AssessmentBasisLand:
		basisArea = p.LandAreaSF
	}
	if basisArea <= 0 {
		return 0
	}

	annualTax := basisArea * program.AssessmentRatePerSF * taxRate

	total := 0.0
	for _, phase := range program.AbatementSchedule {
		total += annualTax * phase.Rate * float64(phase.Years)
	}
	return total
}

func joinOrNone(codes []string) string {
	if len(codes) == 0 {
		return "none"
	}
	return strings.Join(codes, ", ")
}
