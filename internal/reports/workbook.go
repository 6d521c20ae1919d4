package reports

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx/v2"

	"github.com/zonewise/api/internal/analysis"
	"github.com/zonewise/api/internal/services"
)

const (
	dollarFormat  = "#,##0.00"
	numberFormat  = "0.00"
	percentFormat = "0.0"
)

// Workbook renders the full analysis envelope as an xlsx file with one sheet
// per report section.
func Workbook(full *services.FullAnalysis) (*xlsx.File, error) {
	file := xlsx.NewFile()

	if err := addSummarySheet(file, full); err != nil {
		return nil, err
	}
	if err := addZoningSheet(file, full); err != nil {
		return nil, err
	}
	if err := addIncentivesSheet(file, full); err != nil {
		return nil, err
	}
	if err := addAirRightsSheet(file, full); err != nil {
		return nil, err
	}
	if err := addLandmarksSheet(file, full); err != nil {
		return nil, err
	}

	return file, nil
}

func headerStyle() *xlsx.Style {
	style := xlsx.NewStyle()
	style.Font.Bold = true
	style.ApplyFont = true
	return style
}

func addHeaderRow(sheet *xlsx.Sheet, titles ...string) {
	style := headerStyle()
	row := sheet.AddRow()
	for _, title := range titles {
		cell := row.AddCell()
		cell.SetString(title)
		cell.SetStyle(style)
	}
}

func addPairRow(sheet *xlsx.Sheet, label, value string) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetString(value)
}

// addStatusRow writes a failure note when a section did not complete.
// It reports whether the sheet content should be skipped.
func addStatusRow(sheet *xlsx.Sheet, status analysis.SectionStatus) bool {
	if status.OK {
		return false
	}
	addPairRow(sheet, "Section unavailable", status.Error)
	return true
}

func addSummarySheet(file *xlsx.File, full *services.FullAnalysis) error {
	sheet, err := file.AddSheet("Summary")
	if err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	addHeaderRow(sheet, "Zoning Analysis Report")

	p := full.Property
	addPairRow(sheet, "Address", p.Address)
	addPairRow(sheet, "Borough", p.Borough)
	if p.ZipCode != nil {
		addPairRow(sheet, "ZIP code", *p.ZipCode)
	}
	addPairRow(sheet, "Land area (sf)", fmt.Sprintf("%.0f", p.LandAreaSF))
	if p.BuildingAreaSF != nil {
		addPairRow(sheet, "Building area (sf)", fmt.Sprintf("%.0f", *p.BuildingAreaSF))
	}
	if p.CurrentUse != nil {
		addPairRow(sheet, "Current use", *p.CurrentUse)
	}
	if p.YearBuilt != nil {
		addPairRow(sheet, "Year built", fmt.Sprintf("%d", *p.YearBuilt))
	}

	sheet.AddRow()
	addPairRow(sheet, "Generated at", full.Report.GeneratedAt.UTC().Format(time.RFC3339))
	addPairRow(sheet, "Analysis version", full.Report.AnalysisVersion)
	for i, source := range full.Report.DataSources {
		label := ""
		if i == 0 {
			label = "Data sources"
		}
		addPairRow(sheet, label, source)
	}
	if full.Analysis.Partial {
		addPairRow(sheet, "Note", "one or more sections failed; see section sheets")
	}

	return nil
}

func addZoningSheet(file *xlsx.File, full *services.FullAnalysis) error {
	sheet, err := file.AddSheet("Zoning")
	if err != nil {
		return fmt.Errorf("failed to add zoning sheet: %w", err)
	}

	if addStatusRow(sheet, full.Analysis.ZoningStatus) {
		return nil
	}
	z := full.Analysis.Zoning

	if z.Unzoned {
		addPairRow(sheet, "Zoning", "no districts on record for this property")
		return nil
	}

	addHeaderRow(sheet, "District", "Name", "Category", "% of lot", "FAR base", "FAR with bonus", "Max height (ft)")
	for _, d := range z.Districts {
		row := sheet.AddRow()
		row.AddCell().SetString(d.DistrictCode)
		row.AddCell().SetString(d.DistrictName)
		row.AddCell().SetString(d.Category)
		row.AddCell().SetFloatWithFormat(d.PercentInDistrict, percentFormat)
		row.AddCell().SetFloatWithFormat(d.FARBase, numberFormat)
		row.AddCell().SetFloatWithFormat(d.FARWithBonus, numberFormat)
		if d.MaxHeightFt != nil {
			row.AddCell().SetFloatWithFormat(*d.MaxHeightFt, numberFormat)
		} else {
			row.AddCell().SetString("unlimited")
		}
	}

	sheet.AddRow()
	addHeaderRow(sheet, "Envelope")
	addFloatRow(sheet, "Weighted FAR (base)", z.TotalFARBase, numberFormat)
	addFloatRow(sheet, "Weighted FAR (with bonus)", z.TotalFARWithBonus, numberFormat)
	addFloatRow(sheet, "Max buildable area (sf)", z.TotalBuildableAreaSF, numberFormat)
	addFloatRow(sheet, "Lot coverage by districts (%)", z.PercentCovered, percentFormat)
	if z.MaxHeightFt != nil {
		addFloatRow(sheet, "Governing max height (ft)", *z.MaxHeightFt, numberFormat)
	}

	sheet.AddRow()
	addHeaderRow(sheet, "Required setbacks")
	addFloatRow(sheet, "Front (ft)", z.Setbacks.FrontFt, numberFormat)
	addFloatRow(sheet, "Side (ft)", z.Setbacks.SideFt, numberFormat)
	addFloatRow(sheet, "Rear (ft)", z.Setbacks.RearFt, numberFormat)

	return nil
}

func addFloatRow(sheet *xlsx.Sheet, label string, value float64, format string) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetFloatWithFormat(value, format)
}

func addIncentivesSheet(file *xlsx.File, full *services.FullAnalysis) error {
	sheet, err := file.AddSheet("Tax Incentives")
	if err != nil {
		return fmt.Errorf("failed to add incentives sheet: %w", err)
	}

	if addStatusRow(sheet, full.Analysis.IncentivesStatus) {
		return nil
	}
	report := full.Analysis.Incentives

	addHeaderRow(sheet, "Program", "Name", "Eligible", "Reason", "Est. abatement (USD)", "Years")
	for _, e := range report.Evaluations {
		row := sheet.AddRow()
		row.AddCell().SetString(e.ProgramCode)
		row.AddCell().SetString(e.ProgramName)
		row.AddCell().SetString(yesNo(e.IsEligible))
		row.AddCell().SetString(e.Reason)
		if e.IsEligible {
			row.AddCell().SetFloatWithFormat(e.EstimatedAbatementUSD, dollarFormat)
			row.AddCell().SetInt(e.AbatementYears)
		} else {
			row.AddCell().SetString("-")
			row.AddCell().SetString("-")
		}
	}

	if len(report.Skipped) > 0 {
		sheet.AddRow()
		addHeaderRow(sheet, "Skipped programs", "Reason")
		for _, skipped := range report.Skipped {
			addPairRow(sheet, skipped.ProgramCode, skipped.Reason)
		}
	}

	return nil
}

func addAirRightsSheet(file *xlsx.File, full *services.FullAnalysis) error {
	sheet, err := file.AddSheet("Air Rights")
	if err != nil {
		return fmt.Errorf("failed to add air rights sheet: %w", err)
	}

	if addStatusRow(sheet, full.Analysis.AirRightsStatus) {
		return nil
	}
	ar := full.Analysis.AirRights

	addHeaderRow(sheet, "Transferable development rights")
	addFloatRow(sheet, "FAR utilized", ar.FARUtilized, numberFormat)
	addFloatRow(sheet, "FAR allowed (with bonus)", ar.FARWithBonus, numberFormat)
	addFloatRow(sheet, "Unused FAR", ar.UnusedFAR, numberFormat)
	addFloatRow(sheet, "Transferable FAR", ar.TransferableFAR, numberFormat)
	addFloatRow(sheet, "Transferable area (sf)", ar.TransferableSF, numberFormat)
	addFloatRow(sheet, "Price per sf (USD)", ar.PricePerSF, dollarFormat)
	addFloatRow(sheet, "Estimated value (USD)", ar.EstimatedValueUSD, dollarFormat)

	sheet.AddRow()
	if len(ar.Recipients) == 0 {
		addPairRow(sheet, "Recipients", "no adjacent properties can absorb a transfer")
		return nil
	}

	addHeaderRow(sheet, "Recipient", "Current FAR", "Max FAR", "Additional FAR", "Capacity (sf)")
	for _, r := range ar.Recipients {
		row := sheet.AddRow()
		row.AddCell().SetString(r.Address)
		row.AddCell().SetFloatWithFormat(r.CurrentFAR, numberFormat)
		row.AddCell().SetFloatWithFormat(r.MaxFAR, numberFormat)
		row.AddCell().SetFloatWithFormat(r.AdditionalPotentialFAR, numberFormat)
		row.AddCell().SetFloatWithFormat(r.AdditionalPotentialSF, numberFormat)
	}

	return nil
}

func addLandmarksSheet(file *xlsx.File, full *services.FullAnalysis) error {
	sheet, err := file.AddSheet("Landmarks")
	if err != nil {
		return fmt.Errorf("failed to add landmarks sheet: %w", err)
	}

	if addStatusRow(sheet, full.Analysis.LandmarksStatus) {
		return nil
	}

	if len(full.Analysis.Landmarks) == 0 {
		addPairRow(sheet, "Landmarks", "none within the search radius")
		return nil
	}

	addHeaderRow(sheet, "Name", "Category", "Distance (ft)")
	for _, hit := range full.Analysis.Landmarks {
		row := sheet.AddRow()
		row.AddCell().SetString(hit.Landmark.Name)
		row.AddCell().SetString(hit.Landmark.Category)
		row.AddCell().SetFloatWithFormat(hit.DistanceFt, numberFormat)
	}

	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
