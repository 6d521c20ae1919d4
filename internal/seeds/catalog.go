package seeds

import (
	"github.com/twpayne/go-geom"

	"github.com/zonewise/api/internal/models"
)

// The reference catalogs a development database starts from: a representative
// cut of the NYC zoning map, the incentive programs the evaluator understands,
// the major landmarks, and a handful of demo properties wired to districts.
//
// District attributes follow the city's published bulk tables. Boundaries are
// simplified rectangles around each district's core area; the shapefile
// importer replaces them with real polygons from a DCP extract.

// boundary builds a square multipolygon spanning spanDeg degrees in each
// direction from the center point.
func boundary(lat, lng, spanDeg float64) models.MultiPolygon {
	minLng, minLat := lng-spanDeg, lat-spanDeg
	maxLng, maxLat := lng+spanDeg, lat+spanDeg

	mp := geom.NewMultiPolygonFlat(geom.XY, []float64{
		minLng, minLat,
		maxLng, minLat,
		maxLng, maxLat,
		minLng, maxLat,
		minLng, minLat,
	}, [][]int{{10}})

	return models.NewMultiPolygon(mp)
}

type districtRow struct {
	code     string
	name     string
	farBase  float64
	farBonus float64
	heightFt float64
	front    float64
	side     float64
	rear     float64
	lat      float64
	lng      float64
	span     float64
}

func districtCatalog() []models.ZoningDistrict {
	rows := []districtRow{
		// Staten Island
		{"R1-2", "Single-Family Detached Residence", 0.5, 0.75, 25, 0, 5, 15, 40.5680, -74.1150, 0.030},
		{"R2", "Single-Family Detached Residence", 0.5, 0.75, 30, 0, 5, 15, 40.6020, -74.1660, 0.025},
		{"R3-2", "General Low-Rise Residence", 0.6, 0.9, 35, 0, 5, 15, 40.6090, -74.1100, 0.028},

		// Queens
		{"R4", "General Residence", 1.35, 2.43, 55, 0, 8, 20, 40.7090, -73.8290, 0.030},
		{"R5", "General Residence", 1.65, 3.0, 75, 0, 8, 20, 40.7330, -73.8560, 0.025},
		{"C4-5", "General Commercial", 2.0, 3.0, 85, 0, 0, 15, 40.7180, -73.8310, 0.012},
		{"M1-1", "Light Manufacturing", 1.0, 2.0, 60, 0, 0, 10, 40.7420, -73.9280, 0.015},

		// Brooklyn
		{"R6", "General Residence", 2.43, 4.0, 110, 0, 8, 20, 40.6850, -73.9560, 0.030},
		{"R6A", "Quality Housing Residence", 2.43, 4.0, 110, 0, 8, 20, 40.6700, -73.9810, 0.018},
		{"R7A", "Quality Housing Residence", 3.44, 5.4, 120, 0, 8, 20, 40.6920, -73.9870, 0.015},
		{"C4-2", "General Commercial", 2.0, 3.0, 85, 0, 0, 15, 40.6920, -73.9900, 0.010},
		{"C7", "Commercial Amusement", 3.0, 4.0, 150, 0, 0, 15, 40.5740, -73.9810, 0.012},
		{"M1-5", "Light Manufacturing", 1.0, 2.0, 60, 0, 0, 10, 40.7210, -73.9570, 0.014},
		{"M2-1", "Medium Manufacturing", 2.0, 3.0, 85, 0, 0, 15, 40.6650, -74.0050, 0.016},

		// Bronx
		{"R7-1", "General Residence", 3.44, 5.4, 120, 0, 8, 20, 40.8310, -73.9100, 0.025},
		{"R8", "General Residence", 4.0, 6.02, 150, 0, 8, 20, 40.8170, -73.9230, 0.020},
		{"C8-1", "General Service", 3.0, 4.0, 150, 0, 0, 15, 40.8400, -73.8780, 0.014},
		{"M3-1", "Heavy Manufacturing", 2.0, 3.0, 85, 0, 0, 15, 40.8030, -73.8850, 0.020},

		// Manhattan
		{"R8A", "Quality Housing Residence", 4.0, 6.02, 150, 0, 8, 20, 40.7780, -73.9510, 0.012},
		{"R9", "General Residence", 4.8, 7.2, 180, 0, 8, 20, 40.7850, -73.9780, 0.014},
		{"R10", "General High-Density Residence", 10.0, 12.0, 235, 0, 8, 20, 40.7690, -73.9620, 0.015},
		{"R10A", "Contextual High-Density Residence", 10.0, 12.0, 235, 0, 8, 20, 40.7760, -73.9470, 0.010},
		{"C1-9", "Local Retail", 1.0, 2.0, 60, 0, 0, 10, 40.7870, -73.9550, 0.010},
		{"C2-8", "Local Service", 1.0, 2.0, 60, 0, 0, 10, 40.7620, -73.9890, 0.010},
		{"C5-2", "Restricted Central Commercial", 3.0, 4.0, 150, 0, 0, 15, 40.7510, -73.9830, 0.010},
		{"C5-3", "Restricted Central Commercial", 3.0, 4.0, 150, 0, 0, 15, 40.7560, -73.9770, 0.012},
		{"C6-2", "General Central Commercial", 3.0, 4.0, 150, 0, 0, 15, 40.7180, -74.0000, 0.012},
		{"C6-4", "General Central Commercial", 3.0, 4.0, 150, 0, 0, 15, 40.7440, -73.9900, 0.014},

		// Mapped parkland carries no development rights.
		{"PARK", "Public Park", 0, 0, 0, 0, 0, 0, 40.7829, -73.9654, 0.020},
	}

	districts := make([]models.ZoningDistrict, 0, len(rows))
	for _, r := range rows {
		d := models.ZoningDistrict{
			DistrictCode:   r.code,
			DistrictName:   r.name,
			FARBase:        r.farBase,
			FARWithBonus:   r.farBonus,
			SetbackFrontFt: r.front,
			SetbackSideFt:  r.side,
			SetbackRearFt:  r.rear,
			Category:       models.CategoryForCode(r.code),
			Geom:           boundary(r.lat, r.lng, r.span),
		}
		if r.heightFt > 0 {
			height := r.heightFt
			d.MaxHeightFt = &height
		}
		districts = append(districts, d)
	}
	return districts
}

func programCatalog() []models.TaxIncentiveProgram {
	return []models.TaxIncentiveProgram{
		{
			ProgramCode:           "ICAP",
			ProgramName:           "Industrial and Commercial Abatement Program",
			Description:           strPtr("Tax abatement for industrial and commercial construction work in the manufacturing districts."),
			EligibleDistrictCodes: []string{"M1", "M2", "M3"},
			MinBuildingAge:        intPtr(5),
			RequiresResidential:   false,
			AssessmentBasis:       models.AssessmentBasisBuilding,
			AssessmentRatePerSF:   300,
			AbatementSchedule: []models.AbatementPhase{
				{Years: 10, Rate: 1.0},
				{Years: 5, Rate: 0.5},
			},
		},
		{
			ProgramCode:           "467-M",
			ProgramName:           "Historic Preservation Tax Credit",
			Description:           strPtr("Tax credits for preservation and renovation of older buildings in the high-density residence districts."),
			EligibleDistrictCodes: []string{"R6", "R7", "R8", "R9", "R10"},
			MinBuildingAge:        intPtr(30),
			RequiresResidential:   false,
			AssessmentBasis:       models.AssessmentBasisBuilding,
			AssessmentRatePerSF:   500,
			AbatementSchedule: []models.AbatementPhase{
				{Years: 8, Rate: 0.9},
				{Years: 4, Rate: 0.45},
			},
		},
		{
			ProgramCode:           "421-A",
			ProgramName:           "Residential Tax Abatement",
			Description:           strPtr("Tax abatement for new residential development, estimated against the lot ahead of construction."),
			EligibleDistrictCodes: []string{"R6", "R7", "R8", "R9", "R10"},
			RequiresResidential:   true,
			AssessmentBasis:       models.AssessmentBasisLand,
			AssessmentRatePerSF:   400,
			AbatementSchedule: []models.AbatementPhase{
				{Years: 15, Rate: 1.0},
				{Years: 10, Rate: 0.5},
			},
		},
		{
			ProgramCode:           "421-G",
			ProgramName:           "Green Building Tax Abatement",
			Description:           strPtr("Tax abatement for environmentally sustainable buildings in residence and local commercial districts."),
			EligibleDistrictCodes: []string{"R6", "R7", "R8", "R9", "R10", "C1", "C2", "C3"},
			RequiresResidential:   false,
			AssessmentBasis:       models.AssessmentBasisBuilding,
			AssessmentRatePerSF:   350,
			AbatementSchedule: []models.AbatementPhase{
				{Years: 10, Rate: 0.8},
				{Years: 5, Rate: 0.4},
			},
		},
	}
}

type landmarkRow struct {
	name     string
	category string
	desc     string
	lat      float64
	lng      float64
}

func landmarkCatalog() []models.Landmark {
	rows := []landmarkRow{
		// Manhattan
		{"Empire State Building", models.LandmarkHistoric, "Iconic Art Deco skyscraper and American cultural icon", 40.7484, -73.9857},
		{"One World Trade Center", models.LandmarkHistoric, "Memorial and observation tower at World Trade Center site", 40.7127, -74.0134},
		{"Statue of Liberty", models.LandmarkHistoric, "Iconic copper statue symbolizing freedom and democracy", 40.6892, -74.0445},
		{"Chrysler Building", models.LandmarkHistoric, "Art Deco skyscraper and Manhattan landmark", 40.7516, -73.9754},
		{"Flatiron Building", models.LandmarkHistoric, "Unique triangular skyscraper at Madison Square", 40.7411, -73.9891},
		{"Brooklyn Bridge", models.LandmarkTransportation, "Historic suspension bridge connecting Manhattan and Brooklyn", 40.7061, -73.9969},
		{"Grand Central Terminal", models.LandmarkTransportation, "Historic transportation hub and architectural landmark", 40.7527, -73.9772},
		{"Central Park", models.LandmarkNatural, "843-acre urban park in the heart of Manhattan", 40.7829, -73.9654},
		{"Bryant Park", models.LandmarkNatural, "Urban park behind New York Public Library", 40.7539, -73.9839},
		{"Washington Square Park", models.LandmarkNatural, "Historic park and cultural gathering place", 40.7308, -73.9973},
		{"Metropolitan Museum of Art", models.LandmarkCultural, "The Met - world's largest art museum", 40.7794, -73.9632},
		{"Times Square", models.LandmarkCultural, "The Crossroads of the World - entertainment district", 40.7580, -73.9855},
		{"High Line", models.LandmarkCultural, "Elevated park on former railway line", 40.7480, -74.0048},
		{"New York Public Library", models.LandmarkCultural, "Historic research library and cultural institution", 40.7532, -73.9822},
		{"St. Patrick's Cathedral", models.LandmarkReligious, "Gothic Revival Catholic cathedral", 40.7585, -73.9764},

		// Brooklyn
		{"Williamsburg Bridge", models.LandmarkTransportation, "Suspension bridge connecting Brooklyn to Manhattan", 40.7092, -73.9729},
		{"Prospect Park", models.LandmarkNatural, "Large urban park in Brooklyn", 40.6602, -73.9708},
		{"Brooklyn Museum", models.LandmarkCultural, "Second largest art museum in NYC", 40.6712, -73.9638},
		{"Coney Island", models.LandmarkCultural, "Historic amusement area and boardwalk", 40.5755, -73.9928},
		{"Green-Wood Cemetery", models.LandmarkHistoric, "Historic cemetery and cultural landmark", 40.6501, -73.9922},

		// Queens
		{"Flushing Meadows Corona Park", models.LandmarkNatural, "Large park and former World's Fair site", 40.7400, -73.8448},
		{"Unisphere", models.LandmarkCultural, "1964 World's Fair symbol", 40.7462, -73.8416},
		{"MoMA PS1", models.LandmarkCultural, "Contemporary art institution", 40.7456, -73.9474},

		// Bronx
		{"Yankee Stadium", models.LandmarkCultural, "Historic baseball stadium", 40.8296, -73.9262},
		{"Bronx Zoo", models.LandmarkNatural, "Large metropolitan zoo", 40.8506, -73.8772},
		{"New York Botanical Garden", models.LandmarkNatural, "Premier botanical garden", 40.8626, -73.8771},

		// Staten Island
		{"Staten Island Ferry", models.LandmarkTransportation, "Free ferry service to Manhattan", 40.6437, -74.0238},
		{"Snug Harbor Cultural Center", models.LandmarkCultural, "Arts and cultural complex", 40.6429, -74.1028},
		{"Fort Wadsworth", models.LandmarkHistoric, "Historic military installation", 40.6039, -74.0536},
	}

	landmarks := make([]models.Landmark, 0, len(rows))
	for _, r := range rows {
		landmarks = append(landmarks, models.Landmark{
			Name:        r.name,
			Category:    r.category,
			Description: strPtr(r.desc),
			Geom:        models.NewPoint(r.lat, r.lng),
		})
	}
	return landmarks
}

type demoLink struct {
	code    string
	percent float64
}

type demoProperty struct {
	address string
	borough string
	lot     string
	block   string
	zip     string
	landSF  float64
	bldgSF  float64
	use     string
	year    int
	lat     float64
	lng     float64
	links   []demoLink
}

// model builds the property record; the seeder fills the ID on insert.
func (d demoProperty) model() models.Property {
	return models.Property{
		Address:        d.address,
		Borough:        d.borough,
		LotNumber:      strPtr(d.lot),
		BlockNumber:    strPtr(d.block),
		ZipCode:        strPtr(d.zip),
		LandAreaSF:     d.landSF,
		BuildingAreaSF: floatPtr(d.bldgSF),
		CurrentUse:     strPtr(d.use),
		YearBuilt:      intPtr(d.year),
		Geom:           models.NewPoint(d.lat, d.lng),
	}
}

// propertyCatalog returns one demo property per borough, chosen so the
// analysis endpoints have something interesting to say out of the box: an
// over-built tower, a split-district lot, and an under-built house with
// air rights to spare.
func propertyCatalog() []demoProperty {
	return []demoProperty{
		{
			address: "350 Fifth Avenue",
			borough: models.BoroughManhattan,
			lot:     "0041",
			block:   "00835",
			zip:     "10001",
			landSF:  83860,
			bldgSF:  2248000,
			use:     "Office",
			year:    1931,
			lat:     40.7484,
			lng:     -73.9857,
			links:   []demoLink{{"C5-3", 60}, {"C6-4", 40}},
		},
		{
			address: "625 Atlantic Avenue",
			borough: models.BoroughBrooklyn,
			lot:     "0012",
			block:   "01119",
			zip:     "11217",
			landSF:  18000,
			bldgSF:  41000,
			use:     "Mixed Use",
			year:    1928,
			lat:     40.6840,
			lng:     -73.9770,
			links:   []demoLink{{"R6", 70}, {"C4-2", 30}},
		},
		{
			address: "108-19 Queens Boulevard",
			borough: models.BoroughQueens,
			lot:     "0021",
			block:   "03310",
			zip:     "11375",
			landSF:  12500,
			bldgSF:  15800,
			use:     "Residential",
			year:    1962,
			lat:     40.7290,
			lng:     -73.8440,
			links:   []demoLink{{"R5", 100}},
		},
		{
			address: "851 Grand Concourse",
			borough: models.BoroughBronx,
			lot:     "0038",
			block:   "02476",
			zip:     "10451",
			landSF:  14200,
			bldgSF:  68000,
			use:     "Residential",
			year:    1937,
			lat:     40.8270,
			lng:     -73.9230,
			links:   []demoLink{{"R8", 100}},
		},
		{
			address: "1370 Clove Road",
			borough: models.BoroughStatenIsland,
			lot:     "0007",
			block:   "00310",
			zip:     "10301",
			landSF:  9500,
			bldgSF:  4200,
			use:     "Residential",
			year:    1965,
			lat:     40.6140,
			lng:     -74.1060,
			links:   []demoLink{{"R3-2", 100}},
		},
	}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }
