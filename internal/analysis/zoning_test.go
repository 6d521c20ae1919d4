package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zonewise/api/internal/models"
)

func share(code string, farBase, farWithBonus, percent float64) models.DistrictShare {
	return models.DistrictShare{
		District: models.ZoningDistrict{
			DistrictCode: code,
			DistrictName: code + " District",
			FARBase:      farBase,
			FARWithBonus: farWithBonus,
			Category:     models.CategoryForCode(code),
		},
		PercentInDistrict: percent,
	}
}

func withSetbacks(s models.DistrictShare, front, side, rear float64) models.DistrictShare {
	s.District.SetbackFrontFt = front
	s.District.SetbackSideFt = side
	s.District.SetbackRearFt = rear
	return s
}

func withMaxHeight(s models.DistrictShare, ft float64) models.DistrictShare {
	s.District.MaxHeightFt = &ft
	return s
}

func TestComputeZoning_SingleDistrict(t *testing.T) {
	shares := []models.DistrictShare{share("R10", 10.0, 12.0, 100)}

	summary, err := ComputeZoning(5000, shares, true)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, summary.TotalFARBase, 1e-9)
	assert.InDelta(t, 12.0, summary.TotalFARWithBonus, 1e-9)
	assert.InDelta(t, 60000.0, summary.TotalBuildableAreaSF, 1e-6)
	assert.InDelta(t, 100.0, summary.PercentCovered, 1e-9)
	assert.False(t, summary.Unzoned)
	require.Len(t, summary.Districts, 1)
	assert.Equal(t, "R10", summary.Districts[0].DistrictCode)
	assert.Equal(t, models.DistrictCategoryResidential, summary.Districts[0].Category)
}

func TestComputeZoning_SplitDistrictWeighting(t *testing.T) {
	shares := []models.DistrictShare{
		share("C1-6", 6.0, 6.0, 70),
		share("R6", 2.0, 2.0, 30),
	}

	summary, err := ComputeZoning(4000, shares, true)
	require.NoError(t, err)

	// 6.0*0.7 + 2.0*0.3
	assert.InDelta(t, 4.8, summary.TotalFARBase, 1e-9)
	assert.InDelta(t, 4000*4.8, summary.TotalBuildableAreaSF, 1e-6)
	assert.InDelta(t, 100.0, summary.PercentCovered, 1e-9)
}

func TestComputeZoning_BaseFARWhenBonusDisabled(t *testing.T) {
	shares := []models.DistrictShare{share("R10", 10.0, 12.0, 100)}

	summary, err := ComputeZoning(5000, shares, false)
	require.NoError(t, err)

	assert.InDelta(t, 50000.0, summary.TotalBuildableAreaSF, 1e-6)
}

func TestComputeZoning_Unzoned(t *testing.T) {
	summary, err := ComputeZoning(5000, nil, true)
	require.NoError(t, err)

	assert.True(t, summary.Unzoned)
	assert.Zero(t, summary.TotalFARBase)
	assert.Zero(t, summary.TotalFARWithBonus)
	assert.Zero(t, summary.TotalBuildableAreaSF)
	assert.Nil(t, summary.MaxHeightFt)
	assert.NotNil(t, summary.Districts)
	assert.Empty(t, summary.Districts)
}

func TestComputeZoning_InvalidLandArea(t *testing.T) {
	for _, landArea := range []float64{0, -100} {
		_, err := ComputeZoning(landArea, []models.DistrictShare{share("R6", 2.0, 2.4, 100)}, true)
		assert.ErrorIs(t, err, ErrInvalidLandArea)
	}
}

func TestComputeZoning_MostRestrictiveSetbacks(t *testing.T) {
	shares := []models.DistrictShare{
		withSetbacks(share("R6", 2.0, 2.4, 50), 10, 5, 20),
		withSetbacks(share("C2-4", 3.0, 3.4, 50), 15, 3, 10),
	}

	summary, err := ComputeZoning(2500, shares, true)
	require.NoError(t, err)

	assert.InDelta(t, 15.0, summary.Setbacks.FrontFt, 1e-9)
	assert.InDelta(t, 5.0, summary.Setbacks.SideFt, 1e-9)
	assert.InDelta(t, 20.0, summary.Setbacks.RearFt, 1e-9)
}

func TestComputeZoning_GoverningMaxHeight(t *testing.T) {
	t.Run("minimum of specified heights", func(t *testing.T) {
		shares := []models.DistrictShare{
			withMaxHeight(share("R8", 6.02, 7.2, 60), 250),
			withMaxHeight(share("C4-5", 3.4, 4.0, 40), 185),
		}

		summary, err := ComputeZoning(2500, shares, true)
		require.NoError(t, err)

		require.NotNil(t, summary.MaxHeightFt)
		assert.InDelta(t, 185.0, *summary.MaxHeightFt, 1e-9)
	})

	t.Run("unconstrained when no district sets one", func(t *testing.T) {
		shares := []models.DistrictShare{
			share("R10", 10.0, 12.0, 60),
			share("C5-3", 15.0, 15.0, 40),
		}

		summary, err := ComputeZoning(2500, shares, true)
		require.NoError(t, err)

		assert.Nil(t, summary.MaxHeightFt)
	})

	t.Run("partial limits still govern", func(t *testing.T) {
		shares := []models.DistrictShare{
			share("R10", 10.0, 12.0, 60),
			withMaxHeight(share("R6", 2.0, 2.4, 40), 75),
		}

		summary, err := ComputeZoning(2500, shares, true)
		require.NoError(t, err)

		require.NotNil(t, summary.MaxHeightFt)
		assert.InDelta(t, 75.0, *summary.MaxHeightFt, 1e-9)
	})
}

func TestComputeZoning_PartialCoverageAcceptedAsIs(t *testing.T) {
	shares := []models.DistrictShare{share("M1-5", 5.0, 5.0, 60)}

	summary, err := ComputeZoning(10000, shares, true)
	require.NoError(t, err)

	// 60% coverage is reported, not corrected to 100.
	assert.InDelta(t, 60.0, summary.PercentCovered, 1e-9)
	assert.InDelta(t, 3.0, summary.TotalFARBase, 1e-9)
	assert.InDelta(t, 30000.0, summary.TotalBuildableAreaSF, 1e-6)
}

func TestWeightedFARWithBonus(t *testing.T) {
	shares := []models.DistrictShare{
		share("R10", 10.0, 12.0, 70),
		share("C5-3", 15.0, 15.0, 30),
	}

	assert.InDelta(t, 12.0*0.7+15.0*0.3, WeightedFARWithBonus(shares), 1e-9)
	assert.Zero(t, WeightedFARWithBonus(nil))
}

func TestDistrictCodes(t *testing.T) {
	shares := []models.DistrictShare{
		share("R10", 10.0, 12.0, 70),
		share("C5-3", 15.0, 15.0, 30),
	}

	assert.Equal(t, []string{"R10", "C5-3"}, DistrictCodes(shares))
	assert.Empty(t, DistrictCodes(nil))
}

func TestCheckCompliance(t *testing.T) {
	shares := []models.DistrictShare{share("R10", 10.0, 12.0, 100)}

	t.Run("within envelope", func(t *testing.T) {
		result, err := CheckCompliance(5000, 55000, shares)
		require.NoError(t, err)

		assert.True(t, result.Compliant)
		assert.InDelta(t, 60000.0, result.MaxBuildableAreaSF, 1e-6)
		assert.Zero(t, result.ExcessAreaSF)
		assert.Empty(t, result.Violations)
		assert.Equal(t, 1, result.DistrictsChecked)
	})

	t.Run("exactly at envelope", func(t *testing.T) {
		result, err := CheckCompliance(5000, 60000, shares)
		require.NoError(t, err)

		assert.True(t, result.Compliant)
	})

	t.Run("over envelope", func(t *testing.T) {
		result, err := CheckCompliance(5000, 72000, shares)
		require.NoError(t, err)

		assert.False(t, result.Compliant)
		assert.InDelta(t, 12000.0, result.ExcessAreaSF, 1e-6)
		require.Len(t, result.Violations, 1)
		assert.Equal(t, "building_area_exceeds_far", result.Violations[0].Rule)
		assert.Contains(t, result.Violations[0].Description, "72000 sf")
	})

	t.Run("invalid proposed area", func(t *testing.T) {
		_, err := CheckCompliance(5000, 0, shares)
		assert.ErrorIs(t, err, ErrInvalidBuildingArea)
	})

	t.Run("invalid land area", func(t *testing.T) {
		_, err := CheckCompliance(0, 1000, shares)
		assert.ErrorIs(t, err, ErrInvalidLandArea)
	})
}
