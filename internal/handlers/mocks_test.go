package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/zonewise/api/internal/analysis"
	"github.com/zonewise/api/internal/models"
	"github.com/zonewise/api/internal/repository"
	"github.com/zonewise/api/internal/services"
)

// MockPropertyService is a mock implementation of services.PropertyService for testing
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) Register(ctx context.Context, input services.PropertyInput) (*models.Property, bool, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Property), args.Bool(1), args.Error(2)
}

func (m *MockPropertyService) Get(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) List(ctx context.Context, filter repository.PropertySearchFilter) (*services.PropertyPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PropertyPage), args.Error(1)
}

func (m *MockPropertyService) SearchByAddress(ctx context.Context, address string, limit int) ([]services.PropertySearchResult, error) {
	args := m.Called(ctx, address, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.PropertySearchResult), args.Error(1)
}

func (m *MockPropertyService) Update(ctx context.Context, id uuid.UUID, update services.PropertyUpdate) (*models.Property, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAnalysisService is a mock implementation of services.AnalysisService for testing
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, propertyID uuid.UUID) (*services.FullAnalysis, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.FullAnalysis), args.Error(1)
}

func (m *MockAnalysisService) Zoning(ctx context.Context, propertyID uuid.UUID) (*analysis.ZoningSummary, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.ZoningSummary), args.Error(1)
}

func (m *MockAnalysisService) Setbacks(ctx context.Context, propertyID uuid.UUID) (*services.SetbackRequirements, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SetbackRequirements), args.Error(1)
}

func (m *MockAnalysisService) TaxIncentives(ctx context.Context, propertyID uuid.UUID) (*analysis.IncentiveReport, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.IncentiveReport), args.Error(1)
}

func (m *MockAnalysisService) AirRights(ctx context.Context, propertyID uuid.UUID) (*analysis.AirRightsSummary, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.AirRightsSummary), args.Error(1)
}

func (m *MockAnalysisService) Recipients(ctx context.Context, propertyID uuid.UUID) (*services.RecipientsReport, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RecipientsReport), args.Error(1)
}

func (m *MockAnalysisService) NearbyLandmarks(ctx context.Context, propertyID uuid.UUID, radiusFt float64, category string) (*services.LandmarkReport, error) {
	args := m.Called(ctx, propertyID, radiusFt, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LandmarkReport), args.Error(1)
}

func (m *MockAnalysisService) CalculateFAR(ctx context.Context, input services.FARCalculatorInput) (*analysis.ZoningSummary, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.ZoningSummary), args.Error(1)
}

func (m *MockAnalysisService) CheckCompliance(ctx context.Context, propertyID uuid.UUID, proposedBuildingAreaSF float64) (*analysis.ComplianceResult, error) {
	args := m.Called(ctx, propertyID, proposedBuildingAreaSF)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.ComplianceResult), args.Error(1)
}

func (m *MockAnalysisService) SimulateTransfer(ctx context.Context, fromID, toID uuid.UUID, transferSF float64) (*services.TransferQuote, error) {
	args := m.Called(ctx, fromID, toID, transferSF)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TransferQuote), args.Error(1)
}

func (m *MockAnalysisService) MarketData() services.MarketData {
	args := m.Called()
	return args.Get(0).(services.MarketData)
}

// MockReferenceService is a mock implementation of services.ReferenceService for testing
type MockReferenceService struct {
	mock.Mock
}

func (m *MockReferenceService) Districts(ctx context.Context, category string, limit, offset int) (*services.DistrictPage, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DistrictPage), args.Error(1)
}

func (m *MockReferenceService) DistrictByCode(ctx context.Context, code string) (*models.ZoningDistrict, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ZoningDistrict), args.Error(1)
}

func (m *MockReferenceService) Programs(ctx context.Context) ([]models.TaxIncentiveProgram, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TaxIncentiveProgram), args.Error(1)
}

func (m *MockReferenceService) Landmarks(ctx context.Context, category string, limit, offset int) (*services.LandmarkPage, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LandmarkPage), args.Error(1)
}

func (m *MockReferenceService) Landmark(ctx context.Context, id uuid.UUID) (*models.Landmark, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Landmark), args.Error(1)
}

func (m *MockReferenceService) Stats(ctx context.Context) (*repository.DatasetStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.DatasetStats), args.Error(1)
}
