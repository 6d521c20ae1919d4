package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/zonewise/api/internal/geocoding"
	"github.com/zonewise/api/internal/models"
	"github.com/zonewise/api/internal/repository"
)

// MockPropertyRepository is a mock implementation of PropertyRepository for testing
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, p *models.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) GetByAddress(ctx context.Context, address string) (*models.Property, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Search(ctx context.Context, filter repository.PropertySearchFilter) ([]models.Property, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Property), args.Int(1), args.Error(2)
}

func (m *MockPropertyRepository) Update(ctx context.Context, p *models.Property) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPropertyRepository) FindNearby(ctx context.Context, lat, lng, radiusFt float64, limit int) ([]repository.PropertyWithDistance, error) {
	args := m.Called(ctx, lat, lng, radiusFt, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.PropertyWithDistance), args.Error(1)
}

func (m *MockPropertyRepository) Adjacent(ctx context.Context, id uuid.UUID, toleranceFt float64, limit int) ([]models.Property, error) {
	args := m.Called(ctx, id, toleranceFt, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

// MockZoningRepository is a mock implementation of ZoningRepository for testing
type MockZoningRepository struct {
	mock.Mock
}

func (m *MockZoningRepository) Create(ctx context.Context, d *models.ZoningDistrict) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockZoningRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ZoningDistrict, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ZoningDistrict), args.Error(1)
}

func (m *MockZoningRepository) GetByCode(ctx context.Context, code string) (*models.ZoningDistrict, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ZoningDistrict), args.Error(1)
}

func (m *MockZoningRepository) List(ctx context.Context, category string, limit, offset int) ([]models.ZoningDistrict, int, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.ZoningDistrict), args.Int(1), args.Error(2)
}

func (m *MockZoningRepository) DistrictsContaining(ctx context.Context, lat, lng float64) ([]models.ZoningDistrict, error) {
	args := m.Called(ctx, lat, lng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ZoningDistrict), args.Error(1)
}

func (m *MockZoningRepository) LinksForProperty(ctx context.Context, propertyID uuid.UUID) ([]models.DistrictShare, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DistrictShare), args.Error(1)
}

func (m *MockZoningRepository) ReplaceLinks(ctx context.Context, propertyID uuid.UUID, links []models.PropertyZoningLink) error {
	args := m.Called(ctx, propertyID, links)
	return args.Error(0)
}

func (m *MockZoningRepository) UpdateBoundary(ctx context.Context, code string, boundary models.MultiPolygon) (bool, error) {
	args := m.Called(ctx, code, boundary)
	return args.Bool(0), args.Error(1)
}

// MockIncentiveRepository is a mock implementation of IncentiveRepository for testing
type MockIncentiveRepository struct {
	mock.Mock
}

func (m *MockIncentiveRepository) Create(ctx context.Context, p *models.TaxIncentiveProgram) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockIncentiveRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TaxIncentiveProgram, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaxIncentiveProgram), args.Error(1)
}

func (m *MockIncentiveRepository) GetByCode(ctx context.Context, code string) (*models.TaxIncentiveProgram, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaxIncentiveProgram), args.Error(1)
}

func (m *MockIncentiveRepository) List(ctx context.Context) ([]models.TaxIncentiveProgram, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TaxIncentiveProgram), args.Error(1)
}

// MockLandmarkRepository is a mock implementation of LandmarkRepository for testing
type MockLandmarkRepository struct {
	mock.Mock
}

func (m *MockLandmarkRepository) Create(ctx context.Context, l *models.Landmark) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLandmarkRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Landmark, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Landmark), args.Error(1)
}

func (m *MockLandmarkRepository) List(ctx context.Context, category string, limit, offset int) ([]models.Landmark, int, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Landmark), args.Int(1), args.Error(2)
}

func (m *MockLandmarkRepository) Nearby(ctx context.Context, lat, lng, radiusFt float64, category string, limit int) ([]repository.LandmarkWithDistance, error) {
	args := m.Called(ctx, lat, lng, radiusFt, category, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.LandmarkWithDistance), args.Error(1)
}

// MockStatsRepository is a mock implementation of StatsRepository for testing
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Snapshot(ctx context.Context) (*repository.DatasetStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.DatasetStats), args.Error(1)
}

// MockGeocoder is a mock implementation of geocoding.Provider for testing
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (*geocoding.Location, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geocoding.Location), args.Error(1)
}

func (m *MockGeocoder) Available() bool {
	args := m.Called()
	return args.Bool(0)
}
