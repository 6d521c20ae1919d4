package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/zonewise/api/internal/logger"
	"github.com/zonewise/api/internal/models"
	"github.com/zonewise/api/internal/repository"
)

var (
	ErrProgramNotFound  = errors.New("tax incentive program not found")
	ErrLandmarkNotFound = errors.New("landmark not found")
)

// DistrictPage is one page of zoning districts.
type DistrictPage struct {
	Districts []models.ZoningDistrict `json:"districts"`
	Total     int                     `json:"total"`
	Limit     int                     `json:"limit"`
	Offset    int                     `json:"offset"`
}

// LandmarkPage is one page of landmarks.
type LandmarkPage struct {
	Landmarks []models.Landmark `json:"landmarks"`
	Total     int               `json:"total"`
	Limit     int               `json:"limit"`
	Offset    int               `json:"offset"`
}

// ReferenceService exposes the read-only reference catalogs: zoning
// districts, tax incentive programs, landmarks, and dataset statistics.
type ReferenceService interface {
	// Districts pages through the district catalog, optionally filtered by
	// category.
	Districts(ctx context.Context, category string, limit, offset int) (*DistrictPage, error)

	// DistrictByCode fetches one district, e.g. "R10".
	// Returns ErrDistrictNotFound if the code is not cataloged.
	DistrictByCode(ctx context.Context, code string) (*models.ZoningDistrict, error)

	// Programs lists every cataloged tax incentive program.
	Programs(ctx context.Context) ([]models.TaxIncentiveProgram, error)

	// Landmarks pages through the landmark catalog, optionally filtered by
	// category. Returns ErrInvalidCategory for an unknown category.
	Landmarks(ctx context.Context, category string, limit, offset int) (*LandmarkPage, error)

	// Landmark fetches one landmark.
	// Returns ErrLandmarkNotFound if it does not exist.
	Landmark(ctx context.Context, id uuid.UUID) (*models.Landmark, error)

	// Stats reports dataset-wide counts and averages.
	Stats(ctx context.Context) (*repository.DatasetStats, error)
}

// referenceService is the concrete implementation of ReferenceService.
type referenceService struct {
	zoning     repository.ZoningRepository
	incentives repository.IncentiveRepository
	landmarks  repository.LandmarkRepository
	stats      repository.StatsRepository
	log        *logger.Logger
}

// NewReferenceService creates a new instance of ReferenceService.
func NewReferenceService(
	zoning repository.ZoningRepository,
	incentives repository.IncentiveRepository,
	landmarks repository.LandmarkRepository,
	stats repository.StatsRepository,
	log *logger.Logger,
) ReferenceService {
	return &referenceService{
		zoning:     zoning,
		incentives: incentives,
		landmarks:  landmarks,
		stats:      stats,
		log:        log,
	}
}

// pageBounds normalizes a limit/offset pair to the shared defaults.
func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *referenceService) Districts(ctx context.Context, category string, limit, offset int) (*DistrictPage, error) {
	limit, offset = pageBounds(limit, offset)

	districts, total, err := s.zoning.List(ctx, category, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list zoning districts: %w", err)
	}

	return &DistrictPage{
		Districts: districts,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	}, nil
}

func (s *referenceService) DistrictByCode(ctx context.Context, code string) (*models.ZoningDistrict, error) {
	district, err := s.zoning.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get zoning district: %w", err)
	}
	if district == nil {
		return nil, fmt.Errorf("%w: %q", ErrDistrictNotFound, code)
	}
	return district, nil
}

func (s *referenceService) Programs(ctx context.Context) ([]models.TaxIncentiveProgram, error) {
	programs, err := s.incentives.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list incentive programs: %w", err)
	}
	return programs, nil
}

func (s *referenceService) Landmarks(ctx context.Context, category string, limit, offset int) (*LandmarkPage, error) {
	if category != "" && !models.ValidLandmarkCategory(category) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	limit, offset = pageBounds(limit, offset)

	landmarks, total, err := s.landmarks.List(ctx, category, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list landmarks: %w", err)
	}

	return &LandmarkPage{
		Landmarks: landmarks,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	}, nil
}

func (s *referenceService) Landmark(ctx context.Context, id uuid.UUID) (*models.Landmark, error) {
	landmark, err := s.landmarks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get landmark: %w", err)
	}
	if landmark == nil {
		return nil, fmt.Errorf("%w: %s", ErrLandmarkNotFound, id)
	}
	return landmark, nil
}

func (s *referenceService) Stats(ctx context.Context) (*repository.DatasetStats, error) {
	snapshot, err := s.stats.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect dataset stats: %w", err)
	}
	return snapshot, nil
}
