package repository

import (
	"context"
	"fmt"
	"time"
)

// DatasetStats summarizes what the service currently has loaded. Intended for
// the stats endpoint and smoke checks after seeding. ReferenceUpdatedAt is the
// newest updated_at across the reference tables, nil when none are seeded.
type DatasetStats struct {
	Properties          int64            `json:"properties"`
	PropertiesByBorough map[string]int64 `json:"propertiesByBorough"`
	AvgLandAreaSF       float64          `json:"avgLandAreaSf"`
	ZoningDistricts     int64            `json:"zoningDistricts"`
	DistrictsByCategory map[string]int64 `json:"districtsByCategory"`
	IncentivePrograms   int64            `json:"incentivePrograms"`
	Landmarks           int64            `json:"landmarks"`
	LandmarksByCategory map[string]int64 `json:"landmarksByCategory"`
	ReferenceUpdatedAt  *time.Time       `json:"referenceUpdatedAt"`
}

// StatsRepository reports dataset-wide aggregates.
type StatsRepository interface {
	// Snapshot gathers counts, averages, and reference freshness across all
	// tables.
	Snapshot(ctx context.Context) (*DatasetStats, error)
}

type statsRepository struct {
	db DB
}

// NewStatsRepository creates a new instance of StatsRepository.
func NewStatsRepository(db DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Snapshot(ctx context.Context) (*DatasetStats, error) {
	stats := &DatasetStats{
		PropertiesByBorough: map[string]int64{},
		DistrictsByCategory: map[string]int64{},
		LandmarksByCategory: map[string]int64{},
	}

	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(land_area_sf), 0) FROM properties`,
	).Scan(&stats.Properties, &stats.AvgLandAreaSF)
	if err != nil {
		return nil, fmt.Errorf("failed to count properties: %w", err)
	}

	if err := r.groupCount(ctx,
		`SELECT borough, COUNT(*) FROM properties GROUP BY borough`,
		stats.PropertiesByBorough); err != nil {
		return nil, fmt.Errorf("failed to count properties by borough: %w", err)
	}

	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM zoning_districts`).Scan(&stats.ZoningDistricts)
	if err != nil {
		return nil, fmt.Errorf("failed to count districts: %w", err)
	}

	if err := r.groupCount(ctx,
		`SELECT category, COUNT(*) FROM zoning_districts GROUP BY category`,
		stats.DistrictsByCategory); err != nil {
		return nil, fmt.Errorf("failed to count districts by category: %w", err)
	}

	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tax_incentive_programs`).Scan(&stats.IncentivePrograms)
	if err != nil {
		return nil, fmt.Errorf("failed to count programs: %w", err)
	}

	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM landmarks`).Scan(&stats.Landmarks)
	if err != nil {
		return nil, fmt.Errorf("failed to count landmarks: %w", err)
	}

	if err := r.groupCount(ctx,
		`SELECT category, COUNT(*) FROM landmarks GROUP BY category`,
		stats.LandmarksByCategory); err != nil {
		return nil, fmt.Errorf("failed to count landmarks by category: %w", err)
	}

	err = r.db.QueryRow(ctx, `SELECT GREATEST(
		(SELECT MAX(updated_at) FROM zoning_districts),
		(SELECT MAX(updated_at) FROM tax_incentive_programs),
		(SELECT MAX(updated_at) FROM landmarks)
	)`).Scan(&stats.ReferenceUpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference freshness: %w", err)
	}

	return stats, nil
}

// groupCount runs a two-column key/count query and fills the given map.
func (r *statsRepository) groupCount(ctx context.Context, query string, into map[string]int64) error {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		into[key] = count
	}

	return rows.Err()
}
