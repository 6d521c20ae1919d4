package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/zonewise/api/internal/models"
)

// LandmarkWithDistance pairs a landmark with its distance from a reference
// point, in feet.
type LandmarkWithDistance struct {
	Landmark   models.Landmark
	DistanceFt float64
}

// LandmarkRepository defines data access for landmarks.
type LandmarkRepository interface {
	// Create inserts a landmark and fills in its generated ID and timestamps.
	Create(ctx context.Context, l *models.Landmark) error

	// GetByID fetches one landmark.
	// Returns nil, nil if no landmark is found (not an error).
	GetByID(ctx context.Context, id uuid.UUID) (*models.Landmark, error)

	// List returns landmarks, optionally restricted to one category, plus the
	// total match count before pagination. Ordered by name.
	List(ctx context.Context, category string, limit, offset int) ([]models.Landmark, int, error)

	// Nearby returns landmarks within radiusFt of the point, closest first,
	// optionally restricted to one category. An empty slice means none were
	// found.
	Nearby(ctx context.Context, lat, lng, radiusFt float64, category string, limit int) ([]LandmarkWithDistance, error)
}

type landmarkRepository struct {
	db DB
}

// NewLandmarkRepository creates a new instance of LandmarkRepository.
func NewLandmarkRepository(db DB) LandmarkRepository {
	return &landmarkRepository{db: db}
}

const landmarkColumns = `
	id,
	name,
	category,
	description,
	ST_AsEWKB(geom) AS geom,
	created_at,
	updated_at`

func scanLandmark(row pgx.Row) (*models.Landmark, error) {
	var l models.Landmark
	var geomEWKB []byte

	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Category,
		&l.Description,
		&geomEWKB,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := l.Geom.Scan(geomEWKB); err != nil {
		return nil, fmt.Errorf("failed to parse geometry for landmark %s: %w", l.ID, err)
	}

	return &l, nil
}

func (r *landmarkRepository) Create(ctx context.Context, l *models.Landmark) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}

	query := `
		INSERT INTO landmarks (id, name, category, description, geom)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326))
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		l.ID,
		l.Name,
		l.Category,
		l.Description,
		l.Geom.Lng(),
		l.Geom.Lat(),
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert landmark %q: %w", l.Name, err)
	}

	return nil
}

func (r *landmarkRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Landmark, error) {
	query := `SELECT` + landmarkColumns + `
		FROM landmarks
		WHERE id = $1`

	l, err := scanLandmark(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query landmark %s: %w", id, err)
	}

	return l, nil
}

func (r *landmarkRepository) List(ctx context.Context, category string, limit, offset int) ([]models.Landmark, int, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	where := ""
	countArgs := []any{}
	if category != "" {
		where = ` WHERE category = $1`
		countArgs = append(countArgs, category)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM landmarks`+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count landmarks: %w", err)
	}

	query := `SELECT` + landmarkColumns + `
		FROM landmarks` + where +
		fmt.Sprintf(`
		ORDER BY name
		LIMIT $%d OFFSET $%d`, len(countArgs)+1, len(countArgs)+2)
	args := append(countArgs, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list landmarks: %w", err)
	}
	defer rows.Close()

	landmarks := []models.Landmark{}
	for rows.Next() {
		l, err := scanLandmark(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan landmark row: %w", err)
		}
		landmarks = append(landmarks, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating landmark rows: %w", err)
	}

	return landmarks, total, nil
}

// Nearby uses ST_DWithin with geography casting for accurate distance
// calculations. PostGIS expects (longitude, latitude) order.
func (r *landmarkRepository) Nearby(ctx context.Context, lat, lng, radiusFt float64, category string, limit int) ([]LandmarkWithDistance, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT` + landmarkColumns + `,
		ST_Distance(
			geom::geography,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography
		) AS distance_meters
		FROM landmarks
		WHERE ST_DWithin(
			geom::geography,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
			$3
		)
		AND ($4 = '' OR category = $4)
		ORDER BY distance_meters
		LIMIT $5`

	rows, err := r.db.Query(ctx, query, lng, lat, radiusFt*metersPerFoot, category, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby landmarks (lat=%f, lng=%f, radius_ft=%f): %w",
			lat, lng, radiusFt, err)
	}
	defer rows.Close()

	results := []LandmarkWithDistance{}
	for rows.Next() {
		var l models.Landmark
		var geomEWKB []byte
		var distanceMeters float64

		err := rows.Scan(
			&l.ID,
			&l.Name,
			&l.Category,
			&l.Description,
			&geomEWKB,
			&l.CreatedAt,
			&l.UpdatedAt,
			&distanceMeters,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan nearby landmark row: %w", err)
		}

		if err := l.Geom.Scan(geomEWKB); err != nil {
			return nil, fmt.Errorf("failed to parse geometry for landmark %s: %w", l.ID, err)
		}

		results = append(results, LandmarkWithDistance{
			Landmark:   l,
			DistanceFt: distanceMeters * feetPerMeter,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nearby landmark rows: %w", err)
	}

	return results, nil
}
