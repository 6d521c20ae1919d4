package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/zonewise/api/internal/models"
)

// ZoningRepository defines data access for zoning districts and the links
// that tie properties to them.
type ZoningRepository interface {
	// Create inserts a district and fills in its generated ID and timestamps.
	Create(ctx context.Context, d *models.ZoningDistrict) error

	// GetByID fetches one district.
	// Returns nil, nil if no district is found (not an error).
	GetByID(ctx context.Context, id uuid.UUID) (*models.ZoningDistrict, error)

	// GetByCode fetches one district by its unique code, e.g. "R10".
	// Returns nil, nil if no district is found (not an error).
	GetByCode(ctx context.Context, code string) (*models.ZoningDistrict, error)

	// List returns districts, optionally restricted to one category, plus the
	// total match count before pagination. Ordered by district code.
	List(ctx context.Context, category string, limit, offset int) ([]models.ZoningDistrict, int, error)

	// DistrictsContaining returns every district whose boundary contains the
	// point. Overlapping districts all match; an empty slice means the point
	// is unzoned.
	DistrictsContaining(ctx context.Context, lat, lng float64) ([]models.ZoningDistrict, error)

	// LinksForProperty returns the property's district shares with full
	// district attributes, largest share first.
	LinksForProperty(ctx context.Context, propertyID uuid.UUID) ([]models.DistrictShare, error)

	// ReplaceLinks atomically swaps a property's zoning links for the given
	// set. Passing an empty slice clears all links.
	ReplaceLinks(ctx context.Context, propertyID uuid.UUID, links []models.PropertyZoningLink) error

	// UpdateBoundary replaces a district's boundary polygon, keyed by
	// district code. Returns false if no district has that code.
	UpdateBoundary(ctx context.Context, code string, boundary models.MultiPolygon) (bool, error)
}

type zoningRepository struct {
	db DB
}

// NewZoningRepository creates a new instance of ZoningRepository.
func NewZoningRepository(db DB) ZoningRepository {
	return &zoningRepository{db: db}
}

const districtColumns = `
	id,
	district_code,
	district_name,
	far_base,
	far_with_bonus,
	max_height_ft,
	setback_front_ft,
	setback_side_ft,
	setback_rear_ft,
	category,
	ST_AsEWKB(geom) AS geom,
	created_at,
	updated_at`

func scanDistrict(row pgx.Row) (*models.ZoningDistrict, error) {
	var d models.ZoningDistrict
	var geomEWKB []byte

	err := row.Scan(
		&d.ID,
		&d.DistrictCode,
		&d.DistrictName,
		&d.FARBase,
		&d.FARWithBonus,
		&d.MaxHeightFt,
		&d.SetbackFrontFt,
		&d.SetbackSideFt,
		&d.SetbackRearFt,
		&d.Category,
		&geomEWKB,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := d.Geom.Scan(geomEWKB); err != nil {
		return nil, fmt.Errorf("failed to parse geometry for district %s: %w", d.DistrictCode, err)
	}

	return &d, nil
}

func (r *zoningRepository) Create(ctx context.Context, d *models.ZoningDistrict) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Category == "" {
		d.Category = models.CategoryForCode(d.DistrictCode)
	}

	geomEWKB, err := d.Geom.Value()
	if err != nil {
		return fmt.Errorf("failed to encode geometry for district %s: %w", d.DistrictCode, err)
	}

	query := `
		INSERT INTO zoning_districts (
			id, district_code, district_name, far_base, far_with_bonus,
			max_height_ft, setback_front_ft, setback_side_ft, setback_rear_ft,
			category, geom
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, ST_GeomFromEWKB($11))
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRow(ctx, query,
		d.ID,
		d.DistrictCode,
		d.DistrictName,
		d.FARBase,
		d.FARWithBonus,
		d.MaxHeightFt,
		d.SetbackFrontFt,
		d.SetbackSideFt,
		d.SetbackRearFt,
		d.Category,
		geomEWKB,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert district %s: %w", d.DistrictCode, err)
	}

	return nil
}

func (r *zoningRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ZoningDistrict, error) {
	query := `SELECT` + districtColumns + `
		FROM zoning_districts
		WHERE id = $1`

	d, err := scanDistrict(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query district %s: %w", id, err)
	}

	return d, nil
}

func (r *zoningRepository) GetByCode(ctx context.Context, code string) (*models.ZoningDistrict, error) {
	query := `SELECT` + districtColumns + `
		FROM zoning_districts
		WHERE district_code = $1`

	d, err := scanDistrict(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query district by code %q: %w", code, err)
	}

	return d, nil
}

func (r *zoningRepository) List(ctx context.Context, category string, limit, offset int) ([]models.ZoningDistrict, int, error) {
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
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM zoning_districts`+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count districts: %w", err)
	}

	query := `SELECT` + districtColumns + `
		FROM zoning_districts` + where +
		fmt.Sprintf(`
		ORDER BY district_code
		LIMIT $%d OFFSET $%d`, len(countArgs)+1, len(countArgs)+2)
	args := append(countArgs, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list districts: %w", err)
	}
	defer rows.Close()

	districts := []models.ZoningDistrict{}
	for rows.Next() {
		d, err := scanDistrict(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan district row: %w", err)
		}
		districts = append(districts, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating district rows: %w", err)
	}

	return districts, total, nil
}

// DistrictsContaining performs a point-in-polygon query against district
// boundaries. PostGIS expects (longitude, latitude) order.
func (r *zoningRepository) DistrictsContaining(ctx context.Context, lat, lng float64) ([]models.ZoningDistrict, error) {
	query := `SELECT` + districtColumns + `
		FROM zoning_districts
		WHERE ST_Contains(geom, ST_SetSRID(ST_MakePoint($1, $2), 4326))
		ORDER BY district_code`

	rows, err := r.db.Query(ctx, query, lng, lat)
	if err != nil {
		return nil, fmt.Errorf("failed to query districts at point (lat=%f, lng=%f): %w", lat, lng, err)
	}
	defer rows.Close()

	districts := []models.ZoningDistrict{}
	for rows.Next() {
		d, err := scanDistrict(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan district row: %w", err)
		}
		districts = append(districts, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating district rows: %w", err)
	}

	return districts, nil
}

func (r *zoningRepository) LinksForProperty(ctx context.Context, propertyID uuid.UUID) ([]models.DistrictShare, error) {
	query := `
		SELECT
			d.id,
			d.district_code,
			d.district_name,
			d.far_base,
			d.far_with_bonus,
			d.max_height_ft,
			d.setback_front_ft,
			d.setback_side_ft,
			d.setback_rear_ft,
			d.category,
			ST_AsEWKB(d.geom) AS geom,
			d.created_at,
			d.updated_at,
			l.percent_in_district
		FROM property_zoning_links l
		JOIN zoning_districts d ON d.id = l.zoning_district_id
		WHERE l.property_id = $1
		ORDER BY l.percent_in_district DESC, d.district_code
	`

	rows, err := r.db.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query zoning links for property %s: %w", propertyID, err)
	}
	defer rows.Close()

	shares := []models.DistrictShare{}
	for rows.Next() {
		var s models.DistrictShare
		var geomEWKB []byte

		err := rows.Scan(
			&s.District.ID,
			&s.District.DistrictCode,
			&s.District.DistrictName,
			&s.District.FARBase,
			&s.District.FARWithBonus,
			&s.District.MaxHeightFt,
			&s.District.SetbackFrontFt,
			&s.District.SetbackSideFt,
			&s.District.SetbackRearFt,
			&s.District.Category,
			&geomEWKB,
			&s.District.CreatedAt,
			&s.District.UpdatedAt,
			&s.PercentInDistrict,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan zoning link row: %w", err)
		}

		if err := s.District.Geom.Scan(geomEWKB); err != nil {
			return nil, fmt.Errorf("failed to parse geometry for district %s: %w", s.District.DistrictCode, err)
		}

		shares = append(shares, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating zoning link rows: %w", err)
	}

	return shares, nil
}

func (r *zoningRepository) ReplaceLinks(ctx context.Context, propertyID uuid.UUID, links []models.PropertyZoningLink) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin link replacement for property %s: %w", propertyID, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM property_zoning_links WHERE property_id = $1`, propertyID); err != nil {
		return fmt.Errorf("failed to clear zoning links for property %s: %w", propertyID, err)
	}

	for _, link := range links {
		id := link.ID
		if id == uuid.Nil {
			id = uuid.New()
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO property_zoning_links (id, property_id, zoning_district_id, percent_in_district)
			VALUES ($1, $2, $3, $4)`,
			id, propertyID, link.ZoningDistrictID, link.PercentInDistrict)
		if err != nil {
			return fmt.Errorf("failed to insert zoning link for property %s: %w", propertyID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit link replacement for property %s: %w", propertyID, err)
	}

	return nil
}

func (r *zoningRepository) UpdateBoundary(ctx context.Context, code string, boundary models.MultiPolygon) (bool, error) {
	geomEWKB, err := boundary.Value()
	if err != nil {
		return false, fmt.Errorf("failed to encode boundary for district %s: %w", code, err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE zoning_districts
		SET geom = ST_GeomFromEWKB($1), updated_at = now()
		WHERE district_code = $2`,
		geomEWKB, code)
	if err != nil {
		return false, fmt.Errorf("failed to update boundary for district %s: %w", code, err)
	}

	return tag.RowsAffected() > 0, nil
}
