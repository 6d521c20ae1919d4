package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/zonewise/api/internal/models"
)

// PropertyWithDistance pairs a property with its distance from a reference
// point, in feet.
type PropertyWithDistance struct {
	Property   models.Property
	DistanceFt float64
}

// PropertySearchFilter narrows a property search. Zero values mean the
// corresponding filter is not applied.
type PropertySearchFilter struct {
	Borough       string
	Query         string
	MinLandAreaSF float64
	MaxLandAreaSF float64
	Limit         int
	Offset        int
}

// PropertyRepository defines data access for properties.
type PropertyRepository interface {
	// Create inserts a property and fills in its generated ID and timestamps.
	Create(ctx context.Context, p *models.Property) error

	// GetByID fetches one property.
	// Returns nil, nil if no property is found (not an error).
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)

	// GetByAddress fetches one property by exact address, case-insensitively.
	// Returns nil, nil if no property is found (not an error).
	GetByAddress(ctx context.Context, address string) (*models.Property, error)

	// Search returns properties matching the filter plus the total match count
	// before pagination.
	Search(ctx context.Context, filter PropertySearchFilter) ([]models.Property, int, error)

	// Update rewrites a property's mutable fields and refreshes its updated_at.
	// Returns false if the property does not exist.
	Update(ctx context.Context, p *models.Property) (bool, error)

	// Delete removes a property and, via cascade, its zoning links.
	// Returns false if the property does not exist.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// FindNearby returns properties within radiusFt of the point, closest
	// first. An empty slice means none were found.
	FindNearby(ctx context.Context, lat, lng, radiusFt float64, limit int) ([]PropertyWithDistance, error)

	// Adjacent returns properties within toleranceFt of the given property,
	// excluding the property itself, closest first.
	Adjacent(ctx context.Context, id uuid.UUID, toleranceFt float64, limit int) ([]models.Property, error)
}

type propertyRepository struct {
	db DB
}

// NewPropertyRepository creates a new instance of PropertyRepository.
func NewPropertyRepository(db DB) PropertyRepository {
	return &propertyRepository{db: db}
}

// propertyColumns is the select list shared by every property query.
// Geometry is read as EWKB and decoded by models.Point.
const propertyColumns = `
	id,
	address,
	borough,
	lot_number,
	block_number,
	zip_code,
	land_area_sf,
	building_area_sf,
	current_use,
	year_built,
	ST_AsEWKB(geom) AS geom,
	created_at,
	updated_at`

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	var geomEWKB []byte

	err := row.Scan(
		&p.ID,
		&p.Address,
		&p.Borough,
		&p.LotNumber,
		&p.BlockNumber,
		&p.ZipCode,
		&p.LandAreaSF,
		&p.BuildingAreaSF,
		&p.CurrentUse,
		&p.YearBuilt,
		&geomEWKB,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := p.Geom.Scan(geomEWKB); err != nil {
		return nil, fmt.Errorf("failed to parse geometry for property %s: %w", p.ID, err)
	}

	return &p, nil
}

func (r *propertyRepository) Create(ctx context.Context, p *models.Property) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	query := `
		INSERT INTO properties (
			id, address, borough, lot_number, block_number, zip_code,
			land_area_sf, building_area_sf, current_use, year_built, geom
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			ST_SetSRID(ST_MakePoint($11, $12), 4326))
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.ID,
		p.Address,
		p.Borough,
		p.LotNumber,
		p.BlockNumber,
		p.ZipCode,
		p.LandAreaSF,
		p.BuildingAreaSF,
		p.CurrentUse,
		p.YearBuilt,
		p.Geom.Lng(),
		p.Geom.Lat(),
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert property %q: %w", p.Address, err)
	}

	return nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	query := `SELECT` + propertyColumns + `
		FROM properties
		WHERE id = $1`

	p, err := scanProperty(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query property %s: %w", id, err)
	}

	return p, nil
}

func (r *propertyRepository) GetByAddress(ctx context.Context, address string) (*models.Property, error) {
	query := `SELECT` + propertyColumns + `
		FROM properties
		WHERE lower(address) = lower($1)
		LIMIT 1`

	p, err := scanProperty(r.db.QueryRow(ctx, query, address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query property by address %q: %w", address, err)
	}

	return p, nil
}

func (r *propertyRepository) Search(ctx context.Context, filter PropertySearchFilter) ([]models.Property, int, error) {
	where, args := buildPropertyFilter(filter)

	countQuery := `SELECT COUNT(*) FROM properties` + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT` + propertyColumns + `
		FROM properties` + where +
		fmt.Sprintf(`
		ORDER BY address
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search properties: %w", err)
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan property row: %w", err)
		}
		properties = append(properties, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating property rows: %w", err)
	}

	return properties, total, nil
}

// buildPropertyFilter translates a filter into a WHERE clause and its
// positional arguments.
func buildPropertyFilter(filter PropertySearchFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Borough != "" {
		args = append(args, filter.Borough)
		conditions = append(conditions, fmt.Sprintf("borough = $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		conditions = append(conditions, fmt.Sprintf("address ILIKE $%d", len(args)))
	}
	if filter.MinLandAreaSF > 0 {
		args = append(args, filter.MinLandAreaSF)
		conditions = append(conditions, fmt.Sprintf("land_area_sf >= $%d", len(args)))
	}
	if filter.MaxLandAreaSF > 0 {
		args = append(args, filter.MaxLandAreaSF)
		conditions = append(conditions, fmt.Sprintf("land_area_sf <= $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *propertyRepository) Update(ctx context.Context, p *models.Property) (bool, error) {
	query := `
		UPDATE properties SET
			address = $2,
			borough = $3,
			lot_number = $4,
			block_number = $5,
			zip_code = $6,
			land_area_sf = $7,
			building_area_sf = $8,
			current_use = $9,
			year_built = $10,
			geom = ST_SetSRID(ST_MakePoint($11, $12), 4326),
			updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.ID,
		p.Address,
		p.Borough,
		p.LotNumber,
		p.BlockNumber,
		p.ZipCode,
		p.LandAreaSF,
		p.BuildingAreaSF,
		p.CurrentUse,
		p.YearBuilt,
		p.Geom.Lng(),
		p.Geom.Lat(),
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update property %s: %w", p.ID, err)
	}

	return true, nil
}

func (r *propertyRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete property %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// FindNearby uses ST_DWithin with geography casting for accurate distance
// calculations. PostGIS expects (longitude, latitude) order.
func (r *propertyRepository) FindNearby(ctx context.Context, lat, lng, radiusFt float64, limit int) ([]PropertyWithDistance, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT` + propertyColumns + `,
		ST_Distance(
			geom::geography,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography
		) AS distance_meters
		FROM properties
		WHERE ST_DWithin(
			geom::geography,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
			$3
		)
		ORDER BY distance_meters
		LIMIT $4`

	rows, err := r.db.Query(ctx, query, lng, lat, radiusFt*metersPerFoot, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby properties (lat=%f, lng=%f, radius_ft=%f): %w",
			lat, lng, radiusFt, err)
	}
	defer rows.Close()

	results := []PropertyWithDistance{}
	for rows.Next() {
		var p models.Property
		var geomEWKB []byte
		var distanceMeters float64

		err := rows.Scan(
			&p.ID,
			&p.Address,
			&p.Borough,
			&p.LotNumber,
			&p.BlockNumber,
			&p.ZipCode,
			&p.LandAreaSF,
			&p.BuildingAreaSF,
			&p.CurrentUse,
			&p.YearBuilt,
			&geomEWKB,
			&p.CreatedAt,
			&p.UpdatedAt,
			&distanceMeters,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan nearby property row: %w", err)
		}

		if err := p.Geom.Scan(geomEWKB); err != nil {
			return nil, fmt.Errorf("failed to parse geometry for property %s: %w", p.ID, err)
		}

		results = append(results, PropertyWithDistance{
			Property:   p,
			DistanceFt: distanceMeters * feetPerMeter,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nearby property rows: %w", err)
	}

	return results, nil
}

// Adjacent finds properties whose location falls within toleranceFt of the
// subject property. A missing subject yields an empty result, not an error.
func (r *propertyRepository) Adjacent(ctx context.Context, id uuid.UUID, toleranceFt float64, limit int) ([]models.Property, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT` + propertyColumns + `
		FROM properties
		WHERE id <> $1
		AND ST_DWithin(
			geom::geography,
			(SELECT geom FROM properties WHERE id = $1)::geography,
			$2
		)
		ORDER BY geom <-> (SELECT geom FROM properties WHERE id = $1)
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, id, toleranceFt*metersPerFoot, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query adjacent properties for %s: %w", id, err)
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan adjacent property row: %w", err)
		}
		properties = append(properties, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating adjacent property rows: %w", err)
	}

	return properties, nil
}
