package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/zonewise/api/internal/models"
)

// IncentiveRepository defines data access for tax incentive programs.
type IncentiveRepository interface {
	// Create inserts a program and fills in its generated ID and timestamps.
	Create(ctx context.Context, p *models.TaxIncentiveProgram) error

	// GetByID fetches one program.
	// Returns nil, nil if no program is found (not an error).
	GetByID(ctx context.Context, id uuid.UUID) (*models.TaxIncentiveProgram, error)

	// GetByCode fetches one program by its unique code, e.g. "467-M".
	// Returns nil, nil if no program is found (not an error).
	GetByCode(ctx context.Context, code string) (*models.TaxIncentiveProgram, error)

	// List returns every program ordered by code.
	List(ctx context.Context) ([]models.TaxIncentiveProgram, error)
}

type incentiveRepository struct {
	db DB
}

// NewIncentiveRepository creates a new instance of IncentiveRepository.
func NewIncentiveRepository(db DB) IncentiveRepository {
	return &incentiveRepository{db: db}
}

const programColumns = `
	id,
	program_code,
	program_name,
	description,
	eligible_district_codes,
	min_building_age,
	requires_residential,
	assessment_basis,
	assessment_rate_per_sf,
	abatement_schedule,
	created_at,
	updated_at`

// scanProgram reads one program row. The two JSONB columns arrive as raw
// bytes and are unmarshalled here.
func scanProgram(row pgx.Row) (*models.TaxIncentiveProgram, error) {
	var p models.TaxIncentiveProgram
	var districtsJSON, scheduleJSON []byte

	err := row.Scan(
		&p.ID,
		&p.ProgramCode,
		&p.ProgramName,
		&p.Description,
		&districtsJSON,
		&p.MinBuildingAge,
		&p.RequiresResidential,
		&p.AssessmentBasis,
		&p.AssessmentRatePerSF,
		&scheduleJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(districtsJSON, &p.EligibleDistrictCodes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal district codes for program %s: %w", p.ProgramCode, err)
	}
	if err := json.Unmarshal(scheduleJSON, &p.AbatementSchedule); err != nil {
		return nil, fmt.Errorf("failed to unmarshal abatement schedule for program %s: %w", p.ProgramCode, err)
	}

	return &p, nil
}

func (r *incentiveRepository) Create(ctx context.Context, p *models.TaxIncentiveProgram) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.EligibleDistrictCodes == nil {
		p.EligibleDistrictCodes = []string{}
	}
	if p.AbatementSchedule == nil {
		p.AbatementSchedule = []models.AbatementPhase{}
	}

	districtsJSON, err := json.Marshal(p.EligibleDistrictCodes)
	if err != nil {
		return fmt.Errorf("failed to marshal district codes for program %s: %w", p.ProgramCode, err)
	}
	scheduleJSON, err := json.Marshal(p.AbatementSchedule)
	if err != nil {
		return fmt.Errorf("failed to marshal abatement schedule for program %s: %w", p.ProgramCode, err)
	}

	query := `
		INSERT INTO tax_incentive_programs (
			id, program_code, program_name, description,
			eligible_district_codes, min_building_age, requires_residential,
			assessment_basis, assessment_rate_per_sf, abatement_schedule
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRow(ctx, query,
		p.ID,
		p.ProgramCode,
		p.ProgramName,
		p.Description,
		districtsJSON,
		p.MinBuildingAge,
		p.RequiresResidential,
		p.AssessmentBasis,
		p.AssessmentRatePerSF,
		scheduleJSON,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert program %s: %w", p.ProgramCode, err)
	}

	return nil
}

func (r *incentiveRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TaxIncentiveProgram, error) {
	query := `SELECT` + programColumns + `
		FROM tax_incentive_programs
		WHERE id = $1`

	p, err := scanProgram(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query program %s: %w", id, err)
	}

	return p, nil
}

func (r *incentiveRepository) GetByCode(ctx context.Context, code string) (*models.TaxIncentiveProgram, error) {
	query := `SELECT` + programColumns + `
		FROM tax_incentive_programs
		WHERE program_code = $1`

	p, err := scanProgram(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query program by code %q: %w", code, err)
	}

	return p, nil
}

func (r *incentiveRepository) List(ctx context.Context) ([]models.TaxIncentiveProgram, error) {
	query := `SELECT` + programColumns + `
		FROM tax_incentive_programs
		ORDER BY program_code`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	defer rows.Close()

	programs := []models.TaxIncentiveProgram{}
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan program row: %w", err)
		}
		programs = append(programs, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating program rows: %w", err)
	}

	return programs, nil
}
