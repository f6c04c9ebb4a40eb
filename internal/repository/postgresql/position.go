package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/oficina-erp/payroll-engine/internal/domain/master/position"
	"github.com/oficina-erp/payroll-engine/internal/pkg/database"
)

type positionRepositoryImpl struct {
	db *database.DB
}

func NewPositionRepository(db *database.DB) position.PositionRepository {
	return &positionRepositoryImpl{db: db}
}

const positionColumns = `
	id, company_id, name, commission_enabled, commission_type, commission_percent,
	minimum_threshold_individual, minimum_threshold_company, commission_base,
	created_at, updated_at
`

func scanPosition(row pgx.Row) (position.Position, error) {
	var (
		p              position.Position
		commissionType string
		commissionBase string
	)
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.CommissionEnabled, &commissionType, &p.CommissionPercent,
		&p.MinimumThresholdIndividual, &p.MinimumThresholdCompany, &commissionBase,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return position.Position{}, err
	}
	p.CommissionType = position.CommissionType(commissionType)
	p.CommissionBase = position.CommissionBase(commissionBase)
	return p, nil
}

// Create implements position.PositionRepository.
func (r *positionRepositoryImpl) Create(ctx context.Context, p position.Position) (position.Position, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO positions (
			id, company_id, name, commission_enabled, commission_type, commission_percent,
			minimum_threshold_individual, minimum_threshold_company, commission_base,
			created_at, updated_at
		)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + positionColumns

	result, err := scanPosition(q.QueryRow(ctx, query,
		p.CompanyID, p.Name, p.CommissionEnabled, string(p.CommissionType), p.CommissionPercent,
		p.MinimumThresholdIndividual, p.MinimumThresholdCompany, string(p.CommissionBase),
	))
	if err != nil {
		return position.Position{}, fmt.Errorf("failed to create position: %w", err)
	}

	return result, nil
}

// GetByID implements position.PositionRepository.
func (r *positionRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (position.Position, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + positionColumns + `
		FROM positions
		WHERE id = $1 AND company_id = $2
	`

	result, err := scanPosition(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return position.Position{}, position.ErrPositionNotFound
		}
		return position.Position{}, fmt.Errorf("failed to get position: %w", err)
	}

	return result, nil
}

// GetByCompanyID implements position.PositionRepository.
func (r *positionRepositoryImpl) GetByCompanyID(ctx context.Context, companyID string) ([]position.Position, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + positionColumns + `
		FROM positions
		WHERE company_id = $1
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}
	defer rows.Close()

	var positions []position.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return positions, nil
}

// Update implements position.PositionRepository.
func (r *positionRepositoryImpl) Update(ctx context.Context, p position.Position) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE positions
		SET name = $1, commission_enabled = $2, commission_type = $3, commission_percent = $4,
			minimum_threshold_individual = $5, minimum_threshold_company = $6, commission_base = $7,
			updated_at = NOW()
		WHERE id = $8 AND company_id = $9
	`

	commandTag, err := q.Exec(ctx, query,
		p.Name, p.CommissionEnabled, string(p.CommissionType), p.CommissionPercent,
		p.MinimumThresholdIndividual, p.MinimumThresholdCompany, string(p.CommissionBase),
		p.ID, p.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return position.ErrPositionNotFound
	}

	return nil
}
