package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oficina-erp/payroll-engine/internal/domain/advance"
	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
	"github.com/oficina-erp/payroll-engine/internal/pkg/database"
)

type advanceRepository struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) advance.AdvanceRepository {
	return &advanceRepository{db: db}
}

// ListByEmployeeCompetence returns every advance of the month regardless of
// status; the payroll decides which ones are deductible.
func (r *advanceRepository) ListByEmployeeCompetence(ctx context.Context, employeeID string, month competence.YearMonth, companyID string) ([]advance.Advance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_id, competence, amount, status, created_at
		FROM salary_advances
		WHERE employee_id = $1 AND company_id = $2 AND competence = $3
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, month.Start())
	if err != nil {
		return nil, fmt.Errorf("failed to list salary advances: %w", err)
	}
	defer rows.Close()

	advances, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (advance.Advance, error) {
		var (
			a      advance.Advance
			month  time.Time
			status string
		)
		err := row.Scan(&a.ID, &a.CompanyID, &a.EmployeeID, &month, &a.Amount, &status, &a.CreatedAt)
		a.Competence = competence.Of(month)
		a.Status = advance.Status(status)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan salary advance: %w", err)
	}

	return advances, nil
}
