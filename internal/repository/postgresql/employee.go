package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/oficina-erp/payroll-engine/internal/domain/employee"
	"github.com/oficina-erp/payroll-engine/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, company_id, COALESCE(position_id::text, ''), full_name, hire_date, termination_date,
	full_salary, weekday_overtime_factor, weekend_overtime_factor,
	absence_deduction_rule, dependents, created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		e             employee.Employee
		weekdayFactor decimal.NullDecimal
		weekendFactor decimal.NullDecimal
		absenceRule   string
	)
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.PositionID, &e.FullName, &e.HireDate, &e.TerminationDate,
		&e.FullSalary, &weekdayFactor, &weekendFactor,
		&absenceRule, &e.Dependents, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	// NULL factors fall back to the payroll policy.
	if weekdayFactor.Valid {
		e.WeekdayOvertimeFactor = weekdayFactor.Decimal
	}
	if weekendFactor.Valid {
		e.WeekendOvertimeFactor = weekendFactor.Decimal
	}
	e.AbsenceDeductionRule = employee.AbsenceDeductionRule(absenceRule)
	return e, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	e, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

// GetActiveByCompanyID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees
		WHERE company_id = $1 AND deleted_at IS NULL AND termination_date IS NULL
		ORDER BY full_name ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return employees, nil
}
