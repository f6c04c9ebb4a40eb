package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oficina-erp/payroll-engine/internal/domain/payroll"
	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
	"github.com/oficina-erp/payroll-engine/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	pr.id, pr.company_id, pr.employee_id, pr.competence,
	pr.worked_days, pr.period_start_date, pr.input_bonus, pr.input_other_credits, pr.input_other_debits,
	pr.effective_worked_days,
	pr.base_salary, pr.commissions, pr.overtime_value, pr.bonus, pr.other_credits,
	pr.advances, pr.absence_deduction, pr.employer_charges, pr.other_debits,
	pr.net_salary, pr.warnings, pr.created_at, pr.updated_at,
	e.full_name
`

const payrollFrom = `
	FROM payroll_sheets pr
	JOIN employees e ON pr.employee_id = e.id
`

func scanPayroll(row pgx.Row) (payroll.MonthlyPayroll, error) {
	var (
		rec           payroll.MonthlyPayroll
		month         time.Time
		warningsBytes []byte
	)
	err := row.Scan(
		&rec.ID, &rec.CompanyID, &rec.EmployeeID, &month,
		&rec.Inputs.WorkedDays, &rec.Inputs.PeriodStartDate, &rec.Inputs.Bonus, &rec.Inputs.OtherCredits, &rec.Inputs.OtherDebits,
		&rec.EffectiveWorkedDays,
		&rec.Entries.BaseSalary, &rec.Entries.Commissions, &rec.Entries.OvertimeValue, &rec.Entries.Bonus, &rec.Entries.OtherCredits,
		&rec.Deductions.Advances, &rec.Deductions.AbsenceDeduction, &rec.Deductions.EmployerCharges, &rec.Deductions.OtherDebits,
		&rec.NetSalary, &warningsBytes, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName,
	)
	if err != nil {
		return payroll.MonthlyPayroll{}, err
	}
	rec.Competence = competence.Of(month)
	_ = json.Unmarshal(warningsBytes, &rec.Warnings)
	return rec, nil
}

// Upsert inserts the sheet or replaces the one of the same employee and
// competence. The stored id is kept on conflict.
func (r *payrollRepository) Upsert(ctx context.Context, record payroll.MonthlyPayroll) (payroll.MonthlyPayroll, error) {
	q := GetQuerier(ctx, r.db)

	warningsJSON, _ := json.Marshal(record.Warnings)

	query := `
		WITH upserted AS (
			INSERT INTO payroll_sheets (
				id, company_id, employee_id, competence,
				worked_days, period_start_date, input_bonus, input_other_credits, input_other_debits,
				effective_worked_days,
				base_salary, commissions, overtime_value, bonus, other_credits,
				advances, absence_deduction, employer_charges, other_debits,
				net_salary, warnings, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, NOW(), NOW())
			ON CONFLICT (company_id, employee_id, competence) DO UPDATE SET
				worked_days = EXCLUDED.worked_days,
				period_start_date = EXCLUDED.period_start_date,
				input_bonus = EXCLUDED.input_bonus,
				input_other_credits = EXCLUDED.input_other_credits,
				input_other_debits = EXCLUDED.input_other_debits,
				effective_worked_days = EXCLUDED.effective_worked_days,
				base_salary = EXCLUDED.base_salary,
				commissions = EXCLUDED.commissions,
				overtime_value = EXCLUDED.overtime_value,
				bonus = EXCLUDED.bonus,
				other_credits = EXCLUDED.other_credits,
				advances = EXCLUDED.advances,
				absence_deduction = EXCLUDED.absence_deduction,
				employer_charges = EXCLUDED.employer_charges,
				other_debits = EXCLUDED.other_debits,
				net_salary = EXCLUDED.net_salary,
				warnings = EXCLUDED.warnings,
				updated_at = NOW()
			RETURNING *
		)
		SELECT ` + payrollColumns + `
		FROM upserted pr
		JOIN employees e ON pr.employee_id = e.id
	`

	in := record.Inputs
	saved, err := scanPayroll(q.QueryRow(ctx, query,
		record.ID, record.CompanyID, record.EmployeeID, record.Competence.Start(),
		in.WorkedDays, in.PeriodStartDate, in.Bonus, in.OtherCredits, in.OtherDebits,
		record.EffectiveWorkedDays,
		record.Entries.BaseSalary, record.Entries.Commissions, record.Entries.OvertimeValue, record.Entries.Bonus, record.Entries.OtherCredits,
		record.Deductions.Advances, record.Deductions.AbsenceDeduction, record.Deductions.EmployerCharges, record.Deductions.OtherDebits,
		record.NetSalary, warningsJSON,
	))
	if err != nil {
		return payroll.MonthlyPayroll{}, fmt.Errorf("failed to upsert payroll sheet: %w", err)
	}

	return saved, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string, companyID string) (payroll.MonthlyPayroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + payrollFrom + `
		WHERE pr.id = $1 AND pr.company_id = $2
	`

	rec, err := scanPayroll(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.MonthlyPayroll{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.MonthlyPayroll{}, fmt.Errorf("failed to get payroll sheet: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) GetByEmployeeCompetence(ctx context.Context, employeeID string, month competence.YearMonth, companyID string) (payroll.MonthlyPayroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + payrollFrom + `
		WHERE pr.employee_id = $1 AND pr.competence = $2 AND pr.company_id = $3
	`

	rec, err := scanPayroll(q.QueryRow(ctx, query, employeeID, month.Start(), companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.MonthlyPayroll{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.MonthlyPayroll{}, fmt.Errorf("failed to get payroll sheet: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) List(ctx context.Context, companyID string, filter payroll.PayrollFilter) ([]payroll.MonthlyPayroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := payrollFrom + ` WHERE pr.company_id = $1`
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Competence != nil {
		month, err := competence.Parse(*filter.Competence)
		if err != nil {
			return nil, 0, err
		}
		baseQuery += fmt.Sprintf(" AND pr.competence = $%d", argIdx)
		args = append(args, month.Start())
		argIdx++
	}
	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND pr.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	// Count query
	var totalCount int64
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll sheets: %w", err)
	}

	// Pagination
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`SELECT %s %s
		ORDER BY pr.competence DESC, e.full_name ASC
		LIMIT $%d OFFSET $%d
	`, payrollColumns, baseQuery, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll sheets: %w", err)
	}
	defer rows.Close()

	var records []payroll.MonthlyPayroll
	for rows.Next() {
		rec, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll sheet: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, totalCount, nil
}

func (r *payrollRepository) ListByEmployeeRange(ctx context.Context, employeeID string, from, to competence.YearMonth, companyID string) ([]payroll.MonthlyPayroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + payrollFrom + `
		WHERE pr.employee_id = $1 AND pr.company_id = $2
		  AND pr.competence >= $3 AND pr.competence <= $4
		ORDER BY pr.competence ASC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, from.Start(), to.Start())
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll history: %w", err)
	}
	defer rows.Close()

	var records []payroll.MonthlyPayroll
	for rows.Next() {
		rec, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll sheet: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}
