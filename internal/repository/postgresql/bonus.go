package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/oficina-erp/payroll-engine/internal/domain/bonus"
	"github.com/oficina-erp/payroll-engine/internal/pkg/database"
)

type bonusRepository struct {
	db *database.DB
}

func NewBonusRepository(db *database.DB) bonus.BonusRepository {
	return &bonusRepository{db: db}
}

const bonusColumns = `
	b.id, b.company_id, b.employee_id, b.year, b.installment,
	b.accrued_twelfths, b.edited_twelfths, b.twelfths_lost_to_absence, b.twelfths_lost_to_leave,
	b.base_salary, b.average_overtime, b.average_commission, b.average_other, b.gross_value,
	b.social_security_base, b.social_security_value, b.social_security_bracket,
	b.income_tax_base, b.income_tax_dependents, b.income_tax_dependent_deduction, b.income_tax_value, b.income_tax_bracket,
	b.other_deductions, b.first_installment_value, b.pre_floor_net_value, b.net_value,
	b.status, b.table_year, b.warnings, b.created_at, b.updated_at,
	e.full_name
`

const bonusFrom = `
	FROM annual_bonus_records b
	JOIN employees e ON b.employee_id = e.id
`

func scanBonus(row pgx.Row) (bonus.Record, error) {
	var (
		rec           bonus.Record
		installment   string
		status        string
		warningsBytes []byte
	)
	err := row.Scan(
		&rec.ID, &rec.CompanyID, &rec.EmployeeID, &rec.Year, &installment,
		&rec.AccruedTwelfths, &rec.EditedTwelfths, &rec.TwelfthsLostToAbsence, &rec.TwelfthsLostToLeave,
		&rec.BaseSalary, &rec.AverageOvertime, &rec.AverageCommission, &rec.AverageOther, &rec.GrossValue,
		&rec.SocialSecurityBase, &rec.SocialSecurityValue, &rec.SocialSecurityBracket,
		&rec.IncomeTaxBase, &rec.IncomeTaxDependents, &rec.IncomeTaxDependentDeduction, &rec.IncomeTaxValue, &rec.IncomeTaxBracket,
		&rec.OtherDeductions, &rec.FirstInstallmentValue, &rec.PreFloorNetValue, &rec.NetValue,
		&status, &rec.TableYear, &warningsBytes, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName,
	)
	if err != nil {
		return bonus.Record{}, err
	}
	rec.Installment = bonus.InstallmentType(installment)
	rec.Status = bonus.Status(status)
	_ = json.Unmarshal(warningsBytes, &rec.Warnings)
	return rec, nil
}

// Upsert inserts the record or replaces the one with the same employee,
// year and installment.
func (r *bonusRepository) Upsert(ctx context.Context, record bonus.Record) (bonus.Record, error) {
	q := GetQuerier(ctx, r.db)

	warningsJSON, _ := json.Marshal(record.Warnings)

	query := `
		WITH upserted AS (
			INSERT INTO annual_bonus_records (
				id, company_id, employee_id, year, installment,
				accrued_twelfths, edited_twelfths, twelfths_lost_to_absence, twelfths_lost_to_leave,
				base_salary, average_overtime, average_commission, average_other, gross_value,
				social_security_base, social_security_value, social_security_bracket,
				income_tax_base, income_tax_dependents, income_tax_dependent_deduction, income_tax_value, income_tax_bracket,
				other_deductions, first_installment_value, pre_floor_net_value, net_value,
				status, table_year, warnings, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
				$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, NOW(), NOW()
			)
			ON CONFLICT (company_id, employee_id, year, installment) DO UPDATE SET
				accrued_twelfths = EXCLUDED.accrued_twelfths,
				edited_twelfths = EXCLUDED.edited_twelfths,
				twelfths_lost_to_absence = EXCLUDED.twelfths_lost_to_absence,
				twelfths_lost_to_leave = EXCLUDED.twelfths_lost_to_leave,
				base_salary = EXCLUDED.base_salary,
				average_overtime = EXCLUDED.average_overtime,
				average_commission = EXCLUDED.average_commission,
				average_other = EXCLUDED.average_other,
				gross_value = EXCLUDED.gross_value,
				social_security_base = EXCLUDED.social_security_base,
				social_security_value = EXCLUDED.social_security_value,
				social_security_bracket = EXCLUDED.social_security_bracket,
				income_tax_base = EXCLUDED.income_tax_base,
				income_tax_dependents = EXCLUDED.income_tax_dependents,
				income_tax_dependent_deduction = EXCLUDED.income_tax_dependent_deduction,
				income_tax_value = EXCLUDED.income_tax_value,
				income_tax_bracket = EXCLUDED.income_tax_bracket,
				other_deductions = EXCLUDED.other_deductions,
				first_installment_value = EXCLUDED.first_installment_value,
				pre_floor_net_value = EXCLUDED.pre_floor_net_value,
				net_value = EXCLUDED.net_value,
				status = EXCLUDED.status,
				table_year = EXCLUDED.table_year,
				warnings = EXCLUDED.warnings,
				updated_at = NOW()
			RETURNING *
		)
		SELECT ` + bonusColumns + `
		FROM upserted b
		JOIN employees e ON b.employee_id = e.id
	`

	saved, err := scanBonus(q.QueryRow(ctx, query,
		record.ID, record.CompanyID, record.EmployeeID, record.Year, string(record.Installment),
		record.AccruedTwelfths, record.EditedTwelfths, record.TwelfthsLostToAbsence, record.TwelfthsLostToLeave,
		record.BaseSalary, record.AverageOvertime, record.AverageCommission, record.AverageOther, record.GrossValue,
		record.SocialSecurityBase, record.SocialSecurityValue, record.SocialSecurityBracket,
		record.IncomeTaxBase, record.IncomeTaxDependents, record.IncomeTaxDependentDeduction, record.IncomeTaxValue, record.IncomeTaxBracket,
		record.OtherDeductions, record.FirstInstallmentValue, record.PreFloorNetValue, record.NetValue,
		string(record.Status), record.TableYear, warningsJSON,
	))
	if err != nil {
		return bonus.Record{}, fmt.Errorf("failed to upsert annual bonus record: %w", err)
	}

	return saved, nil
}

func (r *bonusRepository) GetByID(ctx context.Context, id string, companyID string) (bonus.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + bonusColumns + bonusFrom + `
		WHERE b.id = $1 AND b.company_id = $2
	`

	rec, err := scanBonus(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return bonus.Record{}, bonus.ErrBonusRecordNotFound
		}
		return bonus.Record{}, fmt.Errorf("failed to get annual bonus record: %w", err)
	}

	return rec, nil
}

func (r *bonusRepository) GetByKey(ctx context.Context, employeeID string, year int, installment bonus.InstallmentType, companyID string) (bonus.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + bonusColumns + bonusFrom + `
		WHERE b.employee_id = $1 AND b.year = $2 AND b.installment = $3 AND b.company_id = $4
	`

	rec, err := scanBonus(q.QueryRow(ctx, query, employeeID, year, string(installment), companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return bonus.Record{}, bonus.ErrBonusRecordNotFound
		}
		return bonus.Record{}, fmt.Errorf("failed to get annual bonus record: %w", err)
	}

	return rec, nil
}

func (r *bonusRepository) List(ctx context.Context, companyID string, filter bonus.BonusFilter) ([]bonus.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := bonusFrom + ` WHERE b.company_id = $1`
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Year != nil {
		baseQuery += fmt.Sprintf(" AND b.year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND b.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Installment != nil {
		baseQuery += fmt.Sprintf(" AND b.installment = $%d", argIdx)
		args = append(args, *filter.Installment)
		argIdx++
	}

	// Count query
	var totalCount int64
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count annual bonus records: %w", err)
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
		ORDER BY b.year DESC, e.full_name ASC, b.installment ASC
		LIMIT $%d OFFSET $%d
	`, bonusColumns, baseQuery, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list annual bonus records: %w", err)
	}
	defer rows.Close()

	var records []bonus.Record
	for rows.Next() {
		rec, err := scanBonus(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan annual bonus record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, totalCount, nil
}
