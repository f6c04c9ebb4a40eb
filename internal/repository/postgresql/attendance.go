package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oficina-erp/payroll-engine/internal/domain/attendance"
	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
	"github.com/oficina-erp/payroll-engine/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, company_id, employee_id, reference_month,
	weekday_overtime_hours, weekend_overtime_hours,
	absence_days, absence_hours, leave_days,
	created_at, updated_at
`

func (a *attendanceRepository) query(ctx context.Context, where string, args ...any) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE ` + where + `
		ORDER BY reference_month ASC, created_at ASC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (attendance.Record, error) {
		var (
			rec   attendance.Record
			month time.Time
		)
		err := row.Scan(
			&rec.ID, &rec.CompanyID, &rec.EmployeeID, &month,
			&rec.WeekdayOvertimeHours, &rec.WeekendOvertimeHours,
			&rec.AbsenceDays, &rec.AbsenceHours, &rec.LeaveDays,
			&rec.CreatedAt, &rec.UpdatedAt,
		)
		rec.ReferenceMonth = competence.Of(month)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan attendance record: %w", err)
	}

	return records, nil
}

// ListByEmployeeMonth implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeMonth(ctx context.Context, employeeID string, month competence.YearMonth, companyID string) ([]attendance.Record, error) {
	return a.query(ctx, "employee_id = $1 AND company_id = $2 AND reference_month = $3",
		employeeID, companyID, month.Start())
}

// ListByEmployeeRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeRange(ctx context.Context, employeeID string, from, to competence.YearMonth, companyID string) ([]attendance.Record, error) {
	return a.query(ctx, "employee_id = $1 AND company_id = $2 AND reference_month >= $3 AND reference_month <= $4",
		employeeID, companyID, from.Start(), to.Start())
}
