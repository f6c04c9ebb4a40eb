package attendance

import (
	"context"

	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
)

// AttendanceRepository reads monthly time-sheet summaries.
// All methods include companyID parameter to prevent cross-company data access attacks.
type AttendanceRepository interface {
	// ListByEmployeeMonth may return more than one record; callers merge them.
	ListByEmployeeMonth(ctx context.Context, employeeID string, month competence.YearMonth, companyID string) ([]Record, error)

	// ListByEmployeeRange returns records with from <= reference_month <= to.
	ListByEmployeeRange(ctx context.Context, employeeID string, from, to competence.YearMonth, companyID string) ([]Record, error)
}
