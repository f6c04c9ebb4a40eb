package payroll

import (
	"context"

	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
)

// PayrollRepository defines data access methods for payroll.
// All methods include companyID parameter to prevent cross-company data access attacks.
type PayrollRepository interface {
	// Upsert stores the sheet, replacing the one of the same employee and competence.
	Upsert(ctx context.Context, record MonthlyPayroll) (MonthlyPayroll, error)
	GetByID(ctx context.Context, id string, companyID string) (MonthlyPayroll, error)
	GetByEmployeeCompetence(ctx context.Context, employeeID string, month competence.YearMonth, companyID string) (MonthlyPayroll, error)
	List(ctx context.Context, companyID string, filter PayrollFilter) ([]MonthlyPayroll, int64, error)

	// ListByEmployeeRange returns sheets with from <= competence <= to, oldest first.
	ListByEmployeeRange(ctx context.Context, employeeID string, from, to competence.YearMonth, companyID string) ([]MonthlyPayroll, error)
}
