package advance

import (
	"context"

	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
)

type AdvanceRepository interface {
	ListByEmployeeCompetence(ctx context.Context, employeeID string, month competence.YearMonth, companyID string) ([]Advance, error)
}
