package payroll

import "context"

type PayrollService interface {
	Preview(ctx context.Context, req BuildPayrollRequest) (PayrollResponse, error)
	Save(ctx context.Context, req BuildPayrollRequest) (PayrollResponse, error)
	Get(ctx context.Context, id string) (PayrollResponse, error)
	List(ctx context.Context, filter PayrollFilter) (ListPayrollResponse, error)
	Recalculate(ctx context.Context, id string) (PayrollResponse, error)
	PreviewCommission(ctx context.Context, employeeID string, competence string) (CommissionResponse, error)

	// GetRecord returns the stored sheet for document rendering.
	GetRecord(ctx context.Context, id string) (MonthlyPayroll, error)
}
