package bonus

import "context"

// BonusRepository defines data access methods for annual bonus records.
// All methods include companyID parameter to prevent cross-company data access attacks.
type BonusRepository interface {
	// Upsert stores the record, replacing the one with the same employee, year and installment.
	Upsert(ctx context.Context, record Record) (Record, error)
	GetByID(ctx context.Context, id string, companyID string) (Record, error)
	GetByKey(ctx context.Context, employeeID string, year int, installment InstallmentType, companyID string) (Record, error)
	List(ctx context.Context, companyID string, filter BonusFilter) ([]Record, int64, error)
}
