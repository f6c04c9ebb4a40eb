package advance

import (
	"time"

	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
	"github.com/shopspring/decimal"
)

// Advance is a salary advance ("vale") requested against a competence.
type Advance struct {
	ID         string
	CompanyID  string
	EmployeeID string
	Competence competence.YearMonth
	Amount     decimal.Decimal
	Status     Status
	CreatedAt  time.Time
}

type Status string

const (
	StatusPaid     Status = "paid"
	StatusApproved Status = "approved"
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
)

// Deductible reports whether the advance is discounted from payroll.
func (s Status) Deductible() bool {
	return s == StatusPaid || s == StatusApproved
}

// SumDeductible totals the paid and approved advances.
func SumDeductible(advances []Advance) decimal.Decimal {
	total := decimal.Zero
	for _, a := range advances {
		if a.Status.Deductible() {
			total = total.Add(a.Amount)
		}
	}
	return total
}
