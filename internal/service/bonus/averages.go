package bonus

import (
	"github.com/oficina-erp/payroll-engine/internal/domain/employee"
	"github.com/oficina-erp/payroll-engine/internal/domain/payroll"
	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
	"github.com/oficina-erp/payroll-engine/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// Averages are the variable components folded into the 13th salary base.
type Averages struct {
	Overtime   decimal.Decimal
	Commission decimal.Decimal
	Other      decimal.Decimal
	Months     int
}

// AverageWindow returns the trailing window of months ending at end.
func AverageWindow(end competence.YearMonth, months int) (from, to competence.YearMonth) {
	if months < 1 {
		months = 1
	}
	return end.AddMonths(-(months - 1)), end
}

// EmploymentWindow is the trailing window ending at December of year (or the
// termination month), starting no earlier than the hire month. ok is false
// when the employee was not employed at any point of the window.
func EmploymentWindow(emp employee.Employee, year, months int) (from, to competence.YearMonth, ok bool) {
	from, to = AverageWindow(windowEnd(emp, year), months)
	if !emp.HireDate.IsZero() {
		hired := competence.Of(emp.HireDate)
		if to.Before(hired) {
			return from, to, false
		}
		if from.Before(hired) {
			from = hired
		}
	}
	return from, to, true
}

// ComputeAverages averages overtime, commissions, bonus and other credits
// over [from, to]. Every month of the window counts in the divisor; a month
// with no sheet contributes zero.
func ComputeAverages(history []payroll.MonthlyPayroll, from, to competence.YearMonth) Averages {
	overtime, commission, other := decimal.Zero, decimal.Zero, decimal.Zero

	months := competence.MonthsBetween(from, to)
	if months < 1 {
		return Averages{Overtime: decimal.Zero, Commission: decimal.Zero, Other: decimal.Zero}
	}

	for _, p := range history {
		if p.Competence.Before(from) || to.Before(p.Competence) {
			continue
		}
		overtime = overtime.Add(p.Entries.OvertimeValue)
		commission = commission.Add(p.Entries.Commissions)
		other = other.Add(p.Entries.Bonus).Add(p.Entries.OtherCredits)
	}

	n := decimal.NewFromInt(int64(months))
	return Averages{
		Overtime:   money.Round2(overtime.Div(n)),
		Commission: money.Round2(commission.Div(n)),
		Other:      money.Round2(other.Div(n)),
		Months:     months,
	}
}
