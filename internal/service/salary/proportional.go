package salary

import (
	"time"

	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
	"github.com/oficina-erp/payroll-engine/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// DaysInMonth returns the number of calendar days in the competence (28 to 31).
func DaysInMonth(ym competence.YearMonth) int {
	return ym.Days()
}

// ComputeProportionalSalary returns the salary for workedDays of the month.
// workedDays <= 0 means the proportional rule does not apply and the full
// salary is due; so does a value covering the whole month.
func ComputeProportionalSalary(fullSalary decimal.Decimal, ym competence.YearMonth, workedDays int) decimal.Decimal {
	days := DaysInMonth(ym)
	if workedDays <= 0 || workedDays >= days {
		return fullSalary
	}
	return money.Round2(fullSalary.Mul(decimal.NewFromInt(int64(workedDays))).Div(decimal.NewFromInt(int64(days))))
}

// ComputeWorkedDaysFromStartDate counts the days from start to the end of
// the month, inclusive. It returns 0 when start is outside the competence.
func ComputeWorkedDaysFromStartDate(start time.Time, ym competence.YearMonth) int {
	if start.IsZero() || !ym.Contains(start) {
		return 0
	}
	return DaysInMonth(ym) - start.Day() + 1
}
