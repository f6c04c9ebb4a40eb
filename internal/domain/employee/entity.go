package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID                    string
	CompanyID             string
	PositionID            string
	FullName              string
	HireDate              time.Time
	TerminationDate       *time.Time
	FullSalary            decimal.Decimal
	WeekdayOvertimeFactor decimal.Decimal
	WeekendOvertimeFactor decimal.Decimal
	AbsenceDeductionRule  AbsenceDeductionRule
	Dependents            int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// AbsenceDeductionRule selects how absences are charged against the salary.
type AbsenceDeductionRule string

const (
	AbsenceDeductionFullDay AbsenceDeductionRule = "full_day"
	AbsenceDeductionHourly  AbsenceDeductionRule = "hourly"
)

func (r AbsenceDeductionRule) IsValid() bool {
	return r == AbsenceDeductionFullDay || r == AbsenceDeductionHourly
}
