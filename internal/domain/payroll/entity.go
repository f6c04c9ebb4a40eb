package payroll

import (
	"time"

	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
	"github.com/oficina-erp/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Inputs are the values typed by the operator. They are stored with the
// sheet so it can be rebuilt later.
type Inputs struct {
	WorkedDays      int
	PeriodStartDate *time.Time
	Bonus           decimal.Decimal
	OtherCredits    decimal.Decimal
	OtherDebits     decimal.Decimal
}

type Entries struct {
	BaseSalary    decimal.Decimal
	Commissions   decimal.Decimal
	OvertimeValue decimal.Decimal
	Bonus         decimal.Decimal
	OtherCredits  decimal.Decimal
}

func (e Entries) Total() decimal.Decimal {
	return e.BaseSalary.Add(e.Commissions).Add(e.OvertimeValue).Add(e.Bonus).Add(e.OtherCredits)
}

type Deductions struct {
	Advances         decimal.Decimal
	AbsenceDeduction decimal.Decimal
	EmployerCharges  decimal.Decimal
	OtherDebits      decimal.Decimal
}

func (d Deductions) Total() decimal.Decimal {
	return d.Advances.Add(d.AbsenceDeduction).Add(d.EmployerCharges).Add(d.OtherDebits)
}

// MonthlyPayroll is the payroll sheet ("folha de pagamento") of one employee
// for one competence.
type MonthlyPayroll struct {
	ID                  string
	CompanyID           string
	EmployeeID          string
	Competence          competence.YearMonth
	Inputs              Inputs
	EffectiveWorkedDays int
	Entries             Entries
	Deductions          Deductions
	NetSalary           decimal.Decimal
	Warnings            validator.Warnings
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Joined fields
	EmployeeName *string
}

// Consistent reports whether the stored net matches entries minus deductions.
func (p MonthlyPayroll) Consistent() bool {
	return p.NetSalary.Equal(p.Entries.Total().Sub(p.Deductions.Total()))
}

// Policy holds the company-independent constants of the payroll formulas.
type Policy struct {
	OvertimeDivisor        decimal.Decimal
	EmployerChargeRate     decimal.Decimal
	WeekdayOvertimeFactor  decimal.Decimal
	WeekendOvertimeFactor  decimal.Decimal
	RequireFinalizedOrders bool
}

func DefaultPolicy() Policy {
	return Policy{
		OvertimeDivisor:        decimal.NewFromInt(220),
		EmployerChargeRate:     decimal.RequireFromString("0.19"),
		WeekdayOvertimeFactor:  decimal.RequireFromString("1.5"),
		WeekendOvertimeFactor:  decimal.NewFromInt(2),
		RequireFinalizedOrders: true,
	}
}

const (
	WarningNegativeNet               = "negative_net"
	WarningAttendanceMerged          = "attendance_merged"
	WarningCommissionThresholdNotMet = "commission_threshold_not_met"
	WarningEmployeeNotStarted        = "employee_not_started"
)
