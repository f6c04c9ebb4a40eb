package bonus

import (
	"time"

	"github.com/oficina-erp/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// InstallmentType selects which payment of the 13th salary is computed.
type InstallmentType string

const (
	InstallmentFirst  InstallmentType = "first"
	InstallmentSecond InstallmentType = "second"
	InstallmentSingle InstallmentType = "single"
)

func (i InstallmentType) IsValid() bool {
	return i == InstallmentFirst || i == InstallmentSecond || i == InstallmentSingle
}

// Withheld reports whether taxes are withheld on the installment.
func (i InstallmentType) Withheld() bool {
	return i == InstallmentSecond || i == InstallmentSingle
}

type Status string

const (
	StatusGenerated Status = "generated"
	StatusEdited    Status = "edited"
)

// MaxTwelfths is the number of twelfths ("avos") in a full year.
const MaxTwelfths = 12

// Record is the 13th salary sheet ("folha 13") of one employee, year and installment.
type Record struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	Year        int
	Installment InstallmentType

	AccruedTwelfths       int
	EditedTwelfths        *int
	TwelfthsLostToAbsence int
	TwelfthsLostToLeave   int

	BaseSalary        decimal.Decimal
	AverageOvertime   decimal.Decimal
	AverageCommission decimal.Decimal
	AverageOther      decimal.Decimal
	GrossValue        decimal.Decimal

	SocialSecurityBase    decimal.Decimal
	SocialSecurityValue   decimal.Decimal
	SocialSecurityBracket string

	IncomeTaxBase               decimal.Decimal
	IncomeTaxDependents         int
	IncomeTaxDependentDeduction decimal.Decimal
	IncomeTaxValue              decimal.Decimal
	IncomeTaxBracket            string

	OtherDeductions       decimal.Decimal
	FirstInstallmentValue decimal.Decimal
	PreFloorNetValue      decimal.Decimal
	NetValue              decimal.Decimal

	Status    Status
	TableYear int
	Warnings  validator.Warnings
	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
}

// EffectiveTwelfths is the edited value when present, else the accrued one.
func (r Record) EffectiveTwelfths() int {
	if r.EditedTwelfths != nil {
		return *r.EditedTwelfths
	}
	return r.AccruedTwelfths
}

// BaseTotal is the monthly base the twelfths are applied to.
func (r Record) BaseTotal() decimal.Decimal {
	return r.BaseSalary.Add(r.AverageOvertime).Add(r.AverageCommission).Add(r.AverageOther)
}

// Settings are the configurable parameters of the accrual.
type Settings struct {
	AverageWindowMonths int
	MinDaysPerTwelfth   int
}

func DefaultSettings() Settings {
	return Settings{
		AverageWindowMonths: 12,
		MinDaysPerTwelfth:   15,
	}
}

// WithDefaults replaces non-positive values with the defaults.
func (s Settings) WithDefaults() Settings {
	def := DefaultSettings()
	if s.AverageWindowMonths <= 0 {
		s.AverageWindowMonths = def.AverageWindowMonths
	}
	if s.MinDaysPerTwelfth <= 0 {
		s.MinDaysPerTwelfth = def.MinDaysPerTwelfth
	}
	return s
}

const (
	WarningNegativeNet     = "negative_net"
	WarningTwelfthsReduced = "twelfths_reduced"
)
