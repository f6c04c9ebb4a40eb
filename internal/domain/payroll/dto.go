package payroll

import (
	"time"

	"github.com/oficina-erp/payroll-engine/internal/domain/employee"
	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
	"github.com/oficina-erp/payroll-engine/internal/pkg/money"
	"github.com/oficina-erp/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== BUILD DTOs ==========

type BuildPayrollRequest struct {
	EmployeeID      string  `json:"employee_id"`
	Competence      string  `json:"competence"` // YYYY-MM
	WorkedDays      int     `json:"worked_days"`
	PeriodStartDate *string `json:"period_start_date,omitempty"` // YYYY-MM-DD
	Bonus           float64 `json:"bonus"`
	OtherCredits    float64 `json:"other_credits"`
	OtherDebits     float64 `json:"other_debits"`
}

// Validate rejects missing identifiers with sentinel errors and reports
// out-of-range fields as validation errors.
func (r *BuildPayrollRequest) Validate() error {
	if validator.IsEmpty(r.EmployeeID) {
		return employee.ErrEmployeeRequired
	}
	if validator.IsEmpty(r.Competence) {
		return ErrCompetenceRequired
	}

	var errs validator.ValidationErrors

	if _, err := competence.Parse(r.Competence); err != nil {
		errs = append(errs, validator.ValidationError{Field: "competence", Message: "must be in YYYY-MM format"})
	}
	if !validator.IsInRange(r.WorkedDays, 0, 31) {
		errs = append(errs, validator.ValidationError{Field: "worked_days", Message: "must be between 0 and 31"})
	}
	if r.PeriodStartDate != nil && *r.PeriodStartDate != "" {
		if _, ok := validator.IsValidDate(*r.PeriodStartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "period_start_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if money.Coerce(r.Bonus).IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "bonus", Message: "must be non-negative"})
	}
	if money.Coerce(r.OtherCredits).IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "other_credits", Message: "must be non-negative"})
	}
	if money.Coerce(r.OtherDebits).IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "other_debits", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToInputs converts a validated request, coercing numbers at the boundary.
func (r *BuildPayrollRequest) ToInputs() (competence.YearMonth, Inputs) {
	month, _ := competence.Parse(r.Competence)

	in := Inputs{
		WorkedDays:   r.WorkedDays,
		Bonus:        money.Round2(money.Coerce(r.Bonus)),
		OtherCredits: money.Round2(money.Coerce(r.OtherCredits)),
		OtherDebits:  money.Round2(money.Coerce(r.OtherDebits)),
	}
	if r.PeriodStartDate != nil {
		if date, ok := validator.IsValidDate(*r.PeriodStartDate); ok {
			in.PeriodStartDate = &date
		}
	}
	return month, in
}

// ========== RESPONSE DTOs ==========

type PayrollResponse struct {
	ID                  string               `json:"id,omitempty"`
	EmployeeID          string               `json:"employee_id"`
	EmployeeName        string               `json:"employee_name,omitempty"`
	Competence          competence.YearMonth `json:"competence"`
	WorkedDays          int                  `json:"worked_days"`
	PeriodStartDate     *string              `json:"period_start_date,omitempty"`
	EffectiveWorkedDays int                  `json:"effective_worked_days"`

	BaseSalary    decimal.Decimal `json:"base_salary"`
	Commissions   decimal.Decimal `json:"commissions"`
	OvertimeValue decimal.Decimal `json:"overtime_value"`
	Bonus         decimal.Decimal `json:"bonus"`
	OtherCredits  decimal.Decimal `json:"other_credits"`
	TotalEntries  decimal.Decimal `json:"total_entries"`

	Advances         decimal.Decimal `json:"advances"`
	AbsenceDeduction decimal.Decimal `json:"absence_deduction"`
	EmployerCharges  decimal.Decimal `json:"employer_charges"`
	OtherDebits      decimal.Decimal `json:"other_debits"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`

	NetSalary decimal.Decimal    `json:"net_salary"`
	Warnings  validator.Warnings `json:"warnings,omitempty"`
	UpdatedAt *string            `json:"updated_at,omitempty"`
}

func ToResponse(p MonthlyPayroll) PayrollResponse {
	resp := PayrollResponse{
		ID:                  p.ID,
		EmployeeID:          p.EmployeeID,
		Competence:          p.Competence,
		WorkedDays:          p.Inputs.WorkedDays,
		EffectiveWorkedDays: p.EffectiveWorkedDays,
		BaseSalary:          p.Entries.BaseSalary,
		Commissions:         p.Entries.Commissions,
		OvertimeValue:       p.Entries.OvertimeValue,
		Bonus:               p.Entries.Bonus,
		OtherCredits:        p.Entries.OtherCredits,
		TotalEntries:        p.Entries.Total(),
		Advances:            p.Deductions.Advances,
		AbsenceDeduction:    p.Deductions.AbsenceDeduction,
		EmployerCharges:     p.Deductions.EmployerCharges,
		OtherDebits:         p.Deductions.OtherDebits,
		TotalDeductions:     p.Deductions.Total(),
		NetSalary:           p.NetSalary,
		Warnings:            p.Warnings,
	}
	if p.EmployeeName != nil {
		resp.EmployeeName = *p.EmployeeName
	}
	if p.Inputs.PeriodStartDate != nil {
		s := p.Inputs.PeriodStartDate.Format("2006-01-02")
		resp.PeriodStartDate = &s
	}
	if !p.UpdatedAt.IsZero() {
		s := p.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &s
	}
	return resp
}

type PayrollFilter struct {
	Competence *string `json:"competence,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Competence != nil {
		if _, err := competence.Parse(*f.Competence); err != nil {
			errs = append(errs, validator.ValidationError{Field: "competence", Message: "must be in YYYY-MM format"})
		}
	}
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "must be non-negative"})
	}
	if f.Limit < 0 || f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "must be between 0 and 100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Normalize applies paging defaults.
func (f *PayrollFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
}

type ListPayrollResponse struct {
	Data       []PayrollResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

type CommissionResponse struct {
	EmployeeID   string               `json:"employee_id"`
	Competence   competence.YearMonth `json:"competence"`
	Enabled      bool                 `json:"enabled"`
	SalesBase    decimal.Decimal      `json:"sales_base"`
	Threshold    decimal.Decimal      `json:"threshold"`
	ThresholdMet bool                 `json:"threshold_met"`
	OrderCount   int                  `json:"order_count"`
	Value        decimal.Decimal      `json:"value"`
}
