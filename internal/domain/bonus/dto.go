package bonus

import (
	"math"
	"time"

	"github.com/oficina-erp/payroll-engine/internal/domain/employee"
	"github.com/oficina-erp/payroll-engine/internal/pkg/money"
	"github.com/oficina-erp/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== CALCULATION DTOs ==========

type CalculateBonusRequest struct {
	EmployeeID      string   `json:"employee_id"`
	Year            int      `json:"year"`
	Installment     string   `json:"installment"` // first, second or single
	EditedTwelfths  *float64 `json:"edited_twelfths,omitempty"`
	OtherDeductions float64  `json:"other_deductions"`
}

// Validate rejects missing identifiers with sentinel errors and reports
// malformed fields as validation errors. The twelfths range is checked by
// the calculator so that it is enforced for every caller.
func (r *CalculateBonusRequest) Validate() error {
	if validator.IsEmpty(r.EmployeeID) {
		return employee.ErrEmployeeRequired
	}
	if r.Year <= 0 {
		return ErrYearRequired
	}

	var errs validator.ValidationErrors

	if !InstallmentType(r.Installment).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "installment", Message: "must be 'first', 'second' or 'single'"})
	}
	if _, ok := twelfthsFromFloat(r.EditedTwelfths); !ok {
		errs = append(errs, validator.ValidationError{Field: "edited_twelfths", Message: "must be a whole number"})
	}
	if money.Coerce(r.OtherDeductions).IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "other_deductions", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Twelfths returns the edited twelfths as an integer, or nil when not set.
func (r *CalculateBonusRequest) Twelfths() *int {
	v, _ := twelfthsFromFloat(r.EditedTwelfths)
	return v
}

func twelfthsFromFloat(f *float64) (*int, bool) {
	if f == nil {
		return nil, true
	}
	if math.IsNaN(*f) || math.IsInf(*f, 0) || *f != math.Trunc(*f) {
		return nil, false
	}
	v := int(*f)
	return &v, true
}

type UpdateTwelfthsRequest struct {
	ID             string   `json:"-"`
	EditedTwelfths *float64 `json:"edited_twelfths"` // null clears the override
}

func (r *UpdateTwelfthsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if _, ok := twelfthsFromFloat(r.EditedTwelfths); !ok {
		errs = append(errs, validator.ValidationError{Field: "edited_twelfths", Message: "must be a whole number"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *UpdateTwelfthsRequest) Twelfths() *int {
	v, _ := twelfthsFromFloat(r.EditedTwelfths)
	return v
}

// ========== RESPONSE DTOs ==========

type BonusResponse struct {
	ID           string `json:"id,omitempty"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Year         int    `json:"year"`
	Installment  string `json:"installment"`
	Status       string `json:"status"`

	AccruedTwelfths       int  `json:"accrued_twelfths"`
	EditedTwelfths        *int `json:"edited_twelfths"`
	EffectiveTwelfths     int  `json:"effective_twelfths"`
	TwelfthsLostToAbsence int  `json:"twelfths_lost_to_absence"`
	TwelfthsLostToLeave   int  `json:"twelfths_lost_to_leave"`

	BaseSalary        decimal.Decimal `json:"base_salary"`
	AverageOvertime   decimal.Decimal `json:"average_overtime"`
	AverageCommission decimal.Decimal `json:"average_commission"`
	AverageOther      decimal.Decimal `json:"average_other"`
	GrossValue        decimal.Decimal `json:"gross_value"`

	SocialSecurityBase    decimal.Decimal `json:"social_security_base"`
	SocialSecurityValue   decimal.Decimal `json:"social_security_value"`
	SocialSecurityBracket string          `json:"social_security_bracket,omitempty"`

	IncomeTaxBase               decimal.Decimal `json:"income_tax_base"`
	IncomeTaxDependents         int             `json:"income_tax_dependents"`
	IncomeTaxDependentDeduction decimal.Decimal `json:"income_tax_dependent_deduction"`
	IncomeTaxValue              decimal.Decimal `json:"income_tax_value"`
	IncomeTaxBracket            string          `json:"income_tax_bracket,omitempty"`

	OtherDeductions       decimal.Decimal `json:"other_deductions"`
	FirstInstallmentValue decimal.Decimal `json:"first_installment_value"`
	NetValue              decimal.Decimal `json:"net_value"`
	TableYear             int             `json:"table_year,omitempty"`

	Warnings  validator.Warnings `json:"warnings,omitempty"`
	UpdatedAt *string            `json:"updated_at,omitempty"`
}

func ToResponse(r Record) BonusResponse {
	resp := BonusResponse{
		ID:                          r.ID,
		EmployeeID:                  r.EmployeeID,
		Year:                        r.Year,
		Installment:                 string(r.Installment),
		Status:                      string(r.Status),
		AccruedTwelfths:             r.AccruedTwelfths,
		EditedTwelfths:              r.EditedTwelfths,
		EffectiveTwelfths:           r.EffectiveTwelfths(),
		TwelfthsLostToAbsence:       r.TwelfthsLostToAbsence,
		TwelfthsLostToLeave:         r.TwelfthsLostToLeave,
		BaseSalary:                  r.BaseSalary,
		AverageOvertime:             r.AverageOvertime,
		AverageCommission:           r.AverageCommission,
		AverageOther:                r.AverageOther,
		GrossValue:                  r.GrossValue,
		SocialSecurityBase:          r.SocialSecurityBase,
		SocialSecurityValue:         r.SocialSecurityValue,
		SocialSecurityBracket:       r.SocialSecurityBracket,
		IncomeTaxBase:               r.IncomeTaxBase,
		IncomeTaxDependents:         r.IncomeTaxDependents,
		IncomeTaxDependentDeduction: r.IncomeTaxDependentDeduction,
		IncomeTaxValue:              r.IncomeTaxValue,
		IncomeTaxBracket:            r.IncomeTaxBracket,
		OtherDeductions:             r.OtherDeductions,
		FirstInstallmentValue:       r.FirstInstallmentValue,
		NetValue:                    r.NetValue,
		TableYear:                   r.TableYear,
		Warnings:                    r.Warnings,
	}
	if r.EmployeeName != nil {
		resp.EmployeeName = *r.EmployeeName
	}
	if !r.UpdatedAt.IsZero() {
		s := r.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &s
	}
	return resp
}

type BonusFilter struct {
	Year        *int    `json:"year,omitempty"`
	EmployeeID  *string `json:"employee_id,omitempty"`
	Installment *string `json:"installment,omitempty"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
}

func (f *BonusFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Installment != nil && !InstallmentType(*f.Installment).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "installment", Message: "must be 'first', 'second' or 'single'"})
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
func (f *BonusFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
}

type ListBonusResponse struct {
	Data       []BonusResponse `json:"data"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
}
