package tax

import (
	"github.com/oficina-erp/payroll-engine/internal/pkg/money"
	"github.com/oficina-erp/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type BracketResponse struct {
	UpTo      *decimal.Decimal `json:"up_to"`
	Rate      decimal.Decimal  `json:"rate"`
	Deduction decimal.Decimal  `json:"deduction"`
	Label     string           `json:"label"`
}

type TableResponse struct {
	Year                  int               `json:"year"`
	Kind                  string            `json:"kind"`
	Brackets              []BracketResponse `json:"brackets"`
	Ceiling               *decimal.Decimal  `json:"ceiling,omitempty"`
	PerDependentAllowance decimal.Decimal   `json:"per_dependent_allowance"`
	Source                string            `json:"source"`
}

type TablePairResponse struct {
	RequestedYear  int                `json:"requested_year"`
	Year           int                `json:"year"`
	SocialSecurity TableResponse      `json:"social_security"`
	IncomeTax      TableResponse      `json:"income_tax"`
	Warnings       validator.Warnings `json:"warnings,omitempty"`
}

func ToTableResponse(t Table) TableResponse {
	brackets := make([]BracketResponse, 0, len(t.Brackets))
	for _, b := range t.Brackets {
		brackets = append(brackets, BracketResponse{
			UpTo:      b.UpTo,
			Rate:      b.Rate,
			Deduction: b.Deduction,
			Label:     b.Label,
		})
	}
	return TableResponse{
		Year:                  t.Year,
		Kind:                  string(t.Kind),
		Brackets:              brackets,
		Ceiling:               t.Ceiling,
		PerDependentAllowance: t.PerDependentAllowance,
		Source:                t.Source,
	}
}

type WithholdingRequest struct {
	Year       int     `json:"year"`
	Kind       string  `json:"kind"`
	Base       float64 `json:"base"`
	Dependents int     `json:"dependents"`
}

func (r *WithholdingRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Year <= 0 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year is required"})
	}
	if !Kind(r.Kind).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "kind", Message: "must be 'social_security' or 'income_tax'"})
	}
	if r.Dependents < 0 {
		errs = append(errs, validator.ValidationError{Field: "dependents", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BaseAmount returns the coerced base.
func (r *WithholdingRequest) BaseAmount() decimal.Decimal {
	return money.Coerce(r.Base)
}

type WithholdingResponse struct {
	Year               int                `json:"year"`
	Kind               string             `json:"kind"`
	Value              decimal.Decimal    `json:"value"`
	BaseUsed           decimal.Decimal    `json:"base_used"`
	BracketLabel       string             `json:"bracket_label"`
	DependentDeduction decimal.Decimal    `json:"dependent_deduction"`
	Warnings           validator.Warnings `json:"warnings,omitempty"`
}
