package position

import (
	"github.com/oficina-erp/payroll-engine/internal/pkg/money"
	"github.com/oficina-erp/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type CreatePositionRequest struct {
	Name                       string  `json:"name"`
	CommissionEnabled          bool    `json:"commission_enabled"`
	CommissionType             string  `json:"commission_type"`
	CommissionPercent          float64 `json:"commission_percent"`
	MinimumThresholdIndividual float64 `json:"minimum_threshold_individual"`
	MinimumThresholdCompany    float64 `json:"minimum_threshold_company"`
	CommissionBase             string  `json:"commission_base"`
}

func (r *CreatePositionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	errs = append(errs, ValidateCommissionPolicy(r.ToEntity())...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToEntity converts the request, coercing numeric fields at the boundary.
func (r *CreatePositionRequest) ToEntity() Position {
	return Position{
		Name:                       r.Name,
		CommissionEnabled:          r.CommissionEnabled,
		CommissionType:             CommissionType(r.CommissionType),
		CommissionPercent:          money.Coerce(r.CommissionPercent),
		MinimumThresholdIndividual: money.Coerce(r.MinimumThresholdIndividual),
		MinimumThresholdCompany:    money.Coerce(r.MinimumThresholdCompany),
		CommissionBase:             CommissionBase(r.CommissionBase),
	}
}

type UpdatePositionRequest struct {
	ID                         string   `json:"id"`
	CompanyID                  string   `json:"-"` // From JWT
	Name                       *string  `json:"name,omitempty"`
	CommissionEnabled          *bool    `json:"commission_enabled,omitempty"`
	CommissionType             *string  `json:"commission_type,omitempty"`
	CommissionPercent          *float64 `json:"commission_percent,omitempty"`
	MinimumThresholdIndividual *float64 `json:"minimum_threshold_individual,omitempty"`
	MinimumThresholdCompany    *float64 `json:"minimum_threshold_company,omitempty"`
	CommissionBase             *string  `json:"commission_base,omitempty"`
}

// Apply merges the request onto the current position and normalizes it.
func (r *UpdatePositionRequest) Apply(current Position) Position {
	if r.Name != nil {
		current.Name = *r.Name
	}
	if r.CommissionEnabled != nil {
		current.CommissionEnabled = *r.CommissionEnabled
	}
	if r.CommissionType != nil {
		current.CommissionType = CommissionType(*r.CommissionType)
	}
	if r.CommissionPercent != nil {
		current.CommissionPercent = money.CoercePtr(r.CommissionPercent)
	}
	if r.MinimumThresholdIndividual != nil {
		current.MinimumThresholdIndividual = money.CoercePtr(r.MinimumThresholdIndividual)
	}
	if r.MinimumThresholdCompany != nil {
		current.MinimumThresholdCompany = money.CoercePtr(r.MinimumThresholdCompany)
	}
	if r.CommissionBase != nil {
		current.CommissionBase = CommissionBase(*r.CommissionBase)
	}
	return current
}

// ValidateCommissionPolicy checks ranges and enums of the commission fields.
// A disabled policy is always valid because its fields are zeroed on save.
func ValidateCommissionPolicy(p Position) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if !p.CommissionEnabled {
		return errs
	}

	if p.CommissionType != CommissionTypeIndividual && p.CommissionType != CommissionTypeCompany {
		errs = append(errs, validator.ValidationError{Field: "commission_type", Message: "must be 'individual' or 'company'"})
	}
	if p.CommissionBase != CommissionBaseTotal && p.CommissionBase != CommissionBaseExcess {
		errs = append(errs, validator.ValidationError{Field: "commission_base", Message: "must be 'total' or 'excess'"})
	}
	if p.CommissionPercent.IsNegative() || p.CommissionPercent.GreaterThan(hundred) {
		errs = append(errs, validator.ValidationError{Field: "commission_percent", Message: "must be between 0 and 100"})
	}
	if p.MinimumThresholdIndividual.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "minimum_threshold_individual", Message: "must be non-negative"})
	}
	if p.MinimumThresholdCompany.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "minimum_threshold_company", Message: "must be non-negative"})
	}
	return errs
}

type PositionResponse struct {
	ID                         string          `json:"id"`
	CompanyID                  string          `json:"company_id"`
	Name                       string          `json:"name"`
	CommissionEnabled          bool            `json:"commission_enabled"`
	CommissionType             string          `json:"commission_type,omitempty"`
	CommissionPercent          decimal.Decimal `json:"commission_percent"`
	MinimumThresholdIndividual decimal.Decimal `json:"minimum_threshold_individual"`
	MinimumThresholdCompany    decimal.Decimal `json:"minimum_threshold_company"`
	CommissionBase             string          `json:"commission_base,omitempty"`
}

func ToResponse(p Position) PositionResponse {
	return PositionResponse{
		ID:                         p.ID,
		CompanyID:                  p.CompanyID,
		Name:                       p.Name,
		CommissionEnabled:          p.CommissionEnabled,
		CommissionType:             string(p.CommissionType),
		CommissionPercent:          p.CommissionPercent,
		MinimumThresholdIndividual: p.MinimumThresholdIndividual,
		MinimumThresholdCompany:    p.MinimumThresholdCompany,
		CommissionBase:             string(p.CommissionBase),
	}
}
