package position

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is a job role ("cargo") and carries the commission policy shared
// by every employee holding it.
type Position struct {
	ID                         string
	CompanyID                  string
	Name                       string
	CommissionEnabled          bool
	CommissionType             CommissionType
	CommissionPercent          decimal.Decimal
	MinimumThresholdIndividual decimal.Decimal
	MinimumThresholdCompany    decimal.Decimal
	CommissionBase             CommissionBase
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// CommissionType selects whose sales feed the commission.
type CommissionType string

const (
	CommissionTypeIndividual CommissionType = "individual"
	CommissionTypeCompany    CommissionType = "company"
)

// CommissionBase selects what the percentage applies to.
type CommissionBase string

const (
	CommissionBaseTotal  CommissionBase = "total"
	CommissionBaseExcess CommissionBase = "excess"
)

// Threshold returns the minimum sales amount that applies to the commission type.
func (p Position) Threshold() decimal.Decimal {
	if p.CommissionType == CommissionTypeCompany {
		return p.MinimumThresholdCompany
	}
	return p.MinimumThresholdIndividual
}

// Normalize zeroes every commission field when commission is disabled.
func (p Position) Normalize() Position {
	if p.CommissionEnabled {
		return p
	}
	p.CommissionType = ""
	p.CommissionPercent = decimal.Zero
	p.MinimumThresholdIndividual = decimal.Zero
	p.MinimumThresholdCompany = decimal.Zero
	p.CommissionBase = ""
	return p
}
