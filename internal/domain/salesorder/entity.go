package salesorder

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a workshop service order ("OS") as far as commission is concerned.
type Order struct {
	ID             string
	CompanyID      string
	SellerID       string
	Status         Status
	CompletionDate time.Time
	TotalValue     decimal.Decimal
}

type Status string

const (
	StatusOpen      Status = "open"
	StatusFinalized Status = "finalized"
	StatusCanceled  Status = "canceled"
)
