package commission

import (
	"github.com/oficina-erp/payroll-engine/internal/domain/master/position"
	"github.com/oficina-erp/payroll-engine/internal/domain/salesorder"
	"github.com/oficina-erp/payroll-engine/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// Breakdown explains how a commission value was reached.
type Breakdown struct {
	Enabled      bool
	SalesBase    decimal.Decimal
	Threshold    decimal.Decimal
	ThresholdMet bool
	OrderCount   int
	Value        decimal.Decimal
}

// ComputeCommission returns the commission owed to employeeID for the orders
// of a period under the position's commission policy.
func ComputeCommission(p position.Position, orders []salesorder.Order, employeeID string, requireFinalizedOnly bool) decimal.Decimal {
	return Compute(p, orders, employeeID, requireFinalizedOnly).Value
}

// Compute is ComputeCommission with the intermediate values.
func Compute(p position.Position, orders []salesorder.Order, employeeID string, requireFinalizedOnly bool) Breakdown {
	if !p.CommissionEnabled || !p.CommissionPercent.IsPositive() {
		return Breakdown{Value: decimal.Zero, SalesBase: decimal.Zero, Threshold: decimal.Zero}
	}

	individual := p.CommissionType != position.CommissionTypeCompany

	salesBase := decimal.Zero
	count := 0
	for _, o := range orders {
		if requireFinalizedOnly && o.Status != salesorder.StatusFinalized {
			continue
		}
		if individual && o.SellerID != employeeID {
			continue
		}
		salesBase = salesBase.Add(o.TotalValue)
		count++
	}

	threshold := p.Threshold()
	b := Breakdown{
		Enabled:    true,
		SalesBase:  salesBase,
		Threshold:  threshold,
		OrderCount: count,
		Value:      decimal.Zero,
	}
	if salesBase.LessThan(threshold) {
		return b
	}
	b.ThresholdMet = true

	base := salesBase
	// a zero threshold with the excess base behaves as the total base
	if p.CommissionBase == position.CommissionBaseExcess && threshold.IsPositive() {
		base = salesBase.Sub(threshold)
	}
	b.Value = money.Round2(money.Percent(base, p.CommissionPercent))
	return b
}
