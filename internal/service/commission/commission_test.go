package commission

import (
	"testing"

	"github.com/oficina-erp/payroll-engine/internal/domain/master/position"
	"github.com/oficina-erp/payroll-engine/internal/domain/salesorder"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func order(seller string, value int64, status salesorder.Status) salesorder.Order {
	return salesorder.Order{SellerID: seller, TotalValue: decimal.NewFromInt(value), Status: status}
}

func policy(typ position.CommissionType, base position.CommissionBase, percent, threshold int64) position.Position {
	return position.Position{
		CommissionEnabled:          true,
		CommissionType:             typ,
		CommissionBase:             base,
		CommissionPercent:          decimal.NewFromInt(percent),
		MinimumThresholdIndividual: decimal.NewFromInt(threshold),
		MinimumThresholdCompany:    decimal.NewFromInt(threshold),
	}
}

func TestComputeCommission_ExcessAndTotal(t *testing.T) {
	orders := []salesorder.Order{
		order("emp-1", 700, salesorder.StatusFinalized),
		order("emp-1", 500, salesorder.StatusFinalized),
	}

	excess := ComputeCommission(policy(position.CommissionTypeIndividual, position.CommissionBaseExcess, 10, 1000), orders, "emp-1", true)
	assert.Equal(t, "20.00", excess.StringFixed(2))

	total := ComputeCommission(policy(position.CommissionTypeIndividual, position.CommissionBaseTotal, 10, 1000), orders, "emp-1", true)
	assert.Equal(t, "120.00", total.StringFixed(2))
}

func TestComputeCommission_DisabledIsZero(t *testing.T) {
	orders := []salesorder.Order{order("emp-1", 100000, salesorder.StatusFinalized)}

	p := policy(position.CommissionTypeCompany, position.CommissionBaseTotal, 10, 0)
	p.CommissionEnabled = false
	assert.True(t, ComputeCommission(p, orders, "emp-1", false).IsZero())

	p = policy(position.CommissionTypeCompany, position.CommissionBaseTotal, 0, 0)
	assert.True(t, ComputeCommission(p, orders, "emp-1", false).IsZero())
}

func TestComputeCommission_ThresholdNotMet(t *testing.T) {
	orders := []salesorder.Order{order("emp-1", 999, salesorder.StatusFinalized)}

	b := Compute(policy(position.CommissionTypeIndividual, position.CommissionBaseTotal, 10, 1000), orders, "emp-1", true)
	assert.True(t, b.Enabled)
	assert.False(t, b.ThresholdMet)
	assert.True(t, b.Value.IsZero())
	assert.Equal(t, "999", b.SalesBase.String())
}

func TestComputeCommission_ThresholdReachedExactly(t *testing.T) {
	orders := []salesorder.Order{order("emp-1", 1000, salesorder.StatusFinalized)}

	b := Compute(policy(position.CommissionTypeIndividual, position.CommissionBaseExcess, 10, 1000), orders, "emp-1", true)
	assert.True(t, b.ThresholdMet)
	assert.True(t, b.Value.IsZero())
}

func TestComputeCommission_ZeroThresholdExcessActsAsTotal(t *testing.T) {
	orders := []salesorder.Order{order("emp-1", 1200, salesorder.StatusFinalized)}

	got := ComputeCommission(policy(position.CommissionTypeIndividual, position.CommissionBaseExcess, 10, 0), orders, "emp-1", true)
	assert.Equal(t, "120.00", got.StringFixed(2))
}

func TestComputeCommission_IndividualFiltersSeller(t *testing.T) {
	orders := []salesorder.Order{
		order("emp-1", 1000, salesorder.StatusFinalized),
		order("emp-2", 5000, salesorder.StatusFinalized),
	}

	b := Compute(policy(position.CommissionTypeIndividual, position.CommissionBaseTotal, 5, 0), orders, "emp-1", true)
	assert.Equal(t, 1, b.OrderCount)
	assert.Equal(t, "50.00", b.Value.StringFixed(2))
}

func TestComputeCommission_CompanyUsesAllSellers(t *testing.T) {
	orders := []salesorder.Order{
		order("emp-1", 1000, salesorder.StatusFinalized),
		order("emp-2", 5000, salesorder.StatusFinalized),
	}
	p := policy(position.CommissionTypeCompany, position.CommissionBaseExcess, 2, 0)
	p.MinimumThresholdCompany = decimal.NewFromInt(4000)
	p.MinimumThresholdIndividual = decimal.NewFromInt(100000)

	b := Compute(p, orders, "emp-3", true)
	assert.Equal(t, "6000", b.SalesBase.String())
	assert.Equal(t, "4000", b.Threshold.String())
	assert.Equal(t, "40.00", b.Value.StringFixed(2))
}

func TestComputeCommission_FinalizedFilter(t *testing.T) {
	orders := []salesorder.Order{
		order("emp-1", 1000, salesorder.StatusFinalized),
		order("emp-1", 1000, salesorder.StatusOpen),
		order("emp-1", 1000, salesorder.StatusCanceled),
	}
	p := policy(position.CommissionTypeIndividual, position.CommissionBaseTotal, 10, 0)

	assert.Equal(t, "100.00", ComputeCommission(p, orders, "emp-1", true).StringFixed(2))
	assert.Equal(t, "300.00", ComputeCommission(p, orders, "emp-1", false).StringFixed(2))
}
