package advance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSumDeductible(t *testing.T) {
	advances := []Advance{
		{Amount: decimal.NewFromInt(100), Status: StatusPaid},
		{Amount: decimal.NewFromInt(50), Status: StatusApproved},
		{Amount: decimal.NewFromInt(70), Status: StatusPending},
		{Amount: decimal.NewFromInt(30), Status: StatusRejected},
	}
	assert.Equal(t, "150", SumDeductible(advances).String())
	assert.True(t, SumDeductible(nil).IsZero())
}
