package fixtures

import (
	"testing"

	"github.com/oficina-erp/payroll-engine/internal/domain/master/position"
	"github.com/stretchr/testify/assert"
)

func TestGetDefaultPositions(t *testing.T) {
	positions := GetDefaultPositions("company-1")
	assert.NotEmpty(t, positions)

	names := make(map[string]bool)
	for _, p := range positions {
		assert.Equal(t, "company-1", p.CompanyID)
		assert.False(t, names[p.Name], "duplicate position %s", p.Name)
		names[p.Name] = true
		assert.Empty(t, position.ValidateCommissionPolicy(p), p.Name)
	}
}
