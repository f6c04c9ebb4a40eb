package bonus

import (
	"testing"

	"github.com/oficina-erp/payroll-engine/internal/domain/bonus"
	"github.com/oficina-erp/payroll-engine/internal/domain/employee"
	"github.com/oficina-erp/payroll-engine/internal/domain/master/position"
	"github.com/oficina-erp/payroll-engine/internal/domain/tax"
	"github.com/stretchr/testify/assert"
)

func TestValidateAnnualBonus_Errors(t *testing.T) {
	edited := 13
	record := bonus.Record{Installment: "yearly", EditedTwelfths: &edited}
	pos := position.Position{
		CommissionEnabled:          true,
		CommissionType:             position.CommissionTypeCompany,
		CommissionBase:             position.CommissionBaseExcess,
		CommissionPercent:          d("-1"),
		MinimumThresholdCompany:    d("-10"),
		MinimumThresholdIndividual: d("0"),
	}

	result := ValidateAnnualBonus(record, employee.Employee{}, pos, nil)
	assert.False(t, result.Valid())
	fields := result.Errors.ToMap()
	for _, field := range []string{
		"employee_id", "year", "installment", "edited_twelfths",
		"position.commission_percent", "position.minimum_threshold_company",
	} {
		assert.Contains(t, fields, field)
	}
}

func TestValidateAnnualBonus_DisabledCommissionIsNotChecked(t *testing.T) {
	record := bonus.Record{EmployeeID: "emp-1", Year: 2024, Installment: bonus.InstallmentSingle}
	pos := position.Position{CommissionEnabled: false, CommissionPercent: d("500")}

	result := ValidateAnnualBonus(record, employee.Employee{ID: "emp-1"}, pos, nil)
	assert.True(t, result.Valid())
	assert.NoError(t, result.Err())
}

func TestValidateAnnualBonus_Warnings(t *testing.T) {
	record := bonus.Record{
		EmployeeID:            "emp-1",
		Year:                  2030,
		Installment:           bonus.InstallmentSingle,
		AccruedTwelfths:       10,
		TwelfthsLostToAbsence: 1,
		TwelfthsLostToLeave:   1,
		PreFloorNetValue:      d("-12.5"),
	}
	resolution := &tax.Resolution{RequestedYear: 2030, Tables: tax.TablePair{Year: 2025}}

	result := ValidateAnnualBonus(record, employee.Employee{ID: "emp-1"}, position.Position{}, resolution)
	assert.True(t, result.Valid())
	assert.True(t, result.Warnings.Has(bonus.WarningNegativeNet))
	assert.True(t, result.Warnings.Has(bonus.WarningTwelfthsReduced))
	assert.True(t, result.Warnings.Has(tax.WarningTableFallback))
}
