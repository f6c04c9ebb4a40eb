package bonus

import (
	"fmt"

	"github.com/oficina-erp/payroll-engine/internal/domain/bonus"
	"github.com/oficina-erp/payroll-engine/internal/domain/employee"
	"github.com/oficina-erp/payroll-engine/internal/domain/master/position"
	"github.com/oficina-erp/payroll-engine/internal/domain/tax"
	"github.com/oficina-erp/payroll-engine/internal/pkg/validator"
)

// ValidateAnnualBonus cross-checks a record. Errors block saving; warnings
// are reported alongside a valid record. resolution is nil when no tables
// were needed.
func ValidateAnnualBonus(record bonus.Record, emp employee.Employee, pos position.Position, resolution *tax.Resolution) validator.Result {
	var result validator.Result

	if emp.ID == "" || record.EmployeeID == "" {
		result.AddError("employee_id", "employee is required")
	}
	if record.Year <= 0 {
		result.AddError("year", "year is required")
	}
	if !record.Installment.IsValid() {
		result.AddError("installment", "must be 'first', 'second' or 'single'")
	}
	if record.EditedTwelfths != nil && !validator.IsInRange(*record.EditedTwelfths, 0, bonus.MaxTwelfths) {
		result.AddError("edited_twelfths", fmt.Sprintf("must be between 0 and %d", bonus.MaxTwelfths))
	}
	if !validator.IsInRange(record.AccruedTwelfths, 0, bonus.MaxTwelfths) {
		result.AddError("accrued_twelfths", fmt.Sprintf("must be between 0 and %d", bonus.MaxTwelfths))
	}
	for _, e := range position.ValidateCommissionPolicy(pos) {
		result.AddError("position."+e.Field, e.Message)
	}

	if record.PreFloorNetValue.IsNegative() {
		result.AddWarning(bonus.WarningNegativeNet,
			fmt.Sprintf("net value of %s was floored to zero", record.PreFloorNetValue.StringFixed(2)))
	}
	if lost := record.TwelfthsLostToAbsence + record.TwelfthsLostToLeave; lost > 0 {
		result.AddWarning(bonus.WarningTwelfthsReduced,
			fmt.Sprintf("%d twelfths lost (%d to absence, %d to leave)", lost, record.TwelfthsLostToAbsence, record.TwelfthsLostToLeave))
	}
	if resolution != nil && resolution.FellBack() {
		result.AddWarning(tax.WarningTableFallback,
			fmt.Sprintf("bracket tables for %d are not configured; using %d", resolution.RequestedYear, resolution.Tables.Year))
	}

	return result
}
