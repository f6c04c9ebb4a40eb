package bonus

import (
	"github.com/oficina-erp/payroll-engine/internal/domain/attendance"
	"github.com/oficina-erp/payroll-engine/internal/domain/bonus"
	"github.com/oficina-erp/payroll-engine/internal/domain/employee"
	"github.com/oficina-erp/payroll-engine/internal/domain/master/position"
	"github.com/oficina-erp/payroll-engine/internal/domain/payroll"
	"github.com/oficina-erp/payroll-engine/internal/domain/tax"
	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
	"github.com/oficina-erp/payroll-engine/internal/pkg/money"
	"github.com/oficina-erp/payroll-engine/internal/pkg/validator"
	taxservice "github.com/oficina-erp/payroll-engine/internal/service/tax"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Input is the snapshot a 13th salary calculation works on.
type Input struct {
	Employee        employee.Employee
	Position        position.Position
	Year            int
	Installment     bonus.InstallmentType
	EditedTwelfths  *int
	OtherDeductions decimal.Decimal

	// Attendance of the reference year.
	Attendance []attendance.Record
	// Payroll sheets covering the averaging window.
	History []payroll.MonthlyPayroll

	// Tables is required for the second and single installments.
	Tables   *tax.Resolution
	Settings bonus.Settings
}

// Result carries the computed record and its validation outcome. When
// Validation has errors no monetary field is filled in.
type Result struct {
	Record     bonus.Record
	Validation validator.Result
}

// Calculate computes one installment of the 13th salary. It only fails for
// missing identifiers or missing tables; range problems come back in
// Result.Validation.
func Calculate(in Input) (Result, error) {
	if in.Employee.ID == "" {
		return Result{}, employee.ErrEmployeeRequired
	}
	if in.Year <= 0 {
		return Result{}, bonus.ErrYearRequired
	}

	settings := in.Settings.WithDefaults()

	accrual := AccrueTwelfths(in.Employee.HireDate, in.Employee.TerminationDate, in.Year, in.Attendance, settings.MinDaysPerTwelfth)

	record := bonus.Record{
		CompanyID:             in.Employee.CompanyID,
		EmployeeID:            in.Employee.ID,
		Year:                  in.Year,
		Installment:           in.Installment,
		AccruedTwelfths:       accrual.Twelfths,
		EditedTwelfths:        in.EditedTwelfths,
		TwelfthsLostToAbsence: accrual.LostToAbsence,
		TwelfthsLostToLeave:   accrual.LostToLeave,
		OtherDeductions:       money.Round2(money.NonNegative(in.OtherDeductions)),
		IncomeTaxDependents:   in.Employee.Dependents,
		Status:                bonus.StatusGenerated,
	}
	if in.EditedTwelfths != nil {
		record.Status = bonus.StatusEdited
	}

	if pre := ValidateAnnualBonus(record, in.Employee, in.Position, nil); !pre.Valid() {
		return Result{Record: record, Validation: pre}, nil
	}
	if in.Installment.Withheld() && in.Tables == nil {
		return Result{}, tax.ErrNoBracketTables
	}

	avg := Averages{Overtime: decimal.Zero, Commission: decimal.Zero, Other: decimal.Zero}
	if from, to, ok := EmploymentWindow(in.Employee, in.Year, settings.AverageWindowMonths); ok {
		avg = ComputeAverages(in.History, from, to)
	}

	record.BaseSalary = money.Round2(in.Employee.FullSalary)
	record.AverageOvertime = avg.Overtime
	record.AverageCommission = avg.Commission
	record.AverageOther = avg.Other
	record.GrossValue = money.Round2(money.Twelfths(record.BaseTotal(), record.EffectiveTwelfths()))
	record.FirstInstallmentValue = money.Round2(record.GrossValue.Div(two))

	var resolution *tax.Resolution
	switch in.Installment {
	case bonus.InstallmentFirst:
		record.PreFloorNetValue = record.FirstInstallmentValue
	default:
		resolution = in.Tables
		record.TableYear = in.Tables.Tables.Year

		ss := taxservice.ComputeProgressiveWithholding(record.GrossValue, in.Tables.Tables.SocialSecurity, 0)
		record.SocialSecurityBase = ss.BaseUsed
		record.SocialSecurityValue = ss.Value
		record.SocialSecurityBracket = ss.BracketLabel

		it := taxservice.ComputeProgressiveWithholding(record.GrossValue.Sub(ss.Value), in.Tables.Tables.IncomeTax, in.Employee.Dependents)
		record.IncomeTaxBase = it.BaseUsed
		record.IncomeTaxDependentDeduction = it.DependentDeduction
		record.IncomeTaxValue = it.Value
		record.IncomeTaxBracket = it.BracketLabel

		net := record.GrossValue.Sub(ss.Value).Sub(it.Value).Sub(record.OtherDeductions)
		if in.Installment == bonus.InstallmentSecond {
			net = net.Sub(record.FirstInstallmentValue)
		}
		record.PreFloorNetValue = net
	}
	record.NetValue = money.NonNegative(record.PreFloorNetValue)

	validation := ValidateAnnualBonus(record, in.Employee, in.Position, resolution)
	record.Warnings = validation.Warnings
	return Result{Record: record, Validation: validation}, nil
}

// windowEnd is December of year, or the termination month when the
// employee left during that year.
func windowEnd(emp employee.Employee, year int) competence.YearMonth {
	end := competence.New(year, 12)
	if emp.TerminationDate != nil && emp.TerminationDate.Year() == year {
		end = competence.Of(*emp.TerminationDate)
	}
	return end
}
