package payroll

import (
	"fmt"

	"github.com/oficina-erp/payroll-engine/internal/domain/advance"
	"github.com/oficina-erp/payroll-engine/internal/domain/attendance"
	"github.com/oficina-erp/payroll-engine/internal/domain/employee"
	"github.com/oficina-erp/payroll-engine/internal/domain/master/position"
	"github.com/oficina-erp/payroll-engine/internal/domain/payroll"
	"github.com/oficina-erp/payroll-engine/internal/domain/salesorder"
	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
	"github.com/oficina-erp/payroll-engine/internal/pkg/money"
	"github.com/oficina-erp/payroll-engine/internal/pkg/validator"
	"github.com/oficina-erp/payroll-engine/internal/service/commission"
	"github.com/oficina-erp/payroll-engine/internal/service/salary"
	"github.com/shopspring/decimal"
)

var thirty = decimal.NewFromInt(30)

// Sources are the records fetched from the store for one sheet.
type Sources struct {
	Attendance []attendance.Record
	Advances   []advance.Advance
	Orders     []salesorder.Order
}

// BuildPayroll assembles the payroll sheet of emp for month. It is pure: the
// same arguments always produce the same sheet. Every monetary field is
// rounded to two places before the totals are taken, and the net salary is
// never floored.
func BuildPayroll(emp employee.Employee, pos position.Position, month competence.YearMonth, in payroll.Inputs, src Sources, policy payroll.Policy) payroll.MonthlyPayroll {
	var warnings validator.Warnings
	full := emp.FullSalary

	workedDays := EffectiveWorkedDays(emp, month, in)
	baseSalary := decimal.Zero
	if workedDays < 0 {
		warnings = append(warnings, validator.Warning{
			Code:    payroll.WarningEmployeeNotStarted,
			Message: fmt.Sprintf("employee was hired after %s", month),
		})
		workedDays = 0
	} else {
		baseSalary = money.Round2(salary.ComputeProportionalSalary(full, month, workedDays))
	}

	comm := commission.Compute(pos, src.Orders, emp.ID, policy.RequireFinalizedOrders)
	if comm.Enabled && !comm.ThresholdMet {
		warnings = append(warnings, validator.Warning{
			Code:    payroll.WarningCommissionThresholdNotMet,
			Message: fmt.Sprintf("sales of %s did not reach the threshold of %s", comm.SalesBase.StringFixed(2), comm.Threshold.StringFixed(2)),
		})
	}

	att, merged := attendance.Merge(src.Attendance)
	if merged {
		warnings = append(warnings, validator.Warning{
			Code:    payroll.WarningAttendanceMerged,
			Message: fmt.Sprintf("%d attendance records for %s were summed", len(src.Attendance), month),
		})
	}

	hourlyRate := decimal.Zero
	if policy.OvertimeDivisor.IsPositive() {
		hourlyRate = full.Div(policy.OvertimeDivisor)
	}
	dailyRate := full.Div(thirty)

	weekdayFactor := emp.WeekdayOvertimeFactor
	if !weekdayFactor.IsPositive() {
		weekdayFactor = policy.WeekdayOvertimeFactor
	}
	weekendFactor := emp.WeekendOvertimeFactor
	if !weekendFactor.IsPositive() {
		weekendFactor = policy.WeekendOvertimeFactor
	}

	overtime := att.WeekdayOvertimeHours.Mul(hourlyRate).Mul(weekdayFactor).
		Add(att.WeekendOvertimeHours.Mul(hourlyRate).Mul(weekendFactor))

	absence := dailyRate.Mul(decimal.NewFromInt(int64(att.AbsenceDays)))
	if emp.AbsenceDeductionRule == employee.AbsenceDeductionHourly {
		absence = absence.Add(hourlyRate.Mul(att.AbsenceHours))
	}

	entries := payroll.Entries{
		BaseSalary:    baseSalary,
		Commissions:   money.Round2(comm.Value),
		OvertimeValue: money.Round2(overtime),
		Bonus:         money.Round2(in.Bonus),
		OtherCredits:  money.Round2(in.OtherCredits),
	}
	deductions := payroll.Deductions{
		Advances:         money.Round2(advance.SumDeductible(src.Advances)),
		AbsenceDeduction: money.Round2(absence),
		EmployerCharges:  money.Round2(full.Mul(policy.EmployerChargeRate)),
		OtherDebits:      money.Round2(in.OtherDebits),
	}

	net := entries.Total().Sub(deductions.Total())
	if net.IsNegative() {
		warnings = append(warnings, validator.Warning{
			Code:    payroll.WarningNegativeNet,
			Message: fmt.Sprintf("net salary is negative (%s)", net.StringFixed(2)),
		})
	}

	return payroll.MonthlyPayroll{
		CompanyID:           emp.CompanyID,
		EmployeeID:          emp.ID,
		Competence:          month,
		Inputs:              in,
		EffectiveWorkedDays: workedDays,
		Entries:             entries,
		Deductions:          deductions,
		NetSalary:           net,
		Warnings:            warnings,
	}
}

// EffectiveWorkedDays picks the days used for the proportional salary:
// the typed value, else the days from the period start date, else the days
// from the hire date when the employee joined during the month. Zero means
// the full month. A negative value means the employee had not started yet.
func EffectiveWorkedDays(emp employee.Employee, month competence.YearMonth, in payroll.Inputs) int {
	if in.WorkedDays > 0 {
		return in.WorkedDays
	}
	if in.PeriodStartDate != nil {
		return salary.ComputeWorkedDaysFromStartDate(*in.PeriodStartDate, month)
	}
	if emp.HireDate.IsZero() {
		return 0
	}
	if month.Contains(emp.HireDate) {
		return salary.ComputeWorkedDaysFromStartDate(emp.HireDate, month)
	}
	if !emp.HireDate.Before(month.End()) {
		return -1
	}
	return 0
}
