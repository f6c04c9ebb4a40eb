package payroll

import (
	"testing"
	"time"

	"github.com/oficina-erp/payroll-engine/internal/domain/advance"
	"github.com/oficina-erp/payroll-engine/internal/domain/attendance"
	"github.com/oficina-erp/payroll-engine/internal/domain/employee"
	"github.com/oficina-erp/payroll-engine/internal/domain/master/position"
	"github.com/oficina-erp/payroll-engine/internal/domain/payroll"
	"github.com/oficina-erp/payroll-engine/internal/domain/salesorder"
	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var june2024 = competence.New(2024, time.June)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newEmployee(salary string) employee.Employee {
	return employee.Employee{
		ID:                   "emp-1",
		CompanyID:            "company-1",
		PositionID:           "pos-1",
		FullName:             "Carlos Mecânico",
		HireDate:             time.Date(2020, time.March, 2, 0, 0, 0, 0, time.UTC),
		FullSalary:           d(salary),
		AbsenceDeductionRule: employee.AbsenceDeductionFullDay,
	}
}

func TestBuildPayroll_FullMonthWithoutExtras(t *testing.T) {
	got := BuildPayroll(newEmployee("3000"), position.Position{}, june2024, payroll.Inputs{}, Sources{}, payroll.DefaultPolicy())

	assert.Equal(t, "3000.00", got.Entries.BaseSalary.StringFixed(2))
	assert.Equal(t, "570.00", got.Deductions.EmployerCharges.StringFixed(2))
	assert.Equal(t, "2430.00", got.NetSalary.StringFixed(2))
	assert.Equal(t, 0, got.EffectiveWorkedDays)
	assert.True(t, got.Consistent())
	assert.Empty(t, got.Warnings)
}

func TestBuildPayroll_Overtime(t *testing.T) {
	src := Sources{Attendance: []attendance.Record{{
		WeekdayOvertimeHours: d("10"),
		WeekendOvertimeHours: d("5"),
	}}}

	got := BuildPayroll(newEmployee("2200"), position.Position{}, june2024, payroll.Inputs{}, src, payroll.DefaultPolicy())
	assert.Equal(t, "250.00", got.Entries.OvertimeValue.StringFixed(2))

	emp := newEmployee("2200")
	emp.WeekdayOvertimeFactor = d("1.6")
	emp.WeekendOvertimeFactor = d("2.5")
	got = BuildPayroll(emp, position.Position{}, june2024, payroll.Inputs{}, src, payroll.DefaultPolicy())
	assert.Equal(t, "285.00", got.Entries.OvertimeValue.StringFixed(2))
}

func TestBuildPayroll_AbsenceRules(t *testing.T) {
	src := Sources{Attendance: []attendance.Record{{AbsenceDays: 2, AbsenceHours: d("4")}}}

	fullDay := BuildPayroll(newEmployee("3000"), position.Position{}, june2024, payroll.Inputs{}, src, payroll.DefaultPolicy())
	assert.Equal(t, "200.00", fullDay.Deductions.AbsenceDeduction.StringFixed(2))

	emp := newEmployee("3000")
	emp.AbsenceDeductionRule = employee.AbsenceDeductionHourly
	hourly := BuildPayroll(emp, position.Position{}, june2024, payroll.Inputs{}, src, payroll.DefaultPolicy())
	assert.Equal(t, "254.55", hourly.Deductions.AbsenceDeduction.StringFixed(2))
}

func TestBuildPayroll_OnlyPaidAndApprovedAdvances(t *testing.T) {
	src := Sources{Advances: []advance.Advance{
		{Amount: d("100"), Status: advance.StatusPaid},
		{Amount: d("50"), Status: advance.StatusApproved},
		{Amount: d("70"), Status: advance.StatusPending},
		{Amount: d("30"), Status: advance.StatusRejected},
	}}

	got := BuildPayroll(newEmployee("3000"), position.Position{}, june2024, payroll.Inputs{}, src, payroll.DefaultPolicy())
	assert.Equal(t, "150.00", got.Deductions.Advances.StringFixed(2))
}

func TestBuildPayroll_NegativeNetIsKept(t *testing.T) {
	src := Sources{Advances: []advance.Advance{{Amount: d("5000"), Status: advance.StatusPaid}}}

	got := BuildPayroll(newEmployee("1000"), position.Position{}, june2024, payroll.Inputs{}, src, payroll.DefaultPolicy())
	assert.True(t, got.NetSalary.IsNegative())
	assert.Equal(t, "-4190.00", got.NetSalary.StringFixed(2))
	assert.True(t, got.Warnings.Has(payroll.WarningNegativeNet))
	assert.True(t, got.Consistent())
}

func TestBuildPayroll_MergesDuplicateAttendance(t *testing.T) {
	src := Sources{Attendance: []attendance.Record{
		{AbsenceDays: 1},
		{AbsenceDays: 2},
	}}

	got := BuildPayroll(newEmployee("3000"), position.Position{}, june2024, payroll.Inputs{}, src, payroll.DefaultPolicy())
	assert.Equal(t, "300.00", got.Deductions.AbsenceDeduction.StringFixed(2))
	assert.True(t, got.Warnings.Has(payroll.WarningAttendanceMerged))
}

func TestBuildPayroll_Commission(t *testing.T) {
	pos := position.Position{
		CommissionEnabled:          true,
		CommissionType:             position.CommissionTypeIndividual,
		CommissionBase:             position.CommissionBaseExcess,
		CommissionPercent:          d("10"),
		MinimumThresholdIndividual: d("1000"),
	}
	src := Sources{Orders: []salesorder.Order{
		{SellerID: "emp-1", Status: salesorder.StatusFinalized, TotalValue: d("1200")},
	}}

	got := BuildPayroll(newEmployee("3000"), pos, june2024, payroll.Inputs{}, src, payroll.DefaultPolicy())
	assert.Equal(t, "20.00", got.Entries.Commissions.StringFixed(2))
	assert.False(t, got.Warnings.Has(payroll.WarningCommissionThresholdNotMet))

	src.Orders[0].TotalValue = d("900")
	got = BuildPayroll(newEmployee("3000"), pos, june2024, payroll.Inputs{}, src, payroll.DefaultPolicy())
	assert.True(t, got.Entries.Commissions.IsZero())
	assert.True(t, got.Warnings.Has(payroll.WarningCommissionThresholdNotMet))
}

func TestBuildPayroll_ProportionalSalary(t *testing.T) {
	start := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)

	got := BuildPayroll(newEmployee("3000"), position.Position{}, june2024, payroll.Inputs{PeriodStartDate: &start}, Sources{}, payroll.DefaultPolicy())
	assert.Equal(t, 11, got.EffectiveWorkedDays)
	assert.Equal(t, "1100.00", got.Entries.BaseSalary.StringFixed(2))

	got = BuildPayroll(newEmployee("3000"), position.Position{}, june2024, payroll.Inputs{WorkedDays: 15}, Sources{}, payroll.DefaultPolicy())
	assert.Equal(t, "1500.00", got.Entries.BaseSalary.StringFixed(2))

	hired := newEmployee("3000")
	hired.HireDate = start
	got = BuildPayroll(hired, position.Position{}, june2024, payroll.Inputs{}, Sources{}, payroll.DefaultPolicy())
	assert.Equal(t, "1100.00", got.Entries.BaseSalary.StringFixed(2))
}

func TestBuildPayroll_EmployeeNotStarted(t *testing.T) {
	emp := newEmployee("3000")
	emp.HireDate = time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)

	got := BuildPayroll(emp, position.Position{}, june2024, payroll.Inputs{}, Sources{}, payroll.DefaultPolicy())
	assert.True(t, got.Entries.BaseSalary.IsZero())
	assert.True(t, got.Warnings.Has(payroll.WarningEmployeeNotStarted))
}

func TestBuildPayroll_CreditsAndDebits(t *testing.T) {
	in := payroll.Inputs{Bonus: d("200"), OtherCredits: d("50.555"), OtherDebits: d("30")}

	got := BuildPayroll(newEmployee("3000"), position.Position{}, june2024, in, Sources{}, payroll.DefaultPolicy())
	assert.Equal(t, "3250.56", got.Entries.Total().StringFixed(2))
	assert.Equal(t, "600.00", got.Deductions.Total().StringFixed(2))
	assert.Equal(t, "2650.56", got.NetSalary.StringFixed(2))
}

func TestBuildPayroll_PolicyIsConfigurable(t *testing.T) {
	policy := payroll.DefaultPolicy()
	policy.OvertimeDivisor = d("200")
	policy.EmployerChargeRate = d("0.2")
	src := Sources{Attendance: []attendance.Record{{WeekdayOvertimeHours: d("10")}}}

	got := BuildPayroll(newEmployee("2000"), position.Position{}, june2024, payroll.Inputs{}, src, policy)
	assert.Equal(t, "150.00", got.Entries.OvertimeValue.StringFixed(2))
	assert.Equal(t, "400.00", got.Deductions.EmployerCharges.StringFixed(2))
}

func TestBuildPayroll_IsDeterministic(t *testing.T) {
	src := Sources{
		Attendance: []attendance.Record{{WeekdayOvertimeHours: d("3.5"), AbsenceDays: 1}},
		Advances:   []advance.Advance{{Amount: d("123.45"), Status: advance.StatusPaid}},
	}
	in := payroll.Inputs{Bonus: d("10")}

	a := BuildPayroll(newEmployee("2750.33"), position.Position{}, june2024, in, src, payroll.DefaultPolicy())
	b := BuildPayroll(newEmployee("2750.33"), position.Position{}, june2024, in, src, payroll.DefaultPolicy())
	assert.True(t, a.NetSalary.Equal(b.NetSalary))
	assert.Equal(t, a.Entries, b.Entries)
}
