package payroll

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/oficina-erp/payroll-engine/internal/domain/advance"
	"github.com/oficina-erp/payroll-engine/internal/domain/attendance"
	"github.com/oficina-erp/payroll-engine/internal/domain/employee"
	"github.com/oficina-erp/payroll-engine/internal/domain/master/position"
	"github.com/oficina-erp/payroll-engine/internal/domain/payroll"
	"github.com/oficina-erp/payroll-engine/internal/domain/salesorder"
	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
	"github.com/oficina-erp/payroll-engine/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FAKES =====

type fakeEmployees struct{ byID map[string]employee.Employee }

func (f *fakeEmployees) GetByID(ctx context.Context, id, companyID string) (employee.Employee, error) {
	e, ok := f.byID[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployees) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.byID {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakePositions struct{ byID map[string]position.Position }

func (f *fakePositions) Create(ctx context.Context, p position.Position) (position.Position, error) {
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakePositions) GetByID(ctx context.Context, id, companyID string) (position.Position, error) {
	p, ok := f.byID[id]
	if !ok {
		return position.Position{}, position.ErrPositionNotFound
	}
	return p, nil
}

func (f *fakePositions) GetByCompanyID(ctx context.Context, companyID string) ([]position.Position, error) {
	var out []position.Position
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePositions) Update(ctx context.Context, p position.Position) error {
	f.byID[p.ID] = p
	return nil
}

type fakeAttendance struct{ records []attendance.Record }

func (f *fakeAttendance) ListByEmployeeMonth(ctx context.Context, employeeID string, month competence.YearMonth, companyID string) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, r := range f.records {
		if r.EmployeeID == employeeID && r.ReferenceMonth == month {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendance) ListByEmployeeRange(ctx context.Context, employeeID string, from, to competence.YearMonth, companyID string) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, r := range f.records {
		if r.EmployeeID == employeeID && !r.ReferenceMonth.Before(from) && !to.Before(r.ReferenceMonth) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeAdvances struct{ advances []advance.Advance }

func (f *fakeAdvances) ListByEmployeeCompetence(ctx context.Context, employeeID string, month competence.YearMonth, companyID string) ([]advance.Advance, error) {
	var out []advance.Advance
	for _, a := range f.advances {
		if a.EmployeeID == employeeID && a.Competence == month {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeOrders struct{ orders []salesorder.Order }

func (f *fakeOrders) ListCompletedBetween(ctx context.Context, companyID string, from, to time.Time) ([]salesorder.Order, error) {
	var out []salesorder.Order
	for _, o := range f.orders {
		if !o.CompletionDate.Before(from) && o.CompletionDate.Before(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakePayrolls struct {
	mu   sync.Mutex
	byID map[string]payroll.MonthlyPayroll
}

func (f *fakePayrolls) Upsert(ctx context.Context, record payroll.MonthlyPayroll) (payroll.MonthlyPayroll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// only what the table stores survives a round trip
	record.Warnings = nil
	record.EmployeeName = nil
	record.UpdatedAt = time.Now()
	f.byID[record.ID] = record
	return record, nil
}

func (f *fakePayrolls) GetByID(ctx context.Context, id, companyID string) (payroll.MonthlyPayroll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok || r.CompanyID != companyID {
		return payroll.MonthlyPayroll{}, payroll.ErrPayrollRecordNotFound
	}
	return r, nil
}

func (f *fakePayrolls) GetByEmployeeCompetence(ctx context.Context, employeeID string, month competence.YearMonth, companyID string) (payroll.MonthlyPayroll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.byID {
		if r.EmployeeID == employeeID && r.Competence == month && r.CompanyID == companyID {
			return r, nil
		}
	}
	return payroll.MonthlyPayroll{}, payroll.ErrPayrollRecordNotFound
}

func (f *fakePayrolls) List(ctx context.Context, companyID string, filter payroll.PayrollFilter) ([]payroll.MonthlyPayroll, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payroll.MonthlyPayroll
	for _, r := range f.byID {
		if r.CompanyID != companyID {
			continue
		}
		if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Competence != nil && r.Competence.String() != *filter.Competence {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (f *fakePayrolls) ListByEmployeeRange(ctx context.Context, employeeID string, from, to competence.YearMonth, companyID string) ([]payroll.MonthlyPayroll, error) {
	return nil, nil
}

// ===== HELPERS =====

func companyContext(t *testing.T, companyID string) context.Context {
	t.Helper()
	token, err := jwt.NewBuilder().Claim("company_id", companyID).Build()
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

type fixture struct {
	svc      payroll.PayrollService
	payrolls *fakePayrolls
}

func newFixture() fixture {
	emp := newEmployee("3000")
	emp.FullSalary = d("3000")

	payrolls := &fakePayrolls{byID: make(map[string]payroll.MonthlyPayroll)}
	svc := NewPayrollService(
		payrolls,
		&fakeEmployees{byID: map[string]employee.Employee{emp.ID: emp}},
		&fakePositions{byID: map[string]position.Position{"pos-1": {
			ID:                         "pos-1",
			CompanyID:                  "company-1",
			CommissionEnabled:          true,
			CommissionType:             position.CommissionTypeIndividual,
			CommissionBase:             position.CommissionBaseTotal,
			CommissionPercent:          d("5"),
			MinimumThresholdIndividual: d("1000"),
		}}},
		&fakeAttendance{records: []attendance.Record{
			{EmployeeID: "emp-1", ReferenceMonth: june2024, WeekdayOvertimeHours: d("4"), AbsenceDays: 1},
		}},
		&fakeAdvances{advances: []advance.Advance{
			{EmployeeID: "emp-1", Competence: june2024, Amount: d("300"), Status: advance.StatusApproved},
		}},
		&fakeOrders{orders: []salesorder.Order{
			{SellerID: "emp-1", Status: salesorder.StatusFinalized, TotalValue: d("2000"), CompletionDate: time.Date(2024, time.June, 10, 15, 0, 0, 0, time.UTC)},
			{SellerID: "emp-1", Status: salesorder.StatusFinalized, TotalValue: d("9000"), CompletionDate: time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)},
		}},
		payroll.DefaultPolicy(),
	)
	return fixture{svc: svc, payrolls: payrolls}
}

// ===== TESTS =====

func TestPayrollService_Preview(t *testing.T) {
	f := newFixture()
	ctx := companyContext(t, "company-1")

	resp, err := f.svc.Preview(ctx, payroll.BuildPayrollRequest{EmployeeID: "emp-1", Competence: "2024-06", Bonus: 100})
	require.NoError(t, err)

	// 3000 + 100 commission + 81.82 overtime + 100 bonus
	assert.Equal(t, "3281.82", resp.TotalEntries.StringFixed(2))
	// 300 advance + 100 absence + 570 employer charges
	assert.Equal(t, "970.00", resp.TotalDeductions.StringFixed(2))
	assert.Equal(t, "2311.82", resp.NetSalary.StringFixed(2))
	assert.Equal(t, "Carlos Mecânico", resp.EmployeeName)
	assert.Empty(t, f.payrolls.byID)
}

func TestPayrollService_MissingIdentifiers(t *testing.T) {
	f := newFixture()
	ctx := companyContext(t, "company-1")

	_, err := f.svc.Preview(ctx, payroll.BuildPayrollRequest{Competence: "2024-06"})
	assert.ErrorIs(t, err, employee.ErrEmployeeRequired)

	_, err = f.svc.Preview(ctx, payroll.BuildPayrollRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, payroll.ErrCompetenceRequired)

	_, err = f.svc.Preview(ctx, payroll.BuildPayrollRequest{EmployeeID: "emp-1", Competence: "2024-13"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = f.svc.Preview(ctx, payroll.BuildPayrollRequest{EmployeeID: "missing", Competence: "2024-06"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestPayrollService_ScopedByCompany(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Preview(companyContext(t, "company-2"), payroll.BuildPayrollRequest{EmployeeID: "emp-1", Competence: "2024-06"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.svc.Preview(context.Background(), payroll.BuildPayrollRequest{EmployeeID: "emp-1", Competence: "2024-06"})
	assert.Error(t, err)
}

func TestPayrollService_SaveAndRecalculateRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := companyContext(t, "company-1")

	start := "2024-06-20"
	saved, err := f.svc.Save(ctx, payroll.BuildPayrollRequest{
		EmployeeID:      "emp-1",
		Competence:      "2024-06",
		PeriodStartDate: &start,
		OtherCredits:    45.5,
		OtherDebits:     12.25,
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	loaded, err := f.svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, saved.NetSalary.Equal(loaded.NetSalary))

	recalculated, err := f.svc.Recalculate(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, recalculated.ID)
	assert.True(t, saved.NetSalary.Equal(recalculated.NetSalary), "saved %s, recalculated %s", saved.NetSalary, recalculated.NetSalary)
	assert.Equal(t, 11, recalculated.EffectiveWorkedDays)
	assert.Len(t, f.payrolls.byID, 1)
}

func TestPayrollService_SaveReplacesSameCompetence(t *testing.T) {
	f := newFixture()
	ctx := companyContext(t, "company-1")

	first, err := f.svc.Save(ctx, payroll.BuildPayrollRequest{EmployeeID: "emp-1", Competence: "2024-06"})
	require.NoError(t, err)
	second, err := f.svc.Save(ctx, payroll.BuildPayrollRequest{EmployeeID: "emp-1", Competence: "2024-06", Bonus: 50})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.payrolls.byID, 1)

	list, err := f.svc.List(ctx, payroll.PayrollFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.TotalCount)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 20, list.Limit)
}

func TestPayrollService_GetNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Get(companyContext(t, "company-1"), "nope")
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestPayrollService_PreviewCommission(t *testing.T) {
	f := newFixture()
	ctx := companyContext(t, "company-1")

	resp, err := f.svc.PreviewCommission(ctx, "emp-1", "2024-06")
	require.NoError(t, err)
	assert.True(t, resp.Enabled)
	assert.True(t, resp.ThresholdMet)
	assert.Equal(t, 1, resp.OrderCount)
	assert.Equal(t, "100.00", resp.Value.StringFixed(2))

	_, err = f.svc.PreviewCommission(ctx, "", "2024-06")
	assert.ErrorIs(t, err, employee.ErrEmployeeRequired)
	_, err = f.svc.PreviewCommission(ctx, "emp-1", "")
	assert.ErrorIs(t, err, payroll.ErrCompetenceRequired)
	_, err = f.svc.PreviewCommission(ctx, "emp-1", "junho")
	assert.ErrorIs(t, err, competence.ErrInvalidCompetence)
}

func TestPayrollService_PreviewCommissionWithoutPosition(t *testing.T) {
	emp := newEmployee("3000")
	emp.PositionID = ""

	svc := NewPayrollService(
		&fakePayrolls{byID: make(map[string]payroll.MonthlyPayroll)},
		&fakeEmployees{byID: map[string]employee.Employee{emp.ID: emp}},
		&fakePositions{byID: map[string]position.Position{}},
		&fakeAttendance{},
		&fakeAdvances{},
		&fakeOrders{orders: []salesorder.Order{
			{SellerID: "emp-1", Status: salesorder.StatusFinalized, TotalValue: d("5000"), CompletionDate: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)},
		}},
		payroll.DefaultPolicy(),
	)
	ctx := companyContext(t, "company-1")

	resp, err := svc.PreviewCommission(ctx, "emp-1", "2024-06")
	require.NoError(t, err)
	assert.False(t, resp.Enabled)
	assert.True(t, resp.Value.IsZero())

	sheet, err := svc.Preview(ctx, payroll.BuildPayrollRequest{EmployeeID: "emp-1", Competence: "2024-06"})
	require.NoError(t, err)
	assert.Equal(t, "3000.00", sheet.TotalEntries.StringFixed(2))
}
