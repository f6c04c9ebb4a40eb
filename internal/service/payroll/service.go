package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/oficina-erp/payroll-engine/internal/domain/advance"
	"github.com/oficina-erp/payroll-engine/internal/domain/attendance"
	"github.com/oficina-erp/payroll-engine/internal/domain/employee"
	"github.com/oficina-erp/payroll-engine/internal/domain/master/position"
	"github.com/oficina-erp/payroll-engine/internal/domain/payroll"
	"github.com/oficina-erp/payroll-engine/internal/domain/salesorder"
	"github.com/oficina-erp/payroll-engine/internal/domain/user"
	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
	"github.com/oficina-erp/payroll-engine/internal/service/commission"
	"golang.org/x/sync/errgroup"
)

type PayrollServiceImpl struct {
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	positionRepo   position.PositionRepository
	attendanceRepo attendance.AttendanceRepository
	advanceRepo    advance.AdvanceRepository
	orderRepo      salesorder.SalesOrderRepository
	policy         payroll.Policy
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	positionRepo position.PositionRepository,
	attendanceRepo attendance.AttendanceRepository,
	advanceRepo advance.AdvanceRepository,
	orderRepo salesorder.SalesOrderRepository,
	policy payroll.Policy,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		positionRepo:   positionRepo,
		attendanceRepo: attendanceRepo,
		advanceRepo:    advanceRepo,
		orderRepo:      orderRepo,
		policy:         policy,
	}
}

// Helper to get company_id from JWT context
func getCompanyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid: %w", user.ErrCompanyIDRequired)
	}

	return companyID, nil
}

func (s *PayrollServiceImpl) Preview(ctx context.Context, req payroll.BuildPayrollRequest) (payroll.PayrollResponse, error) {
	built, err := s.build(ctx, req)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.ToResponse(built), nil
}

func (s *PayrollServiceImpl) Save(ctx context.Context, req payroll.BuildPayrollRequest) (payroll.PayrollResponse, error) {
	built, err := s.build(ctx, req)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	existing, err := s.payrollRepo.GetByEmployeeCompetence(ctx, built.EmployeeID, built.Competence, built.CompanyID)
	switch {
	case err == nil:
		built.ID = existing.ID
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		id, err := uuid.NewV7()
		if err != nil {
			return payroll.PayrollResponse{}, fmt.Errorf("failed to generate payroll id: %w", err)
		}
		built.ID = id.String()
	default:
		return payroll.PayrollResponse{}, fmt.Errorf("failed to check existing payroll record: %w", err)
	}

	saved, err := s.payrollRepo.Upsert(ctx, built)
	if err != nil {
		slog.Error("Failed to save payroll record", "employee_id", built.EmployeeID, "competence", built.Competence.String(), "error", err)
		return payroll.PayrollResponse{}, fmt.Errorf("failed to save payroll record: %w", err)
	}
	saved.Warnings = built.Warnings
	return payroll.ToResponse(saved), nil
}

func (s *PayrollServiceImpl) Get(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	record, err := s.GetRecord(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.ToResponse(record), nil
}

func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.MonthlyPayroll, error) {
	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return payroll.MonthlyPayroll{}, err
	}
	return s.payrollRepo.GetByID(ctx, id, companyID)
}

func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollResponse{}, err
	}
	filter.Normalize()

	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	records, total, err := s.payrollRepo.List(ctx, companyID, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	data := make([]payroll.PayrollResponse, 0, len(records))
	for _, r := range records {
		data = append(data, payroll.ToResponse(r))
	}

	return payroll.ListPayrollResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// Recalculate rebuilds a stored sheet from its stored inputs and saves it.
func (s *PayrollServiceImpl) Recalculate(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	stored, err := s.payrollRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	rebuilt, err := s.buildFor(ctx, companyID, stored.EmployeeID, stored.Competence, stored.Inputs)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	rebuilt.ID = stored.ID

	saved, err := s.payrollRepo.Upsert(ctx, rebuilt)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to save payroll record: %w", err)
	}
	saved.Warnings = rebuilt.Warnings
	return payroll.ToResponse(saved), nil
}

func (s *PayrollServiceImpl) PreviewCommission(ctx context.Context, employeeID string, month string) (payroll.CommissionResponse, error) {
	if employeeID == "" {
		return payroll.CommissionResponse{}, employee.ErrEmployeeRequired
	}
	if month == "" {
		return payroll.CommissionResponse{}, payroll.ErrCompetenceRequired
	}
	ym, err := competence.Parse(month)
	if err != nil {
		return payroll.CommissionResponse{}, err
	}

	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return payroll.CommissionResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		return payroll.CommissionResponse{}, err
	}

	g, gCtx := errgroup.WithContext(ctx)
	var pos position.Position
	var orders []salesorder.Order

	g.Go(func() error {
		if emp.PositionID == "" {
			return nil
		}
		var err error
		pos, err = s.positionRepo.GetByID(gCtx, emp.PositionID, companyID)
		if err != nil {
			return fmt.Errorf("failed to get position: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		orders, err = s.orderRepo.ListCompletedBetween(gCtx, companyID, ym.Start(), ym.End())
		if err != nil {
			return fmt.Errorf("failed to list sales orders: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return payroll.CommissionResponse{}, err
	}

	b := commission.Compute(pos, orders, emp.ID, s.policy.RequireFinalizedOrders)
	return payroll.CommissionResponse{
		EmployeeID:   emp.ID,
		Competence:   ym,
		Enabled:      b.Enabled,
		SalesBase:    b.SalesBase,
		Threshold:    b.Threshold,
		ThresholdMet: b.ThresholdMet,
		OrderCount:   b.OrderCount,
		Value:        b.Value,
	}, nil
}

func (s *PayrollServiceImpl) build(ctx context.Context, req payroll.BuildPayrollRequest) (payroll.MonthlyPayroll, error) {
	if err := req.Validate(); err != nil {
		return payroll.MonthlyPayroll{}, err
	}

	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return payroll.MonthlyPayroll{}, err
	}

	month, inputs := req.ToInputs()
	return s.buildFor(ctx, companyID, req.EmployeeID, month, inputs)
}

// buildFor fetches the sources of one sheet concurrently and runs the aggregator.
func (s *PayrollServiceImpl) buildFor(ctx context.Context, companyID, employeeID string, month competence.YearMonth, inputs payroll.Inputs) (payroll.MonthlyPayroll, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		return payroll.MonthlyPayroll{}, fmt.Errorf("failed to get employee: %w", err)
	}

	var (
		pos     position.Position
		src     Sources
		g, gCtx = errgroup.WithContext(ctx)
	)

	g.Go(func() error {
		if emp.PositionID == "" {
			return nil
		}
		var err error
		pos, err = s.positionRepo.GetByID(gCtx, emp.PositionID, companyID)
		if err != nil {
			return fmt.Errorf("failed to get position: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		src.Attendance, err = s.attendanceRepo.ListByEmployeeMonth(gCtx, emp.ID, month, companyID)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		src.Advances, err = s.advanceRepo.ListByEmployeeCompetence(gCtx, emp.ID, month, companyID)
		if err != nil {
			return fmt.Errorf("failed to list advances: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		src.Orders, err = s.orderRepo.ListCompletedBetween(gCtx, companyID, month.Start(), month.End())
		if err != nil {
			return fmt.Errorf("failed to list sales orders: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return payroll.MonthlyPayroll{}, err
	}

	built := BuildPayroll(emp, pos, month, inputs, src, s.policy)
	built.EmployeeName = &emp.FullName
	return built, nil
}
