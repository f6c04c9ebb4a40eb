package bonus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/oficina-erp/payroll-engine/internal/domain/attendance"
	"github.com/oficina-erp/payroll-engine/internal/domain/bonus"
	"github.com/oficina-erp/payroll-engine/internal/domain/employee"
	"github.com/oficina-erp/payroll-engine/internal/domain/master/position"
	"github.com/oficina-erp/payroll-engine/internal/domain/payroll"
	"github.com/oficina-erp/payroll-engine/internal/domain/user"
	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
	"github.com/oficina-erp/payroll-engine/internal/pkg/money"
	taxservice "github.com/oficina-erp/payroll-engine/internal/service/tax"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type BonusServiceImpl struct {
	bonusRepo      bonus.BonusRepository
	employeeRepo   employee.EmployeeRepository
	positionRepo   position.PositionRepository
	attendanceRepo attendance.AttendanceRepository
	payrollRepo    payroll.PayrollRepository
	resolver       *taxservice.Resolver
	settings       bonus.Settings
}

func NewBonusService(
	bonusRepo bonus.BonusRepository,
	employeeRepo employee.EmployeeRepository,
	positionRepo position.PositionRepository,
	attendanceRepo attendance.AttendanceRepository,
	payrollRepo payroll.PayrollRepository,
	resolver *taxservice.Resolver,
	settings bonus.Settings,
) bonus.BonusService {
	return &BonusServiceImpl{
		bonusRepo:      bonusRepo,
		employeeRepo:   employeeRepo,
		positionRepo:   positionRepo,
		attendanceRepo: attendanceRepo,
		payrollRepo:    payrollRepo,
		resolver:       resolver,
		settings:       settings.WithDefaults(),
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

// calculation identifies one record to compute.
type calculation struct {
	employeeID      string
	year            int
	installment     bonus.InstallmentType
	editedTwelfths  *int
	otherDeductions decimal.Decimal
}

func fromRequest(req bonus.CalculateBonusRequest) calculation {
	return calculation{
		employeeID:      req.EmployeeID,
		year:            req.Year,
		installment:     bonus.InstallmentType(req.Installment),
		editedTwelfths:  req.Twelfths(),
		otherDeductions: money.Coerce(req.OtherDeductions),
	}
}

func (s *BonusServiceImpl) Preview(ctx context.Context, req bonus.CalculateBonusRequest) (bonus.BonusResponse, error) {
	if err := req.Validate(); err != nil {
		return bonus.BonusResponse{}, err
	}

	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return bonus.BonusResponse{}, err
	}

	record, err := s.calculate(ctx, companyID, fromRequest(req))
	if err != nil {
		return bonus.BonusResponse{}, err
	}
	return bonus.ToResponse(record), nil
}

func (s *BonusServiceImpl) Save(ctx context.Context, req bonus.CalculateBonusRequest) (bonus.BonusResponse, error) {
	if err := req.Validate(); err != nil {
		return bonus.BonusResponse{}, err
	}

	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return bonus.BonusResponse{}, err
	}

	record, err := s.calculate(ctx, companyID, fromRequest(req))
	if err != nil {
		return bonus.BonusResponse{}, err
	}

	existing, err := s.bonusRepo.GetByKey(ctx, record.EmployeeID, record.Year, record.Installment, companyID)
	switch {
	case err == nil:
		record.ID = existing.ID
	case errors.Is(err, bonus.ErrBonusRecordNotFound):
		id, err := uuid.NewV7()
		if err != nil {
			return bonus.BonusResponse{}, fmt.Errorf("failed to generate annual bonus id: %w", err)
		}
		record.ID = id.String()
	default:
		return bonus.BonusResponse{}, fmt.Errorf("failed to check existing annual bonus record: %w", err)
	}

	return s.store(ctx, record)
}

func (s *BonusServiceImpl) Get(ctx context.Context, id string) (bonus.BonusResponse, error) {
	record, err := s.GetRecord(ctx, id)
	if err != nil {
		return bonus.BonusResponse{}, err
	}
	return bonus.ToResponse(record), nil
}

func (s *BonusServiceImpl) GetRecord(ctx context.Context, id string) (bonus.Record, error) {
	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return bonus.Record{}, err
	}
	return s.bonusRepo.GetByID(ctx, id, companyID)
}

func (s *BonusServiceImpl) List(ctx context.Context, filter bonus.BonusFilter) (bonus.ListBonusResponse, error) {
	if err := filter.Validate(); err != nil {
		return bonus.ListBonusResponse{}, err
	}
	filter.Normalize()

	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return bonus.ListBonusResponse{}, err
	}

	records, total, err := s.bonusRepo.List(ctx, companyID, filter)
	if err != nil {
		return bonus.ListBonusResponse{}, err
	}

	data := make([]bonus.BonusResponse, 0, len(records))
	for _, r := range records {
		data = append(data, bonus.ToResponse(r))
	}

	return bonus.ListBonusResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// UpdateTwelfths overrides the twelfths of a stored record and recomputes
// it. A nil value clears the override.
func (s *BonusServiceImpl) UpdateTwelfths(ctx context.Context, req bonus.UpdateTwelfthsRequest) (bonus.BonusResponse, error) {
	if err := req.Validate(); err != nil {
		return bonus.BonusResponse{}, err
	}

	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return bonus.BonusResponse{}, err
	}

	stored, err := s.bonusRepo.GetByID(ctx, req.ID, companyID)
	if err != nil {
		return bonus.BonusResponse{}, err
	}

	record, err := s.calculate(ctx, companyID, calculation{
		employeeID:      stored.EmployeeID,
		year:            stored.Year,
		installment:     stored.Installment,
		editedTwelfths:  req.Twelfths(),
		otherDeductions: stored.OtherDeductions,
	})
	if err != nil {
		return bonus.BonusResponse{}, err
	}
	record.ID = stored.ID

	return s.store(ctx, record)
}

func (s *BonusServiceImpl) store(ctx context.Context, record bonus.Record) (bonus.BonusResponse, error) {
	saved, err := s.bonusRepo.Upsert(ctx, record)
	if err != nil {
		slog.Error("Failed to save annual bonus record", "employee_id", record.EmployeeID, "year", record.Year, "installment", record.Installment, "error", err)
		return bonus.BonusResponse{}, fmt.Errorf("failed to save annual bonus record: %w", err)
	}
	saved.Warnings = record.Warnings
	if saved.EmployeeName == nil {
		saved.EmployeeName = record.EmployeeName
	}
	return bonus.ToResponse(saved), nil
}

// calculate fetches the inputs concurrently and runs the calculator. A
// record with validation errors is returned as those errors.
func (s *BonusServiceImpl) calculate(ctx context.Context, companyID string, c calculation) (bonus.Record, error) {
	emp, err := s.employeeRepo.GetByID(ctx, c.employeeID, companyID)
	if err != nil {
		return bonus.Record{}, fmt.Errorf("failed to get employee: %w", err)
	}

	from, to, _ := EmploymentWindow(emp, c.year, s.settings.AverageWindowMonths)

	var (
		in      = Input{Employee: emp, Year: c.year, Installment: c.installment, EditedTwelfths: c.editedTwelfths, OtherDeductions: c.otherDeductions, Settings: s.settings}
		g, gCtx = errgroup.WithContext(ctx)
	)

	g.Go(func() error {
		if emp.PositionID == "" {
			return nil
		}
		pos, err := s.positionRepo.GetByID(gCtx, emp.PositionID, companyID)
		if err != nil {
			return fmt.Errorf("failed to get position: %w", err)
		}
		in.Position = pos
		return nil
	})
	g.Go(func() error {
		records, err := s.attendanceRepo.ListByEmployeeRange(gCtx, emp.ID, competence.New(c.year, 1), competence.New(c.year, 12), companyID)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		in.Attendance = records
		return nil
	})
	g.Go(func() error {
		history, err := s.payrollRepo.ListByEmployeeRange(gCtx, emp.ID, from, to, companyID)
		if err != nil {
			return fmt.Errorf("failed to list payroll history: %w", err)
		}
		in.History = history
		return nil
	})
	if c.installment.Withheld() {
		g.Go(func() error {
			resolution, _, err := s.resolver.Resolve(gCtx, c.year)
			if err != nil {
				return err
			}
			in.Tables = &resolution
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return bonus.Record{}, err
	}

	result, err := Calculate(in)
	if err != nil {
		return bonus.Record{}, err
	}
	if !result.Validation.Valid() {
		return bonus.Record{}, result.Validation.Errors
	}

	record := result.Record
	record.EmployeeName = &emp.FullName
	return record, nil
}
