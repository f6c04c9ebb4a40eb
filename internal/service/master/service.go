package master

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oficina-erp/payroll-engine/internal/domain/master/position"
	"github.com/oficina-erp/payroll-engine/internal/domain/user"
	"github.com/oficina-erp/payroll-engine/internal/fixtures"
	"github.com/oficina-erp/payroll-engine/internal/pkg/database"
	"github.com/oficina-erp/payroll-engine/internal/pkg/validator"
)

type positionServiceImpl struct {
	tx           database.Transactor
	positionRepo position.PositionRepository
}

func NewPositionService(tx database.Transactor, positionRepo position.PositionRepository) position.PositionService {
	return &positionServiceImpl{tx: tx, positionRepo: positionRepo}
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

func mapPositionError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return position.ErrPositionNameExists
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return position.ErrPositionNotFound
	}
	return err
}

func (s *positionServiceImpl) Create(ctx context.Context, req position.CreatePositionRequest) (position.PositionResponse, error) {
	// Validate request
	if err := req.Validate(); err != nil {
		return position.PositionResponse{}, err
	}

	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return position.PositionResponse{}, err
	}

	entity := req.ToEntity().Normalize()
	entity.CompanyID = companyID

	created, err := s.positionRepo.Create(ctx, entity)
	if err != nil {
		if mapped := mapPositionError(err); mapped != err {
			return position.PositionResponse{}, mapped
		}
		return position.PositionResponse{}, fmt.Errorf("failed to create position: %w", err)
	}

	return position.ToResponse(created), nil
}

func (s *positionServiceImpl) Get(ctx context.Context, id string) (position.PositionResponse, error) {
	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return position.PositionResponse{}, err
	}

	entity, err := s.positionRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return position.PositionResponse{}, mapPositionError(err)
	}

	return position.ToResponse(entity), nil
}

func (s *positionServiceImpl) List(ctx context.Context) ([]position.PositionResponse, error) {
	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	positions, err := s.positionRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	// If no positions found, return empty list instead of error
	responses := make([]position.PositionResponse, 0, len(positions))
	for _, p := range positions {
		responses = append(responses, position.ToResponse(p))
	}

	return responses, nil
}

// Update merges the request onto the stored position. Disabling commission
// clears every commission field.
func (s *positionServiceImpl) Update(ctx context.Context, req position.UpdatePositionRequest) (position.PositionResponse, error) {
	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return position.PositionResponse{}, err
	}
	req.CompanyID = companyID

	current, err := s.positionRepo.GetByID(ctx, req.ID, companyID)
	if err != nil {
		return position.PositionResponse{}, mapPositionError(err)
	}

	updated := req.Apply(current)

	var errs validator.ValidationErrors
	if validator.IsEmpty(updated.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	errs = append(errs, position.ValidateCommissionPolicy(updated)...)
	if len(errs) > 0 {
		return position.PositionResponse{}, errs
	}

	updated = updated.Normalize()
	if err := s.positionRepo.Update(ctx, updated); err != nil {
		return position.PositionResponse{}, mapPositionError(err)
	}

	return position.ToResponse(updated), nil
}

func (s *positionServiceImpl) SeedDefaults(ctx context.Context) ([]position.PositionResponse, error) {
	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var created []position.PositionResponse
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.positionRepo.GetByCompanyID(txCtx, companyID)
		if err != nil {
			return fmt.Errorf("failed to list positions: %w", err)
		}
		taken := make(map[string]bool, len(existing))
		for _, p := range existing {
			taken[p.Name] = true
		}

		for _, p := range fixtures.GetDefaultPositions(companyID) {
			if taken[p.Name] {
				continue
			}
			saved, err := s.positionRepo.Create(txCtx, p.Normalize())
			if err != nil {
				return fmt.Errorf("failed to seed position %s: %w", p.Name, mapPositionError(err))
			}
			created = append(created, position.ToResponse(saved))
		}
		return nil
	})
	if err != nil {
		slog.Error("Failed to seed default positions", "company_id", companyID, "error", err)
		return nil, err
	}

	return created, nil
}
