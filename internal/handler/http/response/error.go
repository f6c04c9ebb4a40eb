package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/oficina-erp/payroll-engine/internal/domain/auth"
	"github.com/oficina-erp/payroll-engine/internal/domain/bonus"
	"github.com/oficina-erp/payroll-engine/internal/domain/employee"
	"github.com/oficina-erp/payroll-engine/internal/domain/master/position"
	"github.com/oficina-erp/payroll-engine/internal/domain/payroll"
	"github.com/oficina-erp/payroll-engine/internal/domain/tax"
	"github.com/oficina-erp/payroll-engine/internal/domain/user"
	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
	"github.com/oficina-erp/payroll-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrCompanyIDRequired):
		BadRequest(w, "Company ID is required", nil)
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Missing identifiers
	case errors.Is(err, employee.ErrEmployeeRequired):
		BadRequest(w, err.Error(), map[string]string{"employee_id": "is required"})
	case errors.Is(err, payroll.ErrCompetenceRequired):
		BadRequest(w, err.Error(), map[string]string{"competence": "is required"})
	case errors.Is(err, bonus.ErrYearRequired):
		BadRequest(w, err.Error(), map[string]string{"year": "is required"})
	case errors.Is(err, competence.ErrInvalidCompetence):
		BadRequest(w, err.Error(), map[string]string{"competence": "must be in YYYY-MM format"})

	// Not found
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, position.ErrPositionNotFound):
		NotFound(w, "Position not found")
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, bonus.ErrBonusRecordNotFound):
		NotFound(w, "Annual bonus record not found")

	// Conflicts
	case errors.Is(err, position.ErrPositionNameExists):
		Conflict(w, "Position with this name already exists")

	// Bracket tables
	case errors.Is(err, tax.ErrInvalidKind):
		BadRequest(w, err.Error(), map[string]string{"kind": "must be 'social_security' or 'income_tax'"})
	case errors.Is(err, tax.ErrNoBracketTables):
		ServiceUnavailable(w, "No tax bracket tables are configured")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
