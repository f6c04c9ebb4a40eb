package payroll

import "errors"

var (
	ErrCompetenceRequired    = errors.New("competence is required")
	ErrPayrollRecordNotFound = errors.New("payroll record not found")
	ErrInvalidPolicy         = errors.New("invalid payroll policy")
)
