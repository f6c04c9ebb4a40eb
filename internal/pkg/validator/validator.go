package validator

import (
	"strconv"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// Warning flags a business concern that does not block saving.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Warnings []Warning

// Has reports whether a warning with the given code is present.
func (w Warnings) Has(code string) bool {
	for _, warning := range w {
		if warning.Code == code {
			return true
		}
	}
	return false
}

// Result carries blocking errors and non-blocking warnings side by side so
// callers can render both without unwrapping an error.
type Result struct {
	Errors   ValidationErrors `json:"errors,omitempty"`
	Warnings Warnings         `json:"warnings,omitempty"`
}

func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) AddError(field, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

func (r *Result) AddWarning(code, message string) {
	r.Warnings = append(r.Warnings, Warning{Code: code, Message: message})
}

// Err returns the errors as an error value, or nil when there are none.
func (r Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsInRange reports whether lo <= v <= hi.
func IsInRange(v, lo, hi int) bool {
	return v >= lo && v <= hi
}

// Itoa converts an integer to a string.
func Itoa(i int) string {
	return strconv.Itoa(i)
}
