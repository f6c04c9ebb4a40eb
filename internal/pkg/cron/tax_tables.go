package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oficina-erp/payroll-engine/internal/domain/tax"
	"github.com/oficina-erp/payroll-engine/internal/pkg/validator"
)

// TableResolver resolves the bracket tables of a fiscal year.
type TableResolver interface {
	Resolve(ctx context.Context, year int) (tax.Resolution, validator.Warnings, error)
}

// TableCheck reports whether the bracket tables of the current year, and of
// the next year once December starts, are configured.
type TableCheck struct {
	resolver TableResolver
	now      func() time.Time
}

func NewTableCheck(resolver TableResolver, now func() time.Time) *TableCheck {
	if now == nil {
		now = time.Now
	}
	return &TableCheck{resolver: resolver, now: now}
}

// Missing returns the checked years that resolve to another year's tables.
func (c *TableCheck) Missing(ctx context.Context) ([]int, error) {
	today := c.now()
	years := []int{today.Year()}
	if today.Month() == time.December {
		years = append(years, today.Year()+1)
	}

	var missing []int
	for _, year := range years {
		resolution, _, err := c.resolver.Resolve(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve bracket tables for %d: %w", year, err)
		}
		if resolution.FellBack() {
			missing = append(missing, year)
		}
	}
	return missing, nil
}

// Run is the scheduler entry point; missing years are logged as warnings.
func (c *TableCheck) Run(ctx context.Context) error {
	missing, err := c.Missing(ctx)
	if err != nil {
		return err
	}
	for _, year := range missing {
		slog.Warn("Bracket tables are not configured", "year", year)
	}
	return nil
}
