package tax

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/oficina-erp/payroll-engine/internal/domain/tax"
	"github.com/oficina-erp/payroll-engine/internal/pkg/validator"
)

// Resolver picks the bracket tables for a fiscal year. Tables from the
// repository override the built-in ones for the same year and kind.
type Resolver struct {
	repo     tax.TableRepository
	fixtures []tax.Table
}

// NewResolver builds a resolver. repo may be nil, in which case only the
// given fixtures are used.
func NewResolver(repo tax.TableRepository, fixtures []tax.Table) *Resolver {
	return &Resolver{
		repo:     repo,
		fixtures: fixtures,
	}
}

// Pairs returns every year that has both tables, oldest first.
func (r *Resolver) Pairs(ctx context.Context) ([]tax.TablePair, error) {
	byYear := make(map[int]map[tax.Kind]tax.Table)
	add := func(t tax.Table) {
		if err := t.Validate(); err != nil {
			slog.Warn("Skipping invalid bracket table", "year", t.Year, "kind", t.Kind, "source", t.Source, "error", err)
			return
		}
		if byYear[t.Year] == nil {
			byYear[t.Year] = make(map[tax.Kind]tax.Table)
		}
		byYear[t.Year][t.Kind] = t
	}

	for _, t := range r.fixtures {
		add(t)
	}
	if r.repo != nil {
		stored, err := r.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list bracket tables: %w", err)
		}
		for _, t := range stored {
			add(t)
		}
	}

	pairs := make([]tax.TablePair, 0, len(byYear))
	for year, kinds := range byYear {
		ss, okSS := kinds[tax.KindSocialSecurity]
		it, okIT := kinds[tax.KindIncomeTax]
		if !okSS || !okIT {
			continue
		}
		pairs = append(pairs, tax.TablePair{Year: year, SocialSecurity: ss, IncomeTax: it})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Year < pairs[j].Year })
	return pairs, nil
}

// Resolve returns the tables for year. When that year is not configured it
// falls back to the latest year before it, or to the latest year overall,
// and reports a table_fallback warning.
func (r *Resolver) Resolve(ctx context.Context, year int) (tax.Resolution, validator.Warnings, error) {
	pairs, err := r.Pairs(ctx)
	if err != nil {
		return tax.Resolution{}, nil, err
	}
	if len(pairs) == 0 {
		return tax.Resolution{}, nil, tax.ErrNoBracketTables
	}

	chosen := pairs[len(pairs)-1]
	for i := len(pairs) - 1; i >= 0; i-- {
		if pairs[i].Year <= year {
			chosen = pairs[i]
			break
		}
	}

	resolution := tax.Resolution{RequestedYear: year, Tables: chosen}
	if !resolution.FellBack() {
		return resolution, nil, nil
	}

	slog.Warn("Bracket tables unavailable, using fallback year", "requested_year", year, "used_year", chosen.Year)
	warnings := validator.Warnings{{
		Code:    tax.WarningTableFallback,
		Message: fmt.Sprintf("bracket tables for %d are not configured; using %d", year, chosen.Year),
	}}
	return resolution, warnings, nil
}
