package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/oficina-erp/payroll-engine/internal/domain/tax"
	"github.com/oficina-erp/payroll-engine/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type taxTableRepository struct {
	db *database.DB
}

func NewTaxTableRepository(db *database.DB) tax.TableRepository {
	return &taxTableRepository{db: db}
}

// bracketRow is the JSON shape of one bracket in tax_tables.brackets.
type bracketRow struct {
	UpTo      *decimal.Decimal `json:"up_to"`
	Rate      decimal.Decimal  `json:"rate"`
	Deduction decimal.Decimal  `json:"deduction"`
	Label     string           `json:"label"`
}

func (r *taxTableRepository) query(ctx context.Context, where string, args ...any) ([]tax.Table, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT year, kind, ceiling, per_dependent_allowance, brackets
		FROM tax_tables
	` + where + `
		ORDER BY year ASC, kind ASC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax tables: %w", err)
	}
	defer rows.Close()

	tables, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (tax.Table, error) {
		var (
			t            tax.Table
			kind         string
			ceiling      decimal.NullDecimal
			bracketBytes []byte
		)
		if err := row.Scan(&t.Year, &kind, &ceiling, &t.PerDependentAllowance, &bracketBytes); err != nil {
			return tax.Table{}, err
		}

		var brackets []bracketRow
		if err := json.Unmarshal(bracketBytes, &brackets); err != nil {
			return tax.Table{}, fmt.Errorf("invalid brackets for %d %s: %w", t.Year, kind, err)
		}

		t.Kind = tax.Kind(kind)
		t.Source = tax.SourceDatabase
		if ceiling.Valid {
			t.Ceiling = &ceiling.Decimal
		}
		for _, b := range brackets {
			t.Brackets = append(t.Brackets, tax.Bracket{
				UpTo:      b.UpTo,
				Rate:      b.Rate,
				Deduction: b.Deduction,
				Label:     b.Label,
			})
		}
		return t, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan tax table: %w", err)
	}

	return tables, nil
}

// List implements tax.TableRepository.
func (r *taxTableRepository) List(ctx context.Context) ([]tax.Table, error) {
	return r.query(ctx, "")
}

// GetByYear implements tax.TableRepository.
func (r *taxTableRepository) GetByYear(ctx context.Context, year int) ([]tax.Table, error) {
	return r.query(ctx, "WHERE year = $1", year)
}
