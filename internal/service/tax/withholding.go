package tax

import (
	"github.com/oficina-erp/payroll-engine/internal/domain/tax"
	"github.com/oficina-erp/payroll-engine/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// ComputeProgressiveWithholding applies a progressive table to base.
//
// The table's ceiling caps the base first. For income tax tables the
// dependent allowance is then subtracted before the bracket is matched.
// The matched bracket yields base × rate − deduction, never negative and
// rounded to two places. A base that ends up at or below zero is exempt.
func ComputeProgressiveWithholding(base decimal.Decimal, table tax.Table, dependents int) tax.Withholding {
	if dependents < 0 {
		dependents = 0
	}

	baseUsed := base
	if table.Ceiling != nil && baseUsed.GreaterThan(*table.Ceiling) {
		baseUsed = *table.Ceiling
	}

	dependentDeduction := decimal.Zero
	if table.Kind == tax.KindIncomeTax && dependents > 0 {
		dependentDeduction = money.Round2(table.PerDependentAllowance.Mul(decimal.NewFromInt(int64(dependents))))
		baseUsed = baseUsed.Sub(dependentDeduction)
	}

	exempt := tax.Withholding{
		Value:              decimal.Zero,
		BaseUsed:           money.Round2(money.NonNegative(baseUsed)),
		BracketLabel:       tax.ExemptLabel,
		DependentDeduction: dependentDeduction,
	}
	if !baseUsed.IsPositive() {
		return exempt
	}

	bracket, ok := table.Match(baseUsed)
	if !ok {
		return exempt
	}

	value := baseUsed.Mul(bracket.Rate).Sub(bracket.Deduction)
	return tax.Withholding{
		Value:              money.Round2(money.NonNegative(value)),
		BaseUsed:           money.Round2(baseUsed),
		BracketLabel:       bracket.Label,
		DependentDeduction: dependentDeduction,
	}
}
