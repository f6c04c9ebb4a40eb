package fixtures

import (
	"github.com/oficina-erp/payroll-engine/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// ==========================================
// PUBLISHED BRACKET TABLES
// ==========================================

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// GetBracketTables returns the built-in INSS and IRRF tables.
// Tables stored in the database take precedence over these.
func GetBracketTables() []tax.Table {
	return []tax.Table{
		socialSecurity2024(),
		incomeTax2024(),
		socialSecurity2025(),
		incomeTax2025(),
	}
}

// INSS, Portaria Interministerial MPS/MF nº 2/2024.
func socialSecurity2024() tax.Table {
	return tax.Table{
		Year: 2024,
		Kind: tax.KindSocialSecurity,
		Brackets: []tax.Bracket{
			{UpTo: decPtr("1412.00"), Rate: dec("0.075"), Deduction: dec("0"), Label: "7.5%"},
			{UpTo: decPtr("2666.68"), Rate: dec("0.09"), Deduction: dec("21.18"), Label: "9%"},
			{UpTo: decPtr("4000.03"), Rate: dec("0.12"), Deduction: dec("101.18"), Label: "12%"},
			{UpTo: decPtr("7786.02"), Rate: dec("0.14"), Deduction: dec("181.18"), Label: "14%"},
		},
		Ceiling: decPtr("7786.02"),
		Source:  tax.SourceFixture,
	}
}

// IRRF monthly table in force from February 2024 (Lei nº 14.848/2024).
func incomeTax2024() tax.Table {
	return tax.Table{
		Year: 2024,
		Kind: tax.KindIncomeTax,
		Brackets: []tax.Bracket{
			{UpTo: decPtr("2259.20"), Rate: dec("0"), Deduction: dec("0"), Label: "isento"},
			{UpTo: decPtr("2826.65"), Rate: dec("0.075"), Deduction: dec("169.44"), Label: "7.5%"},
			{UpTo: decPtr("3751.05"), Rate: dec("0.15"), Deduction: dec("381.44"), Label: "15%"},
			{UpTo: decPtr("4664.68"), Rate: dec("0.225"), Deduction: dec("662.77"), Label: "22.5%"},
			{Rate: dec("0.275"), Deduction: dec("896.00"), Label: "27.5%"},
		},
		PerDependentAllowance: dec("189.59"),
		Source:                tax.SourceFixture,
	}
}

// INSS, Portaria Interministerial MPS/MF nº 6/2025.
func socialSecurity2025() tax.Table {
	return tax.Table{
		Year: 2025,
		Kind: tax.KindSocialSecurity,
		Brackets: []tax.Bracket{
			{UpTo: decPtr("1518.00"), Rate: dec("0.075"), Deduction: dec("0"), Label: "7.5%"},
			{UpTo: decPtr("2793.88"), Rate: dec("0.09"), Deduction: dec("22.77"), Label: "9%"},
			{UpTo: decPtr("4190.83"), Rate: dec("0.12"), Deduction: dec("106.59"), Label: "12%"},
			{UpTo: decPtr("8157.41"), Rate: dec("0.14"), Deduction: dec("190.40"), Label: "14%"},
		},
		Ceiling: decPtr("8157.41"),
		Source:  tax.SourceFixture,
	}
}

// IRRF monthly table in force from May 2025 (MP nº 1.294/2025).
func incomeTax2025() tax.Table {
	return tax.Table{
		Year: 2025,
		Kind: tax.KindIncomeTax,
		Brackets: []tax.Bracket{
			{UpTo: decPtr("2428.80"), Rate: dec("0"), Deduction: dec("0"), Label: "isento"},
			{UpTo: decPtr("2826.65"), Rate: dec("0.075"), Deduction: dec("182.16"), Label: "7.5%"},
			{UpTo: decPtr("3751.05"), Rate: dec("0.15"), Deduction: dec("394.16"), Label: "15%"},
			{UpTo: decPtr("4664.68"), Rate: dec("0.225"), Deduction: dec("675.49"), Label: "22.5%"},
			{Rate: dec("0.275"), Deduction: dec("908.73"), Label: "27.5%"},
		},
		PerDependentAllowance: dec("189.59"),
		Source:                tax.SourceFixture,
	}
}
