package tax

import (
	"github.com/shopspring/decimal"
)

// Kind identifies the withholding a bracket table is used for.
type Kind string

const (
	KindSocialSecurity Kind = "social_security"
	KindIncomeTax      Kind = "income_tax"
)

func (k Kind) IsValid() bool {
	return k == KindSocialSecurity || k == KindIncomeTax
}

// ExemptLabel is reported when nothing is withheld because the base is not positive.
const ExemptLabel = "exempt"

// Bracket is one row of a progressive table. A nil UpTo marks the top bracket.
type Bracket struct {
	UpTo      *decimal.Decimal
	Rate      decimal.Decimal // fraction, 0.075 for 7.5%
	Deduction decimal.Decimal
	Label     string
}

// Contains reports whether base falls within the bracket's inclusive upper bound.
func (b Bracket) Contains(base decimal.Decimal) bool {
	return b.UpTo == nil || base.LessThanOrEqual(*b.UpTo)
}

// Table is a versioned bracket table keyed by fiscal year and kind.
type Table struct {
	Year                  int
	Kind                  Kind
	Brackets              []Bracket
	Ceiling               *decimal.Decimal
	PerDependentAllowance decimal.Decimal
	Source                string
}

// Match returns the bracket base falls into, or the last bracket when the
// table has no unbounded row.
func (t Table) Match(base decimal.Decimal) (Bracket, bool) {
	if len(t.Brackets) == 0 {
		return Bracket{}, false
	}
	for _, b := range t.Brackets {
		if b.Contains(base) {
			return b, true
		}
	}
	return t.Brackets[len(t.Brackets)-1], true
}

// Withholding is the outcome of applying a table to a base.
type Withholding struct {
	Value              decimal.Decimal
	BaseUsed           decimal.Decimal
	BracketLabel       string
	DependentDeduction decimal.Decimal
}

// TablePair groups the two tables a fiscal year needs.
type TablePair struct {
	Year           int
	SocialSecurity Table
	IncomeTax      Table
}

// Resolution is the table pair picked for a requested year.
type Resolution struct {
	RequestedYear int
	Tables        TablePair
}

// FellBack reports whether the tables belong to a year other than the requested one.
func (r Resolution) FellBack() bool {
	return r.Tables.Year != r.RequestedYear
}

const (
	SourceFixture  = "fixture"
	SourceDatabase = "database"
)

// WarningTableFallback is emitted when the requested year's tables are missing.
const WarningTableFallback = "table_fallback"
