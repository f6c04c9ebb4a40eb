package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Validate checks the structural rules a table must obey before it is used.
func (t Table) Validate() error {
	if !t.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, t.Kind)
	}
	if len(t.Brackets) == 0 {
		return fmt.Errorf("%d %s: %w", t.Year, t.Kind, ErrEmptyTable)
	}

	one := decimal.NewFromInt(1)
	var prev *decimal.Decimal
	for i, b := range t.Brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return fmt.Errorf("%d %s bracket %d: %w", t.Year, t.Kind, i, ErrInvalidBracketRate)
		}
		if b.UpTo == nil {
			if i != len(t.Brackets)-1 {
				return fmt.Errorf("%d %s bracket %d: %w", t.Year, t.Kind, i, ErrUnboundedNotLast)
			}
			continue
		}
		if prev != nil && !b.UpTo.GreaterThan(*prev) {
			return fmt.Errorf("%d %s bracket %d: %w", t.Year, t.Kind, i, ErrUnsortedBrackets)
		}
		prev = b.UpTo
	}
	return nil
}
