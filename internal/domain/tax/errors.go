package tax

import "errors"

var (
	ErrNoBracketTables    = errors.New("no bracket tables configured")
	ErrInvalidKind        = errors.New("invalid bracket table kind")
	ErrEmptyTable         = errors.New("bracket table has no brackets")
	ErrUnsortedBrackets   = errors.New("bracket upper bounds must be ascending")
	ErrUnboundedNotLast   = errors.New("only the last bracket may be unbounded")
	ErrInvalidBracketRate = errors.New("bracket rate must be between 0 and 1")
)
