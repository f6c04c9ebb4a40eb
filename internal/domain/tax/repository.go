package tax

import "context"

// TableRepository reads statutory bracket tables. Tables are not company scoped.
type TableRepository interface {
	List(ctx context.Context) ([]Table, error)
	GetByYear(ctx context.Context, year int) ([]Table, error)
}
