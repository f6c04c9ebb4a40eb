package salesorder

import (
	"context"
	"time"
)

type SalesOrderRepository interface {
	// ListCompletedBetween returns orders with from <= completion_date < to,
	// every seller and every status.
	ListCompletedBetween(ctx context.Context, companyID string, from, to time.Time) ([]Order, error)
}
