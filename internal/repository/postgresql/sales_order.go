package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oficina-erp/payroll-engine/internal/domain/salesorder"
	"github.com/oficina-erp/payroll-engine/internal/pkg/database"
)

type salesOrderRepository struct {
	db *database.DB
}

func NewSalesOrderRepository(db *database.DB) salesorder.SalesOrderRepository {
	return &salesOrderRepository{db: db}
}

// ListCompletedBetween implements salesorder.SalesOrderRepository.
func (r *salesOrderRepository) ListCompletedBetween(ctx context.Context, companyID string, from, to time.Time) ([]salesorder.Order, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, COALESCE(seller_id::text, ''), status, completion_date, total_value
		FROM sales_orders
		WHERE company_id = $1
		  AND completion_date IS NOT NULL
		  AND completion_date >= $2
		  AND completion_date < $3
		ORDER BY completion_date ASC
	`

	rows, err := q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales orders: %w", err)
	}
	defer rows.Close()

	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (salesorder.Order, error) {
		var (
			o      salesorder.Order
			status string
		)
		err := row.Scan(&o.ID, &o.CompanyID, &o.SellerID, &status, &o.CompletionDate, &o.TotalValue)
		o.Status = salesorder.Status(status)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan sales order: %w", err)
	}

	return orders, nil
}
