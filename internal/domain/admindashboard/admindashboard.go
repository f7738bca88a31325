package admindashboard

import (
	"context"
	"fmt"

	"autostyle/internal/infra/dbx"
)

type Repository struct {
	q dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{q: q}
}

func (r *Repository) GetOverview(ctx context.Context) (*Overview, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM products WHERE in_stock = false),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM orders WHERE status = 'pending_payment')
	`

	var o Overview
	err := r.q.QueryRow(ctx, q).Scan(
		&o.TotalProducts,
		&o.TotalCategories,
		&o.OutOfStock,
		&o.TotalOrders,
		&o.PendingOrders,
	)
	if err != nil {
		return nil, fmt.Errorf("get admin overview: %w", err)
	}

	return &o, nil
}
