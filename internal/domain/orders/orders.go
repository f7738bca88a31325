package orders

import (
	"context"
	"fmt"

	"autostyle/internal/infra/dbx"
)

type Repository struct {
	q    dbx.Querier
	refs *ReferenceGenerator
}

func NewRepository(q dbx.Querier, refs *ReferenceGenerator) *Repository {
	if refs == nil {
		panic("orders: ReferenceGenerator is nil")
	}
	return &Repository{q: q, refs: refs}
}

// Create reserves the id first so the reference is written with the row.
func (r *Repository) Create(ctx context.Context, o *Order) error {
	if err := r.q.QueryRow(ctx, `SELECT nextval(pg_get_serial_sequence('orders', 'id'))`).Scan(&o.ID); err != nil {
		return fmt.Errorf("reserve order id: %w", err)
	}

	ref, err := r.refs.Generate(o.ID)
	if err != nil {
		return err
	}
	o.Reference = ref

	err = r.q.QueryRow(ctx, `
		INSERT INTO orders (id, reference, customer_name, customer_email, user_id, total_amount,
			status, shipping_address, city, postal_code, country, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`,
		o.ID, o.Reference, o.CustomerName, o.CustomerEmail, o.UserID, o.TotalAmount,
		o.Status, o.ShippingAddress, o.City, o.PostalCode, o.Country, o.Phone,
	).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *Repository) AddItem(ctx context.Context, it *Item) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		it.OrderID, it.ProductID, it.Quantity, it.PriceAtPurchase,
	).Scan(&it.ID)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Order, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, reference, customer_name, customer_email, user_id, total_amount,
		       status, shipping_address, city, postal_code, country, phone, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Reference, &o.CustomerName, &o.CustomerEmail, &o.UserID,
			&o.TotalAmount, &o.Status, &o.ShippingAddress, &o.City, &o.PostalCode, &o.Country,
			&o.Phone, &o.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}
