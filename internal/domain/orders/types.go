package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatusPendingPayment is the only status checkout writes.
const StatusPendingPayment = "pending_payment"

type Order struct {
	ID              int64           `json:"id"`
	Reference       string          `json:"reference"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	UserID          *int64          `json:"user_id"`
	TotalAmount     decimal.Decimal `json:"total_amount" swaggertype:"number"`
	Status          string          `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	City            string          `json:"city"`
	PostalCode      string          `json:"postal_code"`
	Country         string          `json:"country"`
	Phone           *string         `json:"phone"`
	CreatedAt       time.Time       `json:"created_at"`
}

type Item struct {
	ID              int64           `json:"id"`
	OrderID         int64           `json:"order_id"`
	ProductID       string          `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase" swaggertype:"number"`
}

type Store interface {
	// Create assigns ID, Reference and CreatedAt.
	Create(ctx context.Context, o *Order) error
	AddItem(ctx context.Context, it *Item) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Order, int, error)
}
