package checkout

import (
	"context"
	"errors"
	"fmt"

	"autostyle/internal/domain/orders"
	"autostyle/internal/domain/products"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MaxQuantity is the largest quantity accepted for a single cart line.
const MaxQuantity = 1000

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrInvalidLine = errors.New("each cart item needs a product_id and a quantity between 1 and 1000")
)

// UnknownProductError aborts a checkout whose cart names a product that
// does not exist.
type UnknownProductError struct {
	ProductID string
}

func (e *UnknownProductError) Error() string {
	return "product not found: " + e.ProductID
}

type Line struct {
	ProductID string
	Quantity  int
}

type Request struct {
	CustomerName    string
	CustomerEmail   string
	ShippingAddress string
	City            string
	PostalCode      string
	Country         string
	Phone           *string
	// UserID is nil for guest checkout.
	UserID *int64
	Lines  []Line
}

type Result struct {
	Order *orders.Order
	Items []orders.Item
}

// Prices and Orders are the tx-scoped stores a checkout needs.
type Prices interface {
	PriceOf(ctx context.Context, productID string) (decimal.Decimal, error)
}

type Orders interface {
	Create(ctx context.Context, o *orders.Order) error
	AddItem(ctx context.Context, it *orders.Item) error
}

type Tx struct {
	Prices Prices
	Orders Orders
}

// Runner runs fn in one database transaction, committing only when fn
// returns nil.
type Runner interface {
	WithCheckoutTx(ctx context.Context, fn func(tx Tx) error) error
}

// Notifier is told about committed orders.
type Notifier interface {
	OrderPlaced(ctx context.Context, o *orders.Order, items []orders.Item) error
}

type Service struct {
	runner   Runner
	notifier Notifier
	logger   *zap.SugaredLogger
}

func NewService(runner Runner, notifier Notifier, logger *zap.SugaredLogger) *Service {
	return &Service{runner: runner, notifier: notifier, logger: logger}
}

// Place prices every line from the product store, never from the client,
// and writes the order with its items atomically.
func (s *Service) Place(ctx context.Context, req Request) (*Result, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	for _, l := range req.Lines {
		if l.ProductID == "" || l.Quantity < 1 || l.Quantity > MaxQuantity {
			return nil, ErrInvalidLine
		}
	}

	var res *Result
	err := s.runner.WithCheckoutTx(ctx, func(tx Tx) error {
		items := make([]orders.Item, 0, len(req.Lines))
		total := decimal.Zero

		for _, l := range req.Lines {
			price, err := tx.Prices.PriceOf(ctx, l.ProductID)
			if err != nil {
				if errors.Is(err, products.ErrNotFound) {
					return &UnknownProductError{ProductID: l.ProductID}
				}
				return fmt.Errorf("price %s: %w", l.ProductID, err)
			}
			total = total.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
			items = append(items, orders.Item{
				ProductID:       l.ProductID,
				Quantity:        l.Quantity,
				PriceAtPurchase: price,
			})
		}

		o := &orders.Order{
			CustomerName:    req.CustomerName,
			CustomerEmail:   req.CustomerEmail,
			UserID:          req.UserID,
			TotalAmount:     total.Round(2),
			Status:          orders.StatusPendingPayment,
			ShippingAddress: req.ShippingAddress,
			City:            req.City,
			PostalCode:      req.PostalCode,
			Country:         req.Country,
			Phone:           req.Phone,
		}
		if err := tx.Orders.Create(ctx, o); err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = o.ID
			if err := tx.Orders.AddItem(ctx, &items[i]); err != nil {
				return err
			}
		}

		res = &Result{Order: o, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, res.Order, res.Items); err != nil {
			s.logger.Warnw("order confirmation not sent", "order_id", res.Order.ID, "error", err)
		}
	}

	return res, nil
}
