package storage

import (
	"context"
	"fmt"

	"autostyle/internal/checkout"
	"autostyle/internal/domain/admindashboard"
	"autostyle/internal/domain/admins"
	"autostyle/internal/domain/categories"
	"autostyle/internal/domain/orders"
	"autostyle/internal/domain/products"
	"autostyle/internal/domain/users"
	"autostyle/internal/domain/vehicles"
	"autostyle/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Container groups the pool-backed repositories used outside transactions.
type Container struct {
	pool       *pgxpool.Pool
	refs       *orders.ReferenceGenerator
	Categories categories.Store
	Products   products.Store
	Vehicles   vehicles.Store
	Admins     admins.Store
	Users      users.Store
	Orders     orders.Store
	Dashboard  admindashboard.Store
}

func NewContainer(db *pgxpool.Pool, refs *orders.ReferenceGenerator) *Container {
	return &Container{
		pool:       db,
		refs:       refs,
		Categories: categories.NewRepository(db),
		Products:   products.NewRepository(db),
		Vehicles:   vehicles.NewRepository(db),
		Admins:     admins.NewRepository(db),
		Users:      users.NewRepository(db),
		Orders:     orders.NewRepository(db, refs),
		Dashboard:  admindashboard.NewRepository(db),
	}
}

// Tx is a tx-scoped set of repositories for one unit of work.
type Tx struct {
	Products products.Store
	Users    users.Store
	Orders   orders.Store
}

func (c *Container) newTx(q dbx.Querier) *Tx {
	return &Tx{
		Products: products.NewRepository(q),
		Users:    users.NewRepository(q),
		Orders:   orders.NewRepository(q, c.refs),
	}
}

// WithTx runs fn atomically: it commits when fn returns nil and rolls back
// otherwise.
func (c *Container) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	if c.pool == nil {
		return fmt.Errorf("storage container pool is nil")
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx) // no-op once committed
	}()

	if err := fn(c.newTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// WithCheckoutTx adapts WithTx to the checkout service.
func (c *Container) WithCheckoutTx(ctx context.Context, fn func(tx checkout.Tx) error) error {
	return c.WithTx(ctx, func(tx *Tx) error {
		return fn(checkout.Tx{Prices: tx.Products, Orders: tx.Orders})
	})
}
