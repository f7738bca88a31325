package vehicles

import (
	"context"
	"fmt"

	"autostyle/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Repository struct {
	q dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{q: q}
}

func (r *Repository) Makes(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT make FROM vehicles ORDER BY make ASC`)
	if err != nil {
		return nil, fmt.Errorf("list makes: %w", err)
	}
	return collect(rows, pgx.RowTo[string])
}

func (r *Repository) Models(ctx context.Context, carMake string) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT model FROM vehicles
		WHERE make = $1
		ORDER BY model ASC`, carMake)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return collect(rows, pgx.RowTo[string])
}

func (r *Repository) Years(ctx context.Context, carMake, model string) ([]int, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT year FROM vehicles
		WHERE make = $1 AND model = $2
		ORDER BY year DESC`, carMake, model)
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	return collect(rows, pgx.RowTo[int])
}

func (r *Repository) ForProduct(ctx context.Context, productID string) ([]Vehicle, error) {
	rows, err := r.q.Query(ctx, `
		SELECT v.id, v.make, v.model, v.year, v.trim
		FROM vehicles v
		JOIN product_vehicles pv ON pv.vehicle_id = v.id
		WHERE pv.product_id = $1
		ORDER BY v.make, v.model, v.year DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product vehicles: %w", err)
	}
	return collect(rows, func(row pgx.CollectableRow) (Vehicle, error) {
		var v Vehicle
		err := row.Scan(&v.ID, &v.Make, &v.Model, &v.Year, &v.Trim)
		return v, err
	})
}

func collect[T any](rows pgx.Rows, fn pgx.RowToFunc[T]) ([]T, error) {
	out, err := pgx.CollectRows(rows, fn)
	if err != nil {
		return nil, fmt.Errorf("collect vehicles: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
