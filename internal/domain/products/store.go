package products

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"autostyle/internal/catalog"
	"autostyle/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type Repository struct {
	q dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{q: q}
}

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice, &p.Brand,
		&p.CategoryID, &p.Image, &p.Images, &p.PartNumber, &p.Rating, &p.ReviewsCount,
		&p.InStock, &p.CreatedAt, &p.CategoryName,
	)
}

// Search runs a statement produced by catalog.Build.
func (r *Repository) Search(ctx context.Context, q catalog.Query) ([]Product, error) {
	rows, err := r.q.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if p.Images == nil {
			p.Images = []string{}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := scanProduct(r.q.QueryRow(ctx, `
		SELECT `+catalog.ProductColumns+`
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return &p, nil
}

func (r *Repository) PriceOf(ctx context.Context, id string) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT price FROM products WHERE id = $1`, id).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("get product price: %w", err)
	}
	return price, nil
}

func (r *Repository) Create(ctx context.Context, p *Product) error {
	if p.Images == nil {
		p.Images = []string{}
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO products (id, name, description, price, original_price, brand,
			category_id, image, images, part_number, in_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING rating, reviews_count, created_at`,
		p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.Brand,
		p.CategoryID, p.Image, p.Images, p.PartNumber, p.InStock,
	).Scan(&p.Rating, &p.ReviewsCount, &p.CreatedAt)
	if err != nil {
		if _, ok := dbx.UniqueViolation(err); ok {
			return ErrDuplicate
		}
		if _, ok := dbx.ForeignKeyViolation(err); ok {
			return ErrUnknownCategory
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, id string, p Patch) error {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Description.Set {
		add("description", p.Description.Value)
	}
	if p.Price != nil {
		add("price", *p.Price)
	}
	if p.OriginalPrice.Set {
		nd := decimal.NullDecimal{}
		if p.OriginalPrice.Value != nil {
			nd = decimal.NewNullDecimal(*p.OriginalPrice.Value)
		}
		add("original_price", nd)
	}
	if p.Brand != nil {
		add("brand", *p.Brand)
	}
	if p.CategoryID != nil {
		add("category_id", *p.CategoryID)
	}
	if p.Image.Set {
		add("image", p.Image.Value)
	}
	if p.Images != nil {
		images := *p.Images
		if images == nil {
			images = []string{}
		}
		add("images", images)
	}
	if p.PartNumber.Set {
		add("part_number", p.PartNumber.Value)
	}
	if p.InStock != nil {
		add("in_stock", *p.InStock)
	}

	// only vehicle links changed: still confirm the product exists
	if len(sets) == 0 {
		var exists bool
		if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check product: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		return nil
	}

	args = append(args, id)
	q := "UPDATE products SET " + strings.Join(sets, ", ") + " WHERE id = $" + strconv.Itoa(len(args))

	tag, err := r.q.Exec(ctx, q, args...)
	if err != nil {
		if _, ok := dbx.ForeignKeyViolation(err); ok {
			return ErrUnknownCategory
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetVehicles replaces the product's compatibility links.
func (r *Repository) SetVehicles(ctx context.Context, id string, vehicleIDs []int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_vehicles WHERE product_id = $1`, id); err != nil {
		return fmt.Errorf("clear product vehicles: %w", err)
	}
	if len(vehicleIDs) == 0 {
		return nil
	}

	_, err := r.q.Exec(ctx, `
		INSERT INTO product_vehicles (product_id, vehicle_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING`, id, vehicleIDs)
	if err != nil {
		if _, ok := dbx.ForeignKeyViolation(err); ok {
			return ErrUnknownVehicle
		}
		return fmt.Errorf("link product vehicles: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if _, ok := dbx.ForeignKeyViolation(err); ok {
			return ErrInUse
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
