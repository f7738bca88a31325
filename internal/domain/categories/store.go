package categories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"autostyle/internal/catalog"
	"autostyle/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Repository struct {
	q dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{q: q}
}

func (r *Repository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, slug, description, parent_id
		FROM categories
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Category, error) {
	var c Category
	err := r.q.QueryRow(ctx, `
		SELECT id, name, slug, description, parent_id
		FROM categories
		WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *Repository) Nodes(ctx context.Context) ([]catalog.Node, error) {
	rows, err := r.q.Query(ctx, `SELECT id, COALESCE(parent_id, '') FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("list category nodes: %w", err)
	}
	defer rows.Close()

	var nodes []catalog.Node
	for rows.Next() {
		var n catalog.Node
		if err := rows.Scan(&n.ID, &n.ParentID); err != nil {
			return nil, fmt.Errorf("scan category node: %w", err)
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

func (r *Repository) Create(ctx context.Context, c *Category) error {
	if c.ParentID != nil && *c.ParentID == c.ID {
		return ErrSelfParent
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO categories (id, name, slug, description, parent_id)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Slug, c.Description, c.ParentID)
	return mapWriteErr("create category", err)
}

func (r *Repository) Update(ctx context.Context, id string, p Patch) error {
	if p.ParentID.Value != nil && *p.ParentID.Value == id {
		return ErrSelfParent
	}

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
	if p.Slug != nil {
		add("slug", *p.Slug)
	}
	if p.Description.Set {
		add("description", p.Description.Value)
	}
	if p.ParentID.Set {
		add("parent_id", p.ParentID.Value)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	q := "UPDATE categories SET " + strings.Join(sets, ", ") + " WHERE id = $" + strconv.Itoa(len(args))

	tag, err := r.q.Exec(ctx, q, args...)
	if err != nil {
		return mapWriteErr("update category", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the category; children keep existing with a NULL parent
// through the foreign key's ON DELETE SET NULL.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if _, ok := dbx.ForeignKeyViolation(err); ok {
			return fmt.Errorf("delete category: %w", ErrInUse)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func mapWriteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := dbx.UniqueViolation(err); ok {
		return ErrDuplicate
	}
	if _, ok := dbx.ForeignKeyViolation(err); ok {
		return ErrInvalidParent
	}
	return fmt.Errorf("%s: %w", op, err)
}
