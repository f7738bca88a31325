package users

import (
	"context"
	"errors"
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

func (r *Repository) Create(ctx context.Context, u *User) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		u.Email, string(u.Password.hash), u.FirstName, u.LastName, u.Phone,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if _, ok := dbx.UniqueViolation(err); ok {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *Repository) getBy(ctx context.Context, col string, v any) (*User, error) {
	var (
		u    User
		hash string
	)
	err := r.q.QueryRow(ctx, `
		SELECT id, email, password_hash, first_name, last_name, phone, created_at
		FROM users
		WHERE `+col+` = $1`, v).
		Scan(&u.ID, &u.Email, &hash, &u.FirstName, &u.LastName, &u.Phone, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by %s: %w", col, err)
	}
	u.Password.hash = []byte(hash)
	return &u, nil
}

func (r *Repository) UpdateContact(ctx context.Context, id int64, firstName, lastName string, phone *string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, phone = $3
		WHERE id = $4`, firstName, lastName, phone, id)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Addresses(ctx context.Context, userID int64) ([]Address, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, type, street, city, postal_code, country, is_default
		FROM user_addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	out := []Address{}
	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.Street, &a.City, &a.PostalCode, &a.Country, &a.IsDefault); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) UpsertAddress(ctx context.Context, a *Address) error {
	if a.Type == "" {
		a.Type = DefaultAddressType
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO user_addresses (user_id, type, street, city, postal_code, country, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, type) DO UPDATE
		SET street = EXCLUDED.street,
		    city = EXCLUDED.city,
		    postal_code = EXCLUDED.postal_code,
		    country = EXCLUDED.country
		RETURNING id, is_default`,
		a.UserID, a.Type, a.Street, a.City, a.PostalCode, a.Country, a.IsDefault,
	).Scan(&a.ID, &a.IsDefault)
	if err != nil {
		return fmt.Errorf("upsert address: %w", err)
	}
	return nil
}
