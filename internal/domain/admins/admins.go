package admins

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autostyle/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrNotFound = errors.New("admin not found")

type Admin struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// CheckPassword returns nil when text matches the stored bcrypt hash.
func (a *Admin) CheckPassword(text string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(text))
}

type Store interface {
	GetByEmail(ctx context.Context, email string) (*Admin, error)
}

type Repository struct {
	q dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{q: q}
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	var (
		a    Admin
		hash string
	)
	err := r.q.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at
		FROM admins
		WHERE email = $1`, email).
		Scan(&a.ID, &a.Email, &hash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin by email: %w", err)
	}
	a.PasswordHash = []byte(hash)
	return &a, nil
}
