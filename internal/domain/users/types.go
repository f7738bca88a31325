package users

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("a user with that email already exists")
)

const DefaultAddressType = "shipping"

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     *string   `json:"phone"`
	Password  password  `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Address struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"-"`
	Type       string `json:"type"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

type Profile struct {
	User      *User     `json:"user"`
	Addresses []Address `json:"addresses"`
}

type password struct {
	hash []byte
}

func (p *password) Set(text string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	p.hash = hash

	return nil
}

func (p *password) Compare(text string) error {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(text))
}

type Store interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateContact(ctx context.Context, id int64, firstName, lastName string, phone *string) error
	Addresses(ctx context.Context, userID int64) ([]Address, error)
	// UpsertAddress keeps one address per (user, type).
	UpsertAddress(ctx context.Context, a *Address) error
}
