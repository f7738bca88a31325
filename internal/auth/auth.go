package auth

import (
	"errors"
	"time"
)

const (
	AdminAudience    = "autostyle-admin"
	CustomerAudience = "autostyle-customer"

	CustomerRole = "customer"

	AdminTokenTTL    = 24 * time.Hour
	CustomerTokenTTL = 30 * 24 * time.Hour
)

// ErrWrongRole is returned for a correctly signed customer token whose role
// claim is not "customer".
var ErrWrongRole = errors.New("token role is not allowed here")

// Admin is the verified principal behind an admin token.
type Admin struct {
	ID    int64
	Email string
}

// Customer is the verified principal behind a customer token.
type Customer struct {
	ID    int64
	Email string
}

// AdminTokens issues and verifies back-office tokens.
type AdminTokens interface {
	Issue(id int64, email string) (string, error)
	Verify(token string) (*Admin, error)
}

// CustomerTokens issues and verifies storefront customer tokens.
type CustomerTokens interface {
	Issue(id int64, email string) (string, error)
	Verify(token string) (*Customer, error)
}
