package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type AdminClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type CustomerClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type AdminAuthenticator struct {
	secret []byte
	ttl    time.Duration
	iss    string
}

func NewAdminAuthenticator(secret string, ttl time.Duration, iss string) *AdminAuthenticator {
	return &AdminAuthenticator{secret: []byte(secret), ttl: ttl, iss: iss}
}

func (a *AdminAuthenticator) Issue(id int64, email string) (string, error) {
	claims := AdminClaims{
		Email:            email,
		RegisteredClaims: registered(id, a.iss, AdminAudience, a.ttl),
	}
	return sign(claims, a.secret)
}

func (a *AdminAuthenticator) Verify(token string) (*Admin, error) {
	var claims AdminClaims
	if err := parse(token, &claims, a.secret, a.iss, AdminAudience); err != nil {
		return nil, err
	}

	id, err := subjectID(&claims.RegisteredClaims)
	if err != nil {
		return nil, err
	}
	return &Admin{ID: id, Email: claims.Email}, nil
}

type CustomerAuthenticator struct {
	secret []byte
	ttl    time.Duration
	iss    string
}

func NewCustomerAuthenticator(secret string, ttl time.Duration, iss string) *CustomerAuthenticator {
	return &CustomerAuthenticator{secret: []byte(secret), ttl: ttl, iss: iss}
}

func (a *CustomerAuthenticator) Issue(id int64, email string) (string, error) {
	claims := CustomerClaims{
		Email:            email,
		Role:             CustomerRole,
		RegisteredClaims: registered(id, a.iss, CustomerAudience, a.ttl),
	}
	return sign(claims, a.secret)
}

func (a *CustomerAuthenticator) Verify(token string) (*Customer, error) {
	var claims CustomerClaims
	if err := parse(token, &claims, a.secret, a.iss, CustomerAudience); err != nil {
		return nil, err
	}
	if claims.Role != CustomerRole {
		return nil, ErrWrongRole
	}

	id, err := subjectID(&claims.RegisteredClaims)
	if err != nil {
		return nil, err
	}
	return &Customer{ID: id, Email: claims.Email}, nil
}

func registered(id int64, iss, aud string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(id, 10),
		Issuer:    iss,
		Audience:  jwt.ClaimStrings{aud},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func sign(claims jwt.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

func parse(token string, claims jwt.Claims, secret []byte, iss, aud string) error {
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithAudience(aud),
		jwt.WithIssuer(iss),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	return err
}

func subjectID(c *jwt.RegisteredClaims) (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token subject: %w", err)
	}
	return id, nil
}
