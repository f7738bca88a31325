package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const iss = "autostyle-test"

func TestAdminTokenRoundTrip(t *testing.T) {
	a := NewAdminAuthenticator("admin-secret", AdminTokenTTL, iss)

	token, err := a.Issue(7, "admin@autostyle.com")
	require.NoError(t, err)

	admin, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), admin.ID)
	assert.Equal(t, "admin@autostyle.com", admin.Email)
}

func TestCustomerTokenRoundTrip(t *testing.T) {
	c := NewCustomerAuthenticator("customer-secret", CustomerTokenTTL, iss)

	token, err := c.Issue(42, "jane@example.com")
	require.NoError(t, err)

	customer, err := c.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), customer.ID)
	assert.Equal(t, "jane@example.com", customer.Email)

	var claims CustomerClaims
	_, _, err = jwt.NewParser().ParseUnverified(token, &claims)
	require.NoError(t, err)
	assert.Equal(t, CustomerRole, claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(CustomerTokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestAdminTokenExpiresInADay(t *testing.T) {
	a := NewAdminAuthenticator("admin-secret", AdminTokenTTL, iss)
	token, err := a.Issue(1, "a@b.c")
	require.NoError(t, err)

	var claims AdminClaims
	_, _, err = jwt.NewParser().ParseUnverified(token, &claims)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokensDoNotCrossNamespaces(t *testing.T) {
	// same secret on both sides so only the audience keeps them apart
	admin := NewAdminAuthenticator("shared", AdminTokenTTL, iss)
	customer := NewCustomerAuthenticator("shared", CustomerTokenTTL, iss)

	customerToken, err := customer.Issue(1, "c@example.com")
	require.NoError(t, err)
	_, err = admin.Verify(customerToken)
	assert.Error(t, err)

	adminToken, err := admin.Issue(1, "a@example.com")
	require.NoError(t, err)
	_, err = customer.Verify(adminToken)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewCustomerAuthenticator("one", CustomerTokenTTL, iss).Issue(1, "c@example.com")
	require.NoError(t, err)

	_, err = NewCustomerAuthenticator("two", CustomerTokenTTL, iss).Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestVerifyRejectsExpired(t *testing.T) {
	a := NewAdminAuthenticator("admin-secret", -time.Minute, iss)
	token, err := a.Issue(1, "a@b.c")
	require.NoError(t, err)

	_, err = a.Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestCustomerRoleMismatch(t *testing.T) {
	claims := CustomerClaims{
		Email:            "c@example.com",
		Role:             "admin",
		RegisteredClaims: registered(5, iss, CustomerAudience, time.Hour),
	}
	token, err := sign(claims, []byte("customer-secret"))
	require.NoError(t, err)

	_, err = NewCustomerAuthenticator("customer-secret", CustomerTokenTTL, iss).Verify(token)
	assert.ErrorIs(t, err, ErrWrongRole)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewAdminAuthenticator("s", AdminTokenTTL, iss).Verify("not-a-token")
	assert.Error(t, err)
}
