package main

import (
	"net/http"
	"testing"

	"autostyle/internal/domain/orders"
	"autostyle/internal/domain/users"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCustomer(t *testing.T) {
	app, env := newTestApplication(t)
	mux := app.mount()

	body := map[string]any{
		"email":      "jane@example.com",
		"password":   "secret123",
		"first_name": "Jane",
		"last_name":  "Doe",
	}

	rr := executeRequest(jsonRequest(t, http.MethodPost, "/api/auth/customer/register", body), mux)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	got := decode[CustomerAuthResponse](t, rr).Data
	require.NotNil(t, got.User)
	assert.Equal(t, "jane@example.com", got.User.Email)
	assert.NotContains(t, rr.Body.String(), "secret123")

	customer, err := app.customerAuth.Verify(got.Token)
	require.NoError(t, err)
	assert.Equal(t, got.User.ID, customer.ID)
	assert.Len(t, env.users.byID, 1)

	t.Run("duplicate email", func(t *testing.T) {
		rr := executeRequest(jsonRequest(t, http.MethodPost, "/api/auth/customer/register", body), mux)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("missing names", func(t *testing.T) {
		rr := executeRequest(jsonRequest(t, http.MethodPost, "/api/auth/customer/register", map[string]any{
			"email":    "john@example.com",
			"password": "secret123",
		}), mux)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCustomerLogin(t *testing.T) {
	app, env := newTestApplication(t)
	mux := app.mount()
	u := seedCustomer(t, env, "jane@example.com", "secret123")

	rr := executeRequest(jsonRequest(t, http.MethodPost, "/api/auth/customer/login", LoginPayload{
		Email:    "jane@example.com",
		Password: "secret123",
	}), mux)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	got := decode[CustomerAuthResponse](t, rr).Data
	customer, err := app.customerAuth.Verify(got.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, customer.ID)

	rr = executeRequest(jsonRequest(t, http.MethodPost, "/api/auth/customer/login", LoginPayload{
		Email:    "jane@example.com",
		Password: "wrong-password",
	}), mux)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUpdateProfile(t *testing.T) {
	app, env := newTestApplication(t)
	mux := app.mount()
	u := seedCustomer(t, env, "jane@example.com", "secret123")
	token := customerToken(t, app, u.ID)

	t.Run("names are required", func(t *testing.T) {
		req := withBearer(jsonRequest(t, http.MethodPut, "/api/customer/profile", `{"first_name":"Jane"}`), token)
		assert.Equal(t, http.StatusBadRequest, executeRequest(req, mux).Code)
	})

	t.Run("upserts the shipping address", func(t *testing.T) {
		for _, city := range []string{"Cape Town", "Durban"} {
			req := withBearer(jsonRequest(t, http.MethodPut, "/api/customer/profile", map[string]any{
				"first_name": "Janet",
				"last_name":  "Doe",
				"phone":      "+27 21 555 0100",
				"address": map[string]any{
					"street":      "1 Long Street",
					"city":        city,
					"postal_code": "8001",
					"country":     "South Africa",
				},
			}), token)
			rr := executeRequest(req, mux)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		}

		rr := executeRequest(withBearer(jsonRequest(t, http.MethodGet, "/api/customer/profile", nil), token), mux)
		require.Equal(t, http.StatusOK, rr.Code)

		profile := decode[users.Profile](t, rr).Data
		assert.Equal(t, "Janet", profile.User.FirstName)
		require.NotNil(t, profile.User.Phone)
		require.Len(t, profile.Addresses, 1)
		assert.Equal(t, users.DefaultAddressType, profile.Addresses[0].Type)
		assert.Equal(t, "Durban", profile.Addresses[0].City)
	})

	t.Run("incomplete address is skipped", func(t *testing.T) {
		req := withBearer(jsonRequest(t, http.MethodPut, "/api/customer/profile", map[string]any{
			"first_name": "Janet",
			"last_name":  "Doe",
			"address":    map[string]any{"type": "billing", "street": "2 Short Street"},
		}), token)
		require.Equal(t, http.StatusOK, executeRequest(req, mux).Code)
		assert.Len(t, env.users.addresses[u.ID], 1)
	})
}

func TestProfileOfDeletedUser(t *testing.T) {
	app, _ := newTestApplication(t)
	mux := app.mount()

	req := withBearer(jsonRequest(t, http.MethodGet, "/api/customer/profile", nil), customerToken(t, app, 99))
	assert.Equal(t, http.StatusNotFound, executeRequest(req, mux).Code)
}

func TestListCustomerOrders(t *testing.T) {
	app, env := newTestApplication(t)
	mux := app.mount()
	u := seedCustomer(t, env, "jane@example.com", "secret123")
	other := int64(42)

	env.orders.list = []orders.Order{
		{ID: 1, Reference: "AS-AAAAAA", UserID: &u.ID, TotalAmount: decimal.RequireFromString("10.00")},
		{ID: 2, Reference: "AS-BBBBBB", UserID: &other, TotalAmount: decimal.RequireFromString("20.00")},
		{ID: 3, Reference: "AS-CCCCCC", UserID: &u.ID, TotalAmount: decimal.RequireFromString("30.00")},
	}

	rr := executeRequest(withBearer(jsonRequest(t, http.MethodGet, "/api/customer/orders?limit=1", nil), customerToken(t, app, u.ID)), mux)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	got := decode[CustomerOrdersResponse](t, rr).Data
	require.Len(t, got.Orders, 1)
	assert.Equal(t, "AS-CCCCCC", got.Orders[0].Reference)
	assert.Equal(t, 2, got.Pagination.Total)
	assert.True(t, got.Pagination.HasNext)
}
