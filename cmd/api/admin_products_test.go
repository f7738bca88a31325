package main

import (
	"net/http"
	"testing"

	"autostyle/internal/domain/products"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct(t *testing.T) {
	app, env := newTestApplication(t)
	mux := app.mount()
	token := adminToken(t, app)
	seedCategory(env, "cat-brakes", "Brakes", nil)

	post := func(body map[string]any) int {
		rr := executeRequest(withBearer(jsonRequest(t, http.MethodPost, "/api/admin/products", body), token), mux)
		return rr.Code
	}

	t.Run("with vehicles", func(t *testing.T) {
		rr := executeRequest(withBearer(jsonRequest(t, http.MethodPost, "/api/admin/products", map[string]any{
			"id":          "prod-pads",
			"name":        "Front brake pads",
			"price":       49.99,
			"category_id": "cat-brakes",
			"vehicle_ids": []int64{1, 3},
		}), token), mux)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		assert.Equal(t, "prod-pads", decode[IDResponse](t, rr).Data.ID)

		p := env.products.byID["prod-pads"]
		assert.True(t, p.InStock)
		assert.Equal(t, "49.99", p.Price.String())
		assert.Equal(t, []int64{1, 3}, env.products.links["prod-pads"])
	})

	t.Run("generated id", func(t *testing.T) {
		rr := executeRequest(withBearer(jsonRequest(t, http.MethodPost, "/api/admin/products", map[string]any{
			"name":        "Disc",
			"price":       "22.00",
			"category_id": "cat-brakes",
			"in_stock":    false,
		}), token), mux)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		id := decode[IDResponse](t, rr).Data.ID
		assert.Regexp(t, `^prod-`, id)
		assert.False(t, env.products.byID[id].InStock)
	})

	tests := []struct {
		name string
		body map[string]any
		code int
	}{
		{"missing name", map[string]any{"price": 10, "category_id": "cat-brakes"}, http.StatusBadRequest},
		{"zero price", map[string]any{"name": "X", "price": 0, "category_id": "cat-brakes"}, http.StatusBadRequest},
		{"negative price", map[string]any{"name": "X", "price": -5, "category_id": "cat-brakes"}, http.StatusBadRequest},
		{"unknown category", map[string]any{"name": "X", "price": 10, "category_id": "cat-nope"}, http.StatusBadRequest},
		{"unknown vehicle", map[string]any{"name": "X", "price": 10, "category_id": "cat-brakes", "vehicle_ids": []int64{999}}, http.StatusBadRequest},
		{"duplicate id", map[string]any{"id": "prod-pads", "name": "X", "price": 10, "category_id": "cat-brakes"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, post(tt.body))
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	app, env := newTestApplication(t)
	mux := app.mount()
	token := adminToken(t, app)
	seedCategory(env, "cat-brakes", "Brakes", nil)
	seedProduct(env, "prod-pads", "cat-brakes", "49.99")

	put := func(id, body string) int {
		rr := executeRequest(withBearer(jsonRequest(t, http.MethodPut, "/api/admin/products/"+id, body), token), mux)
		return rr.Code
	}

	t.Run("partial update", func(t *testing.T) {
		rr := executeRequest(withBearer(jsonRequest(t, http.MethodPut, "/api/admin/products/prod-pads",
			`{"price": 39.99, "original_price": 49.99, "vehicle_ids": [2]}`), token), mux)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		got := decode[products.Product](t, rr).Data
		assert.Equal(t, "39.99", got.Price.String())
		assert.Equal(t, "Part prod-pads", got.Name)
		require.Len(t, got.Vehicles, 1)
		assert.Equal(t, "Corolla", got.Vehicles[0].Model)
	})

	t.Run("explicit null clears original price", func(t *testing.T) {
		require.Equal(t, http.StatusOK, put("prod-pads", `{"original_price": null}`))
		assert.False(t, env.products.byID["prod-pads"].OriginalPrice.Valid)
	})

	t.Run("no fields", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, put("prod-pads", `{}`))
	})

	t.Run("unknown field", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, put("prod-pads", `{"colour": "red"}`))
	})

	t.Run("unknown id", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, put("prod-nope", `{"name": "X"}`))
	})
}

func TestDeleteProduct(t *testing.T) {
	app, env := newTestApplication(t)
	mux := app.mount()
	token := adminToken(t, app)
	seedCategory(env, "cat-brakes", "Brakes", nil)
	seedProduct(env, "prod-pads", "cat-brakes", "49.99")
	seedProduct(env, "prod-sold", "cat-brakes", "10.00")
	env.products.ordered["prod-sold"] = true

	del := func(id string) int {
		return executeRequest(withBearer(jsonRequest(t, http.MethodDelete, "/api/admin/products/"+id, nil), token), mux).Code
	}

	assert.Equal(t, http.StatusOK, del("prod-pads"))
	assert.Equal(t, http.StatusNotFound, del("prod-pads"))
	assert.Equal(t, http.StatusConflict, del("prod-sold"))

	rr := executeRequest(withBearer(jsonRequest(t, http.MethodGet, "/api/admin/products/prod-pads", nil), token), mux)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
