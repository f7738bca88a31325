package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// prices go out as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

const maxJSONBytes = 1_048_576

// readJSON parses the body into data, rejecting unknown fields.
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(data)
}

// readJSONLenient is readJSON for bodies that carry client-side extras we
// ignore, like the storefront cart.
func readJSONLenient(w http.ResponseWriter, r *http.Request, data any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	return json.NewDecoder(r.Body).Decode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string) error {
	type envelope struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}

	return writeJSON(w, status, &envelope{Status: "error", Message: message})
}

func (app *application) jsonResponse(w http.ResponseWriter, status int, data any) error {
	type envelope struct {
		Status string `json:"status"`
		Data   any    `json:"data"`
	}
	return writeJSON(w, status, &envelope{Status: "success", Data: data})
}

func (app *application) listResponse(w http.ResponseWriter, data any, count int) error {
	type envelope struct {
		Status string `json:"status"`
		Count  int    `json:"count"`
		Data   any    `json:"data"`
	}
	return writeJSON(w, http.StatusOK, &envelope{Status: "success", Count: count, Data: data})
}
