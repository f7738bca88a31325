package main

import (
	"autostyle/internal/domain/categories"
	"autostyle/internal/domain/products"
)

// Response shapes referenced from the swagger annotations.

// ErrorResponse is returned by every failing endpoint.
//
//	@name	ErrorResponse
type ErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Message string `json:"message" example:"category not found"`
}

type ProductListResponse struct {
	Status string             `json:"status" example:"success"`
	Count  int                `json:"count" example:"1"`
	Data   []products.Product `json:"data"`
}

type CategoryListResponse struct {
	Status string                `json:"status" example:"success"`
	Count  int                   `json:"count" example:"1"`
	Data   []categories.Category `json:"data"`
}

type StringListResponse struct {
	Status string   `json:"status" example:"success"`
	Count  int      `json:"count" example:"2"`
	Data   []string `json:"data" example:"Honda,Toyota"`
}

type IntListResponse struct {
	Status string `json:"status" example:"success"`
	Count  int    `json:"count" example:"2"`
	Data   []int  `json:"data" example:"2021,2020"`
}
