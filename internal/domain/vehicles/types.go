package vehicles

import "context"

type Vehicle struct {
	ID    int64   `json:"id"`
	Make  string  `json:"make"`
	Model string  `json:"model"`
	Year  int     `json:"year"`
	Trim  *string `json:"trim,omitempty"`
}

// Store serves the read-only vehicle reference data.
type Store interface {
	Makes(ctx context.Context) ([]string, error)
	Models(ctx context.Context, carMake string) ([]string, error)
	Years(ctx context.Context, carMake, model string) ([]int, error)
	ForProduct(ctx context.Context, productID string) ([]Vehicle, error)
}
