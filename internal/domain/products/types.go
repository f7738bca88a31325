package products

import (
	"context"
	"errors"
	"time"

	"autostyle/internal/catalog"
	"autostyle/internal/domain/vehicles"
	"autostyle/internal/params"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("product not found")
	ErrDuplicate       = errors.New("a product with that id already exists")
	ErrUnknownCategory = errors.New("category does not exist")
	ErrUnknownVehicle  = errors.New("vehicle does not exist")
	ErrInUse           = errors.New("product is referenced by existing orders")
)

type Product struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Description   *string             `json:"description"`
	Price         decimal.Decimal     `json:"price" swaggertype:"number"`
	OriginalPrice decimal.NullDecimal `json:"original_price" swaggertype:"number"`
	Brand         string              `json:"brand"`
	CategoryID    string              `json:"category_id"`
	CategoryName  *string             `json:"category_name"`
	Image         *string             `json:"image"`
	Images        []string            `json:"images"`
	PartNumber    *string             `json:"part_number"`
	Rating        decimal.Decimal     `json:"rating" swaggertype:"number"`
	ReviewsCount  int                 `json:"reviews_count"`
	InStock       bool                `json:"in_stock"`
	CreatedAt     time.Time           `json:"created_at"`
	Vehicles      []vehicles.Vehicle  `json:"vehicles,omitempty"`
}

// Patch is a partial product update. Nil pointers and unset Optionals are
// left untouched.
type Patch struct {
	Name          *string
	Description   params.Optional[string]
	Price         *decimal.Decimal
	OriginalPrice params.Optional[decimal.Decimal]
	Brand         *string
	CategoryID    *string
	Image         params.Optional[string]
	Images        *[]string
	PartNumber    params.Optional[string]
	InStock       *bool
	VehicleIDs    *[]int64
}

func (p Patch) Empty() bool {
	return p.Name == nil && !p.Description.Set && p.Price == nil && !p.OriginalPrice.Set &&
		p.Brand == nil && p.CategoryID == nil && !p.Image.Set && p.Images == nil &&
		!p.PartNumber.Set && p.InStock == nil && p.VehicleIDs == nil
}

type Store interface {
	Search(ctx context.Context, q catalog.Query) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	// PriceOf returns the current authoritative price.
	PriceOf(ctx context.Context, id string) (decimal.Decimal, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, id string, p Patch) error
	SetVehicles(ctx context.Context, id string, vehicleIDs []int64) error
	Delete(ctx context.Context, id string) error
}
