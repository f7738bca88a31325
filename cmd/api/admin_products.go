package main

import (
	"errors"
	"net/http"
	"strings"

	"autostyle/internal/domain/products"
	"autostyle/internal/domain/storage"
	"autostyle/internal/params"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateProductPayload struct {
	ID            string           `json:"id" validate:"omitempty,max=64"`
	Name          string           `json:"name" validate:"required,max=255"`
	Description   *string          `json:"description"`
	Price         decimal.Decimal  `json:"price" swaggertype:"number"`
	OriginalPrice *decimal.Decimal `json:"original_price" swaggertype:"number"`
	Brand         string           `json:"brand" validate:"max=100"`
	CategoryID    string           `json:"category_id" validate:"required,max=64"`
	Image         *string          `json:"image"`
	Images        []string         `json:"images"`
	PartNumber    *string          `json:"part_number" validate:"omitempty,max=100"`
	InStock       *bool            `json:"in_stock"`
	VehicleIDs    []int64          `json:"vehicle_ids"`
}

type UpdateProductPayload struct {
	Name          *string                          `json:"name" validate:"omitempty,min=1,max=255"`
	Description   params.Optional[string]          `json:"description" swaggertype:"string"`
	Price         *decimal.Decimal                 `json:"price" swaggertype:"number"`
	OriginalPrice params.Optional[decimal.Decimal] `json:"original_price" swaggertype:"number"`
	Brand         *string                          `json:"brand" validate:"omitempty,max=100"`
	CategoryID    *string                          `json:"category_id" validate:"omitempty,min=1,max=64"`
	Image         params.Optional[string]          `json:"image" swaggertype:"string"`
	Images        *[]string                        `json:"images"`
	PartNumber    params.Optional[string]          `json:"part_number" swaggertype:"string"`
	InStock       *bool                            `json:"in_stock"`
	VehicleIDs    *[]int64                         `json:"vehicle_ids"`
}

var errNonPositivePrice = errors.New("price must be greater than zero")

// createProductHandler godoc
//
//	@Summary		Create a product
//	@Description	Creates the product and its vehicle compatibility links together.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateProductPayload	true	"Product"
//	@Success		201		{object}	IDResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/products [post]
func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	payload.ID = strings.TrimSpace(payload.ID)
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Brand = strings.TrimSpace(payload.Brand)
	payload.CategoryID = strings.TrimSpace(payload.CategoryID)

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if !payload.Price.IsPositive() {
		app.badRequestResponse(w, r, errNonPositivePrice)
		return
	}

	p := &products.Product{
		ID:          payload.ID,
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Brand:       payload.Brand,
		CategoryID:  payload.CategoryID,
		Image:       nonEmpty(payload.Image),
		Images:      payload.Images,
		PartNumber:  nonEmpty(payload.PartNumber),
		InStock:     true,
	}
	if p.ID == "" {
		p.ID = "prod-" + uuid.NewString()
	}
	if payload.OriginalPrice != nil {
		p.OriginalPrice = decimal.NewNullDecimal(*payload.OriginalPrice)
	}
	if payload.InStock != nil {
		p.InStock = *payload.InStock
	}
	if p.Images == nil {
		p.Images = []string{}
	}

	err := app.uow.WithTx(r.Context(), func(tx *storage.Tx) error {
		if err := tx.Products.Create(r.Context(), p); err != nil {
			return err
		}
		if len(payload.VehicleIDs) == 0 {
			return nil
		}
		return tx.Products.SetVehicles(r.Context(), p.ID, payload.VehicleIDs)
	})
	if err != nil {
		app.productWriteError(w, r, err)
		return
	}

	app.logger.Infow("product created", "product_id", p.ID, "admin_id", getAdminFromContext(r).ID)

	_ = app.jsonResponse(w, http.StatusCreated, IDResponse{ID: p.ID})
}

// adminGetProductHandler godoc
//
//	@Summary	Get a product
//	@Tags		admin
//	@Produce	json
//	@Param		productID	path		string	true	"Product id"
//	@Success	200			{object}	products.Product
//	@Failure	404			{object}	ErrorResponse
//	@Security	ApiKeyAuth
//	@Router		/admin/products/{productID} [get]
func (app *application) adminGetProductHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := app.loadProduct(w, r)
	if !ok {
		return
	}
	_ = app.jsonResponse(w, http.StatusOK, p)
}

// updateProductHandler godoc
//
//	@Summary		Update a product
//	@Description	Partial update. vehicle_ids, when present, replaces the compatibility list.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		string					true	"Product id"
//	@Param			payload		body		UpdateProductPayload	true	"Fields to change"
//	@Success		200			{object}	products.Product
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/products/{productID} [put]
func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")

	var payload UpdateProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if payload.Price != nil && !payload.Price.IsPositive() {
		app.badRequestResponse(w, r, errNonPositivePrice)
		return
	}

	patch := products.Patch{
		Name:          payload.Name,
		Description:   payload.Description,
		Price:         payload.Price,
		OriginalPrice: payload.OriginalPrice,
		Brand:         payload.Brand,
		CategoryID:    payload.CategoryID,
		Image:         payload.Image,
		Images:        payload.Images,
		PartNumber:    payload.PartNumber,
		InStock:       payload.InStock,
		VehicleIDs:    payload.VehicleIDs,
	}
	if patch.Empty() {
		app.badRequestResponse(w, r, errors.New("no fields to update"))
		return
	}

	err := app.uow.WithTx(r.Context(), func(tx *storage.Tx) error {
		if err := tx.Products.Update(r.Context(), id, patch); err != nil {
			return err
		}
		if patch.VehicleIDs == nil {
			return nil
		}
		return tx.Products.SetVehicles(r.Context(), id, *patch.VehicleIDs)
	})
	if err != nil {
		app.productWriteError(w, r, err)
		return
	}

	app.logger.Infow("product updated", "product_id", id, "admin_id", getAdminFromContext(r).ID)

	p, ok := app.loadProduct(w, r)
	if !ok {
		return
	}
	_ = app.jsonResponse(w, http.StatusOK, p)
}

// deleteProductHandler godoc
//
//	@Summary		Delete a product
//	@Description	Products that appear on past orders cannot be deleted.
//	@Tags			admin
//	@Produce		json
//	@Param			productID	path		string	true	"Product id"
//	@Success		200			{object}	MessageResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/products/{productID} [delete]
func (app *application) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")

	if err := app.store.Products.Delete(r.Context(), id); err != nil {
		app.productWriteError(w, r, err)
		return
	}

	app.logger.Infow("product deleted", "product_id", id, "admin_id", getAdminFromContext(r).ID)

	_ = app.jsonResponse(w, http.StatusOK, MessageResponse{Message: "product deleted"})
}

func (app *application) productWriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, products.ErrNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, products.ErrDuplicate), errors.Is(err, products.ErrInUse):
		app.conflictResponse(w, r, err)
	case errors.Is(err, products.ErrUnknownCategory), errors.Is(err, products.ErrUnknownVehicle):
		app.badRequestResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}
