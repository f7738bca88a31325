package main

import (
	"errors"
	"net/http"

	"autostyle/internal/catalog"
	"autostyle/internal/domain/products"

	"github.com/go-chi/chi/v5"
)

// listProductsHandler godoc
//
//	@Summary		Search products
//	@Description	Filters the catalog. All filters are optional and combine with AND. Invalid price bounds are ignored.
//	@Tags			products
//	@Produce		json
//	@Param			q			query		string	false	"Part number or free text"
//	@Param			category	query		string	false	"Category id, includes sub-categories"
//	@Param			brands		query		string	false	"Comma separated brands"
//	@Param			min_price	query		number	false	"Inclusive lower price bound"
//	@Param			max_price	query		number	false	"Inclusive upper price bound"
//	@Param			make		query		string	false	"Vehicle make"
//	@Param			model		query		string	false	"Vehicle model"
//	@Param			year		query		int		false	"Vehicle year"
//	@Param			limit		query		int		false	"Page size"	default(50)
//	@Param			page		query		int		false	"Page"		default(1)
//	@Success		200			{object}	ProductListResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/products [get]
func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f := catalog.ParseFilter(r.URL.Query())

	var categoryIDs []string
	if f.Category != "" {
		nodes, err := app.store.Categories.Nodes(ctx)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		categoryIDs = catalog.Descendants(nodes, f.Category)
	}

	q := catalog.Build(f.Predicates(categoryIDs), f.Page)

	list, err := app.store.Products.Search(ctx, q)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	_ = app.listResponse(w, list, len(list))
}

// getProductHandler godoc
//
//	@Summary		Get a product
//	@Description	Returns one product with its category name and compatible vehicles.
//	@Tags			products
//	@Produce		json
//	@Param			productID	path		string	true	"Product id"
//	@Success		200			{object}	products.Product
//	@Failure		404			{object}	ErrorResponse
//	@Router			/products/{productID} [get]
func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := app.loadProduct(w, r)
	if !ok {
		return
	}
	_ = app.jsonResponse(w, http.StatusOK, p)
}

func (app *application) loadProduct(w http.ResponseWriter, r *http.Request) (*products.Product, bool) {
	ctx := r.Context()
	id := chi.URLParam(r, "productID")

	p, err := app.store.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			app.notFoundResponse(w, r, err)
		} else {
			app.internalServerError(w, r, err)
		}
		return nil, false
	}

	p.Vehicles, err = app.store.Vehicles.ForProduct(ctx, id)
	if err != nil {
		app.internalServerError(w, r, err)
		return nil, false
	}
	return p, true
}
