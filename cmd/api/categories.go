package main

import "net/http"

// listCategoriesHandler godoc
//
//	@Summary		List categories
//	@Description	Returns every category as a flat list ordered by name.
//	@Tags			categories
//	@Produce		json
//	@Success		200	{object}	CategoryListResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/categories [get]
func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Categories.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	_ = app.listResponse(w, list, len(list))
}
