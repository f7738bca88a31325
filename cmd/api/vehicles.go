package main

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

// listMakesHandler godoc
//
//	@Summary	Vehicle makes
//	@Tags		vehicles
//	@Produce	json
//	@Success	200	{object}	StringListResponse
//	@Router		/vehicles/makes [get]
func (app *application) listMakesHandler(w http.ResponseWriter, r *http.Request) {
	makes, err := app.store.Vehicles.Makes(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	_ = app.listResponse(w, makes, len(makes))
}

// listModelsHandler godoc
//
//	@Summary	Models of a make
//	@Tags		vehicles
//	@Produce	json
//	@Param		make	path		string	true	"Vehicle make"
//	@Success	200		{object}	StringListResponse
//	@Router		/vehicles/models/{make} [get]
func (app *application) listModelsHandler(w http.ResponseWriter, r *http.Request) {
	models, err := app.store.Vehicles.Models(r.Context(), pathParam(r, "make"))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	_ = app.listResponse(w, models, len(models))
}

// listYearsHandler godoc
//
//	@Summary	Years of a make and model, newest first
//	@Tags		vehicles
//	@Produce	json
//	@Param		make	path		string	true	"Vehicle make"
//	@Param		model	path		string	true	"Vehicle model"
//	@Success	200		{object}	IntListResponse
//	@Router		/vehicles/years/{make}/{model} [get]
func (app *application) listYearsHandler(w http.ResponseWriter, r *http.Request) {
	years, err := app.store.Vehicles.Years(r.Context(), pathParam(r, "make"), pathParam(r, "model"))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	_ = app.listResponse(w, years, len(years))
}
