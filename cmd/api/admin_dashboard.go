package main

import (
	"context"
	"net/http"
	"time"
)

// adminStatsHandler godoc
//
//	@Summary		Dashboard counts
//	@Description	Catalog and order totals for the admin dashboard.
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	admindashboard.Overview
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/stats [get]
func (app *application) adminStatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	out, err := app.store.Dashboard.GetOverview(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	_ = app.jsonResponse(w, http.StatusOK, out)
}
