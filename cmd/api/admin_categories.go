package main

import (
	"errors"
	"net/http"
	"strings"

	"autostyle/internal/domain/categories"
	"autostyle/internal/params"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CreateCategoryPayload struct {
	ID          string  `json:"id" validate:"omitempty,max=64"`
	Name        string  `json:"name" validate:"required,max=255"`
	Slug        string  `json:"slug" validate:"required,max=255"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id" validate:"omitempty,max=64"`
}

type UpdateCategoryPayload struct {
	Name        *string                 `json:"name" validate:"omitempty,min=1,max=255"`
	Slug        *string                 `json:"slug" validate:"omitempty,min=1,max=255"`
	Description params.Optional[string] `json:"description" swaggertype:"string"`
	ParentID    params.Optional[string] `json:"parent_id" swaggertype:"string"`
}

type IDResponse struct {
	ID string `json:"id" example:"cat-brakes"`
}

type MessageResponse struct {
	Message string `json:"message" example:"category deleted"`
}

// createCategoryHandler godoc
//
//	@Summary	Create a category
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		CreateCategoryPayload	true	"Category"
//	@Success	201		{object}	IDResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	ApiKeyAuth
//	@Router		/admin/categories [post]
func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateCategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	payload.ID = strings.TrimSpace(payload.ID)
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Slug = strings.TrimSpace(payload.Slug)

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	c := &categories.Category{
		ID:          payload.ID,
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
		ParentID:    nonEmpty(payload.ParentID),
	}
	if c.ID == "" {
		c.ID = "cat-" + uuid.NewString()
	}
	if c.ParentID != nil && *c.ParentID == c.ID {
		app.badRequestResponse(w, r, categories.ErrSelfParent)
		return
	}

	if err := app.store.Categories.Create(r.Context(), c); err != nil {
		app.categoryWriteError(w, r, err)
		return
	}

	app.logger.Infow("category created", "category_id", c.ID, "admin_id", getAdminFromContext(r).ID)

	_ = app.jsonResponse(w, http.StatusCreated, IDResponse{ID: c.ID})
}

// getCategoryHandler godoc
//
//	@Summary	Get a category
//	@Tags		admin
//	@Produce	json
//	@Param		categoryID	path		string	true	"Category id"
//	@Success	200			{object}	categories.Category
//	@Failure	404			{object}	ErrorResponse
//	@Security	ApiKeyAuth
//	@Router		/admin/categories/{categoryID} [get]
func (app *application) getCategoryHandler(w http.ResponseWriter, r *http.Request) {
	c, err := app.store.Categories.GetByID(r.Context(), chi.URLParam(r, "categoryID"))
	if err != nil {
		app.categoryWriteError(w, r, err)
		return
	}
	_ = app.jsonResponse(w, http.StatusOK, c)
}

// updateCategoryHandler godoc
//
//	@Summary		Update a category
//	@Description	Partial update. Send "parent_id": null to make the category top level.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			categoryID	path		string					true	"Category id"
//	@Param			payload		body		UpdateCategoryPayload	true	"Fields to change"
//	@Success		200			{object}	categories.Category
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/categories/{categoryID} [put]
func (app *application) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "categoryID")

	var payload UpdateCategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	patch := categories.Patch{
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
		ParentID:    payload.ParentID,
	}
	if patch.Empty() {
		app.badRequestResponse(w, r, errors.New("no fields to update"))
		return
	}
	if v := patch.ParentID.Value; v != nil && *v == id {
		app.badRequestResponse(w, r, categories.ErrSelfParent)
		return
	}

	ctx := r.Context()
	if err := app.store.Categories.Update(ctx, id, patch); err != nil {
		app.categoryWriteError(w, r, err)
		return
	}

	c, err := app.store.Categories.GetByID(ctx, id)
	if err != nil {
		app.categoryWriteError(w, r, err)
		return
	}

	app.logger.Infow("category updated", "category_id", id, "admin_id", getAdminFromContext(r).ID)

	_ = app.jsonResponse(w, http.StatusOK, c)
}

// deleteCategoryHandler godoc
//
//	@Summary		Delete a category
//	@Description	Children become top level. Categories that still hold products cannot be deleted.
//	@Tags			admin
//	@Param			categoryID	path	string	true	"Category id"
//	@Success		200			{object}	MessageResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/categories/{categoryID} [delete]
func (app *application) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "categoryID")

	if err := app.store.Categories.Delete(r.Context(), id); err != nil {
		app.categoryWriteError(w, r, err)
		return
	}

	app.logger.Infow("category deleted", "category_id", id, "admin_id", getAdminFromContext(r).ID)

	_ = app.jsonResponse(w, http.StatusOK, MessageResponse{Message: "category deleted"})
}

func (app *application) categoryWriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, categories.ErrNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, categories.ErrDuplicate), errors.Is(err, categories.ErrInUse):
		app.conflictResponse(w, r, err)
	case errors.Is(err, categories.ErrInvalidParent), errors.Is(err, categories.ErrSelfParent):
		app.badRequestResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}
