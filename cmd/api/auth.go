package main

import (
	"errors"
	"net/http"
	"strings"

	"autostyle/internal/domain/admins"
)

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type AdminView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type AdminLoginResponse struct {
	Token string    `json:"token"`
	Admin AdminView `json:"admin"`
}

// adminLoginHandler godoc
//
//	@Summary		Admin login
//	@Description	Exchanges admin credentials for a bearer token valid for 24 hours.
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		LoginPayload	true	"Admin credentials"
//	@Success		200		{object}	AdminLoginResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/auth/login [post]
func (app *application) adminLoginHandler(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	payload.Email = strings.TrimSpace(payload.Email)

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	admin, err := app.store.Admins.GetByEmail(r.Context(), payload.Email)
	if err != nil {
		if errors.Is(err, admins.ErrNotFound) {
			app.invalidCredentialsResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := admin.CheckPassword(payload.Password); err != nil {
		app.invalidCredentialsResponse(w, r, err)
		return
	}

	token, err := app.adminAuth.Issue(admin.ID, admin.Email)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	_ = app.jsonResponse(w, http.StatusOK, AdminLoginResponse{
		Token: token,
		Admin: AdminView{ID: admin.ID, Email: admin.Email},
	})
}
