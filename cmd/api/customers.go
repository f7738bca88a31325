package main

import (
	"errors"
	"net/http"
	"strings"

	"autostyle/internal/domain/orders"
	"autostyle/internal/domain/storage"
	"autostyle/internal/domain/users"
	"autostyle/internal/params"
)

type RegisterCustomerPayload struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Password  string  `json:"password" validate:"required,min=6,max=72"`
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
}

type CustomerAuthResponse struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

// registerCustomerHandler godoc
//
//	@Summary		Register a customer
//	@Description	Creates a customer account and returns a bearer token valid for 30 days.
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		RegisterCustomerPayload	true	"New customer"
//	@Success		201		{object}	CustomerAuthResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"Email already registered"
//	@Router			/auth/customer/register [post]
func (app *application) registerCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var payload RegisterCustomerPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	payload.Email = strings.TrimSpace(payload.Email)
	payload.FirstName = strings.TrimSpace(payload.FirstName)
	payload.LastName = strings.TrimSpace(payload.LastName)

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := &users.User{
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     nonEmpty(payload.Phone),
	}
	if err := user.Password.Set(payload.Password); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Users.Create(r.Context(), user); err != nil {
		if errors.Is(err, users.ErrDuplicateEmail) {
			app.conflictResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	token, err := app.customerAuth.Issue(user.ID, user.Email)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	_ = app.jsonResponse(w, http.StatusCreated, CustomerAuthResponse{Token: token, User: user})
}

// customerLoginHandler godoc
//
//	@Summary	Customer login
//	@Tags		authentication
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		LoginPayload	true	"Customer credentials"
//	@Success	200		{object}	CustomerAuthResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/auth/customer/login [post]
func (app *application) customerLoginHandler(w http.ResponseWriter, r *http.Request) {
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

	user, err := app.store.Users.GetByEmail(r.Context(), payload.Email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			app.invalidCredentialsResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := user.Password.Compare(payload.Password); err != nil {
		app.invalidCredentialsResponse(w, r, err)
		return
	}

	token, err := app.customerAuth.Issue(user.ID, user.Email)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	_ = app.jsonResponse(w, http.StatusOK, CustomerAuthResponse{Token: token, User: user})
}

// getProfileHandler godoc
//
//	@Summary	Customer profile
//	@Tags		customer
//	@Produce	json
//	@Success	200	{object}	users.Profile
//	@Failure	401	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Security	ApiKeyAuth
//	@Router		/customer/profile [get]
func (app *application) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	customer := getCustomerFromContext(r)

	profile, err := app.loadProfile(r, app.store.Users, customer.ID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	_ = app.jsonResponse(w, http.StatusOK, profile)
}

func (app *application) loadProfile(r *http.Request, store users.Store, id int64) (*users.Profile, error) {
	user, err := store.GetByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	addresses, err := store.Addresses(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return &users.Profile{User: user, Addresses: addresses}, nil
}

type AddressPayload struct {
	Type       string `json:"type" validate:"omitempty,max=50"`
	Street     string `json:"street" validate:"required,max=255"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=100"`
}

type UpdateProfilePayload struct {
	FirstName string          `json:"first_name" validate:"required,max=100"`
	LastName  string          `json:"last_name" validate:"required,max=100"`
	Phone     *string         `json:"phone" validate:"omitempty,max=50"`
	Address   *AddressPayload `json:"address"`
}

// updateProfileHandler godoc
//
//	@Summary		Update customer profile
//	@Description	Updates name and phone. A complete address is upserted by its type (default shipping).
//	@Tags			customer
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		UpdateProfilePayload	true	"Profile"
//	@Success		200		{object}	users.Profile
//	@Failure		400		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/customer/profile [put]
func (app *application) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	customer := getCustomerFromContext(r)

	var payload UpdateProfilePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	payload.FirstName = strings.TrimSpace(payload.FirstName)
	payload.LastName = strings.TrimSpace(payload.LastName)

	// a partially filled address form is ignored rather than rejected
	if a := payload.Address; a != nil && (a.Street == "" || a.City == "" || a.PostalCode == "" || a.Country == "") {
		payload.Address = nil
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var profile *users.Profile
	err := app.uow.WithTx(r.Context(), func(tx *storage.Tx) error {
		if err := tx.Users.UpdateContact(r.Context(), customer.ID, payload.FirstName, payload.LastName, nonEmpty(payload.Phone)); err != nil {
			return err
		}

		if a := payload.Address; a != nil {
			addr := &users.Address{
				UserID:     customer.ID,
				Type:       a.Type,
				Street:     a.Street,
				City:       a.City,
				PostalCode: a.PostalCode,
				Country:    a.Country,
			}
			if err := tx.Users.UpsertAddress(r.Context(), addr); err != nil {
				return err
			}
		}

		var err error
		profile, err = app.loadProfile(r, tx.Users, customer.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	_ = app.jsonResponse(w, http.StatusOK, profile)
}

type CustomerOrdersResponse struct {
	Orders     []orders.Order    `json:"orders"`
	Pagination params.Pagination `json:"pagination"`
}

// listCustomerOrdersHandler godoc
//
//	@Summary	Customer order history
//	@Tags		customer
//	@Produce	json
//	@Param		page	query		int	false	"Page"		default(1)
//	@Param		limit	query		int	false	"Page size"	default(50)
//	@Success	200		{object}	CustomerOrdersResponse
//	@Security	ApiKeyAuth
//	@Router		/customer/orders [get]
func (app *application) listCustomerOrdersHandler(w http.ResponseWriter, r *http.Request) {
	customer := getCustomerFromContext(r)
	p := params.ParsePagination(r.URL.Query())

	list, total, err := app.store.Orders.ListByUser(r.Context(), customer.ID, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	_ = app.jsonResponse(w, http.StatusOK, CustomerOrdersResponse{Orders: list, Pagination: p})
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
