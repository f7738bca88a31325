package main

import (
	"errors"
	"net/http"
	"strings"

	"autostyle/internal/checkout"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=1000"`
}

type CheckoutPayload struct {
	CustomerName    string     `json:"customer_name" validate:"required,max=255"`
	CustomerEmail   string     `json:"customer_email" validate:"required,email,max=255"`
	ShippingAddress string     `json:"shipping_address" validate:"required"`
	City            string     `json:"city" validate:"required,max=100"`
	PostalCode      string     `json:"postal_code" validate:"required,max=20"`
	Country         string     `json:"country" validate:"required,max=100"`
	Phone           *string    `json:"phone" validate:"omitempty,max=50"`
	Cart            []CartItem `json:"cart" validate:"required,min=1,dive"`
}

type CheckoutResponse struct {
	OrderID     int64           `json:"order_id" example:"42"`
	Reference   string          `json:"reference" example:"AS-7KQ2ZD"`
	TotalAmount decimal.Decimal `json:"total_amount" swaggertype:"number" example:"121.98"`
	Status      string          `json:"status" example:"pending_payment"`
}

// checkoutHandler godoc
//
//	@Summary		Place an order
//	@Description	Prices every cart line from the catalog and stores the order in one transaction. A customer bearer token links the order to the account; otherwise it is a guest order.
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CheckoutPayload	true	"Order"
//	@Success		201		{object}	CheckoutResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/orders/checkout [post]
func (app *application) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	var payload CheckoutPayload
	if err := readJSONLenient(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	payload.CustomerName = strings.TrimSpace(payload.CustomerName)
	payload.CustomerEmail = strings.TrimSpace(payload.CustomerEmail)
	payload.ShippingAddress = strings.TrimSpace(payload.ShippingAddress)
	payload.City = strings.TrimSpace(payload.City)
	payload.PostalCode = strings.TrimSpace(payload.PostalCode)
	payload.Country = strings.TrimSpace(payload.Country)
	for i := range payload.Cart {
		payload.Cart[i].ProductID = strings.TrimSpace(payload.Cart[i].ProductID)
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	req := checkout.Request{
		CustomerName:    payload.CustomerName,
		CustomerEmail:   payload.CustomerEmail,
		ShippingAddress: payload.ShippingAddress,
		City:            payload.City,
		PostalCode:      payload.PostalCode,
		Country:         payload.Country,
		Phone:           nonEmpty(payload.Phone),
		Lines:           make([]checkout.Line, 0, len(payload.Cart)),
	}
	for _, it := range payload.Cart {
		req.Lines = append(req.Lines, checkout.Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if customer := getCustomerFromContext(r); customer != nil {
		id := customer.ID
		req.UserID = &id
	}

	res, err := app.checkout.Place(r.Context(), req)
	if err != nil {
		var unknown *checkout.UnknownProductError
		switch {
		case errors.As(err, &unknown),
			errors.Is(err, checkout.ErrEmptyCart),
			errors.Is(err, checkout.ErrInvalidLine):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logger.Infow("order placed",
		"order_id", res.Order.ID,
		"reference", res.Order.Reference,
		"user_id", res.Order.UserID,
		"items", len(res.Items),
	)

	_ = app.jsonResponse(w, http.StatusCreated, CheckoutResponse{
		OrderID:     res.Order.ID,
		Reference:   res.Order.Reference,
		TotalAmount: res.Order.TotalAmount,
		Status:      res.Order.Status,
	})
}
