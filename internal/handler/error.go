package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/edgarkh/storefront/internal/domain/cart"
	"github.com/edgarkh/storefront/internal/domain/coupon"
	"github.com/edgarkh/storefront/internal/domain/order"
	"github.com/edgarkh/storefront/internal/domain/product"
	"github.com/edgarkh/storefront/internal/domain/user"
)

// errorResponse is the JSON body for every error status.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeError translates a domain error to an HTTP status in one place:
// invalid input is 400/422, unknown references are 404, oversell is 409,
// anything unrecognized is logged and collapsed to 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var stockErr *order.InsufficientStockError

	switch {
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, order.ErrInvalidStatus):
		writeErrorStatus(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, order.ErrEmptyCart):
		writeErrorStatus(w, http.StatusUnprocessableEntity, err)
	case errors.As(err, &stockErr):
		writeErrorStatus(w, http.StatusConflict, stockErr)
	case errors.Is(err, product.ErrInsufficientStock):
		writeErrorStatus(w, http.StatusConflict, product.ErrInsufficientStock)
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, cart.ErrNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, coupon.ErrNotFound):
		writeErrorStatus(w, http.StatusNotFound, err)
	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "internal server error",
		})
	}
}

func writeErrorStatus(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{
		Code:    status,
		Message: err.Error(),
	})
}

// badRequest reports a malformed body or path parameter.
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
