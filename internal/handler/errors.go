package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront-cart/internal/domain/cart"
	"github.com/xenking/storefront-cart/internal/domain/checkout"
	"github.com/xenking/storefront-cart/internal/domain/order"
)

var (
	errRouteNotFound    = errors.New("route not found")
	errMethodNotAllowed = errors.New("method not allowed")
)

// badRequestError marks a malformed request body or parameter.
type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string { return "invalid request: " + e.err.Error() }

func (e *badRequestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return &badRequestError{err: err}
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	var (
		badReq       *badRequestError
		invalidQty   *cart.InvalidQuantityError
		unknownProd  *checkout.UnknownProductError
		unknownOpt   *checkout.UnknownDeliveryOptionError
		submitFailed *order.SubmissionFailedError
	)
	switch {
	case errors.As(err, &badReq):
		return http.StatusBadRequest
	case errors.As(err, &submitFailed):
		return http.StatusBadGateway
	case errors.As(err, &invalidQty),
		errors.As(err, &unknownProd),
		errors.As(err, &unknownOpt),
		errors.Is(err, order.ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrProductNotInOrder),
		errors.Is(err, errRouteNotFound):
		return http.StatusNotFound
	case errors.Is(err, errMethodNotAllowed):
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// writeError responds with {"code","message"}. Internal errors are logged
// and their details are not exposed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	msg := err.Error()
	switch {
	case code == http.StatusInternalServerError:
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
		msg = http.StatusText(code)
	case code == http.StatusBadGateway:
		zctx.From(r.Context()).Warn("Upstream failure", zap.Error(err))
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(code)
	e.FieldStart("message")
	e.Str(msg)
	e.ObjEnd()
	writeJSON(w, code, e.Bytes())
}

func writeJSON(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
