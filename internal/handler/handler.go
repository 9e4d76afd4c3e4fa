// Package handler exposes the cart engine over HTTP. It is a thin view layer:
// every request reads or mutates the cart and answers with a projection
// recomputed from the current state.
package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/xenking/storefront-cart/internal/domain/cart"
	"github.com/xenking/storefront-cart/internal/domain/checkout"
	"github.com/xenking/storefront-cart/internal/domain/delivery"
	"github.com/xenking/storefront-cart/internal/domain/order"
	"github.com/xenking/storefront-cart/internal/domain/product"
)

// maxBodySize limits request bodies; cart payloads are tiny.
const maxBodySize = 64 << 10

// Deps are the collaborators of a Handler.
type Deps struct {
	Cart      *cart.Cart
	Products  *product.Catalog
	Delivery  *delivery.Catalog
	Projector *checkout.Projector
	Orders    *order.Service
}

// Handler serves the storefront API for a single cart.
type Handler struct {
	cart      *cart.Cart
	products  *product.Catalog
	delivery  *delivery.Catalog
	projector *checkout.Projector
	orders    *order.Service
}

// New creates a Handler.
func New(d Deps) *Handler {
	return &Handler{
		cart:      d.Cart,
		products:  d.Products,
		delivery:  d.Delivery,
		projector: d.Projector,
		orders:    d.Orders,
	}
}

// Register mounts the API routes under /api.
func (h *Handler) Register(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	api.HandleFunc("/delivery-options", h.listDeliveryOptions).Methods(http.MethodGet)

	api.HandleFunc("/cart", h.getCart).Methods(http.MethodGet)
	api.HandleFunc("/cart/items", h.addItem).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{productId}", h.removeItem).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items/{productId}/quantity", h.updateQuantity).Methods(http.MethodPut)
	api.HandleFunc("/cart/items/{productId}/delivery-option", h.updateDeliveryOption).Methods(http.MethodPut)
	api.HandleFunc("/checkout", h.getCheckout).Methods(http.MethodGet)

	api.HandleFunc("/orders", h.placeOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders", h.listOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/{orderId}/products/{productId}/tracking", h.trackOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{orderId}/products/{productId}/buy-again", h.buyAgain).Methods(http.MethodPost)
}

// Router returns a new router with the API registered and JSON bodies for
// unmatched routes.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	h.Register(r)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errRouteNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errMethodNotAllowed)
	})
	return r
}

func (h *Handler) listProducts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, encodeProducts(h.products.List()))
}

func (h *Handler) listDeliveryOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, encodeDeliveryOptions(h.delivery.List()))
}
