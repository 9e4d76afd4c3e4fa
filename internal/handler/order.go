package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Submit(r.Context(), h.cart)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, encodeOrder(o))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, encodeOrders(orders))
}

func (h *Handler) trackOrder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	t, err := h.orders.Track(r.Context(), vars["orderId"], vars["productId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, known := h.products.Get(t.Line.ProductID)
	writeJSON(w, http.StatusOK, encodeTracking(t, p, known))
}

func (h *Handler) buyAgain(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.orders.BuyAgain(r.Context(), h.cart, vars["orderId"], vars["productId"]); err != nil {
		writeError(w, r, err)
		return
	}
	h.respondView(w, r)
}
