package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/gorilla/mux"

	"github.com/xenking/storefront-cart/internal/domain/cart"
	"github.com/xenking/storefront-cart/internal/domain/checkout"
)

// decodeBody reads a JSON object body, calling fn for every field.
func decodeBody(w http.ResponseWriter, r *http.Request, fn func(d *jx.Decoder, key string) error) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return badRequest(errors.Wrap(err, "read body"))
	}
	if err := jx.DecodeBytes(data).ObjBytes(func(d *jx.Decoder, key []byte) error {
		return fn(d, string(key))
	}); err != nil {
		return badRequest(err)
	}
	return nil
}

// respondView answers with the checkout view of the current cart.
func (h *Handler) respondView(w http.ResponseWriter, r *http.Request) {
	v, err := h.projector.View(h.cart)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, encodeView(v))
}

func (h *Handler) getCart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, encodeCart(h.cart.Items()))
}

func (h *Handler) getCheckout(w http.ResponseWriter, r *http.Request) {
	h.respondView(w, r)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var (
		productID string
		optionID  string
		opts      []cart.AddOption
	)
	if err := decodeBody(w, r, func(d *jx.Decoder, key string) error {
		switch key {
		case "productId":
			v, err := d.Str()
			productID = v
			return err
		case "quantity":
			v, err := d.Int()
			opts = append(opts, cart.WithQuantity(v))
			return err
		case "deliveryOptionId":
			v, err := d.Str()
			optionID = v
			return err
		default:
			return d.Skip()
		}
	}); err != nil {
		writeError(w, r, err)
		return
	}
	if productID == "" {
		writeError(w, r, badRequest(errors.New("productId is required")))
		return
	}
	if _, ok := h.products.Get(productID); !ok {
		writeError(w, r, &checkout.UnknownProductError{ProductID: productID})
		return
	}
	if optionID != "" {
		if _, ok := h.delivery.Get(optionID); !ok {
			writeError(w, r, &checkout.UnknownDeliveryOptionError{ProductID: productID, OptionID: optionID})
			return
		}
		opts = append(opts, cart.WithDeliveryOption(optionID))
	}

	if err := h.cart.AddItem(r.Context(), productID, opts...); err != nil {
		writeError(w, r, err)
		return
	}
	h.respondView(w, r)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.RemoveItem(r.Context(), mux.Vars(r)["productId"]); err != nil {
		writeError(w, r, err)
		return
	}
	h.respondView(w, r)
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var (
		quantity int
		set      bool
	)
	if err := decodeBody(w, r, func(d *jx.Decoder, key string) error {
		if key != "quantity" {
			return d.Skip()
		}
		v, err := d.Int()
		quantity, set = v, err == nil
		return err
	}); err != nil {
		writeError(w, r, err)
		return
	}
	if !set {
		writeError(w, r, badRequest(errors.New("quantity is required")))
		return
	}

	if err := h.cart.UpdateQuantity(r.Context(), mux.Vars(r)["productId"], quantity); err != nil {
		writeError(w, r, err)
		return
	}
	h.respondView(w, r)
}

func (h *Handler) updateDeliveryOption(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productId"]

	var optionID string
	if err := decodeBody(w, r, func(d *jx.Decoder, key string) error {
		if key != "deliveryOptionId" {
			return d.Skip()
		}
		v, err := d.Str()
		optionID = v
		return err
	}); err != nil {
		writeError(w, r, err)
		return
	}
	if optionID == "" {
		writeError(w, r, badRequest(errors.New("deliveryOptionId is required")))
		return
	}
	if _, ok := h.delivery.Get(optionID); !ok {
		writeError(w, r, &checkout.UnknownDeliveryOptionError{ProductID: productID, OptionID: optionID})
		return
	}

	if err := h.cart.UpdateDeliveryOption(r.Context(), productID, optionID); err != nil {
		writeError(w, r, err)
		return
	}
	h.respondView(w, r)
}
