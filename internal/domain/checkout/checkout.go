// Package checkout derives the checkout view and payment summary from a cart
// snapshot and the reference catalogs. Projections are pure: they never
// mutate their inputs and are recomputed from scratch on every call.
package checkout

import (
	"fmt"
	"time"

	"github.com/xenking/storefront-cart/internal/domain/cart"
	"github.com/xenking/storefront-cart/internal/domain/delivery"
	"github.com/xenking/storefront-cart/internal/domain/product"
)

// Snapshot provides the line items to project. *cart.Cart satisfies it.
type Snapshot interface {
	Items() []cart.LineItem
}

// ProductCatalog resolves products by id.
type ProductCatalog interface {
	Get(id string) (product.Product, bool)
}

// DeliveryCatalog resolves delivery options by id and lists all of them.
type DeliveryCatalog interface {
	Get(id string) (delivery.Option, bool)
	List() []delivery.Option
}

// UnknownProductError indicates a line item whose product is missing from the
// catalog.
type UnknownProductError struct {
	ProductID string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product %s", e.ProductID)
}

// UnknownDeliveryOptionError indicates a line item whose delivery option is
// missing from the delivery catalog.
type UnknownDeliveryOptionError struct {
	ProductID string
	OptionID  string
}

func (e *UnknownDeliveryOptionError) Error() string {
	return fmt.Sprintf("unknown delivery option %q for product %s", e.OptionID, e.ProductID)
}

// resolved is a line item joined with its reference data.
type resolved struct {
	item    cart.LineItem
	product product.Product
	option  delivery.Option
}

func resolve(items []cart.LineItem, products ProductCatalog, options DeliveryCatalog) ([]resolved, error) {
	out := make([]resolved, len(items))
	for i, it := range items {
		p, ok := products.Get(it.ProductID)
		if !ok {
			return nil, &UnknownProductError{ProductID: it.ProductID}
		}
		o, ok := options.Get(it.DeliveryOptionID)
		if !ok {
			return nil, &UnknownDeliveryOptionError{ProductID: it.ProductID, OptionID: it.DeliveryOptionID}
		}
		out[i] = resolved{item: it, product: p, option: o}
	}
	return out, nil
}

// View is the complete checkout page model.
type View struct {
	Rows    []Row
	Payment PaymentSummary
}

// Projector bundles the catalogs and clock needed to build a View.
type Projector struct {
	products ProductCatalog
	options  DeliveryCatalog
	now      func() time.Time
}

// NewProjector creates a Projector using the wall clock.
func NewProjector(products ProductCatalog, options DeliveryCatalog) *Projector {
	return &Projector{products: products, options: options, now: time.Now}
}

// WithClock returns a copy of p that reads the current time from now.
func (p *Projector) WithClock(now func() time.Time) *Projector {
	cp := *p
	cp.now = now
	return &cp
}

// View projects both the order summary and the payment summary of s.
func (p *Projector) View(s Snapshot) (View, error) {
	items := s.Items()

	rows, err := orderSummary(items, p.products, p.options, p.now())
	if err != nil {
		return View{}, err
	}
	pay, err := payment(items, p.products, p.options)
	if err != nil {
		return View{}, err
	}
	return View{Rows: rows, Payment: pay}, nil
}
