package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront-cart/internal/domain/cart"
)

// Sentinel errors for order operations.
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotInOrder = errors.New("product not in order")
)

// SubmissionFailedError wraps a failure of the remote order service. The cart
// is left untouched when it is returned.
type SubmissionFailedError struct {
	Err error
}

func (e *SubmissionFailedError) Error() string {
	return fmt.Sprintf("order submission failed: %v", e.Err)
}

func (e *SubmissionFailedError) Unwrap() error {
	return e.Err
}

// Order is a placed order as returned by the order service.
type Order struct {
	ID             string
	PlacedAt       time.Time
	TotalCostCents int64
	Products       []ProductLine
}

// ProductLine is one product of a placed order.
type ProductLine struct {
	ProductID         string
	Quantity          int
	EstimatedDelivery time.Time
}

// Product returns the line for productID.
func (o *Order) Product(productID string) (ProductLine, bool) {
	for _, p := range o.Products {
		if p.ProductID == productID {
			return p, true
		}
	}
	return ProductLine{}, false
}

// Placer sends a cart to the remote order service.
type Placer interface {
	Place(ctx context.Context, items []cart.LineItem) (*Order, error)
}

// Log persists placed orders.
type Log interface {
	Add(ctx context.Context, o *Order) error
	// List returns orders newest first.
	List(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, id string) (*Order, error)
}
