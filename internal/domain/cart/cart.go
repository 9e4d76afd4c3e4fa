// Package cart implements the persisted shopping cart model.
//
// A Cart is bound to a namespace in a Store. Every mutation is written through
// the store before it becomes visible in memory, so a reader of the same
// namespace never observes a state that was not persisted.
package cart

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront-cart/internal/domain/delivery"
)

// MaxQuantity is the exclusive upper bound for a line item quantity.
const MaxQuantity = 1000

// ErrItemNotFound is returned when a mutation targets a product that is not in
// the cart and the operation does not define a no-op for that case.
var ErrItemNotFound = errors.New("item not in cart")

// InvalidQuantityError indicates a quantity outside [0, MaxQuantity).
type InvalidQuantityError struct {
	ProductID string
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for product %s: must be at least 0 and less than %d",
		e.Quantity, e.ProductID, MaxQuantity)
}

// LineItem is one product, quantity and delivery choice in a cart.
type LineItem struct {
	ProductID        string
	Quantity         int
	DeliveryOptionID string
}

// Store is durable key/value storage for serialized carts.
type Store interface {
	// Get returns the value stored under namespace. ok is false when nothing
	// is stored.
	Get(ctx context.Context, namespace string) (value string, ok bool, err error)
	// Set replaces the value stored under namespace.
	Set(ctx context.Context, namespace, value string) error
}

// DefaultItems returns the line items a fresh cart is seeded with.
func DefaultItems() []LineItem {
	return []LineItem{
		{ProductID: "e43638ce-6aa0-4b85-b27f-e1d07eb678c6", Quantity: 2, DeliveryOptionID: "1"},
		{ProductID: "15b6fc6f-327a-4ec4-896f-486349e85a3d", Quantity: 1, DeliveryOptionID: "2"},
	}
}

// Cart is an ordered collection of line items persisted under a namespace.
// It is safe for concurrent use; operations are serialized.
type Cart struct {
	mu        sync.Mutex
	namespace string
	store     Store
	items     []LineItem
}

// Load hydrates the cart stored under namespace. A missing, null or corrupt
// value (or a failing read) falls back to DefaultItems, which are persisted
// before Load returns.
func Load(ctx context.Context, store Store, namespace string) (*Cart, error) {
	c := &Cart{
		namespace: namespace,
		store:     store,
	}

	lg := zctx.From(ctx).With(zap.String("namespace", namespace))

	raw, ok, err := store.Get(ctx, namespace)
	switch {
	case err != nil:
		lg.Warn("Cart read failed, seeding defaults", zap.Error(err))
	case !ok:
		lg.Debug("Cart not found, seeding defaults")
	default:
		items, err := Decode(raw)
		if err == nil && items != nil {
			c.items = items
			return c, nil
		}
		if err != nil {
			lg.Warn("Cart data corrupt, seeding defaults", zap.Error(err))
		}
	}

	if err := c.commit(ctx, DefaultItems()); err != nil {
		return nil, errors.Wrap(err, "seed default cart")
	}
	return c, nil
}

// Namespace returns the storage key of the cart.
func (c *Cart) Namespace() string {
	return c.namespace
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.items)
}

// Len returns the number of line items.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// TotalQuantity returns the sum of all line item quantities.
func (c *Cart) TotalQuantity() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, it := range c.items {
		total += it.Quantity
	}
	return total
}

type addOptions struct {
	quantity         int
	deliveryOptionID string
}

// AddOption customizes AddItem.
type AddOption func(*addOptions)

// WithQuantity sets the number of units to add. Defaults to 1.
func WithQuantity(n int) AddOption {
	return func(o *addOptions) { o.quantity = n }
}

// WithDeliveryOption sets the delivery option of a newly appended line item.
// It is ignored when the product is already in the cart.
func WithDeliveryOption(id string) AddOption {
	return func(o *addOptions) { o.deliveryOptionID = id }
}

// AddItem adds units of a product. An existing line item has its quantity
// increased; otherwise a new line item is appended.
func (c *Cart) AddItem(ctx context.Context, productID string, opts ...AddOption) error {
	o := addOptions{
		quantity:         1,
		deliveryOptionID: delivery.DefaultOptionID,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if o.quantity < 1 {
		return &InvalidQuantityError{ProductID: productID, Quantity: o.quantity}
	}

	next := slices.Clone(c.items)
	if i := indexOf(next, productID); i >= 0 {
		q := next[i].Quantity + o.quantity
		if q >= MaxQuantity {
			return &InvalidQuantityError{ProductID: productID, Quantity: q}
		}
		next[i].Quantity = q
	} else {
		if o.quantity >= MaxQuantity {
			return &InvalidQuantityError{ProductID: productID, Quantity: o.quantity}
		}
		next = append(next, LineItem{
			ProductID:        productID,
			Quantity:         o.quantity,
			DeliveryOptionID: o.deliveryOptionID,
		})
	}

	return c.commit(ctx, next)
}

// RemoveItem removes the line item for productID. Removing an absent product
// does nothing and writes nothing.
func (c *Cart) RemoveItem(ctx context.Context, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := indexOf(c.items, productID)
	if i < 0 {
		return nil
	}
	next := slices.Delete(slices.Clone(c.items), i, i+1)
	return c.commit(ctx, next)
}

// UpdateQuantity overwrites the quantity of an existing line item. Zero keeps
// the line item in the cart.
func (c *Cart) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 0 || quantity >= MaxQuantity {
		return &InvalidQuantityError{ProductID: productID, Quantity: quantity}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := indexOf(c.items, productID)
	if i < 0 {
		return errors.Wrapf(ErrItemNotFound, "product %s", productID)
	}
	next := slices.Clone(c.items)
	next[i].Quantity = quantity
	return c.commit(ctx, next)
}

// UpdateDeliveryOption changes the delivery option of an existing line item.
// Unknown products are ignored without a store write.
func (c *Cart) UpdateDeliveryOption(ctx context.Context, productID, deliveryOptionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := indexOf(c.items, productID)
	if i < 0 {
		return nil
	}
	next := slices.Clone(c.items)
	next[i].DeliveryOptionID = deliveryOptionID
	return c.commit(ctx, next)
}

// commit persists next and, on success, makes it the in-memory state.
// Callers hold c.mu (or own c exclusively).
func (c *Cart) commit(ctx context.Context, next []LineItem) error {
	if next == nil {
		next = []LineItem{}
	}
	if err := c.store.Set(ctx, c.namespace, Encode(next)); err != nil {
		return errors.Wrapf(err, "persist cart %q", c.namespace)
	}
	c.items = next
	return nil
}

func indexOf(items []LineItem, productID string) int {
	return slices.IndexFunc(items, func(it LineItem) bool {
		return it.ProductID == productID
	})
}
