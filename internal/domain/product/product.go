package product

import (
	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase.
type Product struct {
	ID         string
	Name       string
	Image      string
	PriceCents int64
	Rating     Rating
	Keywords   []string
}

// Rating is the aggregated customer rating shown next to a product.
type Rating struct {
	Stars float64
	Count int
}

// Catalog is an immutable, in-memory product catalog populated once at startup.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// NewCatalog builds a Catalog keeping the load order for List.
func NewCatalog(products []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	copy(c.products, products)
	for i, p := range c.products {
		c.byID[p.ID] = i
	}
	return c
}

// Get returns the product with the given id.
func (c *Catalog) Get(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Lookup is like Get but returns ErrNotFound for unknown ids.
func (c *Catalog) Lookup(id string) (Product, error) {
	p, ok := c.Get(id)
	if !ok {
		return Product{}, errors.Wrapf(ErrNotFound, "id %q", id)
	}
	return p, nil
}

// List returns all products in load order.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}
