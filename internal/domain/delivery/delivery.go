// Package delivery holds the static delivery option reference data and the
// delivery date arithmetic built on it.
package delivery

import "time"

// DefaultOptionID is assigned to line items added without an explicit choice.
const DefaultOptionID = "1"

// Option is an immutable shipping choice.
type Option struct {
	ID         string
	PriceCents int64
	LeadDays   int
}

// Catalog is a read-only, ordered set of delivery options.
type Catalog struct {
	options []Option
	byID    map[string]Option
}

// NewCatalog builds a Catalog preserving the given order. Later duplicates
// override earlier ones for lookups.
func NewCatalog(options ...Option) *Catalog {
	c := &Catalog{
		options: make([]Option, len(options)),
		byID:    make(map[string]Option, len(options)),
	}
	copy(c.options, options)
	for _, o := range options {
		c.byID[o.ID] = o
	}
	return c
}

// Standard returns the storefront's built-in options.
func Standard() *Catalog {
	return NewCatalog(
		Option{ID: "1", PriceCents: 0, LeadDays: 7},
		Option{ID: "2", PriceCents: 499, LeadDays: 3},
		Option{ID: "3", PriceCents: 999, LeadDays: 1},
	)
}

// Get returns the option with the given id.
func (c *Catalog) Get(id string) (Option, bool) {
	o, ok := c.byID[id]
	return o, ok
}

// List returns all options in catalog order.
func (c *Catalog) List() []Option {
	out := make([]Option, len(c.options))
	copy(out, c.options)
	return out
}

// Date returns the calendar date LeadDays after today. The result is midnight
// in today's location; weekends are not skipped.
func Date(o Option, today time.Time) time.Time {
	y, m, d := today.Date()
	return time.Date(y, m, d+o.LeadDays, 0, 0, 0, 0, today.Location())
}
