package checkout

import (
	"time"

	"github.com/xenking/storefront-cart/internal/domain/cart"
	"github.com/xenking/storefront-cart/internal/domain/delivery"
	"github.com/xenking/storefront-cart/internal/domain/product"
)

// Row is one checkout line: the line item joined with its product, its
// selected delivery option and the resulting delivery date.
type Row struct {
	Product        product.Product
	Item           cart.LineItem
	DeliveryOption delivery.Option
	DeliveryDate   time.Time
	// Choices lists every delivery option with the date it would yield.
	Choices []Choice
}

// Choice is a selectable delivery option for a row.
type Choice struct {
	Option   delivery.Option
	Date     time.Time
	Selected bool
}

// OrderSummary returns one Row per line item of s, in cart order.
func OrderSummary(s Snapshot, products ProductCatalog, options DeliveryCatalog, today time.Time) ([]Row, error) {
	return orderSummary(s.Items(), products, options, today)
}

func orderSummary(items []cart.LineItem, products ProductCatalog, options DeliveryCatalog, today time.Time) ([]Row, error) {
	lines, err := resolve(items, products, options)
	if err != nil {
		return nil, err
	}

	all := options.List()
	rows := make([]Row, len(lines))
	for i, l := range lines {
		choices := make([]Choice, len(all))
		for j, o := range all {
			choices[j] = Choice{
				Option:   o,
				Date:     delivery.Date(o, today),
				Selected: o.ID == l.item.DeliveryOptionID,
			}
		}
		rows[i] = Row{
			Product:        l.product,
			Item:           l.item,
			DeliveryOption: l.option,
			DeliveryDate:   delivery.Date(l.option, today),
			Choices:        choices,
		}
	}
	return rows, nil
}
