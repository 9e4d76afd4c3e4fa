package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/xenking/storefront-cart/internal/domain/checkout"
	"github.com/xenking/storefront-cart/internal/domain/order"
	"github.com/xenking/storefront-cart/internal/domain/product"
	"github.com/xenking/storefront-cart/pkg/money"
)

const dateLayout = "Monday, January 2"

func renderView(w io.Writer, v checkout.View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if len(v.Rows) == 0 {
		fmt.Fprintln(tw, "Your cart is empty.")
	}
	for _, r := range v.Rows {
		fmt.Fprintf(tw, "%s\t%s\tx%d\t%s\n",
			r.Product.Name,
			"$"+money.Format(r.Product.PriceCents),
			r.Item.Quantity,
			"Delivery date: "+r.DeliveryDate.Format(dateLayout),
		)
		for _, ch := range r.Choices {
			mark := " "
			if ch.Selected {
				mark = "*"
			}
			fmt.Fprintf(tw, "\t%s [%s] %s\t%s Shipping\t\n",
				mark, ch.Option.ID, ch.Date.Format(dateLayout), money.FormatPrice(ch.Option.PriceCents),
			)
		}
		fmt.Fprintf(tw, "\t(%s)\t\t\n", r.Product.ID)
	}

	p := v.Payment
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Order Summary")
	fmt.Fprintf(tw, "Items (%d):\t$%s\n", p.ItemCount, money.Format(p.SubtotalCents))
	fmt.Fprintf(tw, "Shipping & handling:\t$%s\n", money.Format(p.ShippingCents))
	fmt.Fprintf(tw, "Total before tax:\t$%s\n", money.Format(p.BeforeTaxCents))
	fmt.Fprintf(tw, "Estimated tax (10%%):\t$%s\n", money.Format(p.TaxCents))
	fmt.Fprintf(tw, "Order total:\t$%s\n", money.Format(p.TotalCents))
	return tw.Flush()
}

func productName(products *product.Catalog, id string) string {
	if p, ok := products.Get(id); ok {
		return p.Name
	}
	return id
}

func renderOrders(w io.Writer, products *product.Catalog, o *order.Order) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Order %s\tplaced %s\ttotal $%s\n",
		o.ID, o.PlacedAt.Local().Format(dateLayout), money.Format(o.TotalCostCents),
	)
	for _, l := range o.Products {
		fmt.Fprintf(tw, "  %s\tx%d\tarriving on %s\n",
			productName(products, l.ProductID), l.Quantity, l.EstimatedDelivery.Local().Format(dateLayout),
		)
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

func renderTracking(w io.Writer, products *product.Catalog, t *order.Tracking) error {
	_, err := fmt.Fprintf(w, "Arriving on %s\n%s\nQuantity: %d\nStatus: %s (%d%%)\n",
		t.Line.EstimatedDelivery.Local().Format(dateLayout),
		productName(products, t.Line.ProductID),
		t.Line.Quantity,
		t.Status,
		t.Progress,
	)
	return err
}
