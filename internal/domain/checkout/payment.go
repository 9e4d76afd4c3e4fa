package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-cart/internal/domain/cart"
)

// taxRate is applied to subtotal plus shipping.
var taxRate = decimal.New(10, -2)

// PaymentSummary holds the monetary totals of a cart, all in integer cents.
type PaymentSummary struct {
	ItemCount      int
	SubtotalCents  int64
	ShippingCents  int64
	BeforeTaxCents int64
	TaxCents       int64
	TotalCents     int64
}

// Payment computes the payment summary of s. Shipping is charged once per
// line item. Tax is 10% of subtotal plus shipping, rounded half-up to the cent.
func Payment(s Snapshot, products ProductCatalog, options DeliveryCatalog) (PaymentSummary, error) {
	return payment(s.Items(), products, options)
}

func payment(items []cart.LineItem, products ProductCatalog, options DeliveryCatalog) (PaymentSummary, error) {
	lines, err := resolve(items, products, options)
	if err != nil {
		return PaymentSummary{}, err
	}

	var sum PaymentSummary
	for _, l := range lines {
		sum.ItemCount += l.item.Quantity
		sum.SubtotalCents += l.product.PriceCents * int64(l.item.Quantity)
		sum.ShippingCents += l.option.PriceCents
	}
	sum.BeforeTaxCents = sum.SubtotalCents + sum.ShippingCents
	sum.TaxCents = taxCents(sum.BeforeTaxCents)
	sum.TotalCents = sum.BeforeTaxCents + sum.TaxCents
	return sum, nil
}

// taxCents rounds exactly once. decimal.Round rounds half away from zero,
// which is half-up for the non-negative amounts handled here.
func taxCents(beforeTax int64) int64 {
	return decimal.NewFromInt(beforeTax).Mul(taxRate).Round(0).IntPart()
}
