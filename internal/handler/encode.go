package handler

import (
	"time"

	"github.com/go-faster/jx"

	"github.com/xenking/storefront-cart/internal/domain/cart"
	"github.com/xenking/storefront-cart/internal/domain/checkout"
	"github.com/xenking/storefront-cart/internal/domain/delivery"
	"github.com/xenking/storefront-cart/internal/domain/order"
	"github.com/xenking/storefront-cart/internal/domain/product"
	"github.com/xenking/storefront-cart/pkg/money"
)

// DateLayout renders delivery dates the way the storefront shows them.
const DateLayout = "Monday, January 2"

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("image")
	e.Str(p.Image)
	e.FieldStart("priceCents")
	e.Int64(p.PriceCents)
	e.FieldStart("price")
	e.Str(money.Format(p.PriceCents))
	e.FieldStart("rating")
	e.ObjStart()
	e.FieldStart("stars")
	e.Float64(p.Rating.Stars)
	e.FieldStart("count")
	e.Int(p.Rating.Count)
	e.ObjEnd()
	e.FieldStart("keywords")
	e.ArrStart()
	for _, k := range p.Keywords {
		e.Str(k)
	}
	e.ArrEnd()
	e.ObjEnd()
}

func encodeProducts(products []product.Product) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, p := range products {
		encodeProduct(&e, p)
	}
	e.ArrEnd()
	return e.Bytes()
}

func encodeDeliveryOption(e *jx.Encoder, o delivery.Option) {
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("priceCents")
	e.Int64(o.PriceCents)
	e.FieldStart("price")
	e.Str(money.FormatPrice(o.PriceCents))
	e.FieldStart("deliveryDays")
	e.Int(o.LeadDays)
}

func encodeDeliveryOptions(options []delivery.Option) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, o := range options {
		e.ObjStart()
		encodeDeliveryOption(&e, o)
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

func encodeDate(e *jx.Encoder, field string, t time.Time) {
	e.FieldStart(field)
	e.Str(t.Format(DateLayout))
}

func encodeCart(items []cart.LineItem) []byte {
	var total int
	for _, it := range items {
		total += it.Quantity
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("items")
	cart.EncodeItems(&e, items)
	e.FieldStart("totalQuantity")
	e.Int(total)
	e.ObjEnd()
	return e.Bytes()
}

func encodePayment(e *jx.Encoder, p checkout.PaymentSummary) {
	amount := func(name string, cents int64) {
		e.FieldStart(name + "Cents")
		e.Int64(cents)
		e.FieldStart(name)
		e.Str(money.Format(cents))
	}

	e.ObjStart()
	e.FieldStart("itemCount")
	e.Int(p.ItemCount)
	amount("subtotal", p.SubtotalCents)
	amount("shipping", p.ShippingCents)
	amount("beforeTax", p.BeforeTaxCents)
	amount("tax", p.TaxCents)
	amount("total", p.TotalCents)
	e.ObjEnd()
}

func encodeRow(e *jx.Encoder, r checkout.Row) {
	e.ObjStart()
	e.FieldStart("product")
	encodeProduct(e, r.Product)
	e.FieldStart("quantity")
	e.Int(r.Item.Quantity)
	e.FieldStart("deliveryOptionId")
	e.Str(r.Item.DeliveryOptionID)
	encodeDate(e, "deliveryDate", r.DeliveryDate)
	e.FieldStart("deliveryOptions")
	e.ArrStart()
	for _, c := range r.Choices {
		e.ObjStart()
		encodeDeliveryOption(e, c.Option)
		encodeDate(e, "deliveryDate", c.Date)
		e.FieldStart("selected")
		e.Bool(c.Selected)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}

func encodeView(v checkout.View) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("totalQuantity")
	e.Int(v.Payment.ItemCount)
	e.FieldStart("rows")
	e.ArrStart()
	for _, r := range v.Rows {
		encodeRow(&e, r)
	}
	e.ArrEnd()
	e.FieldStart("payment")
	encodePayment(&e, v.Payment)
	e.ObjEnd()
	return e.Bytes()
}

func encodeOrder(o *order.Order) []byte {
	var e jx.Encoder
	order.Encode(&e, o)
	return e.Bytes()
}

func encodeOrders(orders []order.Order) []byte {
	var e jx.Encoder
	e.ArrStart()
	for i := range orders {
		order.Encode(&e, &orders[i])
	}
	e.ArrEnd()
	return e.Bytes()
}

func encodeTracking(t *order.Tracking, p product.Product, known bool) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("orderId")
	e.Str(t.OrderID)
	e.FieldStart("orderTime")
	e.Str(t.PlacedAt.UTC().Format(time.RFC3339Nano))
	e.FieldStart("productId")
	e.Str(t.Line.ProductID)
	if known {
		e.FieldStart("product")
		encodeProduct(&e, p)
	}
	e.FieldStart("quantity")
	e.Int(t.Line.Quantity)
	e.FieldStart("estimatedDeliveryTime")
	e.Str(t.Line.EstimatedDelivery.UTC().Format(time.RFC3339Nano))
	encodeDate(&e, "deliveryDate", t.Line.EstimatedDelivery)
	e.FieldStart("status")
	e.Str(string(t.Status))
	e.FieldStart("progress")
	e.Int(t.Progress)
	e.ObjEnd()
	return e.Bytes()
}
