package order

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Encode writes o in the order service wire format.
func Encode(e *jx.Encoder, o *Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("orderTime")
	e.Str(o.PlacedAt.UTC().Format(time.RFC3339Nano))
	e.FieldStart("totalCostCents")
	e.Int64(o.TotalCostCents)
	e.FieldStart("products")
	encodeLines(e, o.Products)
	e.ObjEnd()
}

func encodeLines(e *jx.Encoder, lines []ProductLine) {
	e.ArrStart()
	for _, p := range lines {
		e.ObjStart()
		e.FieldStart("productId")
		e.Str(p.ProductID)
		e.FieldStart("quantity")
		e.Int(p.Quantity)
		e.FieldStart("estimatedDeliveryTime")
		e.Str(p.EstimatedDelivery.UTC().Format(time.RFC3339Nano))
		e.ObjEnd()
	}
	e.ArrEnd()
}

// EncodeLines serializes product lines on their own, as stored in a JSONB
// column.
func EncodeLines(lines []ProductLine) []byte {
	var e jx.Encoder
	encodeLines(&e, lines)
	return e.Bytes()
}

// DecodeLines parses the output of EncodeLines.
func DecodeLines(data []byte) ([]ProductLine, error) {
	lines, err := decodeLines(jx.DecodeBytes(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode product lines")
	}
	return lines, nil
}

func decodeLines(d *jx.Decoder) ([]ProductLine, error) {
	var lines []ProductLine
	err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProductLine(d)
		if err != nil {
			return err
		}
		lines = append(lines, p)
		return nil
	})
	return lines, err
}

// Decode reads an order in the order service wire format.
func Decode(d *jx.Decoder) (*Order, error) {
	var o Order
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "id":
			v, err := d.Str()
			o.ID = v
			return err
		case "orderTime":
			t, err := decodeTime(d)
			o.PlacedAt = t
			return err
		case "totalCostCents":
			v, err := d.Int64()
			o.TotalCostCents = v
			return err
		case "products":
			lines, err := decodeLines(d)
			o.Products = lines
			return err
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, errors.Wrap(err, "decode order")
	}
	if o.ID == "" {
		return nil, errors.New("decode order: missing id")
	}
	return &o, nil
}

func decodeProductLine(d *jx.Decoder) (ProductLine, error) {
	var p ProductLine
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "productId":
			v, err := d.Str()
			p.ProductID = v
			return err
		case "quantity":
			v, err := d.Int()
			p.Quantity = v
			return err
		case "estimatedDeliveryTime":
			t, err := decodeTime(d)
			p.EstimatedDelivery = t
			return err
		default:
			return d.Skip()
		}
	})
	return p, err
}

func decodeTime(d *jx.Decoder) (time.Time, error) {
	s, err := d.Str()
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parse time %q", s)
	}
	return t, nil
}

// EncodeList serializes orders as a JSON array.
func EncodeList(orders []Order) string {
	var e jx.Encoder
	e.ArrStart()
	for i := range orders {
		Encode(&e, &orders[i])
	}
	e.ArrEnd()
	return e.String()
}

// DecodeList parses a JSON array of orders. null yields an empty list.
func DecodeList(raw string) ([]Order, error) {
	d := jx.DecodeStr(raw)
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	var orders []Order
	if err := d.Arr(func(d *jx.Decoder) error {
		o, err := Decode(d)
		if err != nil {
			return err
		}
		orders = append(orders, *o)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return orders, nil
}
