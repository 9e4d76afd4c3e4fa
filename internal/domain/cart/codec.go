package cart

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Encode serializes items as an ordered JSON array of
// {"productId","quantity","deliveryOptionId"} objects.
func Encode(items []LineItem) string {
	var e jx.Encoder
	EncodeItems(&e, items)
	return e.String()
}

// EncodeItems writes items to e. It is shared with payloads that embed a cart.
func EncodeItems(e *jx.Encoder, items []LineItem) {
	e.ArrStart()
	for _, it := range items {
		e.ObjStart()
		e.FieldStart("productId")
		e.Str(it.ProductID)
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.FieldStart("deliveryOptionId")
		e.Str(it.DeliveryOptionID)
		e.ObjEnd()
	}
	e.ArrEnd()
}

// Decode parses a serialized cart. A JSON null yields nil items and no error;
// an empty array yields an empty, non-nil slice. Anything after the top-level
// value other than whitespace is an error.
func Decode(raw string) ([]LineItem, error) {
	s := strings.TrimSpace(raw)
	v, err := jx.DecodeStr(s).Raw()
	if err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}
	if len(v) != len(s) {
		return nil, errors.Errorf("decode cart: unexpected trailing data at offset %d", len(v))
	}
	if v.Type() == jx.Null {
		return nil, nil
	}

	items, err := DecodeItems(jx.DecodeBytes(v))
	if err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}
	return items, nil
}

// DecodeItems reads a line item array from d.
func DecodeItems(d *jx.Decoder) ([]LineItem, error) {
	items := []LineItem{}
	seen := make(map[string]struct{})
	err := d.Arr(func(d *jx.Decoder) error {
		var (
			it        LineItem
			hasID     bool
			hasQty    bool
			fieldName string
		)
		if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
			fieldName = string(key)
			switch fieldName {
			case "productId":
				v, err := d.Str()
				if err != nil {
					return err
				}
				it.ProductID, hasID = v, true
			case "quantity":
				v, err := d.Int()
				if err != nil {
					return err
				}
				it.Quantity, hasQty = v, true
			case "deliveryOptionId":
				v, err := d.Str()
				if err != nil {
					return err
				}
				it.DeliveryOptionID = v
			default:
				return d.Skip()
			}
			return nil
		}); err != nil {
			return errors.Wrapf(err, "field %q", fieldName)
		}

		switch {
		case !hasID || it.ProductID == "":
			return errors.New("line item without productId")
		case !hasQty:
			return errors.Errorf("line item %s without quantity", it.ProductID)
		case it.Quantity < 0:
			return errors.Errorf("line item %s has negative quantity %d", it.ProductID, it.Quantity)
		case it.Quantity >= MaxQuantity:
			return errors.Errorf("line item %s has quantity %d, limit is %d", it.ProductID, it.Quantity, MaxQuantity-1)
		}
		if _, dup := seen[it.ProductID]; dup {
			return errors.Errorf("duplicate line item %s", it.ProductID)
		}
		seen[it.ProductID] = struct{}{}
		items = append(items, it)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
