// Package catalog loads the product catalog from a JSON document served over
// HTTP or stored on disk. Documents ending in .gz are decompressed on the fly.
package catalog

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/klauspost/pgzip"
	"go.uber.org/zap"

	"github.com/xenking/storefront-cart/internal/domain/product"
)

// Loader fetches and parses the product catalog.
type Loader struct {
	client *http.Client
}

// NewLoader returns a Loader using client for remote sources. A nil client
// means http.DefaultClient.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{client: client}
}

// Load reads the catalog from source, an http(s) URL or a file path.
func (l *Loader) Load(ctx context.Context, source string) (*product.Catalog, error) {
	rc, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	var r io.Reader = rc
	if strings.HasSuffix(source, ".gz") {
		gz, err := pgzip.NewReader(rc)
		if err != nil {
			return nil, errors.Wrapf(err, "create gzip reader for %s", source)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	products, err := Decode(r)
	if err != nil {
		return nil, errors.Wrapf(err, "parse catalog %s", source)
	}

	zctx.From(ctx).Info("Catalog loaded",
		zap.String("source", source),
		zap.Int("products", len(products)),
	)
	return product.NewCatalog(products), nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", source)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", source)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, errors.Errorf("fetch %s: unexpected status %d", source, resp.StatusCode)
	}
	return resp.Body, nil
}

// Decode parses a JSON array of products. Unknown fields are ignored.
func Decode(r io.Reader) ([]product.Product, error) {
	d := jx.Decode(r, 4096)

	products := []product.Product{}
	seen := make(map[string]struct{})
	err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProduct(d)
		if err != nil {
			return err
		}
		if p.ID == "" {
			return errors.New("product without id")
		}
		if p.PriceCents < 0 {
			return errors.Errorf("product %s has negative price", p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return errors.Errorf("duplicate product %s", p.ID)
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "id":
			v, err := d.Str()
			p.ID = v
			return err
		case "name":
			v, err := d.Str()
			p.Name = v
			return err
		case "image":
			v, err := d.Str()
			p.Image = v
			return err
		case "priceCents":
			v, err := d.Int64()
			p.PriceCents = v
			return err
		case "rating":
			return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
				switch string(key) {
				case "stars":
					v, err := d.Float64()
					p.Rating.Stars = v
					return err
				case "count":
					v, err := d.Int()
					p.Rating.Count = v
					return err
				default:
					return d.Skip()
				}
			})
		case "keywords":
			return d.Arr(func(d *jx.Decoder) error {
				v, err := d.Str()
				if err != nil {
					return err
				}
				p.Keywords = append(p.Keywords, v)
				return nil
			})
		default:
			return d.Skip()
		}
	})
	return p, err
}
