package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront-cart/internal/domain/product"
)

const productsJSON = `[
  {
    "id": "e43638ce-6aa0-4b85-b27f-e1d07eb678c6",
    "image": "images/products/athletic-cotton-socks-6-pairs.jpg",
    "name": "Black and Gray Athletic Cotton Socks - 6 Pairs",
    "rating": {"stars": 4.5, "count": 87},
    "priceCents": 1090,
    "keywords": ["socks", "sports", "apparel"]
  },
  {
    "id": "15b6fc6f-327a-4ec4-896f-486349e85a3d",
    "image": "images/products/intermediate-composite-basketball.jpg",
    "name": "Intermediate Size Basketball",
    "rating": {"stars": 4, "count": 127},
    "priceCents": 2095,
    "keywords": ["sports", "basketballs"],
    "type": "clothing",
    "sizeChartLink": "images/clothing-size-chart.png"
  }
]`

func assertProducts(t *testing.T, c *product.Catalog) {
	t.Helper()
	require.Equal(t, 2, c.Len())

	socks, ok := c.Get("e43638ce-6aa0-4b85-b27f-e1d07eb678c6")
	require.True(t, ok)
	assert.Equal(t, product.Product{
		ID:         "e43638ce-6aa0-4b85-b27f-e1d07eb678c6",
		Name:       "Black and Gray Athletic Cotton Socks - 6 Pairs",
		Image:      "images/products/athletic-cotton-socks-6-pairs.jpg",
		PriceCents: 1090,
		Rating:     product.Rating{Stars: 4.5, Count: 87},
		Keywords:   []string{"socks", "sports", "apparel"},
	}, socks)

	assert.Equal(t, "15b6fc6f-327a-4ec4-896f-486349e85a3d", c.List()[1].ID)
}

func TestLoader_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(productsJSON))
	}))
	defer srv.Close()

	c, err := NewLoader(srv.Client()).Load(context.Background(), srv.URL+"/products")
	require.NoError(t, err)
	assertProducts(t, c)
}

func TestLoader_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewLoader(nil).Load(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestLoader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(productsJSON), 0o600))

	c, err := NewLoader(nil).Load(context.Background(), path)
	require.NoError(t, err)
	assertProducts(t, c)
}

func TestLoader_GzipFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := pgzip.NewWriter(f)
	_, err = gz.Write([]byte(productsJSON))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	c, err := NewLoader(nil).Load(context.Background(), path)
	require.NoError(t, err)
	assertProducts(t, c)
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestDecode_Invalid(t *testing.T) {
	for _, raw := range []string{
		`{}`,
		`[{"name":"no id"}]`,
		`[{"id":"a","priceCents":-1}]`,
		`[{"id":"a"},{"id":"a"}]`,
		`[{"id":"a","priceCents":"10.90"}]`,
	} {
		_, err := Decode(strings.NewReader(raw))
		assert.Error(t, err, "payload %s", raw)
	}
}
