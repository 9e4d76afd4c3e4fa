package orderclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront-cart/internal/domain/cart"
)

const orderResponse = `{
	"id": "27cba69d-4c3d-4098-b42d-ac7fa62b7664",
	"orderTime": "2024-02-27T20:57:02.235Z",
	"totalCostCents": 5251,
	"products": [
		{"productId": "p1", "quantity": 2, "estimatedDeliveryTime": "2024-03-05T20:57:02.235Z"},
		{"productId": "p2", "quantity": 1, "estimatedDeliveryTime": "2024-03-01T20:57:02.235Z"}
	]
}`

func TestPlace(t *testing.T) {
	items := []cart.LineItem{
		{ProductID: "p1", Quantity: 2, DeliveryOptionID: "1"},
		{ProductID: "p2", Quantity: 1, DeliveryOptionID: "2"},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var got []cart.LineItem
		require.NoError(t, jx.DecodeBytes(body).ObjBytes(func(d *jx.Decoder, key []byte) error {
			if string(key) != "cart" {
				return d.Skip()
			}
			v, err := cart.DecodeItems(d)
			got = v
			return err
		}))
		assert.Equal(t, items, got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(orderResponse))
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/orders/", Options{})
	require.NoError(t, err)

	o, err := c.Place(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, "27cba69d-4c3d-4098-b42d-ac7fa62b7664", o.ID)
	assert.Equal(t, int64(5251), o.TotalCostCents)
	require.Len(t, o.Products, 2)
	assert.True(t, time.Date(2024, 3, 5, 20, 57, 2, 235_000_000, time.UTC).Equal(o.Products[0].EstimatedDelivery))
}

func TestPlace_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantErr: "order service returned 500: boom"},
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":"bad cart"}`, wantErr: "order service returned 400"},
		{name: "malformed body", status: http.StatusOK, body: `{"id":`, wantErr: "decode order"},
		{name: "missing id", status: http.StatusCreated, body: `{"totalCostCents":1}`, wantErr: "missing id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := New(srv.URL, Options{})
			require.NoError(t, err)

			_, err = c.Place(context.Background(), []cart.LineItem{{ProductID: "p1", Quantity: 1, DeliveryOptionID: "1"}})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPlace_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, Options{})
	require.NoError(t, err)

	_, err = c.Place(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send order")
}

func TestNew_RequiresURL(t *testing.T) {
	_, err := New("", Options{})
	require.Error(t, err)
}
