package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront-cart/internal/domain/cart"
	"github.com/xenking/storefront-cart/internal/domain/order"
)

func TestLoadCLIConfig(t *testing.T) {
	t.Setenv("CART_STORE_DRIVER", "memory")
	t.Setenv("CART_NAMESPACE", "cart-business")
	t.Setenv("PORT", "9090")

	cfg, err := LoadCLIConfig()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr)
	assert.Equal(t, "cart-business", cfg.Namespace)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "https://supersimplebackend.dev/orders", cfg.OrderServiceURL)
}

func TestLoadCLIConfig_PlatformURLs(t *testing.T) {
	t.Setenv("CART_STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://cart@localhost/cart")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := LoadCLIConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres://cart@localhost/cart", cfg.Store.DatabaseURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Store.RedisAddr)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		store     StoreConfig
		wantErr   string
	}{
		{name: "order log namespace", namespace: "orders", store: StoreConfig{Driver: DriverMemory}, wantErr: "reserved"},
		{name: "file", store: StoreConfig{Driver: DriverFile, Dir: "/tmp/cart"}},
		{name: "file without dir", store: StoreConfig{Driver: DriverFile}, wantErr: "directory"},
		{name: "memory", store: StoreConfig{Driver: DriverMemory}},
		{name: "redis without addr", store: StoreConfig{Driver: DriverRedis}, wantErr: "REDIS_URL"},
		{name: "postgres without url", store: StoreConfig{Driver: DriverPostgres}, wantErr: "DATABASE_URL"},
		{name: "unknown", store: StoreConfig{Driver: "etcd"}, wantErr: `unknown store driver "etcd"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := tt.namespace
			if ns == "" {
				ns = "cart-oop"
			}
			cfg := &Config{Namespace: ns, Store: tt.store}
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

const catalogJSON = `[
	{"id":"e43638ce-6aa0-4b85-b27f-e1d07eb678c6","name":"Socks","priceCents":1090},
	{"id":"15b6fc6f-327a-4ec4-896f-486349e85a3d","name":"Basketball","priceCents":2095}
]`

func TestNewEngine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(catalogJSON))
	}))
	defer srv.Close()

	cfg := &Config{
		Namespace:       "cart-oop",
		CatalogURL:      srv.URL,
		OrderServiceURL: srv.URL + "/orders",
		Store:           StoreConfig{Driver: DriverFile, Dir: t.TempDir()},
	}
	ctx := context.Background()

	e, err := NewEngine(ctx, cfg, Providers{})
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, 2, e.Products.Len())
	assert.Equal(t, cart.DefaultItems(), e.Cart.Items())
	assert.Nil(t, e.Backend.Pinger)

	v, err := e.Projector.View(e.Cart)
	require.NoError(t, err)
	assert.Equal(t, int64(5251), v.Payment.TotalCents)

	// A second engine over the same directory sees the persisted cart.
	require.NoError(t, e.Cart.RemoveItem(ctx, "15b6fc6f-327a-4ec4-896f-486349e85a3d"))
	again, err := NewEngine(ctx, cfg, Providers{})
	require.NoError(t, err)
	defer again.Close()
	assert.Equal(t, e.Cart.Items(), again.Cart.Items())
}

func TestNewEngine_CatalogUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewEngine(context.Background(), &Config{
		Namespace:       "cart-oop",
		CatalogURL:      srv.URL,
		OrderServiceURL: srv.URL,
		Store:           StoreConfig{Driver: DriverMemory},
	}, Providers{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load catalog")
}

func TestOpenBackend_KVOrderLog(t *testing.T) {
	b, err := OpenBackend(context.Background(), StoreConfig{Driver: DriverMemory})
	require.NoError(t, err)
	defer b.Close()

	orders, err := b.Orders.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = OpenBackend(context.Background(), StoreConfig{Driver: "etcd"})
	require.Error(t, err)
}

func TestNewEngine_OrderLogNamespaceRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(catalogJSON))
	}))
	defer srv.Close()

	ctx := context.Background()
	dir := t.TempDir()
	store := StoreConfig{Driver: DriverFile, Dir: dir}

	b, err := OpenBackend(ctx, store)
	require.NoError(t, err)
	require.NoError(t, b.Orders.Add(ctx, &order.Order{
		ID:             "order-1",
		PlacedAt:       time.Date(2024, 6, 14, 10, 0, 0, 0, time.UTC),
		TotalCostCents: 5251,
		Products: []order.ProductLine{{
			ProductID:         "e43638ce-6aa0-4b85-b27f-e1d07eb678c6",
			Quantity:          2,
			EstimatedDelivery: time.Date(2024, 6, 21, 10, 0, 0, 0, time.UTC),
		}},
	}))
	b.Close()

	_, err = NewEngine(ctx, &Config{
		Namespace:       order.DefaultLogKey,
		CatalogURL:      srv.URL,
		OrderServiceURL: srv.URL + "/orders",
		Store:           store,
	}, Providers{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved")

	b, err = OpenBackend(ctx, store)
	require.NoError(t, err)
	defer b.Close()
	orders, err := b.Orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "order-1", orders[0].ID)
}
