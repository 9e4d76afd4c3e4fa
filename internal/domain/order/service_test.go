package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront-cart/internal/domain/cart"
)

// --- Mock implementations ---

type mockStore struct {
	mu     sync.Mutex
	data   map[string]string
	setErr error
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

type mockPlacer struct {
	order *Order
	err   error
	got   []cart.LineItem
	calls int
}

func (m *mockPlacer) Place(_ context.Context, items []cart.LineItem) (*Order, error) {
	m.calls++
	m.got = items
	return m.order, m.err
}

// --- Helpers ---

var placedAt = time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)

func newTestOrder(id string) *Order {
	return &Order{
		ID:             id,
		PlacedAt:       placedAt,
		TotalCostCents: 5251,
		Products: []ProductLine{
			{ProductID: "p1", Quantity: 2, EstimatedDelivery: placedAt.Add(4 * 24 * time.Hour)},
			{ProductID: "p2", Quantity: 1, EstimatedDelivery: placedAt.Add(8 * 24 * time.Hour)},
		},
	}
}

func newTestCart(t *testing.T, store cart.Store, items []cart.LineItem) *cart.Cart {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), "cart", cart.Encode(items)))
	c, err := cart.Load(context.Background(), store, "cart")
	require.NoError(t, err)
	return c
}

// --- Tests ---

func TestSubmit(t *testing.T) {
	store := newMockStore()
	items := []cart.LineItem{
		{ProductID: "p1", Quantity: 2, DeliveryOptionID: "1"},
		{ProductID: "p2", Quantity: 1, DeliveryOptionID: "2"},
	}
	c := newTestCart(t, store, items)
	placer := &mockPlacer{order: newTestOrder("o1")}
	log := NewKVLog(store, DefaultLogKey)
	svc := NewService(placer, log)

	o, err := svc.Submit(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)
	assert.Equal(t, items, placer.got)

	// The cart is not cleared.
	assert.Equal(t, items, c.Items())

	orders, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, *newTestOrder("o1"), orders[0])
}

func TestSubmit_EmptyCart(t *testing.T) {
	store := newMockStore()
	c := newTestCart(t, store, []cart.LineItem{})
	placer := &mockPlacer{}
	svc := NewService(placer, NewKVLog(store, DefaultLogKey))

	_, err := svc.Submit(context.Background(), c)
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, placer.calls)
}

func TestSubmit_PlacerError(t *testing.T) {
	store := newMockStore()
	items := []cart.LineItem{{ProductID: "p1", Quantity: 1, DeliveryOptionID: "1"}}
	c := newTestCart(t, store, items)
	cause := errors.New("connection refused")
	svc := NewService(&mockPlacer{err: cause}, NewKVLog(store, DefaultLogKey))

	_, err := svc.Submit(context.Background(), c)

	var sfErr *SubmissionFailedError
	require.ErrorAs(t, err, &sfErr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, items, c.Items())

	orders, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestSubmit_LogError(t *testing.T) {
	store := newMockStore()
	c := newTestCart(t, store, []cart.LineItem{{ProductID: "p1", Quantity: 1, DeliveryOptionID: "1"}})
	store.setErr = errors.New("disk full")
	svc := NewService(&mockPlacer{order: newTestOrder("o1")}, NewKVLog(store, DefaultLogKey))

	_, err := svc.Submit(context.Background(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record order o1")
}

func TestList_NewestFirst(t *testing.T) {
	log := NewKVLog(newMockStore(), DefaultLogKey)
	ctx := context.Background()

	require.NoError(t, log.Add(ctx, newTestOrder("first")))
	require.NoError(t, log.Add(ctx, newTestOrder("second")))

	orders, err := NewService(&mockPlacer{}, log).List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "second", orders[0].ID)
	assert.Equal(t, "first", orders[1].ID)
}

func TestTrack(t *testing.T) {
	log := NewKVLog(newMockStore(), DefaultLogKey)
	require.NoError(t, log.Add(context.Background(), newTestOrder("o1")))

	tests := []struct {
		name         string
		productID    string
		now          time.Time
		wantStatus   Status
		wantProgress int
	}{
		{name: "just placed", productID: "p1", now: placedAt, wantStatus: StatusPreparing, wantProgress: 0},
		{name: "one day in", productID: "p1", now: placedAt.Add(24 * time.Hour), wantStatus: StatusPreparing, wantProgress: 25},
		{name: "halfway", productID: "p2", now: placedAt.Add(4 * 24 * time.Hour), wantStatus: StatusShipped, wantProgress: 50},
		{name: "delivered", productID: "p1", now: placedAt.Add(4 * 24 * time.Hour), wantStatus: StatusDelivered, wantProgress: 100},
		{name: "long after", productID: "p2", now: placedAt.Add(30 * 24 * time.Hour), wantStatus: StatusDelivered, wantProgress: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&mockPlacer{}, log)
			svc.now = func() time.Time { return tt.now }

			tr, err := svc.Track(context.Background(), "o1", tt.productID)
			require.NoError(t, err)
			assert.Equal(t, "o1", tr.OrderID)
			assert.Equal(t, tt.productID, tr.Line.ProductID)
			assert.Equal(t, tt.wantStatus, tr.Status)
			assert.Equal(t, tt.wantProgress, tr.Progress)
		})
	}
}

func TestTrack_NotFound(t *testing.T) {
	log := NewKVLog(newMockStore(), DefaultLogKey)
	require.NoError(t, log.Add(context.Background(), newTestOrder("o1")))
	svc := NewService(&mockPlacer{}, log)

	_, err := svc.Track(context.Background(), "missing", "p1")
	require.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.Track(context.Background(), "o1", "p9")
	require.ErrorIs(t, err, ErrProductNotInOrder)
}

func TestBuyAgain(t *testing.T) {
	store := newMockStore()
	c := newTestCart(t, store, []cart.LineItem{{ProductID: "p1", Quantity: 1, DeliveryOptionID: "3"}})
	log := NewKVLog(store, DefaultLogKey)
	require.NoError(t, log.Add(context.Background(), newTestOrder("o1")))
	svc := NewService(&mockPlacer{}, log)

	require.NoError(t, svc.BuyAgain(context.Background(), c, "o1", "p2"))
	require.NoError(t, svc.BuyAgain(context.Background(), c, "o1", "p1"))

	assert.Equal(t, []cart.LineItem{
		{ProductID: "p1", Quantity: 2, DeliveryOptionID: "3"},
		{ProductID: "p2", Quantity: 1, DeliveryOptionID: "1"},
	}, c.Items())

	err := svc.BuyAgain(context.Background(), c, "o1", "p9")
	require.ErrorIs(t, err, ErrProductNotInOrder)
}
