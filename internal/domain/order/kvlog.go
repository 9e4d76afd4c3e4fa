package order

import (
	"context"
	"slices"
	"sync"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront-cart/internal/domain/cart"
)

// DefaultLogKey is the store key the order history is kept under.
const DefaultLogKey = "orders"

var _ Log = (*KVLog)(nil)

// KVLog keeps the order history as a single JSON array in a key/value store,
// next to the carts.
type KVLog struct {
	mu    sync.Mutex
	store cart.Store
	key   string
}

// NewKVLog returns a KVLog writing to key in store.
func NewKVLog(store cart.Store, key string) *KVLog {
	return &KVLog{store: store, key: key}
}

func (l *KVLog) load(ctx context.Context) ([]Order, error) {
	raw, ok, err := l.store.Get(ctx, l.key)
	if err != nil {
		return nil, errors.Wrap(err, "read order log")
	}
	if !ok {
		return nil, nil
	}
	return DecodeList(raw)
}

// Add prepends o to the history.
func (l *KVLog) Add(ctx context.Context, o *Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	orders, err := l.load(ctx)
	if err != nil {
		return err
	}
	orders = slices.Insert(orders, 0, *o)
	if err := l.store.Set(ctx, l.key, EncodeList(orders)); err != nil {
		return errors.Wrap(err, "write order log")
	}
	return nil
}

// List returns the history, newest first.
func (l *KVLog) List(ctx context.Context) ([]Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.load(ctx)
}

// Get returns the order with the given id.
func (l *KVLog) Get(ctx context.Context, id string) (*Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	orders, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, errors.Wrapf(ErrOrderNotFound, "id %s", id)
}
