// Package memory provides an in-process key/value store for carts and the
// order log. Contents do not survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/xenking/storefront-cart/internal/domain/cart"
)

var _ cart.Store = (*Store)(nil)

// Store is a concurrency-safe map of namespaces to serialized values.
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(map[string]string)}
}

// Get returns the value stored under namespace.
func (s *Store) Get(_ context.Context, namespace string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[namespace]
	return v, ok, nil
}

// Set replaces the value stored under namespace.
func (s *Store) Set(_ context.Context, namespace, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[namespace] = value
	return nil
}

// Delete clears namespace, as if the cart had been removed externally.
func (s *Store) Delete(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, namespace)
	return nil
}
