// Package redis implements the cart store on top of Redis strings.
package redis

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/xenking/storefront-cart/internal/domain/cart"
)

// DefaultPrefix namespaces all keys written by the store.
const DefaultPrefix = "storefront:"

var _ cart.Store = (*Store)(nil)

// Store keeps one Redis string per namespace.
type Store struct {
	rdb    redis.UniversalClient
	prefix string
}

// New returns a Store using rdb. Keys are written as prefix+namespace.
func New(rdb redis.UniversalClient, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

// Dial parses a redis:// URL (or host:port) and returns a connected Store.
func Dial(ctx context.Context, addr string) (*Store, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{Addr: addr}
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(err, "ping redis %s", opts.Addr)
	}
	return New(rdb, DefaultPrefix), nil
}

// Get returns the value stored under namespace.
func (s *Store) Get(ctx context.Context, namespace string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, s.prefix+namespace).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "get %s", namespace)
	}
	return v, true, nil
}

// Set replaces the value stored under namespace. Values never expire.
func (s *Store) Set(ctx context.Context, namespace, value string) error {
	if err := s.rdb.Set(ctx, s.prefix+namespace, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "set %s", namespace)
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close releases the client.
func (s *Store) Close() error {
	return s.rdb.Close()
}
