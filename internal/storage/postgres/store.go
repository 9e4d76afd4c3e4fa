package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront-cart/internal/domain/cart"
)

const (
	getCartSQL = `SELECT value FROM cart_store WHERE namespace = $1`

	upsertCartSQL = `INSERT INTO cart_store (namespace, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (namespace) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

var _ cart.Store = (*Store)(nil)

// Store implements cart.Store with one row per namespace.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store that uses the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Get returns the value stored under namespace.
func (s *Store) Get(ctx context.Context, namespace string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx, getCartSQL, namespace).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting cart %q: %w", namespace, err)
	}
	return value, true, nil
}

// Set upserts the value stored under namespace. Concurrent writers to the
// same namespace resolve as last writer wins.
func (s *Store) Set(ctx context.Context, namespace, value string) error {
	if _, err := s.pool.Exec(ctx, upsertCartSQL, namespace, value); err != nil {
		return fmt.Errorf("saving cart %q: %w", namespace, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
