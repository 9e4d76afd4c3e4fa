package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-cart/internal/domain/order"
	"github.com/xenking/storefront-cart/pkg/money"
)

const (
	createOrderSQL = `INSERT INTO orders (id, placed_at, total, products)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`

	listOrdersSQL = `SELECT id, placed_at, total, products FROM orders
		ORDER BY placed_at DESC, created_at DESC`

	getOrderSQL = `SELECT id, placed_at, total, products FROM orders WHERE id = $1`
)

var _ order.Log = (*OrderRepository)(nil)

// OrderRepository implements order.Log backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Add persists a placed order. The product lines are serialized to JSON for
// storage in the JSONB column. Re-adding an order id is ignored.
func (r *OrderRepository) Add(ctx context.Context, o *order.Order) error {
	_, err := r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.PlacedAt, money.FromCents(o.TotalCostCents), order.EncodeLines(o.Products),
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// Get returns a single order by id.
func (r *OrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(order.ErrOrderNotFound, "id %s", id)
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o        order.Order
		placedAt time.Time
		total    decimal.Decimal
		products []byte
	)
	if err := row.Scan(&o.ID, &placedAt, &total, &products); err != nil {
		return order.Order{}, err
	}

	lines, err := order.DecodeLines(products)
	if err != nil {
		return order.Order{}, errors.Wrapf(err, "order %s", o.ID)
	}

	o.PlacedAt = placedAt.UTC()
	o.TotalCostCents = money.ToCents(total)
	o.Products = lines
	return o, nil
}
