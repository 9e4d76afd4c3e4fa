package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront-cart/internal/domain/cart"
)

// Status is the shipping progress of an order line.
type Status string

// Order line statuses in progress order.
const (
	StatusPreparing Status = "preparing"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
)

// Tracking describes where a single product of an order is.
type Tracking struct {
	OrderID  string
	PlacedAt time.Time
	Line     ProductLine
	Status   Status
	// Progress is the elapsed share of the delivery window, 0 to 100.
	Progress int
}

// Service places orders and keeps the order log.
type Service struct {
	placer Placer
	log    Log
	now    func() time.Time
}

// NewService creates an order Service.
func NewService(placer Placer, log Log) *Service {
	return &Service{
		placer: placer,
		log:    log,
		now:    time.Now,
	}
}

// Submit sends the current cart contents to the order service and records the
// returned order. The cart is not cleared.
func (s *Service) Submit(ctx context.Context, c *cart.Cart) (*Order, error) {
	items := c.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	lg := zctx.From(ctx).With(zap.String("namespace", c.Namespace()))

	o, err := s.placer.Place(ctx, items)
	if err != nil {
		lg.Warn("Order submission failed", zap.Error(err))
		return nil, &SubmissionFailedError{Err: err}
	}

	if err := s.log.Add(ctx, o); err != nil {
		return nil, errors.Wrapf(err, "record order %s", o.ID)
	}

	lg.Info("Order placed",
		zap.String("order_id", o.ID),
		zap.Int64("total_cents", o.TotalCostCents),
		zap.Int("products", len(o.Products)),
	)
	return o, nil
}

// List returns recorded orders, newest first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	orders, err := s.log.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

// Track reports the delivery progress of one product in an order.
func (s *Service) Track(ctx context.Context, orderID, productID string) (*Tracking, error) {
	o, err := s.log.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	line, ok := o.Product(productID)
	if !ok {
		return nil, errors.Wrapf(ErrProductNotInOrder, "order %s, product %s", orderID, productID)
	}

	progress := deliveryProgress(o.PlacedAt, line.EstimatedDelivery, s.now())
	return &Tracking{
		OrderID:  o.ID,
		PlacedAt: o.PlacedAt,
		Line:     line,
		Status:   statusFor(progress),
		Progress: progress,
	}, nil
}

// BuyAgain adds one unit of an ordered product back to c with the default
// delivery option.
func (s *Service) BuyAgain(ctx context.Context, c *cart.Cart, orderID, productID string) error {
	o, err := s.log.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if _, ok := o.Product(productID); !ok {
		return errors.Wrapf(ErrProductNotInOrder, "order %s, product %s", orderID, productID)
	}
	return c.AddItem(ctx, productID)
}

func deliveryProgress(placed, eta, now time.Time) int {
	total := eta.Sub(placed)
	if total <= 0 || !now.Before(eta) {
		return 100
	}
	elapsed := now.Sub(placed)
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed * 100 / total)
}

func statusFor(progress int) Status {
	switch {
	case progress >= 100:
		return StatusDelivered
	case progress >= 50:
		return StatusShipped
	default:
		return StatusPreparing
	}
}
