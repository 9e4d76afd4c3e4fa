package app

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront-cart/internal/domain/cart"
	"github.com/xenking/storefront-cart/internal/domain/order"
	"github.com/xenking/storefront-cart/internal/storage/file"
	"github.com/xenking/storefront-cart/internal/storage/memory"
	"github.com/xenking/storefront-cart/internal/storage/postgres"
	"github.com/xenking/storefront-cart/internal/storage/redis"
	"github.com/xenking/storefront-cart/pkg/health"
)

// Backend is the persistence selected by StoreConfig: the cart store and the
// order log kept next to it.
type Backend struct {
	Store  cart.Store
	Orders order.Log
	// Pinger is set for backends reached over the network.
	Pinger health.Pinger

	close func()
}

// Close releases connections held by the backend.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// OpenBackend connects the configured store driver.
func OpenBackend(ctx context.Context, cfg StoreConfig) (*Backend, error) {
	lg := zctx.From(ctx).With(zap.String("driver", cfg.Driver))

	switch cfg.Driver {
	case DriverMemory:
		s := memory.New()
		return kvBackend(s), nil
	case DriverFile:
		s, err := file.New(cfg.Dir)
		if err != nil {
			return nil, errors.Wrap(err, "open file store")
		}
		lg.Info("Using file store", zap.String("dir", cfg.Dir))
		return kvBackend(s), nil
	case DriverRedis:
		s, err := redis.Dial(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, errors.Wrap(err, "connect redis")
		}
		b := kvBackend(s)
		b.Pinger = s
		b.close = func() {
			if err := s.Close(); err != nil {
				lg.Warn("Close redis", zap.Error(err))
			}
		}
		lg.Info("Using redis store")
		return b, nil
	case DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "create db pool")
		}
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, errors.Wrap(err, "run migrations")
		}
		s := postgres.NewStore(pool)
		lg.Info("Using postgres store")
		return &Backend{
			Store:  s,
			Orders: postgres.NewOrderRepository(pool),
			Pinger: s,
			close:  pool.Close,
		}, nil
	default:
		return nil, errors.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func kvBackend(s cart.Store) *Backend {
	return &Backend{
		Store:  s,
		Orders: order.NewKVLog(s, order.DefaultLogKey),
	}
}
