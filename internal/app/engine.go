package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/storefront-cart/internal/catalog"
	"github.com/xenking/storefront-cart/internal/domain/cart"
	"github.com/xenking/storefront-cart/internal/domain/checkout"
	"github.com/xenking/storefront-cart/internal/domain/delivery"
	"github.com/xenking/storefront-cart/internal/domain/order"
	"github.com/xenking/storefront-cart/internal/domain/product"
	"github.com/xenking/storefront-cart/internal/orderclient"
)

const catalogTimeout = 30 * time.Second

// Providers carries telemetry providers. Nil fields use the otel globals.
type Providers struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

func (p *Providers) setDefaults() {
	if p.TracerProvider == nil {
		p.TracerProvider = otel.GetTracerProvider()
	}
	if p.MeterProvider == nil {
		p.MeterProvider = otel.GetMeterProvider()
	}
}

// Engine is the wired cart engine shared by the API server and the CLI.
type Engine struct {
	Backend   *Backend
	Products  *product.Catalog
	Delivery  *delivery.Catalog
	Cart      *cart.Cart
	Projector *checkout.Projector
	Orders    *order.Service
}

// NewEngine opens the store, loads the product catalog and hydrates the cart
// of cfg.Namespace. The catalog is loaded before the cart is exposed so that
// every projection can resolve its products.
func NewEngine(ctx context.Context, cfg *Config, p Providers) (_ *Engine, rerr error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	p.setDefaults()

	backend, err := OpenBackend(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr != nil {
			backend.Close()
		}
	}()

	client := &http.Client{
		Timeout: catalogTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithTracerProvider(p.TracerProvider),
			otelhttp.WithMeterProvider(p.MeterProvider),
		),
	}
	products, err := catalog.NewLoader(client).Load(ctx, cfg.CatalogURL)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}

	c, err := cart.Load(ctx, backend.Store, cfg.Namespace)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}

	placer, err := orderclient.New(cfg.OrderServiceURL, orderclient.Options{
		TracerProvider: p.TracerProvider,
		MeterProvider:  p.MeterProvider,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create order client")
	}

	options := delivery.Standard()
	return &Engine{
		Backend:   backend,
		Products:  products,
		Delivery:  options,
		Cart:      c,
		Projector: checkout.NewProjector(products, options),
		Orders:    order.NewService(placer, backend.Orders),
	}, nil
}

// Close releases the backend.
func (e *Engine) Close() {
	e.Backend.Close()
}
