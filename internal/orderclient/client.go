// Package orderclient places orders with the remote order service.
package orderclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/storefront-cart/internal/domain/cart"
	"github.com/xenking/storefront-cart/internal/domain/order"
)

const instrumentationName = "github.com/xenking/storefront-cart/internal/orderclient"

// maxErrorBody limits how much of a failed response is kept in the error.
const maxErrorBody = 512

var _ order.Placer = (*Client)(nil)

// Options configures a Client. Zero values fall back to the global
// providers and http.DefaultTransport.
type Options struct {
	Transport      http.RoundTripper
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

func (o *Options) setDefaults() {
	if o.Transport == nil {
		o.Transport = http.DefaultTransport
	}
	if o.TracerProvider == nil {
		o.TracerProvider = otel.GetTracerProvider()
	}
	if o.MeterProvider == nil {
		o.MeterProvider = otel.GetMeterProvider()
	}
}

// Client posts cart contents to the order service.
type Client struct {
	url    string
	http   *http.Client
	tracer trace.Tracer
	placed metric.Int64Counter
}

// New creates a Client for the orders endpoint at url.
func New(url string, opts Options) (*Client, error) {
	if url == "" {
		return nil, errors.New("order service url is required")
	}
	opts.setDefaults()

	placed, err := opts.MeterProvider.Meter(instrumentationName).Int64Counter("orders.placed",
		metric.WithDescription("Orders accepted by the order service"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create orders.placed counter")
	}

	return &Client{
		url: strings.TrimRight(url, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(opts.Transport,
				otelhttp.WithTracerProvider(opts.TracerProvider),
				otelhttp.WithMeterProvider(opts.MeterProvider),
			),
		},
		tracer: opts.TracerProvider.Tracer(instrumentationName),
		placed: placed,
	}, nil
}

// Place sends items as {"cart":[...]} and decodes the created order.
func (c *Client) Place(ctx context.Context, items []cart.LineItem) (_ *order.Order, rerr error) {
	ctx, span := c.tracer.Start(ctx, "PlaceOrder",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("cart.items", len(items))),
	)
	defer func() {
		if rerr != nil {
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
		}
		span.End()
	}()

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("cart")
	cart.EncodeItems(&e, items)
	e.ObjEnd()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(e.Bytes()))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send order")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, errors.Errorf("order service returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	o, err := order.Decode(jx.DecodeBytes(body))
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("order.id", o.ID))
	c.placed.Add(ctx, 1)
	zctx.From(ctx).Debug("Order service accepted order",
		zap.String("order_id", o.ID),
		zap.Int("status", resp.StatusCode),
	)
	return o, nil
}
