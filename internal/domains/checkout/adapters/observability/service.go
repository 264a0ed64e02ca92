package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	cartsdomain "github.com/monochra/storefront/internal/domains/carts/domain"
	catalogports "github.com/monochra/storefront/internal/domains/catalog/ports"
	checkoutdomain "github.com/monochra/storefront/internal/domains/checkout/domain"
	"github.com/monochra/storefront/internal/domains/checkout/ports"
	ordersdomain "github.com/monochra/storefront/internal/domains/orders/domain"
)

const tracerName = "github.com/monochra/storefront/internal/domains/checkout/adapters/observability/service"

var _ ports.Service = (*Service)(nil)

// Service decorates the checkout port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core checkout service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// Checkout commits a cart into an order with instrumentation. Oversell
// rejections are counted separately from other failures.
func (s *Service) Checkout(ctx context.Context, owner cartsdomain.Owner, req checkoutdomain.Request) (*ordersdomain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.Checkout",
		attribute.String("cart.owner.kind", string(owner.Kind)),
		attribute.String("cart.owner.key", owner.Key),
	)
	defer span.End()

	s.logInfo(ctx, "checking out cart", slog.String("owner.kind", string(owner.Kind)), slog.String("owner.key", owner.Key))
	order, err := s.inner.Checkout(ctx, owner, req)
	if err != nil {
		var insufficient *catalogports.InsufficientStockError
		if errors.As(err, &insufficient) {
			s.metrics.recordOversellRejected(ctx, insufficient.ProductID)
		}
		return nil, s.handleError(ctx, span, err, "checkout failed", slog.String("owner.key", owner.Key))
	}
	span.SetAttributes(
		attribute.Int64("order.id", order.ID),
		attribute.String("order.number", order.Number),
	)
	s.metrics.recordOrderPlaced(ctx)
	s.logInfo(ctx, "order placed",
		slog.Int64("order.id", order.ID),
		slog.String("order.number", order.Number),
		slog.String("order.total", order.Total.StringFixed(2)),
	)
	return order, nil
}

// Quote prices the cart without committing anything.
func (s *Service) Quote(ctx context.Context, owner cartsdomain.Owner) (*checkoutdomain.Totals, error) {
	ctx, span := s.startSpan(ctx, "Service.Quote",
		attribute.String("cart.owner.kind", string(owner.Kind)),
		attribute.String("cart.owner.key", owner.Key),
	)
	defer span.End()

	totals, err := s.inner.Quote(ctx, owner)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "quote failed", slog.String("owner.key", owner.Key))
	}
	span.SetAttributes(attribute.String("cart.total", totals.Total.StringFixed(2)))
	return totals, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	ordersPlaced      metric.Int64Counter
	oversellsRejected metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("checkout.orders.placed", metric.WithDescription("Number of orders placed"))
	oversellsRejected, _ := m.Int64Counter("checkout.oversells.rejected", metric.WithDescription("Number of checkouts rejected for insufficient stock"))
	return serviceMetrics{
		ordersPlaced:      ordersPlaced,
		oversellsRejected: oversellsRejected,
	}
}

func (m serviceMetrics) recordOrderPlaced(ctx context.Context) {
	addCounter(ctx, m.ordersPlaced, 1)
}

func (m serviceMetrics) recordOversellRejected(ctx context.Context, productID int64) {
	addCounter(ctx, m.oversellsRejected, 1, attribute.Int64("product.id", productID))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}
