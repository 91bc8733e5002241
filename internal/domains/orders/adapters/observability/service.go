package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	orderstypes "github.com/Apurer/go-pos-api-server/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/go-pos-api-server/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-pos-api-server/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-pos-api-server/internal/domains/orders/adapters/observability/service"

// Service decorates the sales service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core sales service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
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
	return s
}

func (s *Service) Checkout(ctx context.Context, input orderstypes.CheckoutInput) (*ordersports.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Checkout",
		trace.WithAttributes(
			attribute.Int("order.lines", len(input.Items)),
			attribute.String("order.payment_method", string(input.PaymentMethod)),
		))
	defer span.End()

	result, err := s.inner.Checkout(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "checkout failed", slog.Int64("cashier.id", input.CashierID))
	}
	span.SetAttributes(attribute.String("order.number", result.Order.Number))
	s.metrics.recordCheckout(ctx, result.Order.PaymentMethod)
	s.logInfo(ctx, "order completed",
		slog.Int64("order.id", result.Order.ID),
		slog.String("order.number", result.Order.Number),
		slog.String("order.total", result.Order.Total.StringFixed(2)))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*ordersports.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, filter ordersports.ListFilter) ([]*ordersports.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.List")
	defer span.End()

	result, err := s.inner.List(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.list.count", len(result)))
	return result, nil
}

func (s *Service) Refund(ctx context.Context, input orderstypes.RefundInput) (*ordersports.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Refund",
		trace.WithAttributes(
			attribute.Int64("order.id", input.OrderID),
			attribute.Bool("refund.restore_stock", input.RestoreStock),
		))
	defer span.End()

	result, err := s.inner.Refund(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "refund failed", slog.Int64("order.id", input.OrderID))
	}
	s.metrics.recordRefund(ctx)
	s.logInfo(ctx, "order refunded",
		slog.Int64("order.id", result.Order.ID),
		slog.String("refund.amount", result.Order.Refund.Amount.StringFixed(2)))
	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status ordersdomain.Status) (*ordersports.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateStatus",
		trace.WithAttributes(attribute.Int64("order.id", id), attribute.String("order.status", string(status))))
	defer span.End()

	result, err := s.inner.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "status update failed", slog.Int64("order.id", id))
	}
	s.logInfo(ctx, "order status updated", slog.Int64("order.id", id), slog.String("order.status", string(status)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	checkouts metric.Int64Counter
	refunds   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	checkouts, _ := m.Int64Counter("orders.service.checkouts", metric.WithDescription("Number of completed checkouts"))
	refunds, _ := m.Int64Counter("orders.service.refunds", metric.WithDescription("Number of processed refunds"))
	return serviceMetrics{checkouts: checkouts, refunds: refunds}
}

func (m serviceMetrics) recordCheckout(ctx context.Context, payment ordersdomain.PaymentMethod) {
	if m.checkouts != nil {
		m.checkouts.Add(ctx, 1, metric.WithAttributes(attribute.String("order.payment_method", string(payment))))
	}
}

func (m serviceMetrics) recordRefund(ctx context.Context) {
	if m.refunds != nil {
		m.refunds.Add(ctx, 1)
	}
}

var _ ordersports.Service = (*Service)(nil)
