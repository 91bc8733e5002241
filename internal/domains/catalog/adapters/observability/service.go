package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogdomain "github.com/Apurer/go-pos-api-server/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-pos-api-server/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/go-pos-api-server/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
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

func (s *Service) CreateProduct(ctx context.Context, product *catalogdomain.Product) (*catalogports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct",
		trace.WithAttributes(attribute.String("product.name", product.Name)))
	defer span.End()

	result, err := s.inner.CreateProduct(ctx, product)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("product.name", product.Name))
	}
	s.metrics.recordCreated(ctx, result.Product.Category)
	s.logInfo(ctx, "product created", slog.Int64("product.id", result.Product.ID), slog.String("product.name", result.Product.Name))
	return result, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, input catalogports.UpdateProductInput) (*catalogports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	result, err := s.inner.UpdateProduct(ctx, id, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.Int64("product.id", id))
	}
	s.logInfo(ctx, "product updated", slog.Int64("product.id", id))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*catalogports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetByID", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	result, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.Int64("product.id", id))
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, filter catalogports.ListFilter) ([]*catalogports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.List")
	defer span.End()

	result, err := s.inner.List(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("catalog.list.count", len(result)))
	return result, nil
}

func (s *Service) LowStock(ctx context.Context) ([]*catalogports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.LowStock")
	defer span.End()

	result, err := s.inner.LowStock(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list low-stock products")
	}
	span.SetAttributes(attribute.Int("catalog.low_stock.count", len(result)))
	return result, nil
}

func (s *Service) UpdateStock(ctx context.Context, id int64, quantity int64, op catalogports.StockOperation) (*catalogports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateStock",
		trace.WithAttributes(attribute.Int64("product.id", id), attribute.Int64("stock.quantity", quantity), attribute.String("stock.operation", string(op))))
	defer span.End()

	result, err := s.inner.UpdateStock(ctx, id, quantity, op)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update stock", slog.Int64("product.id", id))
	}
	s.metrics.recordStockAdjusted(ctx, op)
	s.logInfo(ctx, "stock updated", slog.Int64("product.id", id), slog.Int64("stock", result.Product.Stock))
	return result, nil
}

func (s *Service) Deactivate(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Deactivate", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if err := s.inner.Deactivate(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to deactivate product", slog.Int64("product.id", id))
	}
	s.logInfo(ctx, "product deactivated", slog.Int64("product.id", id))
	return nil
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
	productsCreated metric.Int64Counter
	stockAdjusted   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	productsCreated, _ := m.Int64Counter("catalog.service.products_created", metric.WithDescription("Number of products created"))
	stockAdjusted, _ := m.Int64Counter("catalog.service.stock_adjustments", metric.WithDescription("Number of manual stock adjustments"))
	return serviceMetrics{productsCreated: productsCreated, stockAdjusted: stockAdjusted}
}

func (m serviceMetrics) recordCreated(ctx context.Context, category catalogdomain.Category) {
	if m.productsCreated != nil {
		m.productsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("product.category", string(category))))
	}
}

func (m serviceMetrics) recordStockAdjusted(ctx context.Context, op catalogports.StockOperation) {
	if m.stockAdjusted != nil {
		m.stockAdjusted.Add(ctx, 1, metric.WithAttributes(attribute.String("stock.operation", string(op))))
	}
}

var _ catalogports.Service = (*Service)(nil)
