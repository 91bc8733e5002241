package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-pos-api-server/internal/domains/catalog/domain"
)

// StockOperation names the direction of a manual stock update.
type StockOperation string

const (
	StockAdd      StockOperation = "add"
	StockSubtract StockOperation = "subtract"
)

// UpdateProductInput carries optional field overrides for an existing product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	SKU         *string
	Barcode     *string
	Category    *domain.Category
	Price       *decimal.Decimal
	Cost        *decimal.Decimal
	MinStock    *int64
	MaxStock    *int64
	Unit        *string
	Tags        *[]string
	Active      *bool
}

// Service exposes catalog use cases to adapters.
type Service interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*ProductProjection, error)
	UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) (*ProductProjection, error)
	GetByID(ctx context.Context, id int64) (*ProductProjection, error)
	List(ctx context.Context, filter ListFilter) ([]*ProductProjection, error)
	LowStock(ctx context.Context) ([]*ProductProjection, error)
	UpdateStock(ctx context.Context, id int64, quantity int64, op StockOperation) (*ProductProjection, error)
	Deactivate(ctx context.Context, id int64) error
}
