package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-pos-api-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-pos-api-server/internal/shared/projection"
)

var (
	ErrNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned by AdjustStock when the decrement would
	// drive stock below zero. The conditional update must fail without side effects.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductProjection is a product aggregate plus persistence metadata.
type ProductProjection struct {
	Product  *domain.Product
	Metadata projection.Metadata
}

// ListFilter narrows List results; zero values mean "no constraint".
type ListFilter struct {
	Search     string
	Category   domain.Category
	ActiveOnly bool
	LowStock   bool
}

// Repository persists products and owns the atomic stock-adjustment contract.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*ProductProjection, error)
	GetByID(ctx context.Context, id int64) (*ProductProjection, error)
	List(ctx context.Context, filter ListFilter) ([]*ProductProjection, error)
	// AdjustStock applies a signed delta as a single conditional update:
	// it succeeds only when the resulting stock is >= 0, and must never be
	// implemented as read-then-write from application memory.
	AdjustStock(ctx context.Context, id int64, delta int64) (*ProductProjection, error)
}
