package ports

import (
	"context"

	orderstypes "github.com/Apurer/go-pos-api-server/internal/domains/orders/application/types"
	"github.com/Apurer/go-pos-api-server/internal/domains/orders/domain"
)

// Service exposes the sales use cases to adapters.
type Service interface {
	Checkout(ctx context.Context, input orderstypes.CheckoutInput) (*OrderProjection, error)
	GetByID(ctx context.Context, id int64) (*OrderProjection, error)
	List(ctx context.Context, filter ListFilter) ([]*OrderProjection, error)
	Refund(ctx context.Context, input orderstypes.RefundInput) (*OrderProjection, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*OrderProjection, error)
}
