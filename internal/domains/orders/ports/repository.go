package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/go-pos-api-server/internal/domains/orders/domain"
	"github.com/Apurer/go-pos-api-server/internal/shared/projection"
)

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order not found")

// OrderProjection pairs the sales aggregate with persistence metadata.
type OrderProjection struct {
	Order    *domain.Order
	Metadata projection.Metadata
}

// ListFilter narrows and pages order listings. A zero Limit means no paging.
type ListFilter struct {
	Status        domain.Status
	PaymentMethod domain.PaymentMethod
	CashierID     int64
	From          time.Time
	To            time.Time
	Limit         int
	Offset        int
}

// Repository persists orders.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*OrderProjection, error)
	GetByID(ctx context.Context, id int64) (*OrderProjection, error)
	List(ctx context.Context, filter ListFilter) ([]*OrderProjection, error)
	// Delete removes an order record. Used only to unwind a checkout whose
	// stock commit failed partway.
	Delete(ctx context.Context, id int64) error
}
