package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-pos-api-server/internal/domains/orders/domain"
	"github.com/Apurer/go-pos-api-server/internal/domains/orders/ports"
	"github.com/Apurer/go-pos-api-server/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*storedOrder
	nextID int64
	now    func() time.Time
}

type storedOrder struct {
	order    domain.Order
	metadata projection.Metadata
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*storedOrder{}, now: time.Now}
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*ports.OrderProjection, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := cloneOrder(order)
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	order.ID = clone.ID
	meta := projection.Metadata{CreatedAt: now, UpdatedAt: now}
	if existing, ok := r.orders[clone.ID]; ok {
		meta.CreatedAt = existing.metadata.CreatedAt
	}
	r.orders[clone.ID] = &storedOrder{order: clone, metadata: meta}
	return projectionOf(r.orders[clone.ID]), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*ports.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projectionOf(stored), nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*ports.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*ports.OrderProjection, 0, len(r.orders))
	for _, stored := range r.orders {
		if filter.Status != "" && stored.order.Status != filter.Status {
			continue
		}
		if filter.PaymentMethod != "" && stored.order.PaymentMethod != filter.PaymentMethod {
			continue
		}
		if filter.CashierID != 0 && stored.order.CashierID != filter.CashierID {
			continue
		}
		if !filter.From.IsZero() && stored.order.CreatedAt.Before(filter.From) {
			continue
		}
		// Both date bounds are inclusive.
		if !filter.To.IsZero() && stored.order.CreatedAt.After(filter.To) {
			continue
		}
		list = append(list, projectionOf(stored))
	}
	// Newest first, order ID as the tie-break.
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].Order, list[j].Order
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(list) {
			return []*ports.OrderProjection{}, nil
		}
		list = list[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(list) {
		list = list[:filter.Limit]
	}
	return list, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func cloneOrder(order *domain.Order) domain.Order {
	clone := *order
	clone.Items = append([]domain.LineItem{}, order.Items...)
	if order.Customer != nil {
		customer := *order.Customer
		clone.Customer = &customer
	}
	if order.Refund != nil {
		refund := *order.Refund
		clone.Refund = &refund
	}
	return clone
}

func projectionOf(stored *storedOrder) *ports.OrderProjection {
	clone := cloneOrder(&stored.order)
	return &ports.OrderProjection{Order: &clone, Metadata: stored.metadata}
}
