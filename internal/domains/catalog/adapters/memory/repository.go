package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/go-pos-api-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-pos-api-server/internal/domains/catalog/ports"
	"github.com/Apurer/go-pos-api-server/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog persistence adapter.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*storedProduct
	nextID   int64
	now      func() time.Time
}

type storedProduct struct {
	product  domain.Product
	metadata projection.Metadata
}

func NewRepository() *Repository {
	return &Repository{products: map[int64]*storedProduct{}, now: time.Now}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*ports.ProductProjection, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := *product
	clone.Tags = append([]string{}, product.Tags...)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	meta := projection.Metadata{CreatedAt: now, UpdatedAt: now}
	if existing, ok := r.products[clone.ID]; ok {
		meta.CreatedAt = existing.metadata.CreatedAt
		// Stock moves only through AdjustStock, matching the Postgres
		// adapter's upsert; an edit from a stale read must not
		// resurrect units sold in between.
		clone.Stock = existing.product.Stock
	}
	r.products[clone.ID] = &storedProduct{product: clone, metadata: meta}
	return projectionOf(r.products[clone.ID]), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*ports.ProductProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projectionOf(stored), nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*ports.ProductProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*ports.ProductProjection, 0, len(r.products))
	for _, stored := range r.products {
		if !matches(&stored.product, filter) {
			continue
		}
		list = append(list, projectionOf(stored))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Product.ID < list[j].Product.ID })
	return list, nil
}

// AdjustStock mirrors the Postgres adapter's conditional update: the check and
// the write happen under the same lock so concurrent checkouts cannot oversell.
func (r *Repository) AdjustStock(_ context.Context, id int64, delta int64) (*ports.ProductProjection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if stored.product.Stock+delta < 0 {
		return nil, ports.ErrInsufficientStock
	}
	stored.product.Stock += delta
	stored.metadata.UpdatedAt = r.now()
	return projectionOf(stored), nil
}

func matches(p *domain.Product, filter ports.ListFilter) bool {
	if filter.ActiveOnly && !p.Active {
		return false
	}
	if filter.LowStock && !p.IsLowStock() {
		return false
	}
	if filter.Category != "" && p.Category != filter.Category {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.SKU), needle) &&
			!strings.Contains(strings.ToLower(p.Barcode), needle) {
			return false
		}
	}
	return true
}

func projectionOf(stored *storedProduct) *ports.ProductProjection {
	clone := stored.product
	clone.Tags = append([]string{}, stored.product.Tags...)
	return &ports.ProductProjection{Product: &clone, Metadata: stored.metadata}
}
