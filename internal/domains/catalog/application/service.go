package application

import (
	"context"
	"errors"

	"github.com/Apurer/go-pos-api-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-pos-api-server/internal/domains/catalog/ports"
)

// Service orchestrates the catalog bounded context use cases.
type Service struct {
	repo ports.Repository
}

// NewService wires the catalog service with its dependencies.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// CreateProduct persists a new product aggregate.
func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) (*ports.ProductProjection, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateProduct applies a partial mutation to an existing product.
func (s *Service) UpdateProduct(ctx context.Context, id int64, input ports.UpdateProductInput) (*ports.ProductProjection, error) {
	projection, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if err := applyPartialMutation(projection.Product, input); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, projection.Product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetByID loads a single product.
func (s *Service) GetByID(ctx context.Context, id int64) (*ports.ProductProjection, error) {
	projection, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return projection, nil
}

// List returns products matching the filter.
func (s *Service) List(ctx context.Context, filter ports.ListFilter) ([]*ports.ProductProjection, error) {
	result, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// LowStock returns active products at or below their reorder threshold.
func (s *Service) LowStock(ctx context.Context) ([]*ports.ProductProjection, error) {
	result, err := s.repo.List(ctx, ports.ListFilter{ActiveOnly: true, LowStock: true})
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// UpdateStock applies a manual stock correction. Subtractions go through the
// same conditional atomic update as checkout decrements.
func (s *Service) UpdateStock(ctx context.Context, id int64, quantity int64, op ports.StockOperation) (*ports.ProductProjection, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	delta := quantity
	switch op {
	case ports.StockAdd:
	case ports.StockSubtract:
		delta = -quantity
	default:
		return nil, ErrInvalidOperation
	}
	updated, err := s.repo.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

// Deactivate soft-deletes the product so historical orders keep a valid reference.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	projection, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapError(err)
	}
	projection.Product.Deactivate()
	if _, err := s.repo.Save(ctx, projection.Product); err != nil {
		return mapError(err)
	}
	return nil
}

func applyPartialMutation(target *domain.Product, input ports.UpdateProductInput) error {
	if input.Name != nil {
		if err := target.Rename(*input.Name); err != nil {
			return err
		}
	}
	if input.Description != nil {
		target.Description = *input.Description
	}
	if input.SKU != nil {
		target.SKU = *input.SKU
	}
	if input.Barcode != nil {
		target.Barcode = *input.Barcode
	}
	if input.Category != nil {
		if err := target.ChangeCategory(*input.Category); err != nil {
			return err
		}
	}
	if input.Price != nil {
		if err := target.ChangePrice(*input.Price); err != nil {
			return err
		}
	}
	if input.Cost != nil {
		if err := target.ChangeCost(*input.Cost); err != nil {
			return err
		}
	}
	if input.MinStock != nil {
		if *input.MinStock < 0 {
			return domain.ErrNegativeStock
		}
		target.MinStock = *input.MinStock
	}
	if input.MaxStock != nil {
		if *input.MaxStock < 0 {
			return domain.ErrNegativeStock
		}
		target.MaxStock = *input.MaxStock
	}
	if input.Unit != nil {
		target.Unit = *input.Unit
	}
	if input.Tags != nil {
		target.ReplaceTags(*input.Tags)
	}
	if input.Active != nil {
		if *input.Active {
			target.Activate()
		} else {
			target.Deactivate()
		}
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
