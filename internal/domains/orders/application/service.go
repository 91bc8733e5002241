package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	catalogports "github.com/Apurer/go-pos-api-server/internal/domains/catalog/ports"
	orderstypes "github.com/Apurer/go-pos-api-server/internal/domains/orders/application/types"
	"github.com/Apurer/go-pos-api-server/internal/domains/orders/domain"
	"github.com/Apurer/go-pos-api-server/internal/domains/orders/ports"
)

// Service orchestrates the sales bounded context use cases.
type Service struct {
	repo        ports.Repository
	catalog     catalogports.Repository
	sequence    ports.NumberSequence
	idempotency ports.IdempotencyStore
	now         func() time.Time
}

// NewService wires the sales service with its dependencies. The idempotency
// store is optional; without it checkout keys are ignored.
func NewService(repo ports.Repository, catalog catalogports.Repository, sequence ports.NumberSequence, opts ...ServiceOption) *Service {
	s := &Service{
		repo:     repo,
		catalog:  catalog,
		sequence: sequence,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

type ServiceOption func(*Service)

func WithIdempotencyStore(store ports.IdempotencyStore) ServiceOption {
	return func(s *Service) {
		s.idempotency = store
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Checkout prices and commits a sale in two phases. Phase one validates every
// line against the catalog without touching stock; phase two persists the
// order and then applies all stock decrements, unwinding both on partial
// failure so a sale never half-commits.
func (s *Service) Checkout(ctx context.Context, input orderstypes.CheckoutInput) (*ports.OrderProjection, error) {
	if input.IdempotencyKey != "" && s.idempotency != nil {
		replayed, hash, err := s.replayCheckout(ctx, input)
		if err != nil {
			return nil, err
		}
		if replayed != nil {
			return replayed, nil
		}
		projection, err := s.checkout(ctx, input)
		if err != nil {
			return nil, err
		}
		if _, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{
			Key:         input.IdempotencyKey,
			RequestHash: hash,
			OrderID:     projection.Order.ID,
		}); err != nil && !errors.Is(err, ports.ErrIdempotencyConflict) {
			return nil, err
		}
		return projection, nil
	}
	return s.checkout(ctx, input)
}

func (s *Service) replayCheckout(ctx context.Context, input orderstypes.CheckoutInput) (*ports.OrderProjection, string, error) {
	hash, err := FingerprintCheckout(input)
	if err != nil {
		return nil, "", err
	}
	record, err := s.idempotency.Get(ctx, input.IdempotencyKey)
	if err != nil {
		return nil, "", err
	}
	if record == nil {
		return nil, hash, nil
	}
	if record.RequestHash != hash {
		return nil, "", ports.ErrIdempotencyConflict
	}
	projection, err := s.repo.GetByID(ctx, record.OrderID)
	if err != nil {
		return nil, "", err
	}
	return projection, hash, nil
}

func (s *Service) checkout(ctx context.Context, input orderstypes.CheckoutInput) (*ports.OrderProjection, error) {
	if len(input.Items) == 0 {
		return nil, mapError(domain.ErrNoItems)
	}

	items, err := s.planLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	discountType := domain.DiscountType("")
	discountValue := decimal.Zero
	if input.Discount != nil {
		discountType = input.Discount.Type
		discountValue = input.Discount.Value
	}
	totals := domain.ComputeTotals(items, discountType, discountValue, input.TaxPercent)

	now := s.now()
	seq, err := s.sequence.Next(ctx, now)
	if err != nil {
		return nil, err
	}
	number := domain.FormatOrderNumber(now, seq)

	order, err := domain.NewOrder(number, items, totals, input.PaymentMethod, input.CashierID, input.CashierName)
	if err != nil {
		return nil, mapError(err)
	}
	if err := order.SetNotes(input.Notes); err != nil {
		return nil, mapError(err)
	}
	if input.Customer != nil {
		order.Customer = &domain.Customer{
			Name:  input.Customer.Name,
			Phone: input.Customer.Phone,
			Email: input.Customer.Email,
		}
	}

	projection, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, err
	}

	if err := s.commitStock(ctx, projection.Order.ID, items); err != nil {
		return nil, err
	}
	return projection, nil
}

// planLines validates every line against the catalog and snapshots prices.
// Nothing is decremented here; a request that would oversell any line fails
// the whole checkout before stock moves.
func (s *Service) planLines(ctx context.Context, requests []orderstypes.LineRequest) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(requests))
	for _, req := range requests {
		if req.Quantity <= 0 {
			return nil, mapError(domain.ErrInvalidQuantity)
		}
		projection, err := s.catalog.GetByID(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, catalogports.ErrNotFound) {
				return nil, productNotFound(req.ProductID)
			}
			return nil, err
		}
		product := projection.Product
		if !product.Active {
			return nil, productInactive(product.ID, product.Name)
		}
		if product.Stock < req.Quantity {
			return nil, insufficientStock(product.ID, product.Name, product.Stock, req.Quantity)
		}
		items = append(items, domain.LineItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    req.Quantity,
			Subtotal:    domain.PriceLine(product.Price, req.Quantity),
		})
	}
	return items, nil
}

// commitStock decrements every sold line. Each decrement is conditional at
// the adapter, so a concurrent sale can still win the race; in that case the
// decrements already applied are restored and the order record is removed.
func (s *Service) commitStock(ctx context.Context, orderID int64, items []domain.LineItem) error {
	for i, item := range items {
		if _, err := s.catalog.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			s.rollbackStock(ctx, items[:i])
			if delErr := s.repo.Delete(ctx, orderID); delErr != nil {
				return fmt.Errorf("checkout unwind failed for order %d: %w", orderID, delErr)
			}
			if isStockConflict(err) || errors.Is(err, catalogports.ErrNotFound) {
				return insufficientStock(item.ProductID, item.ProductName, s.remainingStock(ctx, item.ProductID), item.Quantity)
			}
			return err
		}
	}
	return nil
}

// remainingStock re-reads the catalog so a lost-race rejection reports the
// quantity actually left instead of a stale plan-time value.
func (s *Service) remainingStock(ctx context.Context, productID int64) int64 {
	projection, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return 0
	}
	return projection.Product.Stock
}

func (s *Service) rollbackStock(ctx context.Context, applied []domain.LineItem) {
	for _, item := range applied {
		_, _ = s.catalog.AdjustStock(ctx, item.ProductID, item.Quantity)
	}
}

// GetByID loads a single order.
func (s *Service) GetByID(ctx context.Context, id int64) (*ports.OrderProjection, error) {
	projection, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return projection, nil
}

// List returns orders matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter ports.ListFilter) ([]*ports.OrderProjection, error) {
	return s.repo.List(ctx, filter)
}

// Refund transitions a completed order to refunded and, when requested,
// returns the sold quantities to the catalog. Stock restoration happens only
// after the refund is persisted so a storage failure never strands restocked
// units against a still-completed order.
func (s *Service) Refund(ctx context.Context, input orderstypes.RefundInput) (*ports.OrderProjection, error) {
	projection, err := s.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	order := projection.Order

	amount := decimal.Zero
	if input.Amount != nil {
		amount = *input.Amount
	}
	if err := order.MarkRefunded(amount, input.Reason, input.RefundedBy, s.now()); err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, err
	}

	if input.RestoreStock {
		for _, item := range saved.Order.Items {
			if _, err := s.catalog.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, catalogports.ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("order %d refunded but stock restore failed: %w", saved.Order.ID, err)
			}
		}
	}
	return saved, nil
}

// UpdateStatus applies a requested status change through the domain guards.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*ports.OrderProjection, error) {
	projection, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := projection.Order.UpdateStatus(status); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, projection.Order)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

var _ ports.Service = (*Service)(nil)
