package application

import (
	"errors"
	"fmt"

	catalogports "github.com/Apurer/go-pos-api-server/internal/domains/catalog/ports"
	"github.com/Apurer/go-pos-api-server/internal/domains/orders/domain"
)

var (
	// ErrValidation signals the checkout request violated a sales invariant.
	ErrValidation = errors.New("invalid order input")
	// ErrProductNotFound indicates a requested line references an unknown product.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductInactive indicates a requested line references a retired product.
	ErrProductInactive = errors.New("product is not available for sale")
	// ErrInsufficientStock indicates a line asked for more units than remain.
	ErrInsufficientStock = errors.New("insufficient stock")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNoItems) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidPayment) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrInvalidTransition) ||
		errors.Is(err, domain.ErrNotesTooLong) ||
		errors.Is(err, domain.ErrMissingCashier) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return err
}

func productNotFound(productID int64) error {
	return fmt.Errorf("%w: product %d", ErrProductNotFound, productID)
}

func productInactive(productID int64, name string) error {
	return fmt.Errorf("%w: %s (product %d)", ErrProductInactive, name, productID)
}

func insufficientStock(productID int64, name string, available, requested int64) error {
	return fmt.Errorf("%w: %s (product %d) has %d, requested %d", ErrInsufficientStock, name, productID, available, requested)
}

func isStockConflict(err error) bool {
	return errors.Is(err, catalogports.ErrInsufficientStock)
}
