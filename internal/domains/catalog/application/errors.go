package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-pos-api-server/internal/domains/catalog/domain"
)

var (
	// ErrInvalidInput signals the request violated a catalog invariant.
	ErrInvalidInput = errors.New("invalid product input")
	// ErrInvalidQuantity rejects non-positive manual stock adjustments.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	// ErrInvalidOperation rejects unknown stock operations.
	ErrInvalidOperation = errors.New("stock operation must be add or subtract")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrInvalidCategory) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrNegativeCost) ||
		errors.Is(err, domain.ErrNegativeStock) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
