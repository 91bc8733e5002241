package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-pos-api-server/internal/domains/catalog/domain"
)

func TestSave_UpdateKeepsAdjustedStock(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	product, err := domain.NewProduct(0, "Espresso Beans", domain.CategoryFoodBeverage, decimal.NewFromInt(12), 10)
	require.NoError(t, err)
	saved, err := repo.Save(ctx, product)
	require.NoError(t, err)

	// Read the product before a concurrent sale decrements it.
	stale, err := repo.GetByID(ctx, saved.Product.ID)
	require.NoError(t, err)

	_, err = repo.AdjustStock(ctx, saved.Product.ID, -3)
	require.NoError(t, err)

	stale.Product.Description = "1kg bag"
	updated, err := repo.Save(ctx, stale.Product)
	require.NoError(t, err)

	require.Equal(t, "1kg bag", updated.Product.Description)
	require.Equal(t, int64(7), updated.Product.Stock)
}
