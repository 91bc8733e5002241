package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-pos-api-server/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/go-pos-api-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-pos-api-server/internal/domains/catalog/ports"
)

func newTestService(t *testing.T) (*Service, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	return NewService(repo), repo
}

func mustProduct(t *testing.T, name string, price float64, stock int64) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(0, name, domain.CategoryElectronics, decimal.NewFromFloat(price), stock)
	require.NoError(t, err)
	return p
}

func TestCreateProduct_PersistsWithDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	saved, err := svc.CreateProduct(context.Background(), mustProduct(t, "Wireless Mouse", 29.99, 50))
	require.NoError(t, err)
	require.NotZero(t, saved.Product.ID)
	require.Equal(t, int64(5), saved.Product.MinStock)
	require.True(t, saved.Product.Active)
}

func TestCreateProduct_RejectsInvalidCategory(t *testing.T) {
	svc, _ := newTestService(t)

	p := mustProduct(t, "Wireless Mouse", 29.99, 50)
	p.Category = domain.Category("Gadgets")
	_, err := svc.CreateProduct(context.Background(), p)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestUpdateProduct_AppliesPartialMutation(t *testing.T) {
	svc, _ := newTestService(t)

	saved, err := svc.CreateProduct(context.Background(), mustProduct(t, "Wireless Mouse", 29.99, 50))
	require.NoError(t, err)

	newName := "Wireless Mouse Pro"
	newPrice := decimal.NewFromFloat(39.99)
	updated, err := svc.UpdateProduct(context.Background(), saved.Product.ID, ports.UpdateProductInput{
		Name:  &newName,
		Price: &newPrice,
	})
	require.NoError(t, err)
	require.Equal(t, "Wireless Mouse Pro", updated.Product.Name)
	require.True(t, updated.Product.Price.Equal(newPrice))
	require.Equal(t, int64(50), updated.Product.Stock)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	name := "anything"
	_, err := svc.UpdateProduct(context.Background(), 404, ports.UpdateProductInput{Name: &name})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUpdateStock_AddAndSubtract(t *testing.T) {
	svc, _ := newTestService(t)

	saved, err := svc.CreateProduct(context.Background(), mustProduct(t, "Keyboard", 49.99, 10))
	require.NoError(t, err)

	updated, err := svc.UpdateStock(context.Background(), saved.Product.ID, 5, ports.StockAdd)
	require.NoError(t, err)
	require.Equal(t, int64(15), updated.Product.Stock)

	updated, err = svc.UpdateStock(context.Background(), saved.Product.ID, 12, ports.StockSubtract)
	require.NoError(t, err)
	require.Equal(t, int64(3), updated.Product.Stock)
}

func TestUpdateStock_RefusesOversubtraction(t *testing.T) {
	svc, _ := newTestService(t)

	saved, err := svc.CreateProduct(context.Background(), mustProduct(t, "Keyboard", 49.99, 10))
	require.NoError(t, err)

	_, err = svc.UpdateStock(context.Background(), saved.Product.ID, 11, ports.StockSubtract)
	require.ErrorIs(t, err, ports.ErrInsufficientStock)

	current, err := svc.GetByID(context.Background(), saved.Product.ID)
	require.NoError(t, err)
	require.Equal(t, int64(10), current.Product.Stock)
}

func TestUpdateStock_ValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateStock(context.Background(), 1, 0, ports.StockAdd)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.UpdateStock(context.Background(), 1, 5, ports.StockOperation("multiply"))
	require.ErrorIs(t, err, ErrInvalidOperation)
}

func TestLowStock_ReturnsOnlyActiveAtThreshold(t *testing.T) {
	svc, _ := newTestService(t)

	low, err := svc.CreateProduct(context.Background(), mustProduct(t, "Charger", 19.99, 3))
	require.NoError(t, err)
	_, err = svc.CreateProduct(context.Background(), mustProduct(t, "Monitor", 199.99, 40))
	require.NoError(t, err)

	retired := mustProduct(t, "Adapter", 9.99, 1)
	savedRetired, err := svc.CreateProduct(context.Background(), retired)
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(context.Background(), savedRetired.Product.ID))

	list, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, low.Product.ID, list[0].Product.ID)
}

func TestDeactivate_SoftDeletes(t *testing.T) {
	svc, _ := newTestService(t)

	saved, err := svc.CreateProduct(context.Background(), mustProduct(t, "Headset", 59.99, 8))
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), saved.Product.ID))

	current, err := svc.GetByID(context.Background(), saved.Product.ID)
	require.NoError(t, err)
	require.False(t, current.Product.Active)

	active, err := svc.List(context.Background(), ports.ListFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Empty(t, active)
}
