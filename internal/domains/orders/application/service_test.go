package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/go-pos-api-server/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/go-pos-api-server/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-pos-api-server/internal/domains/catalog/ports"
	ordersmemory "github.com/Apurer/go-pos-api-server/internal/domains/orders/adapters/memory"
	orderstypes "github.com/Apurer/go-pos-api-server/internal/domains/orders/application/types"
	"github.com/Apurer/go-pos-api-server/internal/domains/orders/domain"
	"github.com/Apurer/go-pos-api-server/internal/domains/orders/ports"
)

type fixture struct {
	svc     *Service
	catalog *catalogmemory.Repository
	orders  *ordersmemory.Repository
}

func newFixture(t *testing.T, opts ...ServiceOption) *fixture {
	t.Helper()
	catalog := catalogmemory.NewRepository()
	orders := ordersmemory.NewRepository()
	sequence := ordersmemory.NewNumberSequence()
	return &fixture{
		svc:     NewService(orders, catalog, sequence, opts...),
		catalog: catalog,
		orders:  orders,
	}
}

func (f *fixture) seedProduct(t *testing.T, name string, price float64, stock int64) int64 {
	t.Helper()
	product, err := catalogdomain.NewProduct(0, name, catalogdomain.CategoryElectronics, decimal.NewFromFloat(price), stock)
	require.NoError(t, err)
	saved, err := f.catalog.Save(context.Background(), product)
	require.NoError(t, err)
	return saved.Product.ID
}

func (f *fixture) stockOf(t *testing.T, productID int64) int64 {
	t.Helper()
	projection, err := f.catalog.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return projection.Product.Stock
}

func checkoutInput(items ...orderstypes.LineRequest) orderstypes.CheckoutInput {
	return orderstypes.CheckoutInput{
		Items:         items,
		PaymentMethod: domain.PaymentCash,
		CashierID:     7,
		CashierName:   "Dana",
	}
}

func TestCheckout_PricesAndDecrementsStock(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Wireless Mouse", 10.00, 20)

	input := checkoutInput(orderstypes.LineRequest{ProductID: productID, Quantity: 3})
	input.Discount = &orderstypes.DiscountInput{Type: domain.DiscountPercentage, Value: decimal.NewFromInt(10)}
	input.TaxPercent = decimal.NewFromInt(8)

	saved, err := f.svc.Checkout(context.Background(), input)
	require.NoError(t, err)

	order := saved.Order
	require.Equal(t, "30.00", order.Subtotal.StringFixed(2))
	require.Equal(t, "3.00", order.Discount.Amount.StringFixed(2))
	require.Equal(t, "2.16", order.Tax.Amount.StringFixed(2))
	require.Equal(t, "29.16", order.Total.StringFixed(2))
	require.Equal(t, domain.StatusCompleted, order.Status)
	require.Equal(t, domain.FormatOrderNumber(time.Now(), 1), order.Number)

	require.Equal(t, int64(17), f.stockOf(t, productID))
}

func TestCheckout_SequenceAdvancesWithinDay(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Charger", 15.00, 50)

	first, err := f.svc.Checkout(context.Background(), checkoutInput(orderstypes.LineRequest{ProductID: productID, Quantity: 1}))
	require.NoError(t, err)
	second, err := f.svc.Checkout(context.Background(), checkoutInput(orderstypes.LineRequest{ProductID: productID, Quantity: 1}))
	require.NoError(t, err)

	require.Equal(t, domain.FormatOrderNumber(time.Now(), 1), first.Order.Number)
	require.Equal(t, domain.FormatOrderNumber(time.Now(), 2), second.Order.Number)
}

func TestCheckout_SnapshotsPriceAtSaleTime(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Keyboard", 49.99, 10)

	saved, err := f.svc.Checkout(context.Background(), checkoutInput(orderstypes.LineRequest{ProductID: productID, Quantity: 1}))
	require.NoError(t, err)

	current, err := f.catalog.GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NoError(t, current.Product.ChangePrice(decimal.NewFromFloat(59.99)))
	_, err = f.catalog.Save(context.Background(), current.Product)
	require.NoError(t, err)

	fetched, err := f.svc.GetByID(context.Background(), saved.Order.ID)
	require.NoError(t, err)
	require.Equal(t, "49.99", fetched.Order.Items[0].UnitPrice.StringFixed(2))
	require.Equal(t, "Keyboard", fetched.Order.Items[0].ProductName)
}

func TestCheckout_ValidationFailuresLeaveStockUntouched(t *testing.T) {
	f := newFixture(t)
	okID := f.seedProduct(t, "Monitor", 199.99, 10)
	lowID := f.seedProduct(t, "Cable", 5.00, 2)

	cases := []struct {
		name  string
		input orderstypes.CheckoutInput
		want  error
	}{
		{
			name:  "empty cart",
			input: checkoutInput(),
			want:  ErrValidation,
		},
		{
			name:  "zero quantity",
			input: checkoutInput(orderstypes.LineRequest{ProductID: okID, Quantity: 0}),
			want:  ErrValidation,
		},
		{
			name:  "unknown product",
			input: checkoutInput(orderstypes.LineRequest{ProductID: 404, Quantity: 1}),
			want:  ErrProductNotFound,
		},
		{
			name: "oversell",
			input: checkoutInput(
				orderstypes.LineRequest{ProductID: okID, Quantity: 1},
				orderstypes.LineRequest{ProductID: lowID, Quantity: 3},
			),
			want: ErrInsufficientStock,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Checkout(context.Background(), tc.input)
			require.ErrorIs(t, err, tc.want)
		})
	}

	require.Equal(t, int64(10), f.stockOf(t, okID))
	require.Equal(t, int64(2), f.stockOf(t, lowID))

	orders, err := f.svc.List(context.Background(), ports.ListFilter{})
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestCheckout_RejectsInactiveProduct(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Legacy Dock", 89.99, 5)

	projection, err := f.catalog.GetByID(context.Background(), productID)
	require.NoError(t, err)
	projection.Product.Deactivate()
	_, err = f.catalog.Save(context.Background(), projection.Product)
	require.NoError(t, err)

	_, err = f.svc.Checkout(context.Background(), checkoutInput(orderstypes.LineRequest{ProductID: productID, Quantity: 1}))
	require.ErrorIs(t, err, ErrProductInactive)
}

func TestCheckout_RejectsInvalidPayment(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Mouse", 10.00, 5)

	input := checkoutInput(orderstypes.LineRequest{ProductID: productID, Quantity: 1})
	input.PaymentMethod = domain.PaymentMethod("check")

	_, err := f.svc.Checkout(context.Background(), input)
	require.ErrorIs(t, err, ErrValidation)
	require.Equal(t, int64(5), f.stockOf(t, productID))
}

// failingCatalog delegates to the real adapter but fails decrements for one
// product, simulating a concurrent sale winning between plan and commit.
type failingCatalog struct {
	catalogports.Repository
	failID int64
}

func (f *failingCatalog) AdjustStock(ctx context.Context, id int64, delta int64) (*catalogports.ProductProjection, error) {
	if id == f.failID && delta < 0 {
		return nil, catalogports.ErrInsufficientStock
	}
	return f.Repository.AdjustStock(ctx, id, delta)
}

func TestCheckout_CommitFailureRollsBackStockAndOrder(t *testing.T) {
	catalog := catalogmemory.NewRepository()
	orders := ordersmemory.NewRepository()
	f := &fixture{catalog: catalog, orders: orders}
	firstID := f.seedProduct(t, "Mouse", 10.00, 10)
	secondID := f.seedProduct(t, "Keyboard", 20.00, 10)

	svc := NewService(orders, &failingCatalog{Repository: catalog, failID: secondID}, ordersmemory.NewNumberSequence())

	_, err := svc.Checkout(context.Background(), checkoutInput(
		orderstypes.LineRequest{ProductID: firstID, Quantity: 4},
		orderstypes.LineRequest{ProductID: secondID, Quantity: 4},
	))
	require.ErrorIs(t, err, ErrInsufficientStock)

	require.Equal(t, int64(10), f.stockOf(t, firstID))
	require.Equal(t, int64(10), f.stockOf(t, secondID))

	list, err := orders.List(context.Background(), ports.ListFilter{})
	require.NoError(t, err)
	require.Empty(t, list)
}

// rivalCatalog lets another sale win the race between plan and commit before
// the decrement under test runs.
type rivalCatalog struct {
	catalogports.Repository
	rivalID  int64
	rivalQty int64
	once     sync.Once
}

func (r *rivalCatalog) AdjustStock(ctx context.Context, id int64, delta int64) (*catalogports.ProductProjection, error) {
	if id == r.rivalID && delta < 0 {
		r.once.Do(func() {
			_, _ = r.Repository.AdjustStock(ctx, id, -r.rivalQty)
		})
	}
	return r.Repository.AdjustStock(ctx, id, delta)
}

func TestCheckout_LostRaceReportsRemainingStock(t *testing.T) {
	catalog := catalogmemory.NewRepository()
	orders := ordersmemory.NewRepository()
	f := &fixture{catalog: catalog, orders: orders}
	productID := f.seedProduct(t, "Monitor", 120.00, 10)

	svc := NewService(orders, &rivalCatalog{Repository: catalog, rivalID: productID, rivalQty: 8}, ordersmemory.NewNumberSequence())

	_, err := svc.Checkout(context.Background(), checkoutInput(orderstypes.LineRequest{ProductID: productID, Quantity: 4}))
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.ErrorContains(t, err, "has 2, requested 4")
	require.Equal(t, int64(2), f.stockOf(t, productID))
}

func TestCheckout_ConcurrentSalesNeverOversell(t *testing.T) {
	f := newFixture(t)
	const available = 10
	productID := f.seedProduct(t, "Limited Vinyl", 15.00, available)

	const attempts = 25
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Checkout(context.Background(), checkoutInput(orderstypes.LineRequest{ProductID: productID, Quantity: 1}))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	accepted := 0
	for err := range results {
		if err == nil {
			accepted++
			continue
		}
		require.ErrorIs(t, err, ErrInsufficientStock)
	}

	// Exactly the requests that fit are accepted; stock never goes negative.
	require.Equal(t, available, accepted)
	require.EqualValues(t, 0, f.stockOf(t, productID))

	orders, err := f.svc.List(context.Background(), ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, orders, available)
	numbers := make(map[string]struct{}, len(orders))
	for _, projection := range orders {
		numbers[projection.Order.Number] = struct{}{}
	}
	require.Len(t, numbers, available)
}

func TestCheckout_IdempotentReplay(t *testing.T) {
	f := newFixture(t, WithIdempotencyStore(ordersmemory.NewIdempotencyStore()))
	productID := f.seedProduct(t, "Headset", 59.99, 10)

	input := checkoutInput(orderstypes.LineRequest{ProductID: productID, Quantity: 2})
	input.IdempotencyKey = "checkout-abc"

	first, err := f.svc.Checkout(context.Background(), input)
	require.NoError(t, err)

	replay, err := f.svc.Checkout(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, first.Order.ID, replay.Order.ID)
	require.Equal(t, first.Order.Number, replay.Order.Number)

	// Stock only moved once.
	require.Equal(t, int64(8), f.stockOf(t, productID))

	changed := input
	changed.Items = []orderstypes.LineRequest{{ProductID: productID, Quantity: 5}}
	_, err = f.svc.Checkout(context.Background(), changed)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

func TestRefund_FullByDefaultWithRestock(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Speaker", 25.00, 10)

	saved, err := f.svc.Checkout(context.Background(), checkoutInput(orderstypes.LineRequest{ProductID: productID, Quantity: 4}))
	require.NoError(t, err)
	require.Equal(t, int64(6), f.stockOf(t, productID))

	refunded, err := f.svc.Refund(context.Background(), orderstypes.RefundInput{
		OrderID:      saved.Order.ID,
		Reason:       "damaged goods",
		RestoreStock: true,
		RefundedBy:   7,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusRefunded, refunded.Order.Status)
	require.Equal(t, "100.00", refunded.Order.Refund.Amount.StringFixed(2))
	require.Equal(t, int64(10), f.stockOf(t, productID))
}

func TestRefund_PartialWithoutRestock(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Speaker", 25.00, 10)

	saved, err := f.svc.Checkout(context.Background(), checkoutInput(orderstypes.LineRequest{ProductID: productID, Quantity: 2}))
	require.NoError(t, err)

	amount := decimal.NewFromFloat(20.00)
	refunded, err := f.svc.Refund(context.Background(), orderstypes.RefundInput{
		OrderID:    saved.Order.ID,
		Amount:     &amount,
		Reason:     "price adjustment",
		RefundedBy: 7,
	})
	require.NoError(t, err)
	require.Equal(t, "20.00", refunded.Order.Refund.Amount.StringFixed(2))
	require.Equal(t, int64(8), f.stockOf(t, productID))
}

func TestRefund_Guards(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Speaker", 25.00, 10)

	saved, err := f.svc.Checkout(context.Background(), checkoutInput(orderstypes.LineRequest{ProductID: productID, Quantity: 1}))
	require.NoError(t, err)

	tooMuch := decimal.NewFromInt(1000)
	_, err = f.svc.Refund(context.Background(), orderstypes.RefundInput{OrderID: saved.Order.ID, Amount: &tooMuch, RefundedBy: 7})
	require.ErrorIs(t, err, domain.ErrInvalidRefundAmount)

	_, err = f.svc.Refund(context.Background(), orderstypes.RefundInput{OrderID: saved.Order.ID, RefundedBy: 7})
	require.NoError(t, err)

	_, err = f.svc.Refund(context.Background(), orderstypes.RefundInput{OrderID: saved.Order.ID, RefundedBy: 7})
	require.ErrorIs(t, err, domain.ErrAlreadyRefunded)

	_, err = f.svc.Refund(context.Background(), orderstypes.RefundInput{OrderID: 404, RefundedBy: 7})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRefund_CancelledOrderRejected(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Speaker", 25.00, 10)

	saved, err := f.svc.Checkout(context.Background(), checkoutInput(orderstypes.LineRequest{ProductID: productID, Quantity: 1}))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), saved.Order.ID, domain.StatusCancelled)
	require.NoError(t, err)

	_, err = f.svc.Refund(context.Background(), orderstypes.RefundInput{OrderID: saved.Order.ID, RefundedBy: 7})
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestUpdateStatus_CancelDoesNotRestock(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Speaker", 25.00, 10)

	saved, err := f.svc.Checkout(context.Background(), checkoutInput(orderstypes.LineRequest{ProductID: productID, Quantity: 3}))
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(context.Background(), saved.Order.ID, domain.StatusCancelled)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, updated.Order.Status)
	require.Equal(t, int64(7), f.stockOf(t, productID))

	_, err = f.svc.UpdateStatus(context.Background(), saved.Order.ID, domain.StatusRefunded)
	require.ErrorIs(t, err, ErrValidation)
}

func TestList_FiltersByStatus(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Speaker", 25.00, 50)

	first, err := f.svc.Checkout(context.Background(), checkoutInput(orderstypes.LineRequest{ProductID: productID, Quantity: 1}))
	require.NoError(t, err)
	_, err = f.svc.Checkout(context.Background(), checkoutInput(orderstypes.LineRequest{ProductID: productID, Quantity: 1}))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), first.Order.ID, domain.StatusCancelled)
	require.NoError(t, err)

	cancelled, err := f.svc.List(context.Background(), ports.ListFilter{Status: domain.StatusCancelled})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	require.Equal(t, first.Order.ID, cancelled[0].Order.ID)

	all, err := f.svc.List(context.Background(), ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestList_FiltersByPaymentMethodAndCashier(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Headphones", 40.00, 50)

	cashSale, err := f.svc.Checkout(context.Background(), checkoutInput(orderstypes.LineRequest{ProductID: productID, Quantity: 1}))
	require.NoError(t, err)

	cardInput := checkoutInput(orderstypes.LineRequest{ProductID: productID, Quantity: 1})
	cardInput.PaymentMethod = domain.PaymentCard
	cardInput.CashierID = 9
	cardInput.CashierName = "Eli"
	cardSale, err := f.svc.Checkout(context.Background(), cardInput)
	require.NoError(t, err)

	byMethod, err := f.svc.List(context.Background(), ports.ListFilter{PaymentMethod: domain.PaymentCard})
	require.NoError(t, err)
	require.Len(t, byMethod, 1)
	require.Equal(t, cardSale.Order.ID, byMethod[0].Order.ID)

	byCashier, err := f.svc.List(context.Background(), ports.ListFilter{CashierID: 7})
	require.NoError(t, err)
	require.Len(t, byCashier, 1)
	require.Equal(t, cashSale.Order.ID, byCashier[0].Order.ID)
}
