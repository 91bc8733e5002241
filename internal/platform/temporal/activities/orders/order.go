package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/Apurer/go-pos-api-server/internal/domains/orders/application"
	orderstypes "github.com/Apurer/go-pos-api-server/internal/domains/orders/application/types"
	ordersports "github.com/Apurer/go-pos-api-server/internal/domains/orders/ports"
)

// CheckoutActivityName prices and commits a sale through the application service.
const CheckoutActivityName = "orders.activities.Checkout"

// Activities groups activities that operate on the sales bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the sales service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// Checkout runs the two-phase checkout and returns the resulting order.
// Retries are safe when the request carries an idempotency key: the service
// replays the original order instead of selling stock twice.
func (a *Activities) Checkout(ctx context.Context, input orderstypes.CheckoutInput) (*ordersports.OrderProjection, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("checkout activity not initialized")
		return nil, errors.New("checkout activity not initialized")
	}
	logger.Info("Checkout activity started", "cashierId", input.CashierID, "lines", len(input.Items))
	projection, err := a.service.Checkout(ctx, input)
	if err != nil {
		logger.Error("Checkout activity failed", "cashierId", input.CashierID, "error", err)
		return nil, checkoutError(err)
	}
	logger.Info("Checkout activity completed", "orderId", projection.Order.ID, "orderNumber", projection.Order.Number)
	return projection, nil
}

// businessRejections lists the deterministic checkout failures. Re-running
// the activity cannot change their outcome, so they must not be retried.
var businessRejections = []error{
	ordersapp.ErrValidation,
	ordersapp.ErrProductNotFound,
	ordersapp.ErrProductInactive,
	ordersapp.ErrInsufficientStock,
	ordersports.ErrIdempotencyConflict,
}

// checkoutError converts business rejections into non-retryable application
// errors typed by their sentinel message; transient failures pass through and
// stay subject to the workflow retry policy.
func checkoutError(err error) error {
	for _, sentinel := range businessRejections {
		if errors.Is(err, sentinel) {
			return temporal.NewNonRetryableApplicationError(err.Error(), sentinel.Error(), err)
		}
	}
	return err
}
