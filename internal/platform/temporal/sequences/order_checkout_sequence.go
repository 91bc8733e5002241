package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderstypes "github.com/Apurer/go-pos-api-server/internal/domains/orders/application/types"
	ordersports "github.com/Apurer/go-pos-api-server/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-pos-api-server/internal/platform/temporal/activities/orders"
)

// RunOrderCheckoutSequence executes the checkout activity with a retry policy
// tuned for transient storage failures. Business rejections (oversell,
// validation) are non-retryable: re-running them cannot succeed.
func RunOrderCheckoutSequence(ctx workflow.Context, input orderstypes.CheckoutInput) (*ordersports.OrderProjection, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order checkout sequence started", "cashierId", input.CashierID, "lines", len(input.Items))

	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
			NonRetryableErrorTypes: []string{
				"invalid order input",
				"product not found",
				"product is not available for sale",
				"insufficient stock",
				"idempotency conflict",
			},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var projection ordersports.OrderProjection
	err := workflow.ExecuteActivity(ctx, orderactivities.CheckoutActivityName, input).Get(ctx, &projection)
	if err != nil {
		logger.Error("order checkout sequence failed", "cashierId", input.CashierID, "error", err)
		return nil, err
	}
	if projection.Order != nil {
		logger.Info("order checkout sequence completed", "orderId", projection.Order.ID, "orderNumber", projection.Order.Number)
	} else {
		logger.Info("order checkout sequence completed")
	}
	return &projection, nil
}
