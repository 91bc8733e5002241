package orders

import (
	"go.temporal.io/sdk/workflow"

	orderstypes "github.com/Apurer/go-pos-api-server/internal/domains/orders/application/types"
	ordersports "github.com/Apurer/go-pos-api-server/internal/domains/orders/ports"
	"github.com/Apurer/go-pos-api-server/internal/platform/temporal/sequences"
)

const (
	// OrderCheckoutWorkflowName is the public identifier for registering the workflow.
	OrderCheckoutWorkflowName = "orders.workflows.Checkout"
	// OrderCheckoutTaskQueue is the queue consumed by the worker processing sales workflows.
	OrderCheckoutTaskQueue = "ORDER_CHECKOUT"
)

// OrderCheckoutWorkflowInput captures the payload required to commit a sale.
type OrderCheckoutWorkflowInput struct {
	Command orderstypes.CheckoutInput
	TraceID string
}

// OrderCheckoutWorkflow orchestrates the activities needed to price and
// commit a sale durably.
func OrderCheckoutWorkflow(ctx workflow.Context, input OrderCheckoutWorkflowInput) (*ordersports.OrderProjection, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderCheckoutWorkflow started", withTraceID(input.TraceID, "cashierId", input.Command.CashierID)...)
	projection, err := sequences.RunOrderCheckoutSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OrderCheckoutWorkflow failed", withTraceID(input.TraceID, "cashierId", input.Command.CashierID, "error", err)...)
		return nil, err
	}
	if projection != nil && projection.Order != nil {
		logger.Info("OrderCheckoutWorkflow completed", withTraceID(input.TraceID, "orderId", projection.Order.ID)...)
	} else {
		logger.Info("OrderCheckoutWorkflow completed", withTraceID(input.TraceID)...)
	}
	return projection, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
