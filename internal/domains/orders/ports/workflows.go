package ports

import (
	"context"

	orderstypes "github.com/Apurer/go-pos-api-server/internal/domains/orders/application/types"
)

// CheckoutOrchestrator runs the checkout sequence, durably when a workflow
// engine is configured and inline otherwise.
type CheckoutOrchestrator interface {
	Checkout(ctx context.Context, input orderstypes.CheckoutInput) (*OrderProjection, error)
}
