package types

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-pos-api-server/internal/domains/orders/domain"
)

// LineRequest identifies a product and the quantity being sold. Pricing always
// comes from the catalog at checkout time, never from the client.
type LineRequest struct {
	ProductID int64
	Quantity  int64
}

// DiscountInput is the optional discount requested for the sale.
type DiscountInput struct {
	Type  domain.DiscountType
	Value decimal.Decimal
}

// CustomerInput is the optional walk-in customer block.
type CustomerInput struct {
	Name  string
	Phone string
	Email string
}

// CheckoutInput carries everything needed to price and commit a sale.
// IdempotencyKey, when present, lets clients retry the checkout safely.
type CheckoutInput struct {
	Items          []LineRequest
	Discount       *DiscountInput
	TaxPercent     decimal.Decimal
	PaymentMethod  domain.PaymentMethod
	CashierID      int64
	CashierName    string
	Customer       *CustomerInput
	Notes          string
	IdempotencyKey string
}

// RefundInput describes a refund request against an existing order. A nil
// Amount refunds the full order total. RestoreStock controls whether the sold
// quantities return to the catalog.
type RefundInput struct {
	OrderID      int64
	Amount       *decimal.Decimal
	Reason       string
	RestoreStock bool
	RefundedBy   int64
}
