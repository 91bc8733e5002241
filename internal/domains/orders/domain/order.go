package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Status tracks the order lifecycle. Orders are created completed because a
// register sale is paid at the counter; cancelled and refunded are terminal.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
)

// PaymentMethod names how the customer paid.
type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentCard          PaymentMethod = "card"
	PaymentDigitalWallet PaymentMethod = "digital_wallet"
	PaymentBankTransfer  PaymentMethod = "bank_transfer"
)

const maxNotesLength = 500

var (
	ErrNoItems             = errors.New("order requires at least one item")
	ErrInvalidQuantity     = errors.New("item quantity must be greater than zero")
	ErrInvalidPayment      = errors.New("payment method is invalid")
	ErrInvalidStatus       = errors.New("order status is invalid")
	ErrInvalidTransition   = errors.New("status transition is not allowed")
	ErrNotesTooLong        = errors.New("notes exceed 500 characters")
	ErrAlreadyRefunded     = errors.New("order has already been refunded")
	ErrInvalidState        = errors.New("order state does not allow this operation")
	ErrInvalidRefundAmount = errors.New("refund amount must be positive and not exceed the order total")
	ErrMissingCashier      = errors.New("order requires a cashier")
)

// LineItem snapshots the product at sale time so later catalog edits never
// change what the receipt says.
type LineItem struct {
	ProductID   int64
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int64
	Subtotal    decimal.Decimal
}

// Customer is the optional walk-in customer block.
type Customer struct {
	Name  string
	Phone string
	Email string
}

// Refund records a processed refund against a completed order.
type Refund struct {
	Amount     decimal.Decimal
	Reason     string
	RefundedBy int64
	RefundedAt time.Time
}

// Order is the sales aggregate. Monetary fields are decimals; totals are
// computed once at checkout and never recomputed from the catalog.
type Order struct {
	ID            int64
	Number        string
	Items         []LineItem
	Subtotal      decimal.Decimal
	Discount      Discount
	Tax           Tax
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	Status        Status
	CashierID     int64
	CashierName   string
	Customer      *Customer
	Notes         string
	Refund        *Refund
	CreatedAt     time.Time
}

// NewOrder assembles a completed sale from priced line items.
func NewOrder(number string, items []LineItem, totals Totals, payment PaymentMethod, cashierID int64, cashierName string) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}
	if !isValidPayment(payment) {
		return nil, ErrInvalidPayment
	}
	if cashierID == 0 {
		return nil, ErrMissingCashier
	}
	return &Order{
		Number:        number,
		Items:         append([]LineItem{}, items...),
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaymentMethod: payment,
		Status:        StatusCompleted,
		CashierID:     cashierID,
		CashierName:   cashierName,
		CreatedAt:     time.Now(),
	}, nil
}

// SetNotes enforces the receipt note length limit.
func (o *Order) SetNotes(notes string) error {
	if len(notes) > maxNotesLength {
		return ErrNotesTooLong
	}
	o.Notes = notes
	return nil
}

// Cancel voids a completed order. Cancelled and refunded orders are terminal.
func (o *Order) Cancel() error {
	if o.Status != StatusCompleted {
		return ErrInvalidTransition
	}
	o.Status = StatusCancelled
	return nil
}

// MarkRefunded transitions a completed order to refunded. A zero amount means
// a full refund of the order total.
func (o *Order) MarkRefunded(amount decimal.Decimal, reason string, refundedBy int64, at time.Time) error {
	switch o.Status {
	case StatusRefunded:
		return ErrAlreadyRefunded
	case StatusCancelled:
		return ErrInvalidState
	}
	if amount.IsZero() {
		amount = o.Total
	}
	if !amount.IsPositive() || amount.GreaterThan(o.Total) {
		return ErrInvalidRefundAmount
	}
	o.Status = StatusRefunded
	o.Refund = &Refund{
		Amount:     amount,
		Reason:     reason,
		RefundedBy: refundedBy,
		RefundedAt: at,
	}
	return nil
}

// UpdateStatus applies an externally requested status change through the
// transition guards.
func (o *Order) UpdateStatus(next Status) error {
	if !isValidStatus(next) {
		return ErrInvalidStatus
	}
	if next == o.Status {
		return nil
	}
	switch next {
	case StatusCancelled:
		return o.Cancel()
	default:
		return ErrInvalidTransition
	}
}

func isValidPayment(p PaymentMethod) bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentDigitalWallet, PaymentBankTransfer:
		return true
	default:
		return false
	}
}

func isValidStatus(s Status) bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}
