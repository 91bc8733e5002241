package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	orderstypes "github.com/Apurer/go-pos-api-server/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/go-pos-api-server/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-pos-api-server/internal/domains/orders/ports"
)

// LineRequest is the transport shape of a requested sale line.
type LineRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int64 `json:"quantity" binding:"required"`
}

// DiscountRequest is the optional discount block on a checkout.
type DiscountRequest struct {
	Type  string          `json:"type" binding:"required"`
	Value decimal.Decimal `json:"value"`
}

// CustomerRequest is the optional walk-in customer block.
type CustomerRequest struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// CheckoutRequest is the payload accepted by POST /api/orders.
type CheckoutRequest struct {
	Items         []LineRequest    `json:"items" binding:"required"`
	Discount      *DiscountRequest `json:"discount,omitempty"`
	TaxPercent    decimal.Decimal  `json:"taxPercent"`
	PaymentMethod string           `json:"paymentMethod" binding:"required"`
	Customer      *CustomerRequest `json:"customer,omitempty"`
	Notes         string           `json:"notes,omitempty"`
}

// RefundRequest is the payload accepted by POST /api/orders/:id/refund.
// RestoreStock defaults to true when omitted: a plain refund returns the
// sold units to the shelf unless the caller opts out.
type RefundRequest struct {
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	Reason       string           `json:"reason,omitempty"`
	RestoreStock *bool            `json:"restoreStock,omitempty"`
}

// StatusRequest is the payload accepted by PUT /api/orders/:id/status.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// LineItemResponse is the transport shape of a sold line.
type LineItemResponse struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	UnitPrice   string `json:"unitPrice"`
	Quantity    int64  `json:"quantity"`
	Subtotal    string `json:"subtotal"`
}

// DiscountResponse reports both the requested discount and the applied amount.
type DiscountResponse struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Amount string `json:"amount"`
}

// TaxResponse reports the tax rate and computed amount.
type TaxResponse struct {
	Percentage string `json:"percentage"`
	Amount     string `json:"amount"`
}

// RefundResponse reports a processed refund.
type RefundResponse struct {
	Amount     string    `json:"amount"`
	Reason     string    `json:"reason,omitempty"`
	RefundedBy int64     `json:"refundedBy"`
	RefundedAt time.Time `json:"refundedAt"`
}

// OrderResponse is the transport representation of an order. Monetary amounts
// render as fixed two-decimal strings.
type OrderResponse struct {
	ID            int64              `json:"id"`
	Number        string             `json:"number"`
	Items         []LineItemResponse `json:"items"`
	Subtotal      string             `json:"subtotal"`
	Discount      *DiscountResponse  `json:"discount,omitempty"`
	Tax           TaxResponse        `json:"tax"`
	Total         string             `json:"total"`
	PaymentMethod string             `json:"paymentMethod"`
	Status        string             `json:"status"`
	CashierID     int64              `json:"cashierId"`
	CashierName   string             `json:"cashierName,omitempty"`
	Customer      *CustomerRequest   `json:"customer,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	Refund        *RefundResponse    `json:"refund,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// ReceiptLine is one printable receipt row.
type ReceiptLine struct {
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Subtotal  string `json:"subtotal"`
}

// ReceiptResponse is the printable view of a completed sale.
type ReceiptResponse struct {
	Number        string        `json:"number"`
	Date          time.Time     `json:"date"`
	Cashier       string        `json:"cashier,omitempty"`
	Lines         []ReceiptLine `json:"lines"`
	Subtotal      string        `json:"subtotal"`
	Discount      string        `json:"discount,omitempty"`
	Tax           string        `json:"tax"`
	Total         string        `json:"total"`
	PaymentMethod string        `json:"paymentMethod"`
}

// ToCheckoutInput converts a transport checkout into the application input.
// Cashier identity comes from the authenticated session, never the payload.
func ToCheckoutInput(req CheckoutRequest, cashierID int64, cashierName, idempotencyKey string) orderstypes.CheckoutInput {
	input := orderstypes.CheckoutInput{
		Items:          make([]orderstypes.LineRequest, 0, len(req.Items)),
		TaxPercent:     req.TaxPercent,
		PaymentMethod:  ordersdomain.PaymentMethod(req.PaymentMethod),
		CashierID:      cashierID,
		CashierName:    cashierName,
		Notes:          req.Notes,
		IdempotencyKey: idempotencyKey,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, orderstypes.LineRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if req.Discount != nil {
		input.Discount = &orderstypes.DiscountInput{
			Type:  ordersdomain.DiscountType(req.Discount.Type),
			Value: req.Discount.Value,
		}
	}
	if req.Customer != nil {
		input.Customer = &orderstypes.CustomerInput{
			Name:  req.Customer.Name,
			Phone: req.Customer.Phone,
			Email: req.Customer.Email,
		}
	}
	return input
}

// ToRefundInput converts a transport refund into the application input.
func ToRefundInput(req RefundRequest, orderID, refundedBy int64) orderstypes.RefundInput {
	restore := true
	if req.RestoreStock != nil {
		restore = *req.RestoreStock
	}
	return orderstypes.RefundInput{
		OrderID:      orderID,
		Amount:       req.Amount,
		Reason:       req.Reason,
		RestoreStock: restore,
		RefundedBy:   refundedBy,
	}
}

// FromProjection converts a stored order to the transport representation.
func FromProjection(p *ordersports.OrderProjection) OrderResponse {
	if p == nil || p.Order == nil {
		return OrderResponse{}
	}
	order := p.Order
	resp := OrderResponse{
		ID:            order.ID,
		Number:        order.Number,
		Items:         make([]LineItemResponse, 0, len(order.Items)),
		Subtotal:      order.Subtotal.StringFixed(2),
		Tax:           TaxResponse{Percentage: order.Tax.Percentage.String(), Amount: order.Tax.Amount.StringFixed(2)},
		Total:         order.Total.StringFixed(2),
		PaymentMethod: string(order.PaymentMethod),
		Status:        string(order.Status),
		CashierID:     order.CashierID,
		CashierName:   order.CashierName,
		Notes:         order.Notes,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     p.Metadata.UpdatedAt,
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, LineItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal.StringFixed(2),
		})
	}
	if order.Discount.Type != "" {
		resp.Discount = &DiscountResponse{
			Type:   string(order.Discount.Type),
			Value:  order.Discount.Value.String(),
			Amount: order.Discount.Amount.StringFixed(2),
		}
	}
	if order.Customer != nil {
		resp.Customer = &CustomerRequest{Name: order.Customer.Name, Phone: order.Customer.Phone, Email: order.Customer.Email}
	}
	if order.Refund != nil {
		resp.Refund = &RefundResponse{
			Amount:     order.Refund.Amount.StringFixed(2),
			Reason:     order.Refund.Reason,
			RefundedBy: order.Refund.RefundedBy,
			RefundedAt: order.Refund.RefundedAt,
		}
	}
	return resp
}

// FromProjections maps a list of stored orders.
func FromProjections(list []*ordersports.OrderProjection) []OrderResponse {
	out := make([]OrderResponse, 0, len(list))
	for _, p := range list {
		out = append(out, FromProjection(p))
	}
	return out
}

// ToReceipt renders the printable receipt view of an order.
func ToReceipt(p *ordersports.OrderProjection) ReceiptResponse {
	if p == nil || p.Order == nil {
		return ReceiptResponse{}
	}
	order := p.Order
	receipt := ReceiptResponse{
		Number:        order.Number,
		Date:          order.CreatedAt,
		Cashier:       order.CashierName,
		Lines:         make([]ReceiptLine, 0, len(order.Items)),
		Subtotal:      order.Subtotal.StringFixed(2),
		Tax:           order.Tax.Amount.StringFixed(2),
		Total:         order.Total.StringFixed(2),
		PaymentMethod: string(order.PaymentMethod),
	}
	for _, item := range order.Items {
		receipt.Lines = append(receipt.Lines, ReceiptLine{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Subtotal:  item.Subtotal.StringFixed(2),
		})
	}
	if order.Discount.Amount.IsPositive() {
		receipt.Discount = order.Discount.Amount.StringFixed(2)
	}
	return receipt
}
