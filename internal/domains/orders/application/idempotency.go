package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	orderstypes "github.com/Apurer/go-pos-api-server/internal/domains/orders/application/types"
)

type normalizedCheckoutInput struct {
	Items         []normalizedLine    `json:"items"`
	Discount      *normalizedDiscount `json:"discount"`
	TaxPercent    string              `json:"taxPercent"`
	PaymentMethod string              `json:"paymentMethod"`
	CashierID     int64               `json:"cashierId"`
	Customer      *normalizedCustomer `json:"customer"`
	Notes         string              `json:"notes"`
}

type normalizedLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

type normalizedDiscount struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type normalizedCustomer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// FingerprintCheckout builds a deterministic hash of the checkout payload
// (excluding the idempotency key) so replays with a changed cart are rejected.
func FingerprintCheckout(input orderstypes.CheckoutInput) (string, error) {
	normalized := normalizedCheckoutInput{
		Items:         make([]normalizedLine, 0, len(input.Items)),
		TaxPercent:    input.TaxPercent.String(),
		PaymentMethod: string(input.PaymentMethod),
		CashierID:     input.CashierID,
		Notes:         input.Notes,
	}
	for _, item := range input.Items {
		normalized.Items = append(normalized.Items, normalizedLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if input.Discount != nil {
		normalized.Discount = &normalizedDiscount{Type: string(input.Discount.Type), Value: input.Discount.Value.String()}
	}
	if input.Customer != nil {
		normalized.Customer = &normalizedCustomer{Name: input.Customer.Name, Phone: input.Customer.Phone, Email: input.Customer.Email}
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
