package domain

import "github.com/shopspring/decimal"

// DiscountType selects how a discount value is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

var hundred = decimal.NewFromInt(100)

// Discount holds the requested discount and the amount actually applied.
type Discount struct {
	Type   DiscountType
	Value  decimal.Decimal
	Amount decimal.Decimal
}

// Tax holds the tax rate and the computed tax amount.
type Tax struct {
	Percentage decimal.Decimal
	Amount     decimal.Decimal
}

// Totals is the result of pricing a sale.
type Totals struct {
	Subtotal decimal.Decimal
	Discount Discount
	Tax      Tax
	Total    decimal.Decimal
}

// PriceLine computes the line subtotal for a quantity of units.
func PriceLine(unitPrice decimal.Decimal, quantity int64) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity)).Round(2)
}

// ComputeTotals prices a sale deterministically:
//
//	subtotal   = sum of line subtotals
//	discount   = percentage of subtotal, or a fixed amount, clamped to subtotal
//	tax        = taxPercent of the discounted subtotal
//	total      = discounted subtotal plus tax
//
// All intermediate amounts round to two decimal places.
func ComputeTotals(items []LineItem, discountType DiscountType, discountValue decimal.Decimal, taxPercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal)
	}
	subtotal = subtotal.Round(2)

	discountAmount := decimal.Zero
	switch discountType {
	case DiscountPercentage:
		discountAmount = subtotal.Mul(discountValue).Div(hundred).Round(2)
	case DiscountFixed:
		discountAmount = discountValue.Round(2)
	}
	if discountAmount.IsNegative() {
		discountAmount = decimal.Zero
	}
	if discountAmount.GreaterThan(subtotal) {
		discountAmount = subtotal
	}

	afterDiscount := subtotal.Sub(discountAmount)
	taxAmount := decimal.Zero
	if taxPercent.IsPositive() {
		taxAmount = afterDiscount.Mul(taxPercent).Div(hundred).Round(2)
	}

	totals := Totals{
		Subtotal: subtotal,
		Tax:      Tax{Percentage: taxPercent, Amount: taxAmount},
		Total:    afterDiscount.Add(taxAmount).Round(2),
	}
	if discountType == DiscountPercentage || discountType == DiscountFixed {
		totals.Discount = Discount{Type: discountType, Value: discountValue, Amount: discountAmount}
	}
	return totals
}
