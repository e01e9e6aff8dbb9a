package settlement

import (
	"errors"
	"fmt"
	"strings"

	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrEmptyCustomerName   = errors.New("customer name is required")
	ErrEmptyCart           = errors.New("cart is empty")
)

// ComputeTotal sums price x quantity over the lines. An empty cart totals zero.
func ComputeTotal(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ParseAmount reads a tendered amount as typed at the register. Blank, non-numeric and
// negative input is rejected as insufficient payment.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount paid is required", ErrInsufficientPayment)
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInsufficientPayment, s)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount paid is negative", ErrInsufficientPayment)
	}
	return amount, nil
}

// CalculateChange returns amountPaid - total, failing when the payment does not cover
// the total.
func CalculateChange(total, amountPaid decimal.Decimal) (decimal.Decimal, error) {
	if amountPaid.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount paid is negative", ErrInsufficientPayment)
	}
	if amountPaid.LessThan(total) {
		return decimal.Zero, fmt.Errorf("%w: %s short", ErrInsufficientPayment, total.Sub(amountPaid).StringFixed(2))
	}
	return amountPaid.Sub(total), nil
}
