package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sebuszqo/PersonalFinance/internal/finance/errors"
)

// Amounts are stored as NUMERIC(14,2).
const (
	maxAmountExponent = 12
	minAmountExponent = -12
)

var maxAmount = decimal.New(1, maxAmountExponent)

// ValidateAmount rejects amounts the money columns cannot hold. The exponent
// is checked first: rounding or comparing a decimal with a huge exponent
// allocates a power of ten of that size.
func ValidateAmount(amount decimal.Decimal, label string) error {
	exp := amount.Exponent()
	if exp > maxAmountExponent || exp < minAmountExponent || amount.Round(2).Abs().Cmp(maxAmount) >= 0 {
		return errors.NewValidationError(fmt.Sprintf("%s is out of range", label))
	}
	return nil
}
