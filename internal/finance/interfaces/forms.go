package interfaces

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sebuszqo/PersonalFinance/internal/finance/domain"
	financeErrors "github.com/sebuszqo/PersonalFinance/internal/finance/errors"
)

const maxAmountInputLength = 32

func formString(form url.Values, field string) string {
	return strings.TrimSpace(form.Get(field))
}

func requiredString(form url.Values, field, label string, validationErrors *financeErrors.ValidationErrors) string {
	value := formString(form, field)
	if value == "" {
		validationErrors.Add(financeErrors.NewValidationError(fmt.Sprintf("%s is required", label)))
	}
	return value
}

// parseAmount reads a decimal form value. An empty optional field is zero.
func parseAmount(form url.Values, field, label string, required bool, validationErrors *financeErrors.ValidationErrors) decimal.Decimal {
	raw := strings.ReplaceAll(formString(form, field), ",", ".")
	if raw == "" {
		if required {
			validationErrors.Add(financeErrors.NewValidationError(fmt.Sprintf("%s is required", label)))
		}
		return decimal.Zero
	}
	if len(raw) > maxAmountInputLength {
		validationErrors.Add(financeErrors.NewValidationError(fmt.Sprintf("%s is out of range", label)))
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		validationErrors.Add(financeErrors.NewValidationError(fmt.Sprintf("%s must be a number", label)))
		return decimal.Zero
	}
	if err := domain.ValidateAmount(amount, label); err != nil {
		validationErrors.Add(err)
		return decimal.Zero
	}
	return amount
}

func optionalString(form url.Values, field string) *string {
	value := formString(form, field)
	if value == "" {
		return nil
	}
	return &value
}
