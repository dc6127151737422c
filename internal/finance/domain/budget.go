package domain

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sebuszqo/PersonalFinance/internal/finance/errors"
)

const (
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
	PeriodCustom  = "custom"
)

type BudgetRepository interface {
	Save(ctx context.Context, budget *Budget) error
	FindByUser(ctx context.Context, userID int64) ([]*Budget, error)
	FindByID(ctx context.Context, budgetID int64) (*Budget, error)
	Delete(ctx context.Context, budgetID, userID int64) error
}

type Budget struct {
	ID       int64
	UserID   int64
	Category string
	Amount   decimal.Decimal
	Period   string
}

func (b *Budget) Validate() error {
	category := strings.TrimSpace(b.Category)
	if category == "" {
		return errors.NewValidationError("Category is required")
	}
	if len(category) > maxCategoryLength {
		return errors.NewValidationError("Category must be of length less than 100")
	}
	if err := ValidateAmount(b.Amount, "Amount"); err != nil {
		return err
	}
	switch b.Period {
	case PeriodMonthly, PeriodYearly, PeriodCustom:
	default:
		return errors.NewValidationError("Period must be 'monthly', 'yearly' or 'custom'")
	}
	return nil
}
