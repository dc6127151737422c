package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sebuszqo/PersonalFinance/internal/finance/errors"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

const (
	FrequencyOneTime = "one-time"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

const maxCategoryLength = 100

// Tx is the unit of work used for multi-row writes. *sql.Tx satisfies it.
type Tx interface {
	Commit() error
	Rollback() error
}

type TransactionRepository interface {
	Save(ctx context.Context, transaction *Transaction) error
	FindByUser(ctx context.Context, userID int64) ([]*Transaction, error)
	FindByID(ctx context.Context, transactionID int64) (*Transaction, error)
	Delete(ctx context.Context, transactionID, userID int64) error
	FindRecurring(ctx context.Context) ([]*Transaction, error)
	BeginTransaction(ctx context.Context) (Tx, error)
	SaveWithTransaction(ctx context.Context, tx Tx, transaction *Transaction) error
}

type Transaction struct {
	ID       int64
	UserID   int64
	Amount   decimal.Decimal
	Category string
	Type     string // "income" or "expense"
	Date     time.Time
	// Frequency is nil for transactions created before recurrence existed.
	Frequency *string
}

func (t *Transaction) Validate() error {
	if t.Type != TypeIncome && t.Type != TypeExpense {
		return errors.NewValidationError("Type must be 'income' or 'expense'")
	}
	if err := ValidateAmount(t.Amount, "Amount"); err != nil {
		return err
	}
	category := strings.TrimSpace(t.Category)
	if category == "" {
		return errors.NewValidationError("Category is required")
	}
	if len(category) > maxCategoryLength {
		return errors.NewValidationError("Category must be of length less than 100")
	}
	if t.Frequency != nil && !IsValidFrequency(*t.Frequency) {
		return errors.NewValidationError("Frequency must be 'one-time', 'weekly', 'monthly' or 'yearly'")
	}
	return nil
}

func (t *Transaction) FrequencyLabel() string {
	if t.Frequency == nil {
		return FrequencyOneTime
	}
	return *t.Frequency
}

// Recurrence returns a copy of t dated at now, owned by the same user.
func (t *Transaction) Recurrence(now time.Time) *Transaction {
	clone := &Transaction{
		UserID:   t.UserID,
		Amount:   t.Amount,
		Category: t.Category,
		Type:     t.Type,
		Date:     now,
	}
	if t.Frequency != nil {
		freq := *t.Frequency
		clone.Frequency = &freq
	}
	return clone
}

func IsValidFrequency(frequency string) bool {
	switch frequency {
	case FrequencyOneTime, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}
