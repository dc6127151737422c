package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sebuszqo/PersonalFinance/internal/finance/errors"
)

const maxGoalNameLength = 150

type SavingsGoalRepository interface {
	Save(ctx context.Context, goal *SavingsGoal) error
	FindByUser(ctx context.Context, userID int64) ([]*SavingsGoal, error)
	FindByID(ctx context.Context, goalID int64) (*SavingsGoal, error)
	Delete(ctx context.Context, goalID, userID int64) error
}

// SavingsGoal tracks progress towards TargetAmount. CurrentAmount is set once
// at creation.
type SavingsGoal struct {
	ID            int64
	UserID        int64
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	DateCreated   time.Time
}

func (g *SavingsGoal) Validate() error {
	name := strings.TrimSpace(g.Name)
	if name == "" {
		return errors.NewValidationError("Name is required")
	}
	if len(name) > maxGoalNameLength {
		return errors.NewValidationError("Name must be of length less than 150")
	}
	if err := ValidateAmount(g.TargetAmount, "Target amount"); err != nil {
		return err
	}
	if err := ValidateAmount(g.CurrentAmount, "Current amount"); err != nil {
		return err
	}
	return nil
}

// Progress is CurrentAmount/TargetAmount in percent, capped at 100.
func (g *SavingsGoal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	p := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(0)
	if p.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}
