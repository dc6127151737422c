package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sebuszqo/PersonalFinance/internal/finance/domain"
)

type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

type Dashboard struct {
	Username     string
	Transactions []*domain.Transaction
	Budgets      []*domain.Budget
	SavingsGoals []*domain.SavingsGoal
	Totals       Totals
}

type DashboardService struct {
	transactions *TransactionService
	budgets      *BudgetService
	savingsGoals *SavingsGoalService
}

func NewDashboardService(transactions *TransactionService, budgets *BudgetService, savingsGoals *SavingsGoalService) *DashboardService {
	return &DashboardService{transactions: transactions, budgets: budgets, savingsGoals: savingsGoals}
}

// GetDashboard loads every record owned by userID.
func (s *DashboardService) GetDashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	transactions, err := s.transactions.GetUserTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not load transactions: %w", err)
	}
	budgets, err := s.budgets.GetUserBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not load budgets: %w", err)
	}
	goals, err := s.savingsGoals.GetUserSavingsGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not load savings goals: %w", err)
	}

	return &Dashboard{
		Transactions: transactions,
		Budgets:      budgets,
		SavingsGoals: goals,
		Totals:       ComputeTotals(transactions),
	}, nil
}

func ComputeTotals(transactions []*domain.Transaction) Totals {
	totals := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, transaction := range transactions {
		switch transaction.Type {
		case domain.TypeIncome:
			totals.Income = totals.Income.Add(transaction.Amount)
		case domain.TypeExpense:
			totals.Expense = totals.Expense.Add(transaction.Amount)
		}
	}
	totals.Balance = totals.Income.Sub(totals.Expense)
	return totals
}
