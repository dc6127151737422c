package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sebuszqo/PersonalFinance/internal/finance/domain"
	financeErrors "github.com/sebuszqo/PersonalFinance/internal/finance/errors"
)

type BudgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Save(ctx context.Context, budget *domain.Budget) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO budgets (user_id, category, amount, period) VALUES ($1, $2, $3, $4) RETURNING id`,
		budget.UserID, budget.Category, budget.Amount, budget.Period,
	).Scan(&budget.ID)
}

func (r *BudgetRepository) FindByUser(ctx context.Context, userID int64) ([]*domain.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category, amount, period FROM budgets WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("could not query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*domain.Budget
	for rows.Next() {
		var budget domain.Budget
		if err := rows.Scan(&budget.ID, &budget.UserID, &budget.Category, &budget.Amount, &budget.Period); err != nil {
			return nil, err
		}
		budgets = append(budgets, &budget)
	}
	return budgets, rows.Err()
}

func (r *BudgetRepository) FindByID(ctx context.Context, budgetID int64) (*domain.Budget, error) {
	var budget domain.Budget
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category, amount, period FROM budgets WHERE id = $1`, budgetID,
	).Scan(&budget.ID, &budget.UserID, &budget.Category, &budget.Amount, &budget.Period)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrNotFound
		}
		return nil, fmt.Errorf("could not find budget: %w", err)
	}
	return &budget, nil
}

func (r *BudgetRepository) Delete(ctx context.Context, budgetID, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, budgetID, userID)
	if err != nil {
		return fmt.Errorf("could not delete budget: %w", err)
	}
	return requireAffected(result)
}
