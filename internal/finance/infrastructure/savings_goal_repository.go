package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sebuszqo/PersonalFinance/internal/finance/domain"
	financeErrors "github.com/sebuszqo/PersonalFinance/internal/finance/errors"
)

type SavingsGoalRepository struct {
	db *sql.DB
}

func NewSavingsGoalRepository(db *sql.DB) *SavingsGoalRepository {
	return &SavingsGoalRepository{db: db}
}

func (r *SavingsGoalRepository) Save(ctx context.Context, goal *domain.SavingsGoal) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO savings_goals (user_id, name, target_amount, current_amount, date_created)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`,
		goal.UserID, goal.Name, goal.TargetAmount, goal.CurrentAmount, goal.DateCreated,
	).Scan(&goal.ID)
}

func (r *SavingsGoalRepository) FindByUser(ctx context.Context, userID int64) ([]*domain.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, target_amount, current_amount, date_created
        FROM savings_goals WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("could not query savings goals: %w", err)
	}
	defer rows.Close()

	var goals []*domain.SavingsGoal
	for rows.Next() {
		var goal domain.SavingsGoal
		if err := rows.Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount, &goal.CurrentAmount, &goal.DateCreated); err != nil {
			return nil, err
		}
		goals = append(goals, &goal)
	}
	return goals, rows.Err()
}

func (r *SavingsGoalRepository) FindByID(ctx context.Context, goalID int64) (*domain.SavingsGoal, error) {
	var goal domain.SavingsGoal
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, target_amount, current_amount, date_created FROM savings_goals WHERE id = $1`, goalID,
	).Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount, &goal.CurrentAmount, &goal.DateCreated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrNotFound
		}
		return nil, fmt.Errorf("could not find savings goal: %w", err)
	}
	return &goal, nil
}

func (r *SavingsGoalRepository) Delete(ctx context.Context, goalID, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return fmt.Errorf("could not delete savings goal: %w", err)
	}
	return requireAffected(result)
}
