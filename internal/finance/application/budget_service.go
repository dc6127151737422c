package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/sebuszqo/PersonalFinance/internal/finance/domain"
)

type BudgetService struct {
	repo domain.BudgetRepository
	log  logrus.FieldLogger
}

func NewBudgetService(repo domain.BudgetRepository, log logrus.FieldLogger) *BudgetService {
	return &BudgetService{repo: repo, log: log}
}

func (s *BudgetService) CreateBudget(ctx context.Context, budget *domain.Budget) error {
	if err := budget.Validate(); err != nil {
		return err
	}
	budget.Amount = budget.Amount.Round(2)
	if err := s.repo.Save(ctx, budget); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"user_id": budget.UserID, "budget_id": budget.ID}).Debug("budget created")
	return nil
}

func (s *BudgetService) GetUserBudgets(ctx context.Context, userID int64) ([]*domain.Budget, error) {
	budgets, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if budgets == nil {
		return []*domain.Budget{}, nil
	}
	return budgets, nil
}

func (s *BudgetService) DeleteBudget(ctx context.Context, budgetID, userID int64) error {
	budget, err := s.repo.FindByID(ctx, budgetID)
	if err != nil {
		return err
	}
	if err := checkOwnership(budget.UserID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, budgetID, userID)
}
