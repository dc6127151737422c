package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sebuszqo/PersonalFinance/internal/finance/domain"
)

type SavingsGoalService struct {
	repo domain.SavingsGoalRepository
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewSavingsGoalService(repo domain.SavingsGoalRepository, log logrus.FieldLogger) *SavingsGoalService {
	return &SavingsGoalService{repo: repo, log: log, now: time.Now}
}

func (s *SavingsGoalService) CreateSavingsGoal(ctx context.Context, goal *domain.SavingsGoal) error {
	if err := goal.Validate(); err != nil {
		return err
	}
	if goal.DateCreated.IsZero() {
		goal.DateCreated = s.now().UTC()
	}
	goal.TargetAmount = goal.TargetAmount.Round(2)
	goal.CurrentAmount = goal.CurrentAmount.Round(2)

	if err := s.repo.Save(ctx, goal); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"user_id": goal.UserID, "savings_goal_id": goal.ID}).Debug("savings goal created")
	return nil
}

func (s *SavingsGoalService) GetUserSavingsGoals(ctx context.Context, userID int64) ([]*domain.SavingsGoal, error) {
	goals, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		return []*domain.SavingsGoal{}, nil
	}
	return goals, nil
}

func (s *SavingsGoalService) DeleteSavingsGoal(ctx context.Context, goalID, userID int64) error {
	goal, err := s.repo.FindByID(ctx, goalID)
	if err != nil {
		return err
	}
	if err := checkOwnership(goal.UserID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, goalID, userID)
}
