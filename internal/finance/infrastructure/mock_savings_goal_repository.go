package infrastructure

import (
	"context"
	"sync"

	"github.com/sebuszqo/PersonalFinance/internal/finance/domain"
	financeErrors "github.com/sebuszqo/PersonalFinance/internal/finance/errors"
)

type MockSavingsGoalRepository struct {
	mu     sync.Mutex
	Goals  []domain.SavingsGoal
	nextID int64

	SaveErr error
	FindErr error
}

func (m *MockSavingsGoalRepository) Save(_ context.Context, goal *domain.SavingsGoal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.nextID++
	goal.ID = m.nextID
	m.Goals = append(m.Goals, *goal)
	return nil
}

func (m *MockSavingsGoalRepository) FindByUser(_ context.Context, userID int64) ([]*domain.SavingsGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	var filtered []*domain.SavingsGoal
	for i := range m.Goals {
		if m.Goals[i].UserID == userID {
			g := m.Goals[i]
			filtered = append(filtered, &g)
		}
	}
	return filtered, nil
}

func (m *MockSavingsGoalRepository) FindByID(_ context.Context, goalID int64) (*domain.SavingsGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for i := range m.Goals {
		if m.Goals[i].ID == goalID {
			g := m.Goals[i]
			return &g, nil
		}
	}
	return nil, financeErrors.ErrNotFound
}

func (m *MockSavingsGoalRepository) Delete(_ context.Context, goalID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, g := range m.Goals {
		if g.ID == goalID && g.UserID == userID {
			m.Goals = append(m.Goals[:i], m.Goals[i+1:]...)
			return nil
		}
	}
	return financeErrors.ErrNotFound
}
