package infrastructure

import (
	"context"
	"sync"

	"github.com/sebuszqo/PersonalFinance/internal/finance/domain"
	financeErrors "github.com/sebuszqo/PersonalFinance/internal/finance/errors"
)

type MockBudgetRepository struct {
	mu      sync.Mutex
	Budgets []domain.Budget
	nextID  int64

	SaveErr error
	FindErr error
}

func (m *MockBudgetRepository) Save(_ context.Context, budget *domain.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.nextID++
	budget.ID = m.nextID
	m.Budgets = append(m.Budgets, *budget)
	return nil
}

func (m *MockBudgetRepository) FindByUser(_ context.Context, userID int64) ([]*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	var filtered []*domain.Budget
	for i := range m.Budgets {
		if m.Budgets[i].UserID == userID {
			b := m.Budgets[i]
			filtered = append(filtered, &b)
		}
	}
	return filtered, nil
}

func (m *MockBudgetRepository) FindByID(_ context.Context, budgetID int64) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for i := range m.Budgets {
		if m.Budgets[i].ID == budgetID {
			b := m.Budgets[i]
			return &b, nil
		}
	}
	return nil, financeErrors.ErrNotFound
}

func (m *MockBudgetRepository) Delete(_ context.Context, budgetID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.Budgets {
		if b.ID == budgetID && b.UserID == userID {
			m.Budgets = append(m.Budgets[:i], m.Budgets[i+1:]...)
			return nil
		}
	}
	return financeErrors.ErrNotFound
}
