package infrastructure

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/sebuszqo/PersonalFinance/internal/finance/domain"
	financeErrors "github.com/sebuszqo/PersonalFinance/internal/finance/errors"
)

var errTxDone = errors.New("transaction has already been committed or rolled back")

// MockTransactionRepository keeps transactions in memory. Writes done through
// a transaction become visible on Commit.
type MockTransactionRepository struct {
	mu           sync.Mutex
	Transactions []domain.Transaction
	nextID       int64

	// SaveErr, when set, fails Save and SaveWithTransaction.
	SaveErr error
	// FindErr, when set, fails every read.
	FindErr error
}

type mockTx struct {
	repo    *MockTransactionRepository
	pending []domain.Transaction
	done    bool
}

func (tx *mockTx) Commit() error {
	if tx.done {
		return errTxDone
	}
	tx.done = true
	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()
	tx.repo.Transactions = append(tx.repo.Transactions, tx.pending...)
	return nil
}

func (tx *mockTx) Rollback() error {
	if tx.done {
		return errTxDone
	}
	tx.done = true
	tx.pending = nil
	return nil
}

func (m *MockTransactionRepository) assignID() int64 {
	if m.nextID == 0 {
		for _, t := range m.Transactions {
			if t.ID > m.nextID {
				m.nextID = t.ID
			}
		}
	}
	m.nextID++
	return m.nextID
}

func (m *MockTransactionRepository) Save(_ context.Context, transaction *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	transaction.ID = m.assignID()
	m.Transactions = append(m.Transactions, *transaction)
	return nil
}

func (m *MockTransactionRepository) FindByUser(_ context.Context, userID int64) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}

	var filtered []*domain.Transaction
	for i := range m.Transactions {
		if m.Transactions[i].UserID == userID {
			t := m.Transactions[i]
			filtered = append(filtered, &t)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Date.Equal(filtered[j].Date) {
			return filtered[i].ID > filtered[j].ID
		}
		return filtered[i].Date.After(filtered[j].Date)
	})
	return filtered, nil
}

func (m *MockTransactionRepository) FindByID(_ context.Context, transactionID int64) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for i := range m.Transactions {
		if m.Transactions[i].ID == transactionID {
			t := m.Transactions[i]
			return &t, nil
		}
	}
	return nil, financeErrors.ErrNotFound
}

func (m *MockTransactionRepository) Delete(_ context.Context, transactionID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.Transactions {
		if t.ID == transactionID && t.UserID == userID {
			m.Transactions = append(m.Transactions[:i], m.Transactions[i+1:]...)
			return nil
		}
	}
	return financeErrors.ErrNotFound
}

func (m *MockTransactionRepository) FindRecurring(_ context.Context) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}

	var recurring []*domain.Transaction
	for i := range m.Transactions {
		if m.Transactions[i].Frequency != nil {
			t := m.Transactions[i]
			recurring = append(recurring, &t)
		}
	}
	return recurring, nil
}

func (m *MockTransactionRepository) BeginTransaction(_ context.Context) (domain.Tx, error) {
	return &mockTx{repo: m}, nil
}

func (m *MockTransactionRepository) SaveWithTransaction(_ context.Context, tx domain.Tx, transaction *domain.Transaction) error {
	mtx, ok := tx.(*mockTx)
	if !ok || mtx.repo != m {
		return errForeignTx
	}
	if mtx.done {
		return errTxDone
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	transaction.ID = m.assignID()
	mtx.pending = append(mtx.pending, *transaction)
	return nil
}
