package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sebuszqo/PersonalFinance/internal/finance/domain"
	financeErrors "github.com/sebuszqo/PersonalFinance/internal/finance/errors"
)

type TransactionService struct {
	repo domain.TransactionRepository
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewTransactionService(repo domain.TransactionRepository, log logrus.FieldLogger) *TransactionService {
	return &TransactionService{repo: repo, log: log, now: time.Now}
}

// CreateTransaction stores t for its owner. A zero Date means now.
func (s *TransactionService) CreateTransaction(ctx context.Context, transaction *domain.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return err
	}
	if transaction.Date.IsZero() {
		transaction.Date = s.now().UTC()
	}
	transaction.Amount = transaction.Amount.Round(2)

	if err := s.repo.Save(ctx, transaction); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"user_id":        transaction.UserID,
		"transaction_id": transaction.ID,
	}).Debug("transaction created")
	return nil
}

func (s *TransactionService) GetUserTransactions(ctx context.Context, userID int64) ([]*domain.Transaction, error) {
	transactions, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		return []*domain.Transaction{}, nil
	}
	return transactions, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, transactionID, userID int64) error {
	transaction, err := s.repo.FindByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if err := checkOwnership(transaction.UserID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, transactionID, userID)
}

// checkOwnership guards per-record mutations.
func checkOwnership(ownerID, userID int64) error {
	if ownerID != userID {
		return financeErrors.ErrAccessDenied
	}
	return nil
}
