package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sebuszqo/PersonalFinance/internal/finance/domain"
)

type RecurringService struct {
	repo domain.TransactionRepository
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewRecurringService(repo domain.TransactionRepository, log logrus.FieldLogger) *RecurringService {
	return &RecurringService{repo: repo, log: log, now: time.Now}
}

// ProcessRecurring inserts a copy, dated now, of every recurring transaction
// whose next due date is on or before today, and returns how many were added.
//
// The source transaction's date is left untouched, so a later run derives the
// same due date again and inserts another copy. Callers that run this more
// than once per period get duplicates.
func (s *RecurringService) ProcessRecurring(ctx context.Context, today time.Time) (created int, err error) {
	recurring, err := s.repo.FindRecurring(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not load recurring transactions: %w", err)
	}

	now := s.now().UTC()
	var due []*domain.Transaction
	for _, transaction := range recurring {
		nextDue, ok := domain.NextDueDate(transaction.Date, *transaction.Frequency)
		if !ok {
			continue
		}
		if domain.SameOrBeforeDay(nextDue, today) {
			due = append(due, transaction.Recurrence(now))
		}
	}
	if len(due) == 0 {
		return 0, nil
	}

	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if p := recover(); p != nil {
			s.safeRollback(tx)
			panic(p)
		} else if err != nil {
			s.safeRollback(tx)
			created = 0
		} else {
			err = tx.Commit()
			if err != nil {
				created = 0
			}
		}
	}()

	for i, transaction := range due {
		if err = s.repo.SaveWithTransaction(ctx, tx, transaction); err != nil {
			return 0, fmt.Errorf("database error at recurring transaction %d: %w", i+1, err)
		}
	}

	s.log.WithField("created", len(due)).Info("recurring transactions processed")
	return len(due), nil
}

func (s *RecurringService) safeRollback(tx domain.Tx) {
	if err := tx.Rollback(); err != nil {
		s.log.WithError(err).Error("error during transaction rollback")
	}
}
