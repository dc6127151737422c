package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sebuszqo/PersonalFinance/internal/finance/domain"
	financeErrors "github.com/sebuszqo/PersonalFinance/internal/finance/errors"
)

var errForeignTx = errors.New("transaction was not started by this repository")

const transactionColumns = `id, user_id, amount, category, transaction_type, date, frequency`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Save(ctx context.Context, transaction *domain.Transaction) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO transactions (user_id, amount, category, transaction_type, date, frequency)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`,
		transaction.UserID, transaction.Amount, transaction.Category, transaction.Type,
		transaction.Date, transaction.Frequency,
	).Scan(&transaction.ID)
}

// FindByUser returns the user's transactions, most recent first.
func (r *TransactionRepository) FindByUser(ctx context.Context, userID int64) ([]*domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("could not query transactions: %w", err)
	}
	return scanTransactions(rows)
}

func (r *TransactionRepository) FindByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, transactionID)
	var transaction domain.Transaction
	if err := scanTransaction(row, &transaction); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrNotFound
		}
		return nil, fmt.Errorf("could not find transaction: %w", err)
	}
	return &transaction, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, transactionID, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, transactionID, userID)
	if err != nil {
		return fmt.Errorf("could not delete transaction: %w", err)
	}
	return requireAffected(result)
}

// FindRecurring returns every transaction carrying a frequency, across all users.
func (r *TransactionRepository) FindRecurring(ctx context.Context) ([]*domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE frequency IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("could not query recurring transactions: %w", err)
	}
	return scanTransactions(rows)
}

func (r *TransactionRepository) BeginTransaction(ctx context.Context) (domain.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *TransactionRepository) SaveWithTransaction(ctx context.Context, tx domain.Tx, transaction *domain.Transaction) error {
	sqlTx, ok := tx.(*sql.Tx)
	if !ok {
		return errForeignTx
	}
	return sqlTx.QueryRowContext(ctx,
		`INSERT INTO transactions (user_id, amount, category, transaction_type, date, frequency)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`,
		transaction.UserID, transaction.Amount, transaction.Category, transaction.Type,
		transaction.Date, transaction.Frequency,
	).Scan(&transaction.ID)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner, transaction *domain.Transaction) error {
	return row.Scan(&transaction.ID, &transaction.UserID, &transaction.Amount, &transaction.Category,
		&transaction.Type, &transaction.Date, &transaction.Frequency)
}

func scanTransactions(rows *sql.Rows) ([]*domain.Transaction, error) {
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		var transaction domain.Transaction
		if err := scanTransaction(rows, &transaction); err != nil {
			return nil, err
		}
		transactions = append(transactions, &transaction)
	}
	return transactions, rows.Err()
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return financeErrors.ErrNotFound
	}
	return nil
}
