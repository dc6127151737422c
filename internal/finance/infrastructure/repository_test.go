package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebuszqo/PersonalFinance/db/dbtest"
	"github.com/sebuszqo/PersonalFinance/internal/finance/domain"
	financeErrors "github.com/sebuszqo/PersonalFinance/internal/finance/errors"
)

func monthly() *string {
	f := domain.FrequencyMonthly
	return &f
}

func TestTransactionRepository_Postgres(t *testing.T) {
	db := dbtest.StartPostgres(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, db, "alice")
	bob := dbtest.CreateUser(t, db, "bob")

	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	older := &domain.Transaction{UserID: alice, Amount: decimal.RequireFromString("50.00"), Category: "food", Type: domain.TypeExpense, Date: base}
	newer := &domain.Transaction{UserID: alice, Amount: decimal.RequireFromString("1200.50"), Category: "salary", Type: domain.TypeIncome, Date: base.AddDate(0, 0, 5), Frequency: monthly()}
	foreign := &domain.Transaction{UserID: bob, Amount: decimal.NewFromInt(7), Category: "misc", Type: domain.TypeExpense, Date: base}
	for _, tr := range []*domain.Transaction{older, newer, foreign} {
		require.NoError(t, repo.Save(ctx, tr))
		assert.NotZero(t, tr.ID)
	}

	t.Run("find by user is scoped and ordered", func(t *testing.T) {
		list, err := repo.FindByUser(ctx, alice)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, newer.ID, list[0].ID)
		assert.Equal(t, older.ID, list[1].ID)
		assert.True(t, decimal.RequireFromString("1200.5").Equal(list[0].Amount))
		assert.Equal(t, domain.FrequencyMonthly, *list[0].Frequency)
		assert.Nil(t, list[1].Frequency)
	})

	t.Run("find by id", func(t *testing.T) {
		got, err := repo.FindByID(ctx, foreign.ID)
		require.NoError(t, err)
		assert.Equal(t, bob, got.UserID)

		_, err = repo.FindByID(ctx, foreign.ID+1000)
		assert.ErrorIs(t, err, financeErrors.ErrNotFound)
	})

	t.Run("find recurring", func(t *testing.T) {
		list, err := repo.FindRecurring(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, newer.ID, list[0].ID)
	})

	t.Run("save with transaction commits and rolls back", func(t *testing.T) {
		tx, err := repo.BeginTransaction(ctx)
		require.NoError(t, err)
		rolledBack := newer.Recurrence(time.Now().UTC())
		require.NoError(t, repo.SaveWithTransaction(ctx, tx, rolledBack))
		require.NoError(t, tx.Rollback())

		tx, err = repo.BeginTransaction(ctx)
		require.NoError(t, err)
		committed := newer.Recurrence(time.Now().UTC())
		require.NoError(t, repo.SaveWithTransaction(ctx, tx, committed))
		require.NoError(t, tx.Commit())

		list, err := repo.FindRecurring(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("delete is scoped by owner", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, foreign.ID, alice), financeErrors.ErrNotFound)
		_, err := repo.FindByID(ctx, foreign.ID)
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, foreign.ID, bob))
		_, err = repo.FindByID(ctx, foreign.ID)
		assert.ErrorIs(t, err, financeErrors.ErrNotFound)
	})
}

func TestBudgetRepository_Postgres(t *testing.T) {
	db := dbtest.StartPostgres(t)
	repo := NewBudgetRepository(db)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, db, "alice")

	first := &domain.Budget{UserID: alice, Category: "food", Amount: decimal.RequireFromString("300.25"), Period: domain.PeriodMonthly}
	second := &domain.Budget{UserID: alice, Category: "travel", Amount: decimal.NewFromInt(2000), Period: domain.PeriodYearly}
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	list, err := repo.FindByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.True(t, first.Amount.Equal(list[0].Amount))

	got, err := repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodYearly, got.Period)

	require.NoError(t, repo.Delete(ctx, first.ID, alice))
	assert.ErrorIs(t, repo.Delete(ctx, first.ID, alice), financeErrors.ErrNotFound)
}

func TestSavingsGoalRepository_Postgres(t *testing.T) {
	db := dbtest.StartPostgres(t)
	repo := NewSavingsGoalRepository(db)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, db, "alice")

	goal := &domain.SavingsGoal{
		UserID:        alice,
		Name:          "Bike",
		TargetAmount:  decimal.NewFromInt(900),
		CurrentAmount: decimal.NewFromInt(100),
		DateCreated:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Save(ctx, goal))

	list, err := repo.FindByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bike", list[0].Name)
	assert.True(t, goal.DateCreated.Equal(list[0].DateCreated))

	_, err = repo.FindByID(ctx, goal.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, goal.ID, alice))
	_, err = repo.FindByID(ctx, goal.ID)
	assert.ErrorIs(t, err, financeErrors.ErrNotFound)
}
