package database

import (
	"context"
	"database/sql"
	"fmt"
)

type migration struct {
	name       string
	statements []string
}

// Migrations are applied in order and recorded in schema_migrations.
// Dependent rows use ON DELETE RESTRICT: a user that still owns records cannot be removed.
var migrations = []migration{
	{
		name: "0001_initial_schema",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id            BIGSERIAL PRIMARY KEY,
				username      VARCHAR(150) NOT NULL UNIQUE,
				email         VARCHAR(150) NOT NULL UNIQUE,
				password_hash VARCHAR(255) NOT NULL,
				created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE TABLE IF NOT EXISTS transactions (
				id               BIGSERIAL PRIMARY KEY,
				user_id          BIGINT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
				amount           NUMERIC(14, 2) NOT NULL,
				category         VARCHAR(100) NOT NULL,
				transaction_type VARCHAR(50) NOT NULL,
				date             TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions (user_id, date DESC)`,
			`CREATE TABLE IF NOT EXISTS budgets (
				id       BIGSERIAL PRIMARY KEY,
				user_id  BIGINT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
				category VARCHAR(100) NOT NULL,
				amount   NUMERIC(14, 2) NOT NULL,
				period   VARCHAR(50) NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_budgets_user ON budgets (user_id)`,
			`CREATE TABLE IF NOT EXISTS savings_goals (
				id             BIGSERIAL PRIMARY KEY,
				user_id        BIGINT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
				name           VARCHAR(150) NOT NULL,
				target_amount  NUMERIC(14, 2) NOT NULL,
				current_amount NUMERIC(14, 2) NOT NULL DEFAULT 0,
				date_created   TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE INDEX IF NOT EXISTS idx_savings_goals_user ON savings_goals (user_id)`,
		},
	},
	{
		name: "0002_add_frequency_to_transaction",
		statements: []string{
			`ALTER TABLE transactions ADD COLUMN IF NOT EXISTS frequency VARCHAR(20)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_frequency ON transactions (frequency) WHERE frequency IS NOT NULL`,
		},
	},
}

// Migrate applies pending migrations and returns the names of the ones it ran.
func Migrate(ctx context.Context, db *sql.DB) ([]string, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name       VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return nil, fmt.Errorf("could not create schema_migrations table: %w", err)
	}

	var applied []string
	for _, m := range migrations {
		var exists bool
		err := db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name = $1)", m.name).Scan(&exists)
		if err != nil {
			return applied, fmt.Errorf("could not check migration %s: %w", m.name, err)
		}
		if exists {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return applied, err
		}
		applied = append(applied, m.name)
	}
	return applied, nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin migration %s: %w", m.name, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range m.statements {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}
	}
	if _, err = tx.ExecContext(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", m.name); err != nil {
		return fmt.Errorf("could not record migration %s: %w", m.name, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit migration %s: %w", m.name, err)
	}
	return nil
}
