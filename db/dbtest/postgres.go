// Package dbtest starts a disposable PostgreSQL container for repository tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	database "github.com/sebuszqo/PersonalFinance/db"
)

// StartPostgres returns a migrated database. The test is skipped in -short mode
// or when no container runtime is available.
func StartPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:16-alpine"),
		postgres.WithDatabase("finance"),
		postgres.WithUsername("finance"),
		postgres.WithPassword("finance"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("could not terminate postgres container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("could not get connection string: %v", err)
	}

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		t.Fatalf("could not open db connection: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("could not migrate: %v", err)
	}
	return db
}

// CreateUser inserts a bare user row and returns its id.
func CreateUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, 'x') RETURNING id`,
		username, username+"@example.com",
	).Scan(&id)
	if err != nil {
		t.Fatalf("could not create user %s: %v", username, err)
	}
	return id
}
