package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
)

// DBService represents a service that interacts with a database.
type DBService struct {
	DB  *sql.DB
	log logrus.FieldLogger
}

// NewDBService opens a pgx-backed connection pool and verifies it with a ping.
func NewDBService(ctx context.Context, connStr string, log logrus.FieldLogger) (*DBService, error) {
	if connStr == "" {
		return nil, fmt.Errorf("missing database connection string")
	}

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("could not open db connection: %w", err)
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not connect to the database: %w", err)
	}

	return &DBService{DB: db, log: log}, nil
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *DBService) Health(ctx context.Context) map[string]string {
	stats := make(map[string]string)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.DB.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	dbStats := s.DB.Stats()
	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["open_connections"] = fmt.Sprintf("%d", dbStats.OpenConnections)
	stats["in_use"] = fmt.Sprintf("%d", dbStats.InUse)
	return stats
}

// Close closes the database connection.
func (s *DBService) Close() error {
	s.log.Info("Closing database connection")
	return s.DB.Close()
}
