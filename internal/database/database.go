package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Service owns the database handle and exposes health information about it.
type Service struct {
	db *sql.DB
}

// New opens a Postgres connection pool through the pgx stdlib driver and
// verifies connectivity before returning.
func New(cfg config.DatabaseConfig) (*Service, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Service{db: db}, nil
}

// DB exposes the underlying handle for repositories and migrations.
func (s *Service) DB() *sql.DB {
	return s.db
}

// Health returns a status map suitable for the health endpoint.
func (s *Service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	stats := map[string]string{"status": "up"}

	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	dbStats := s.db.Stats()
	stats["open_connections"] = fmt.Sprintf("%d", dbStats.OpenConnections)
	stats["in_use"] = fmt.Sprintf("%d", dbStats.InUse)
	stats["idle"] = fmt.Sprintf("%d", dbStats.Idle)

	return stats
}

// Close closes the underlying connection pool.
func (s *Service) Close() error {
	return s.db.Close()
}
