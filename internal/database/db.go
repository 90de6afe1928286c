package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"ticketdesk/internal/metrics"
)

type DB struct {
	*sql.DB
}

type Config struct {
	Enabled            bool
	Host               string
	Port               int
	User               string
	Password           string
	DBName             string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	ConnMaxIdleTimeMin int
}

// DSN returns the lib/pq connection string
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

func Connect(ctx context.Context, cfg Config) (*DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMin) * time.Minute)
	db.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTimeMin) * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Connected to database",
		"host", cfg.Host, "port", cfg.Port, "dbname", cfg.DBName,
		"max_open_conns", cfg.MaxOpenConns, "max_idle_conns", cfg.MaxIdleConns)

	return &DB{db}, nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// HealthCheck pings the ledger and fails when every pooled connection is
// busy with callers already queued behind them
func (db *DB) HealthCheck(ctx context.Context) error {
	stats := db.Stats()
	metrics.LedgerPoolConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
	metrics.LedgerPoolConnections.WithLabelValues("idle").Set(float64(stats.Idle))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		slog.Error("Ledger health check failed", "error", err)
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if poolExhausted(stats) {
		return fmt.Errorf("database pool exhausted: %d of %d connections in use, %d waits",
			stats.InUse, stats.MaxOpenConnections, stats.WaitCount)
	}
	return nil
}

func poolExhausted(stats sql.DBStats) bool {
	return stats.MaxOpenConnections > 0 && stats.InUse >= stats.MaxOpenConnections && stats.WaitCount > 0
}
