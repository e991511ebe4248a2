package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dappforge/dappforge-backend/config"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/lib/pq"              // registers "postgres"
)

const defaultPingTimeout = 2 * time.Second

// NewConnection opens a pool on the configured driver and pings it once.
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig, pingTimeout time.Duration) (*sql.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "pgx"
	}

	db, err := sql.Open(driver, DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}
