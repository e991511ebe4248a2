package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dappforge/dappforge-backend/config"
	"github.com/dappforge/dappforge-backend/internal/deployments/repository"
	"github.com/dappforge/dappforge-backend/internal/storage/postgres"
)

type DBOptions struct {
	Config   *config.DatabaseConfig
	PingTO   time.Duration
	SchemaTO time.Duration
}

// OpenDB connects and makes sure the projects table exists.
func OpenDB(ctx context.Context, opt DBOptions) (*sql.DB, *repository.Ledger, error) {
	if opt.Config == nil {
		return nil, nil, fmt.Errorf("database config is not set")
	}
	if opt.SchemaTO == 0 {
		opt.SchemaTO = 10 * time.Second
	}

	db, err := postgres.NewConnection(ctx, opt.Config, opt.PingTO)
	if err != nil {
		return nil, nil, err
	}

	ledger := repository.NewLedger(db)

	sctx, cancel := context.WithTimeout(ctx, opt.SchemaTO)
	defer cancel()
	if err := ledger.EnsureSchema(sctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db schema: %w", err)
	}

	return db, ledger, nil
}
