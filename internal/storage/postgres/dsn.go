package postgres

import (
	"fmt"

	"github.com/dappforge/dappforge-backend/config"
)

// DSN prefers DB_DSN and otherwise builds a key/value string both drivers accept.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name,
	)
}
