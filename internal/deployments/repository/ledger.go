package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dappforge/dappforge-backend/internal/deployments/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS projects (
		id               BIGSERIAL PRIMARY KEY,
		owner_address    TEXT NOT NULL,
		type             TEXT NOT NULL,
		name             TEXT NOT NULL DEFAULT '',
		transaction_hash TEXT NOT NULL
	)
`

const ownerIndex = `CREATE INDEX IF NOT EXISTS projects_owner_address_idx ON projects (owner_address)`

// Ledger is the append-only record of successful deployments.
type Ledger struct {
	db *sql.DB
}

// NewLedger creates a new Ledger
func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// EnsureSchema creates the projects table if it is absent.
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, schema); err != nil {
		return &domain.StorageError{Op: "create schema", Err: err}
	}
	if _, err := l.db.ExecContext(ctx, ownerIndex); err != nil {
		return &domain.StorageError{Op: "create index", Err: err}
	}
	return nil
}

// Record inserts one deployment and returns its id.
func (l *Ledger) Record(ctx context.Context, owner string, contractType domain.ContractType, name, receipt string) (int64, error) {
	query := `
		INSERT INTO projects (owner_address, type, name, transaction_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	if err := l.db.QueryRowContext(ctx, query, owner, string(contractType), name, receipt).Scan(&id); err != nil {
		return 0, &domain.StorageError{Op: "record project", Err: err}
	}
	return id, nil
}

// ListByOwner returns the owner's projects in insertion order. The match is
// exact and case-sensitive.
func (l *Ledger) ListByOwner(ctx context.Context, owner string) ([]domain.Project, error) {
	query := `
		SELECT id, owner_address, type, name, transaction_hash
		FROM projects
		WHERE owner_address = $1
		ORDER BY id ASC
	`

	rows, err := l.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, &domain.StorageError{Op: "list projects", Err: err}
	}
	defer rows.Close()

	projects := make([]domain.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, &domain.StorageError{Op: "scan project", Err: err}
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list projects", Err: err}
	}
	return projects, nil
}

// GetByID returns one project or domain.ErrProjectNotFound.
func (l *Ledger) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	query := `
		SELECT id, owner_address, type, name, transaction_hash
		FROM projects
		WHERE id = $1
	`

	p, err := scanProject(l.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "get project", Err: err}
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p            domain.Project
		contractType string
	)
	if err := row.Scan(&p.ID, &p.OwnerAddress, &contractType, &p.Name, &p.TransactionHash); err != nil {
		return nil, err
	}
	p.Type = domain.ContractType(contractType)
	return &p, nil
}
