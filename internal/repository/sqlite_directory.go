package repository

import (
	"context"
	"database/sql"
	"fmt"

	"SigFlow/internal/domain/models"
	drepo "SigFlow/internal/domain/repository"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDirectory reads trading accounts from the SQLite store owned by the
// account-management service. The engine only reads; writers race with us
// between cycles and that is fine, each cycle takes a fresh snapshot.
type SQLiteDirectory struct {
	db *sql.DB
}

// NewSQLiteDirectory opens the account database.
func NewSQLiteDirectory(path string) (*SQLiteDirectory, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteDirectory{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			name           TEXT    NOT NULL UNIQUE,
			broker         TEXT    NOT NULL DEFAULT '',
			account_number TEXT    NOT NULL DEFAULT '',
			balance        REAL    NOT NULL DEFAULT 0,
			is_active      INTEGER NOT NULL DEFAULT 1
		)
	`)
	if err != nil {
		return fmt.Errorf("sqlite schema: %w", err)
	}
	return nil
}

// ListActive returns active accounts ordered by id. That order is the order
// the engine evaluates them in.
func (d *SQLiteDirectory) ListActive(ctx context.Context) ([]models.Account, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name, broker, account_number, balance, is_active
		FROM accounts
		WHERE is_active = 1
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", drepo.ErrDirectoryUnavailable, err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Broker, &a.AccountNumber, &a.Balance, &a.Active); err != nil {
			return nil, fmt.Errorf("sqlite scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", drepo.ErrDirectoryUnavailable, err)
	}
	return accounts, nil
}

// Seed inserts an account if it does not exist yet. Used by local setups and
// tests; the production writer is the account-management service.
func (d *SQLiteDirectory) Seed(ctx context.Context, a models.Account) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO accounts (name, broker, account_number, balance, is_active)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, a.Name, a.Broker, a.AccountNumber, a.Balance, boolToInt(a.Active))
	if err != nil {
		return fmt.Errorf("sqlite seed account: %w", err)
	}
	return nil
}

// Health checks the store is reachable.
func (d *SQLiteDirectory) Health(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close releases the database handle.
func (d *SQLiteDirectory) Close() error {
	return d.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ drepo.AccountDirectory = (*SQLiteDirectory)(nil)
