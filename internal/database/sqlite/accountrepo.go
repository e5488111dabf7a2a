package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/keypulse-be/internal/models"
	"github.com/isdelr/keypulse-be/internal/store"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Compile-time interface satisfaction check.
var _ store.AccountStore = (*AccountRepo)(nil)

// AccountRepo is the SQLite implementation of store.AccountStore.
type AccountRepo struct {
	db *DB
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(db *DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// CreateAccount inserts an account row.
func (r *AccountRepo) CreateAccount(ctx context.Context, account models.Account) error {
	const query = `INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.Writer.ExecContext(ctx, query,
		account.ID, account.Username, account.PasswordHash, formatTime(account.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("insert user %q: %w", account.Username, err)
	}
	return nil
}

// GetAccountByUsername retrieves an account, including its password hash.
func (r *AccountRepo) GetAccountByUsername(ctx context.Context, username string) (models.Account, error) {
	const query = `SELECT id, username, password_hash, created_at FROM users WHERE username = ?`

	var account models.Account
	var createdAt string
	err := r.db.Reader.QueryRowContext(ctx, query, username).
		Scan(&account.ID, &account.Username, &account.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, store.ErrNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("get user %q: %w", username, err)
	}

	account.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return models.Account{}, fmt.Errorf("parse created_at for user %q: %w", username, err)
	}
	return account, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *moderncsqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// Timestamps are stored as RFC 3339 text in UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
