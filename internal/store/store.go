// Package store defines the persistence ports used by the account and vault
// services. Adapters live under internal/database.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/isdelr/keypulse-be/internal/models"
)

var (
	// ErrNotFound is returned when no row matches a lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate key")
)

// CredentialRow is a credential as persisted: Secret carries the encrypted
// password, never plaintext.
type CredentialRow struct {
	ID        string
	UserID    string
	Site      string
	Username  string
	Secret    string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// CredentialChanges is the full overwrite applied by an update.
type CredentialChanges struct {
	Site      string
	Username  string
	Secret    string
	UpdatedAt time.Time
}

// AccountStore persists accounts.
type AccountStore interface {
	// CreateAccount inserts a new account. Returns ErrDuplicate when the
	// username is already taken.
	CreateAccount(ctx context.Context, account models.Account) error
	// GetAccountByUsername returns the account including its password hash,
	// or ErrNotFound.
	GetAccountByUsername(ctx context.Context, username string) (models.Account, error)
}

// CredentialStore persists credential rows. Every method that targets a single
// row filters on both the record id and the owning user id; when duplicates
// exist, the earliest inserted row is the one affected.
type CredentialStore interface {
	ListCredentials(ctx context.Context, userID string) ([]CredentialRow, error)
	InsertCredential(ctx context.Context, row CredentialRow) error
	// UpdateCredential returns the number of matched rows (0 or 1).
	UpdateCredential(ctx context.Context, userID, id string, changes CredentialChanges) (int64, error)
	// DeleteCredential returns the number of deleted rows (0 or 1).
	DeleteCredential(ctx context.Context, userID, id string) (int64, error)
}

// Store is the full persistence handle opened once at startup.
type Store interface {
	AccountStore
	CredentialStore
	Ping(ctx context.Context) error
	Close() error
}
