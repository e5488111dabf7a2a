package sqlite

import (
	"context"

	"github.com/google/uuid"
	"github.com/isdelr/keypulse-be/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store bundles the SQLite repositories behind the store.Store port.
type Store struct {
	*AccountRepo
	*CredentialRepo
	db *DB
}

// NewStore wraps an open, migrated DB.
func NewStore(db *DB) *Store {
	return &Store{
		AccountRepo:    NewAccountRepo(db),
		CredentialRepo: NewCredentialRepo(db),
		db:             db,
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close releases both connections.
func (s *Store) Close() error {
	return s.db.Close()
}

// Open opens the database at path, applies migrations and returns a Store.
// The path ":memory:" selects a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	var (
		db  *DB
		err error
	)
	if path == ":memory:" {
		db, err = NewMemoryDB(ctx, "keypulse-"+uuid.NewString())
	} else {
		db, err = NewDB(ctx, path)
	}
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewStore(db), nil
}
