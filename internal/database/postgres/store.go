package postgres

import (
	"context"

	"github.com/isdelr/keypulse-be/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store bundles the PostgreSQL repositories behind the store.Store port.
type Store struct {
	*AccountRepo
	*CredentialRepo
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{
		AccountRepo:    NewAccountRepo(db),
		CredentialRepo: NewCredentialRepo(db),
		db:             db,
	}
}

// Open connects to databaseURL, applies migrations and returns a Store.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.db.Close()
	return nil
}
