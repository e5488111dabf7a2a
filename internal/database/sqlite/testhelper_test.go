package sqlite

import (
	"context"
	"testing"

	"github.com/isdelr/keypulse-be/internal/models"
	"github.com/stretchr/testify/require"
)

// setupTestDB opens a migrated in-memory database scoped to the test.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewMemoryDB(context.Background(), t.Name())
	require.NoError(t, err, "open test db")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(db.Writer), "run migrations")
	return db
}

// seedAccount inserts an owner so credential rows satisfy the foreign key.
func seedAccount(t *testing.T, db *DB, id, username string) {
	t.Helper()
	err := NewAccountRepo(db).CreateAccount(context.Background(), models.Account{
		ID:           id,
		Username:     username,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
}
