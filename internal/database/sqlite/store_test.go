package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/isdelr/keypulse-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_FileDatabaseIsMigratedAndReopenable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vault.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.CreateAccount(ctx, models.Account{ID: "u-1", Username: "alice", PasswordHash: "h"}))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetAccountByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
}

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer s.Close()

	rows, err := s.ListCredentials(ctx, "anyone")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
