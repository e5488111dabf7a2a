package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/isdelr/keypulse-be/internal/store"
)

// Compile-time interface satisfaction check.
var _ store.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo is the SQLite implementation of store.CredentialStore.
type CredentialRepo struct {
	db *DB
}

// NewCredentialRepo creates a new CredentialRepo.
func NewCredentialRepo(db *DB) *CredentialRepo {
	return &CredentialRepo{db: db}
}

// ListCredentials returns all rows owned by userID in insertion order.
func (r *CredentialRepo) ListCredentials(ctx context.Context, userID string) ([]store.CredentialRow, error) {
	const query = `
		SELECT id, user_id, site, username, password, created_at, updated_at
		FROM passwords
		WHERE user_id = ?
		ORDER BY seq`
	rows, err := r.db.Reader.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list passwords: %w", err)
	}
	defer rows.Close()

	var result []store.CredentialRow
	for rows.Next() {
		var row store.CredentialRow
		var createdAt string
		var updatedAt sql.NullString
		if err := rows.Scan(&row.ID, &row.UserID, &row.Site, &row.Username, &row.Secret, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan password: %w", err)
		}

		row.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for password %q: %w", row.ID, err)
		}
		if updatedAt.Valid {
			t, err := parseTime(updatedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parse updated_at for password %q: %w", row.ID, err)
			}
			row.UpdatedAt = &t
		}

		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passwords: %w", err)
	}

	return result, nil
}

// InsertCredential stores a new row. Duplicate (user_id, id) pairs are accepted.
func (r *CredentialRepo) InsertCredential(ctx context.Context, row store.CredentialRow) error {
	const query = `
		INSERT INTO passwords (id, user_id, site, username, password, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.Writer.ExecContext(ctx, query,
		row.ID, row.UserID, row.Site, row.Username, row.Secret, formatTime(row.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert password %q: %w", row.ID, err)
	}
	return nil
}

// UpdateCredential overwrites the first row matching (userID, id).
func (r *CredentialRepo) UpdateCredential(ctx context.Context, userID, id string, changes store.CredentialChanges) (int64, error) {
	const query = `
		UPDATE passwords
		SET site = ?, username = ?, password = ?, updated_at = ?
		WHERE seq = (SELECT seq FROM passwords WHERE user_id = ? AND id = ? ORDER BY seq LIMIT 1)`
	res, err := r.db.Writer.ExecContext(ctx, query,
		changes.Site, changes.Username, changes.Secret, formatTime(changes.UpdatedAt), userID, id)
	if err != nil {
		return 0, fmt.Errorf("update password %q: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update password %q: rows affected: %w", id, err)
	}
	return n, nil
}

// DeleteCredential removes the first row matching (userID, id).
func (r *CredentialRepo) DeleteCredential(ctx context.Context, userID, id string) (int64, error) {
	const query = `
		DELETE FROM passwords
		WHERE seq = (SELECT seq FROM passwords WHERE user_id = ? AND id = ? ORDER BY seq LIMIT 1)`
	res, err := r.db.Writer.ExecContext(ctx, query, userID, id)
	if err != nil {
		return 0, fmt.Errorf("delete password %q: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete password %q: rows affected: %w", id, err)
	}
	return n, nil
}
