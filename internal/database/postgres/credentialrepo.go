package postgres

import (
	"context"
	"fmt"

	"github.com/isdelr/keypulse-be/internal/store"
)

var _ store.CredentialStore = (*CredentialRepo)(nil)

type CredentialRepo struct {
	db *DB
}

func NewCredentialRepo(db *DB) *CredentialRepo {
	return &CredentialRepo{db: db}
}

// ListCredentials returns the rows owned by userID in insertion order.
func (r *CredentialRepo) ListCredentials(ctx context.Context, userID string) ([]store.CredentialRow, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, user_id, site, username, password, created_at, updated_at
		FROM passwords
		WHERE user_id = $1
		ORDER BY seq
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list passwords: %w", err)
	}
	defer rows.Close()

	var result []store.CredentialRow
	for rows.Next() {
		var row store.CredentialRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Site, &row.Username, &row.Secret, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan password: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passwords: %w", err)
	}
	return result, nil
}

func (r *CredentialRepo) InsertCredential(ctx context.Context, row store.CredentialRow) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO passwords (id, user_id, site, username, password, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, row.ID, row.UserID, row.Site, row.Username, row.Secret, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert password %q: %w", row.ID, err)
	}
	return nil
}

// UpdateCredential overwrites the earliest row matching (userID, id).
func (r *CredentialRepo) UpdateCredential(ctx context.Context, userID, id string, changes store.CredentialChanges) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE passwords
		SET site = $1, username = $2, password = $3, updated_at = $4
		WHERE seq = (SELECT seq FROM passwords WHERE user_id = $5 AND id = $6 ORDER BY seq LIMIT 1)
	`, changes.Site, changes.Username, changes.Secret, changes.UpdatedAt, userID, id)
	if err != nil {
		return 0, fmt.Errorf("update password %q: %w", id, err)
	}
	return tag.RowsAffected(), nil
}

// DeleteCredential removes the earliest row matching (userID, id).
func (r *CredentialRepo) DeleteCredential(ctx context.Context, userID, id string) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		DELETE FROM passwords
		WHERE seq = (SELECT seq FROM passwords WHERE user_id = $1 AND id = $2 ORDER BY seq LIMIT 1)
	`, userID, id)
	if err != nil {
		return 0, fmt.Errorf("delete password %q: %w", id, err)
	}
	return tag.RowsAffected(), nil
}
