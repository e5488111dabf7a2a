package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/isdelr/keypulse-be/internal/models"
	"github.com/isdelr/keypulse-be/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var _ store.AccountStore = (*AccountRepo)(nil)

type AccountRepo struct {
	db *DB
}

func NewAccountRepo(db *DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) CreateAccount(ctx context.Context, account models.Account) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, account.ID, account.Username, account.PasswordHash, account.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("insert user %q: %w", account.Username, err)
	}
	return nil
}

func (r *AccountRepo) GetAccountByUsername(ctx context.Context, username string) (models.Account, error) {
	var account models.Account
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users WHERE username = $1
	`, username).Scan(&account.ID, &account.Username, &account.PasswordHash, &account.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Account{}, store.ErrNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("get user %q: %w", username, err)
	}
	return account, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
