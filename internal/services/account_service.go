package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/keypulse-be/internal/models"
	"github.com/isdelr/keypulse-be/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt cost for account passphrases.
const PasswordHashCost = 10

// AccountServiceProvider defines the interface for account services.
type AccountServiceProvider interface {
	Register(ctx context.Context, username, password string) (models.Account, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// TokenIssuer issues bearer tokens for authenticated accounts.
type TokenIssuer interface {
	Generate(account models.Account) (string, error)
}

// AccountService provides registration and login.
type AccountService struct {
	accounts  store.AccountStore
	tokens    TokenIssuer
	cost      int
	dummyHash []byte
	now       func() time.Time
}

// NewAccountService creates a new AccountService.
func NewAccountService(accounts store.AccountStore, tokens TokenIssuer) *AccountService {
	return newAccountService(accounts, tokens, PasswordHashCost)
}

func newAccountService(accounts store.AccountStore, tokens TokenIssuer, cost int) *AccountService {
	// Compared against when the username is unknown so both login failures
	// take comparable time. A nil hash would make that compare return at once.
	dummy, err := bcrypt.GenerateFromPassword([]byte("keypulse-dummy-passphrase"), cost)
	if err != nil {
		panic(fmt.Sprintf("services: generate dummy hash: %v", err))
	}
	return &AccountService{
		accounts:  accounts,
		tokens:    tokens,
		cost:      cost,
		dummyHash: dummy,
		now:       time.Now,
	}
}

// Register creates a new account, hashing its passphrase.
func (s *AccountService) Register(ctx context.Context, username, password string) (models.Account, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if err := requireFields(
		field{"username", "Username", username},
		field{"password", "Password", password},
	); err != nil {
		return models.Account{}, err
	}

	_, err := s.accounts.GetAccountByUsername(ctx, username)
	switch {
	case err == nil:
		return models.Account{}, ErrUsernameTaken
	case !errors.Is(err, store.ErrNotFound):
		return models.Account{}, fmt.Errorf("look up username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	account := models.Account{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hashedPassword),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return models.Account{}, ErrUsernameTaken
		}
		return models.Account{}, fmt.Errorf("create account: %w", err)
	}

	// Return account without password hash
	account.PasswordHash = ""
	return account, nil
}

// Login verifies an account's credentials and returns a signed token.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if err := requireFields(
		field{"username", "Username", username},
		field{"password", "Password", password},
	); err != nil {
		return "", err
	}

	account, err := s.accounts.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("look up username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(account)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}
