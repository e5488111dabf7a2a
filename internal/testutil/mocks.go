// Package testutil provides testify mocks for the service and store ports.
package testutil

import (
	"context"

	"github.com/isdelr/keypulse-be/internal/models"
	"github.com/isdelr/keypulse-be/internal/services"
	"github.com/isdelr/keypulse-be/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockAccountStore mocks store.AccountStore
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) CreateAccount(ctx context.Context, account models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountStore) GetAccountByUsername(ctx context.Context, username string) (models.Account, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(models.Account), args.Error(1)
}

// MockCredentialStore mocks store.CredentialStore
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) ListCredentials(ctx context.Context, userID string) ([]store.CredentialRow, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.CredentialRow), args.Error(1)
}

func (m *MockCredentialStore) InsertCredential(ctx context.Context, row store.CredentialRow) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockCredentialStore) UpdateCredential(ctx context.Context, userID, id string, changes store.CredentialChanges) (int64, error) {
	args := m.Called(ctx, userID, id, changes)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCredentialStore) DeleteCredential(ctx context.Context, userID, id string) (int64, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenIssuer mocks services.TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Generate(account models.Account) (string, error) {
	args := m.Called(account)
	return args.String(0), args.Error(1)
}

// MockAccountService mocks services.AccountServiceProvider
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, username, password string) (models.Account, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(models.Account), args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

// MockVaultService mocks services.VaultServiceProvider
type MockVaultService struct {
	mock.Mock
}

func (m *MockVaultService) List(ctx context.Context, userID string) ([]models.Credential, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Credential), args.Error(1)
}

func (m *MockVaultService) Create(ctx context.Context, userID string, input services.CredentialInput) (models.Credential, models.WriteResult, error) {
	args := m.Called(ctx, userID, input)
	return args.Get(0).(models.Credential), args.Get(1).(models.WriteResult), args.Error(2)
}

func (m *MockVaultService) Update(ctx context.Context, userID, id string, input services.CredentialInput) (models.WriteResult, error) {
	args := m.Called(ctx, userID, id, input)
	return args.Get(0).(models.WriteResult), args.Error(1)
}

func (m *MockVaultService) Delete(ctx context.Context, userID, id string) (models.WriteResult, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(models.WriteResult), args.Error(1)
}

// MockPinger mocks anything with a Ping(ctx) error method.
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
