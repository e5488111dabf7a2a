package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/keypulse-be/internal/models"
	"github.com/isdelr/keypulse-be/internal/store"
	"github.com/rs/zerolog/log"
)

// VaultServiceProvider defines the interface for credential vault services.
// Every method is scoped to the owning account id.
type VaultServiceProvider interface {
	List(ctx context.Context, userID string) ([]models.Credential, error)
	Create(ctx context.Context, userID string, input CredentialInput) (models.Credential, models.WriteResult, error)
	Update(ctx context.Context, userID, id string, input CredentialInput) (models.WriteResult, error)
	Delete(ctx context.Context, userID, id string) (models.WriteResult, error)
}

// SecretCipher encrypts credential passwords at rest.
type SecretCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(value string) (string, error)
}

// CredentialInput is the client-supplied part of a credential. ID is only
// read by Create, where a blank value means "generate one".
type CredentialInput struct {
	ID       string
	Site     string
	Username string
	Password string
}

func (in CredentialInput) normalize() (CredentialInput, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Site = strings.TrimSpace(in.Site)
	in.Username = strings.TrimSpace(in.Username)
	in.Password = strings.TrimSpace(in.Password)
	err := requireFields(
		field{"site", "Site", in.Site},
		field{"username", "Username", in.Username},
		field{"password", "Password", in.Password},
	)
	return in, err
}

// VaultService provides business logic for encrypted credential records.
type VaultService struct {
	credentials store.CredentialStore
	cipher      SecretCipher
	now         func() time.Time
}

// NewVaultService creates a new VaultService.
func NewVaultService(credentials store.CredentialStore, cipher SecretCipher) *VaultService {
	return &VaultService{
		credentials: credentials,
		cipher:      cipher,
		now:         time.Now,
	}
}

// List returns every credential owned by userID with its password decrypted.
// A secret that fails to decrypt is replaced by models.DecryptionFailedMarker.
func (s *VaultService) List(ctx context.Context, userID string) ([]models.Credential, error) {
	rows, err := s.credentials.ListCredentials(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}

	credentials := make([]models.Credential, 0, len(rows))
	for _, row := range rows {
		password, err := s.cipher.Decrypt(row.Secret)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Str("credential_id", row.ID).Msg("Failed to decrypt stored password")
			password = models.DecryptionFailedMarker
		}
		credentials = append(credentials, models.Credential{
			ID:        row.ID,
			UserID:    row.UserID,
			Site:      row.Site,
			Username:  row.Username,
			Password:  password,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return credentials, nil
}

// Create encrypts and stores a new credential. The returned credential carries
// the caller's plaintext password.
func (s *VaultService) Create(ctx context.Context, userID string, input CredentialInput) (models.Credential, models.WriteResult, error) {
	input, err := input.normalize()
	if err != nil {
		return models.Credential{}, models.WriteResult{}, err
	}

	secret, err := s.cipher.Encrypt(input.Password)
	if err != nil {
		return models.Credential{}, models.WriteResult{}, fmt.Errorf("encrypt password: %w", err)
	}

	id := input.ID
	if id == "" {
		id = uuid.New().String()
	}

	row := store.CredentialRow{
		ID:        id,
		UserID:    userID,
		Site:      input.Site,
		Username:  input.Username,
		Secret:    secret,
		CreatedAt: s.now().UTC(),
	}
	if err := s.credentials.InsertCredential(ctx, row); err != nil {
		return models.Credential{}, models.WriteResult{}, fmt.Errorf("insert credential: %w", err)
	}

	credential := models.Credential{
		ID:        row.ID,
		UserID:    row.UserID,
		Site:      row.Site,
		Username:  row.Username,
		Password:  input.Password,
		CreatedAt: row.CreatedAt,
	}
	return credential, models.WriteResult{Acknowledged: true, InsertedID: id}, nil
}

// Update overwrites site, username and password of the caller's credential id.
func (s *VaultService) Update(ctx context.Context, userID, id string, input CredentialInput) (models.WriteResult, error) {
	input, err := input.normalize()
	if err != nil {
		return models.WriteResult{}, err
	}

	secret, err := s.cipher.Encrypt(input.Password)
	if err != nil {
		return models.WriteResult{}, fmt.Errorf("encrypt password: %w", err)
	}

	matched, err := s.credentials.UpdateCredential(ctx, userID, id, store.CredentialChanges{
		Site:      input.Site,
		Username:  input.Username,
		Secret:    secret,
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		return models.WriteResult{}, fmt.Errorf("update credential: %w", err)
	}
	if matched == 0 {
		return models.WriteResult{}, ErrCredentialNotFound
	}

	return models.WriteResult{Acknowledged: true, MatchedCount: &matched, ModifiedCount: &matched}, nil
}

// Delete removes the caller's credential id.
func (s *VaultService) Delete(ctx context.Context, userID, id string) (models.WriteResult, error) {
	deleted, err := s.credentials.DeleteCredential(ctx, userID, id)
	if err != nil {
		return models.WriteResult{}, fmt.Errorf("delete credential: %w", err)
	}
	if deleted == 0 {
		return models.WriteResult{}, ErrCredentialNotFound
	}

	return models.WriteResult{Acknowledged: true, DeletedCount: &deleted}, nil
}

