package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	credentialsDomain "github.com/allisson/actionserver/internal/credentials/domain"
	credentialsService "github.com/allisson/actionserver/internal/credentials/service"
	"github.com/allisson/actionserver/internal/database"
	apperrors "github.com/allisson/actionserver/internal/errors"
)

// credentialUseCase implements the CredentialUseCase interface.
type credentialUseCase struct {
	txManager       database.TxManager
	credentialRepo  CredentialRepository
	sealer          credentialsService.CredentialSealer
	redactor        Redactor
	defaultHostname string
}

// Save seals the value and persists it under the given name.
func (c *credentialUseCase) Save(
	ctx context.Context,
	name string,
	value []byte,
	hostname string,
) (*credentialsDomain.CloudCredential, error) {
	sealed, err := c.sealer.Seal(ctx, value)
	if err != nil {
		return nil, err
	}

	// The exists-check and write run in one transaction so two concurrent
	// saves cannot both insert; the loser hits the unique name constraint.
	var saved *credentialsDomain.CloudCredential
	err = c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		existing, err := c.credentialRepo.GetByName(txCtx, name)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		if existing != nil {
			existing.Ciphertext = sealed.Ciphertext
			existing.Nonce = sealed.Nonce
			existing.Algorithm = sealed.Algorithm
			existing.StorageKeyID = sealed.StorageKeyID
			existing.Hostname = hostname
			existing.UpdatedAt = time.Now().UTC()
			saved = existing
			return c.credentialRepo.Update(txCtx, existing)
		}

		now := time.Now().UTC()
		saved = &credentialsDomain.CloudCredential{
			ID:           uuid.Must(uuid.NewV7()),
			Name:         name,
			Ciphertext:   sealed.Ciphertext,
			Nonce:        sealed.Nonce,
			Algorithm:    sealed.Algorithm,
			StorageKeyID: sealed.StorageKeyID,
			Hostname:     hostname,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return c.credentialRepo.Create(txCtx, saved)
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}

// Get retrieves and unseals the named credential.
func (c *credentialUseCase) Get(
	ctx context.Context,
	name string,
) (*credentialsDomain.CloudCredential, error) {
	credential, err := c.credentialRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	plaintext, err := c.sealer.Unseal(ctx, credential)
	if err != nil {
		return nil, err
	}

	// Register the unsealed value before exposing it: callers may log the
	// credential or pass it to a child process.
	c.redactor.HideFromOutput(string(plaintext))

	credential.Plaintext = plaintext
	return credential, nil
}

// Delete removes the named credential.
func (c *credentialUseCase) Delete(ctx context.Context, name string) error {
	credential, err := c.credentialRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}

	return c.credentialRepo.Delete(ctx, credential.ID)
}

// Hostname returns the endpoint hostname for the named credential.
func (c *credentialUseCase) Hostname(ctx context.Context, name string) string {
	// Assigned before the lookup: no failure path below can surface an unset
	// hostname.
	hostname := c.defaultHostname

	credential, err := c.credentialRepo.GetByName(ctx, name)
	if err != nil {
		return hostname
	}

	if credential.Hostname != "" {
		hostname = credential.Hostname
	}

	return hostname
}

// NewCredentialUseCase creates a new credential use case instance with the provided dependencies.
func NewCredentialUseCase(
	txManager database.TxManager,
	credentialRepo CredentialRepository,
	sealer credentialsService.CredentialSealer,
	redactor Redactor,
	defaultHostname string,
) CredentialUseCase {
	return &credentialUseCase{
		txManager:       txManager,
		credentialRepo:  credentialRepo,
		sealer:          sealer,
		redactor:        redactor,
		defaultHostname: defaultHostname,
	}
}
