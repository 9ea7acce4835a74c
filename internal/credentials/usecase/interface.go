// Package usecase implements business logic for the stored cloud credential
// lifecycle: sealing values for persistence, unsealing them on access, and
// registering every unsealed value for output redaction before it is handed
// to a caller.
package usecase

import (
	"context"

	"github.com/google/uuid"

	credentialsDomain "github.com/allisson/actionserver/internal/credentials/domain"
)

// CredentialRepository defines the interface for CloudCredential persistence operations.
type CredentialRepository interface {
	Create(ctx context.Context, credential *credentialsDomain.CloudCredential) error
	Update(ctx context.Context, credential *credentialsDomain.CloudCredential) error
	GetByName(ctx context.Context, name string) (*credentialsDomain.CloudCredential, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Redactor registers unsealed values for output scrubbing.
type Redactor interface {
	HideFromOutput(value string)
}

// CredentialUseCase defines the interface for the cloud credential lifecycle.
type CredentialUseCase interface {
	// Save seals value and persists it under name, creating the row or
	// replacing an existing one atomically.
	Save(
		ctx context.Context,
		name string,
		value []byte,
		hostname string,
	) (*credentialsDomain.CloudCredential, error)

	// Get returns the named credential with Plaintext populated. The unsealed
	// value is registered with the redactor before the credential is returned.
	Get(ctx context.Context, name string) (*credentialsDomain.CloudCredential, error)

	// Delete removes the named credential.
	Delete(ctx context.Context, name string) error

	// Hostname returns the endpoint hostname stored for the named credential.
	// The configured default is assigned before the lookup, so a missing
	// credential or a lookup failure yields the default rather than an empty
	// value.
	Hostname(ctx context.Context, name string) string
}
