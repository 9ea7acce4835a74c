package service

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/actionserver/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSService opens keepers for sealing stored cloud credentials when the
// operator configures a cloud key management service instead of the local
// storage keychain. Backed by gocloud.dev/secrets, so the key URI scheme
// selects the provider.
type KMSService interface {
	// OpenKeeper opens a keeper for the key named by keyURI. Returns an error
	// when the URI scheme has no registered provider or the provider rejects
	// the key.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

// kmsService implements KMSService using gocloud.dev/secrets.
type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a keeper for keyURI. Supported schemes: gcpkms://,
// awskms://, azurekeyvault://, hashivault://, and base64key:// for a local
// software key.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}
