// Package domain defines core domain models and errors for stored cloud credentials.
package domain

import (
	"github.com/allisson/actionserver/internal/errors"
)

// Credential-specific error definitions.
var (
	// ErrCredentialNotFound indicates no credential is stored under the requested name.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "credential not found")

	// ErrCredentialAlreadyExists indicates a concurrent write already stored a
	// credential under the same name.
	ErrCredentialAlreadyExists = errors.Wrap(errors.ErrConflict, "credential already exists")

	// ErrStorageKeyUnavailable indicates a row was sealed with a storage key
	// that is no longer present in the keychain. Re-sealing requires the
	// original key to be restored first.
	ErrStorageKeyUnavailable = errors.Wrap(errors.ErrConfiguration, "storage key unavailable")

	// ErrSealerMismatch indicates a row was sealed by the other sealer kind
	// than the one currently configured (keychain vs KMS keeper).
	ErrSealerMismatch = errors.Wrap(errors.ErrConfiguration, "credential sealed with a different sealer")
)
