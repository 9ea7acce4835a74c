package domain

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/allisson/actionserver/internal/errors"
)

// Storage keychain error definitions.
//
// All of these wrap ErrConfiguration: a broken keychain is an operator
// problem and must never surface as client input validation.
var (
	// ErrStorageKeysNotSet indicates ACTION_SERVER_STORAGE_KEYS is not configured.
	ErrStorageKeysNotSet = errors.Wrap(errors.ErrConfiguration, "ACTION_SERVER_STORAGE_KEYS not set")

	// ErrActiveStorageKeyIDNotSet indicates ACTION_SERVER_ACTIVE_STORAGE_KEY_ID is not configured.
	ErrActiveStorageKeyIDNotSet = errors.Wrap(errors.ErrConfiguration, "ACTION_SERVER_ACTIVE_STORAGE_KEY_ID not set")

	// ErrInvalidStorageKeysFormat indicates an entry is not in "id:base64key" format.
	ErrInvalidStorageKeysFormat = errors.Wrap(errors.ErrConfiguration, "invalid ACTION_SERVER_STORAGE_KEYS format")

	// ErrInvalidStorageKeyBase64 indicates a key entry is not valid base64.
	ErrInvalidStorageKeyBase64 = errors.Wrap(errors.ErrConfiguration, "invalid storage key base64")

	// ErrActiveStorageKeyNotFound indicates the active key ID has no matching entry.
	ErrActiveStorageKeyNotFound = errors.Wrap(errors.ErrConfiguration, "active storage key not found")
)

// StorageKey represents a cryptographic key used to seal credentials at rest.
//
// Storage keys protect cloud credentials persisted in the database. They are
// independent from the context decryption keys used for inbound envelopes:
// rotating one set never invalidates the other.
//
// Security considerations:
//   - Storage keys must be 32 bytes (256 bits) for AES-256 compatibility
//   - Keys should be generated using cryptographically secure random generators
//   - Keys should be rotated periodically according to security policies
//   - Multiple storage keys can be maintained for key rotation scenarios
//
// Fields:
//   - ID: Unique identifier for the storage key (e.g., "storage-key-2026")
//   - Key: The raw 32-byte key material
type StorageKey struct {
	ID  string
	Key []byte
}

// StorageKeyChain manages a collection of storage keys with one designated as active.
//
// The keychain allows for key rotation by maintaining multiple storage keys
// simultaneously. Old keys remain available to unseal existing credentials
// while new credentials are sealed with the active key.
//
// Key rotation workflow:
//  1. Add a new storage key to the keychain
//  2. Set the new key as active
//  3. New credentials will be sealed with the new active key
//  4. Old credentials can still be unsealed using their original keys
//  5. Gradually re-seal old credentials with the new key
//
// Thread safety: The keychain uses sync.Map internally for concurrent access.
type StorageKeyChain struct {
	activeID string
	keys     sync.Map
}

// ActiveStorageKeyID returns the ID of the currently active storage key.
//
// The active storage key is used to seal newly stored credentials. This ID
// corresponds to the ACTION_SERVER_ACTIVE_STORAGE_KEY_ID environment variable.
func (s *StorageKeyChain) ActiveStorageKeyID() string {
	return s.activeID
}

// Get retrieves a storage key from the keychain by its ID.
//
// This method is used to obtain the appropriate key for unsealing credentials
// that were sealed with older keys (useful during key rotation).
func (s *StorageKeyChain) Get(id string) (*StorageKey, bool) {
	if storageKey, ok := s.keys.Load(id); ok {
		return storageKey.(*StorageKey), ok
	}

	return nil, false
}

// Close securely clears all storage keys from memory and resets the keychain.
//
// This method should be called when the keychain is no longer needed (e.g.,
// during application shutdown or when reloading configuration). Key material
// stays live and usable until Close runs; Close zeroes every key buffer the
// keychain owns before dropping the entries.
func (s *StorageKeyChain) Close() {
	s.activeID = ""
	s.keys.Range(func(key, value any) bool {
		if storageKey, ok := value.(*StorageKey); ok {
			Zero(storageKey.Key)
		}
		s.keys.Delete(key)
		return true
	})
}

// LoadStorageKeyChainFromEnv loads storage keys from environment variables.
//
// This function reads storage key configuration from two environment variables:
//   - ACTION_SERVER_STORAGE_KEYS: Comma-separated list of entries in format "id:base64key"
//   - ACTION_SERVER_ACTIVE_STORAGE_KEY_ID: ID of the key used to seal new credentials
//
// Format example:
//
//	ACTION_SERVER_STORAGE_KEYS="key1:YWJjZGVmZ2hpamtsbW5vcHFyc3R1dnd4eXoxMjM0NTY3OA==,key2:MTIzNDU2Nzg5MGFiY2RlZmdoaWprbG1ub3BxcnN0dXZ3eA=="
//	ACTION_SERVER_ACTIVE_STORAGE_KEY_ID="key2"
//
// Each storage key must be:
//   - Exactly 32 bytes when base64-decoded
//   - Uniquely identified by its ID
//   - Base64-encoded using standard encoding
//
// The keychain owns its key buffers: Get returns live key material, and the
// buffers are zeroed only when Close is called. On error, any partially
// loaded keychain is closed before returning.
//
// Returns:
//   - A fully initialized StorageKeyChain ready for use
//   - ErrStorageKeysNotSet if ACTION_SERVER_STORAGE_KEYS is not configured
//   - ErrActiveStorageKeyIDNotSet if ACTION_SERVER_ACTIVE_STORAGE_KEY_ID is not configured
//   - ErrInvalidStorageKeysFormat if the format is invalid
//   - ErrInvalidStorageKeyBase64 if base64 decoding fails
//   - ErrInvalidKeySize if a key is not exactly 32 bytes
//   - ErrActiveStorageKeyNotFound if the active key ID is not in the keychain
func LoadStorageKeyChainFromEnv() (*StorageKeyChain, error) {
	raw := os.Getenv("ACTION_SERVER_STORAGE_KEYS")
	if raw == "" {
		return nil, ErrStorageKeysNotSet
	}

	active := os.Getenv("ACTION_SERVER_ACTIVE_STORAGE_KEY_ID")
	if active == "" {
		return nil, ErrActiveStorageKeyIDNotSet
	}

	skc := &StorageKeyChain{activeID: active}

	// Entries are referenced by position in error messages so a malformed
	// entry never echoes key material back into logs.
	for i, part := range strings.Split(raw, ",") {
		p := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(p) != 2 {
			skc.Close()
			return nil, fmt.Errorf("%w: entry %d", ErrInvalidStorageKeysFormat, i)
		}
		id := p[0]
		key, err := base64.StdEncoding.DecodeString(p[1])
		if err != nil {
			skc.Close()
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidStorageKeyBase64, id, err)
		}
		if len(key) != KeySize {
			Zero(key)
			skc.Close()
			return nil, fmt.Errorf(
				"%w: storage key %s must be %d bytes, got %d",
				ErrInvalidKeySize,
				id,
				KeySize,
				len(key),
			)
		}
		skc.keys.Store(id, &StorageKey{ID: id, Key: key})
	}

	if _, ok := skc.Get(active); !ok {
		skc.Close()
		return nil, fmt.Errorf("%w: ACTION_SERVER_ACTIVE_STORAGE_KEY_ID=%s", ErrActiveStorageKeyNotFound, active)
	}

	return skc, nil
}
