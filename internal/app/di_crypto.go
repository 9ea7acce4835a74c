package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/actionserver/internal/crypto/domain"
	cryptoService "github.com/allisson/actionserver/internal/crypto/service"
)

// AEADManager returns the cipher factory for at-rest encryption.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KMSService returns the KMS service used to open keepers by URI.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// KMSKeeper returns the keeper for the configured KMS key URI.
// The keeper holds an open connection to the provider and is closed by Shutdown.
func (c *Container) KMSKeeper() (cryptoDomain.KMSKeeper, error) {
	var err error
	c.kmsKeeperInit.Do(func() {
		c.kmsKeeper, err = c.initKMSKeeper()
		if err != nil {
			c.initErrors["kmsKeeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kmsKeeper"]; exists {
		return nil, storedErr
	}
	return c.kmsKeeper, nil
}

// StorageKeyChain returns the local storage keychain loaded from the environment.
// The keychain is zeroized by Shutdown.
func (c *Container) StorageKeyChain() (*cryptoDomain.StorageKeyChain, error) {
	var err error
	c.storageKeyChainInit.Do(func() {
		c.storageKeyChain, err = c.initStorageKeyChain()
		if err != nil {
			c.initErrors["storageKeyChain"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["storageKeyChain"]; exists {
		return nil, storedErr
	}
	return c.storageKeyChain, nil
}

// initKMSKeeper opens the keeper for the configured key URI. The KMS service
// already contextualizes open failures, so they pass through unwrapped.
func (c *Container) initKMSKeeper() (cryptoDomain.KMSKeeper, error) {
	if c.config.KMSKeyURI == "" {
		return nil, fmt.Errorf("KMS_KEY_URI is not configured")
	}
	return c.KMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
}

// initStorageKeyChain loads the storage keychain from environment variables.
func (c *Container) initStorageKeyChain() (*cryptoDomain.StorageKeyChain, error) {
	keychain, err := cryptoDomain.LoadStorageKeyChainFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage keychain: %w", err)
	}
	return keychain, nil
}
