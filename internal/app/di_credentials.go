package app

import (
	"fmt"

	credentialsRepository "github.com/allisson/actionserver/internal/credentials/repository"
	credentialsService "github.com/allisson/actionserver/internal/credentials/service"
	credentialsUseCase "github.com/allisson/actionserver/internal/credentials/usecase"
	cryptoDomain "github.com/allisson/actionserver/internal/crypto/domain"
)

// CredentialRepository returns the credential repository based on database driver.
func (c *Container) CredentialRepository() (credentialsUseCase.CredentialRepository, error) {
	var err error
	c.credentialRepoInit.Do(func() {
		c.credentialRepo, err = c.initCredentialRepository()
		if err != nil {
			c.initErrors["credentialRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialRepo"]; exists {
		return nil, storedErr
	}
	return c.credentialRepo, nil
}

// CredentialSealer returns the sealer used to protect stored credentials.
// A configured KMS key URI selects the KMS sealer; otherwise the local
// storage keychain is used.
func (c *Container) CredentialSealer() (credentialsService.CredentialSealer, error) {
	var err error
	c.credentialSealerInit.Do(func() {
		c.credentialSealer, err = c.initCredentialSealer()
		if err != nil {
			c.initErrors["credentialSealer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialSealer"]; exists {
		return nil, storedErr
	}
	return c.credentialSealer, nil
}

// CredentialUseCase returns the credential management use case.
func (c *Container) CredentialUseCase() (credentialsUseCase.CredentialUseCase, error) {
	var err error
	c.credentialUseCaseInit.Do(func() {
		c.credentialUseCase, err = c.initCredentialUseCase()
		if err != nil {
			c.initErrors["credentialUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialUseCase"]; exists {
		return nil, storedErr
	}
	return c.credentialUseCase, nil
}

// initCredentialRepository creates the credential repository instance.
func (c *Container) initCredentialRepository() (credentialsUseCase.CredentialRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for credential repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return credentialsRepository.NewMySQLCredentialRepository(db), nil
	case "postgres":
		return credentialsRepository.NewPostgreSQLCredentialRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCredentialSealer creates the sealer for the configured key backend.
func (c *Container) initCredentialSealer() (credentialsService.CredentialSealer, error) {
	if c.config.KMSKeyURI != "" {
		keeper, err := c.KMSKeeper()
		if err != nil {
			return nil, fmt.Errorf("failed to get KMS keeper for credential sealer: %w", err)
		}
		return credentialsService.NewKMSSealer(keeper), nil
	}

	algorithm := cryptoDomain.Algorithm(c.config.StorageAlgorithm)
	switch algorithm {
	case cryptoDomain.AESGCM, cryptoDomain.ChaCha20:
	default:
		return nil, fmt.Errorf("unsupported storage algorithm: %s", c.config.StorageAlgorithm)
	}

	keychain, err := c.StorageKeyChain()
	if err != nil {
		return nil, fmt.Errorf("failed to get storage keychain for credential sealer: %w", err)
	}
	return credentialsService.NewKeychainSealer(keychain, c.AEADManager(), algorithm), nil
}

// initCredentialUseCase creates the credential use case with all its dependencies.
func (c *Container) initCredentialUseCase() (credentialsUseCase.CredentialUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for credential use case: %w", err)
	}

	credentialRepo, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for credential use case: %w", err)
	}

	sealer, err := c.CredentialSealer()
	if err != nil {
		return nil, fmt.Errorf("failed to get sealer for credential use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for credential use case: %w", err)
	}

	useCase := credentialsUseCase.NewCredentialUseCase(
		txManager,
		credentialRepo,
		sealer,
		c.RedactRegistry(),
		c.config.CloudDefaultHostname,
	)
	return credentialsUseCase.NewCredentialUseCaseWithMetrics(useCase, businessMetrics), nil
}
