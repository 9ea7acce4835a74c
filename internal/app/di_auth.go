package app

import (
	authService "github.com/allisson/actionserver/internal/auth/service"
)

// APIKeyService returns the service for generating and verifying API keys.
func (c *Container) APIKeyService() authService.APIKeyService {
	c.apiKeyServiceInit.Do(func() {
		c.apiKeyService = authService.NewAPIKeyService()
	})
	return c.apiKeyService
}
