package app

import (
	envelopeService "github.com/allisson/actionserver/internal/envelope/service"
)

// EnvelopeKeyring returns the keyring that resolves decrypt keys from the
// process environment.
func (c *Container) EnvelopeKeyring() *envelopeService.EnvKeyring {
	c.envelopeKeyringInit.Do(func() {
		c.envelopeKeyring = envelopeService.NewEnvKeyring()
	})
	return c.envelopeKeyring
}

// ContextService returns the service that decodes action-context envelopes.
// Decoded secret values are registered with the shared redaction registry
// before any caller can observe them.
func (c *Container) ContextService() *envelopeService.ContextService {
	c.contextServiceInit.Do(func() {
		c.contextService = envelopeService.NewContextService(c.EnvelopeKeyring(), c.RedactRegistry())
	})
	return c.contextService
}
