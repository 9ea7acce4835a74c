package usecase

import (
	"context"
	"time"

	credentialsDomain "github.com/allisson/actionserver/internal/credentials/domain"
	"github.com/allisson/actionserver/internal/metrics"
)

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics instrumentation.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics recording.
func NewCredentialUseCaseWithMetrics(useCase CredentialUseCase, m metrics.BusinessMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Save records metrics for credential save operations.
func (c *credentialUseCaseWithMetrics) Save(
	ctx context.Context,
	name string,
	value []byte,
	hostname string,
) (*credentialsDomain.CloudCredential, error) {
	start := time.Now()
	credential, err := c.next.Save(ctx, name, value, hostname)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "credentials", "credential_save", status)
	c.metrics.RecordDuration(ctx, "credentials", "credential_save", time.Since(start), status)

	return credential, err
}

// Get records metrics for credential retrieval operations.
func (c *credentialUseCaseWithMetrics) Get(
	ctx context.Context,
	name string,
) (*credentialsDomain.CloudCredential, error) {
	start := time.Now()
	credential, err := c.next.Get(ctx, name)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "credentials", "credential_get", status)
	c.metrics.RecordDuration(ctx, "credentials", "credential_get", time.Since(start), status)

	return credential, err
}

// Delete records metrics for credential deletion operations.
func (c *credentialUseCaseWithMetrics) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := c.next.Delete(ctx, name)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "credentials", "credential_delete", status)
	c.metrics.RecordDuration(ctx, "credentials", "credential_delete", time.Since(start), status)

	return err
}

// Hostname records metrics for hostname lookups. The operation cannot fail,
// so the status is always success.
func (c *credentialUseCaseWithMetrics) Hostname(ctx context.Context, name string) string {
	start := time.Now()
	hostname := c.next.Hostname(ctx, name)

	c.metrics.RecordOperation(ctx, "credentials", "credential_hostname", "success")
	c.metrics.RecordDuration(ctx, "credentials", "credential_hostname", time.Since(start), "success")

	return hostname
}
