// Package repository implements cloud credential persistence.
// Repositories support both PostgreSQL and MySQL with transaction support via database.GetTx().
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	credentialsDomain "github.com/allisson/actionserver/internal/credentials/domain"
	"github.com/allisson/actionserver/internal/database"
	apperrors "github.com/allisson/actionserver/internal/errors"
)

// PostgreSQLCredentialRepository implements CloudCredential persistence for
// PostgreSQL databases.
type PostgreSQLCredentialRepository struct {
	db *sql.DB
}

// Create inserts a new credential into the PostgreSQL database.
func (p *PostgreSQLCredentialRepository) Create(
	ctx context.Context,
	credential *credentialsDomain.CloudCredential,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO cloud_credentials (id, name, ciphertext, nonce, algorithm, storage_key_id, hostname, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(
		ctx,
		query,
		credential.ID,
		credential.Name,
		credential.Ciphertext,
		credential.Nonce,
		credential.Algorithm,
		credential.StorageKeyID,
		credential.Hostname,
		credential.CreatedAt,
		credential.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return credentialsDomain.ErrCredentialAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// Update replaces the sealed value and hostname of a credential by its ID.
func (p *PostgreSQLCredentialRepository) Update(
	ctx context.Context,
	credential *credentialsDomain.CloudCredential,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE cloud_credentials
			  SET ciphertext = $1,
			  	  nonce = $2,
				  algorithm = $3,
				  storage_key_id = $4,
				  hostname = $5,
				  updated_at = $6
			  WHERE id = $7`

	_, err := querier.ExecContext(
		ctx,
		query,
		credential.Ciphertext,
		credential.Nonce,
		credential.Algorithm,
		credential.StorageKeyID,
		credential.Hostname,
		credential.UpdatedAt,
		credential.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update credential")
	}

	return nil
}

// GetByName retrieves a credential by its unique name.
func (p *PostgreSQLCredentialRepository) GetByName(
	ctx context.Context,
	name string,
) (*credentialsDomain.CloudCredential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, ciphertext, nonce, algorithm, storage_key_id, hostname, created_at, updated_at
			  FROM cloud_credentials
			  WHERE name = $1`

	var credential credentialsDomain.CloudCredential

	err := querier.QueryRowContext(ctx, query, name).Scan(
		&credential.ID,
		&credential.Name,
		&credential.Ciphertext,
		&credential.Nonce,
		&credential.Algorithm,
		&credential.StorageKeyID,
		&credential.Hostname,
		&credential.CreatedAt,
		&credential.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialsDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential by name")
	}

	return &credential, nil
}

// Delete removes a credential by its ID.
func (p *PostgreSQLCredentialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM cloud_credentials WHERE id = $1`

	_, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete credential")
	}

	return nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}

// NewPostgreSQLCredentialRepository creates a new PostgreSQL credential repository instance.
func NewPostgreSQLCredentialRepository(db *sql.DB) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db}
}
