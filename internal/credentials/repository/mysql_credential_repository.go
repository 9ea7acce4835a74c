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

// MySQLCredentialRepository implements CloudCredential persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLCredentialRepository struct {
	db *sql.DB
}

// Create inserts a new credential into the MySQL database.
func (m *MySQLCredentialRepository) Create(
	ctx context.Context,
	credential *credentialsDomain.CloudCredential,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO cloud_credentials (id, name, ciphertext, nonce, algorithm, storage_key_id, hostname, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := credential.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
		if isMySQLUniqueViolation(err) {
			return credentialsDomain.ErrCredentialAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// Update replaces the sealed value and hostname of a credential by its ID.
func (m *MySQLCredentialRepository) Update(
	ctx context.Context,
	credential *credentialsDomain.CloudCredential,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE cloud_credentials
			  SET ciphertext = ?,
			  	  nonce = ?,
				  algorithm = ?,
				  storage_key_id = ?,
				  hostname = ?,
				  updated_at = ?
			  WHERE id = ?`

	id, err := credential.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		credential.Ciphertext,
		credential.Nonce,
		credential.Algorithm,
		credential.StorageKeyID,
		credential.Hostname,
		credential.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update credential")
	}

	return nil
}

// GetByName retrieves a credential by its unique name.
func (m *MySQLCredentialRepository) GetByName(
	ctx context.Context,
	name string,
) (*credentialsDomain.CloudCredential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, ciphertext, nonce, algorithm, storage_key_id, hostname, created_at, updated_at
			  FROM cloud_credentials
			  WHERE name = ?`

	var credential credentialsDomain.CloudCredential
	var idBytes []byte

	err := querier.QueryRowContext(ctx, query, name).Scan(
		&idBytes,
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

	if err := credential.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal credential id")
	}

	return &credential, nil
}

// Delete removes a credential by its ID.
func (m *MySQLCredentialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM cloud_credentials WHERE id = ?`

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential id")
	}

	_, err = querier.ExecContext(ctx, query, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete credential")
	}

	return nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}

// NewMySQLCredentialRepository creates a new MySQL credential repository instance.
func NewMySQLCredentialRepository(db *sql.DB) *MySQLCredentialRepository {
	return &MySQLCredentialRepository{db: db}
}
