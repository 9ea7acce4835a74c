package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	actionsDomain "github.com/allisson/actionserver/internal/actions/domain"
	"github.com/allisson/actionserver/internal/database"
	apperrors "github.com/allisson/actionserver/internal/errors"
)

// MySQLRunRepository implements Run persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLRunRepository struct {
	db *sql.DB
}

// Create inserts a new run into the MySQL database using BINARY(16) for UUIDs.
func (m *MySQLRunRepository) Create(ctx context.Context, run *actionsDomain.Run) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO runs (id, action_name, status, exit_code, output, error, created_at, started_at, finished_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := run.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal run id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		run.ActionName,
		run.Status,
		run.ExitCode,
		run.Output,
		run.Error,
		run.CreatedAt,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create run")
	}
	return nil
}

// Update replaces the mutable fields of a run identified by its ID.
func (m *MySQLRunRepository) Update(ctx context.Context, run *actionsDomain.Run) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE runs
			  SET status = ?,
			  	  exit_code = ?,
				  output = ?,
				  error = ?,
				  started_at = ?,
				  finished_at = ?
			  WHERE id = ?`

	id, err := run.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal run id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		run.Status,
		run.ExitCode,
		run.Output,
		run.Error,
		run.StartedAt,
		run.FinishedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update run")
	}

	return nil
}

// GetByID retrieves a run by its unique identifier using BINARY(16) for UUIDs.
func (m *MySQLRunRepository) GetByID(ctx context.Context, runID uuid.UUID) (*actionsDomain.Run, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, action_name, status, exit_code, output, error, created_at, started_at, finished_at
			  FROM runs
			  WHERE id = ?`

	id, err := runID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal run id")
	}

	var run actionsDomain.Run
	var idBytes []byte
	var status string

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBytes,
		&run.ActionName,
		&status,
		&run.ExitCode,
		&run.Output,
		&run.Error,
		&run.CreatedAt,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, actionsDomain.ErrRunNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get run by id")
	}

	if err := run.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal run id")
	}

	run.Status = actionsDomain.RunStatus(status)
	return &run, nil
}

// List retrieves runs ordered by creation time descending with pagination
// using BINARY(16) for UUIDs.
func (m *MySQLRunRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*actionsDomain.Run, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, action_name, status, exit_code, output, error, created_at, started_at, finished_at
			  FROM runs
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list runs")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	runs := make([]*actionsDomain.Run, 0)
	for rows.Next() {
		var run actionsDomain.Run
		var idBytes []byte
		var status string

		err := rows.Scan(
			&idBytes,
			&run.ActionName,
			&status,
			&run.ExitCode,
			&run.Output,
			&run.Error,
			&run.CreatedAt,
			&run.StartedAt,
			&run.FinishedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan run row")
		}

		if err := run.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal run id")
		}

		run.Status = actionsDomain.RunStatus(status)
		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating run rows")
	}

	return runs, nil
}

// NewMySQLRunRepository creates a new MySQL Run repository instance.
func NewMySQLRunRepository(db *sql.DB) *MySQLRunRepository {
	return &MySQLRunRepository{db: db}
}
