// Package repository implements run persistence for action executions.
// Repositories support both PostgreSQL and MySQL with transaction support via database.GetTx().
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

// PostgreSQLRunRepository implements Run persistence for PostgreSQL databases.
type PostgreSQLRunRepository struct {
	db *sql.DB
}

// Create inserts a new run into the PostgreSQL database.
func (p *PostgreSQLRunRepository) Create(ctx context.Context, run *actionsDomain.Run) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO runs (id, action_name, status, exit_code, output, error, created_at, started_at, finished_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(
		ctx,
		query,
		run.ID,
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
func (p *PostgreSQLRunRepository) Update(ctx context.Context, run *actionsDomain.Run) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE runs
			  SET status = $1,
			  	  exit_code = $2,
				  output = $3,
				  error = $4,
				  started_at = $5,
				  finished_at = $6
			  WHERE id = $7`

	_, err := querier.ExecContext(
		ctx,
		query,
		run.Status,
		run.ExitCode,
		run.Output,
		run.Error,
		run.StartedAt,
		run.FinishedAt,
		run.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update run")
	}

	return nil
}

// GetByID retrieves a run by its unique identifier.
func (p *PostgreSQLRunRepository) GetByID(ctx context.Context, runID uuid.UUID) (*actionsDomain.Run, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, action_name, status, exit_code, output, error, created_at, started_at, finished_at
			  FROM runs
			  WHERE id = $1`

	var run actionsDomain.Run
	var status string

	err := querier.QueryRowContext(ctx, query, runID).Scan(
		&run.ID,
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

	run.Status = actionsDomain.RunStatus(status)
	return &run, nil
}

// List retrieves runs ordered by creation time descending with pagination.
func (p *PostgreSQLRunRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*actionsDomain.Run, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, action_name, status, exit_code, output, error, created_at, started_at, finished_at
			  FROM runs
			  ORDER BY created_at DESC, id DESC
			  LIMIT $1 OFFSET $2`

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
		var status string

		err := rows.Scan(
			&run.ID,
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

		run.Status = actionsDomain.RunStatus(status)
		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating run rows")
	}

	return runs, nil
}

// NewPostgreSQLRunRepository creates a new PostgreSQL Run repository instance.
func NewPostgreSQLRunRepository(db *sql.DB) *PostgreSQLRunRepository {
	return &PostgreSQLRunRepository{db: db}
}
