package database

import (
	"context"
	"database/sql"
	"errors"
)

// txKey carries the active transaction through context.
type txKey struct{}

// Querier is the query surface shared by *sql.DB and *sql.Tx. Repositories
// take whatever GetTx hands them, so the same code runs inside and outside
// a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxManager runs a function inside a database transaction.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type sqlTxManager struct {
	db *sql.DB
}

// NewTxManager creates a TxManager backed by db.
func NewTxManager(db *sql.DB) TxManager {
	return &sqlTxManager{db: db}
}

// WithTx begins a transaction, stores it in the context passed to fn, and
// commits when fn returns nil. An error from fn rolls the transaction back;
// a rollback failure is reported alongside the original error.
func (m *sqlTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

// GetTx returns the transaction stored in ctx, or db when there is none.
func GetTx(ctx context.Context, db *sql.DB) Querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}
