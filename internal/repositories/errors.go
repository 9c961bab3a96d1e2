package repositories

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrStorage is returned for backend I/O failures.
	// It wraps the driver or filesystem error.
	ErrStorage = errors.New("storage error")

	// ErrMalformedCollection marks a persisted collection that could not be decoded.
	// Readers treat such a collection as empty.
	ErrMalformedCollection = errors.New("malformed collection")

	// ErrInvalidRecord is returned when a record cannot be stored, e.g. it has no id.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrConflict is returned when a collection changed between a transaction's
	// read and its commit. The transaction can be retried from the start.
	ErrConflict = errors.New("ledger collection changed concurrently")

	// ErrTxDone is returned when a ledger transaction is used after Commit or Rollback.
	ErrTxDone = errors.New("ledger transaction already finished")
)

// SQLExecutor defines an interface that can be satisfied by *sql.DB or *sql.Tx
// This allows repository methods to be used within transactions or with a direct DB connection.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
