// Package dbx holds the database plumbing shared by the repositories: the
// DBTX handle they are written against and WithTx for multi-statement work.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is satisfied by *sql.DB and *sql.Tx alike, so a repository can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ReadCommitted is the isolation used for check-then-insert flows. A
// concurrent insert that slips between the check and the insert surfaces as
// ErrUniqueViolation rather than a serialization failure.
var ReadCommitted = &sql.TxOptions{Isolation: sql.LevelReadCommitted}

// WithTx runs fn inside a transaction begun with opts. The transaction is
// committed when fn returns nil and rolled back when it fails or panics;
// panics are rethrown after the rollback.
//
// A unique constraint violation raised by fn or by the commit itself is
// returned wrapped in ErrUniqueViolation.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}

		if err != nil {
			_ = tx.Rollback()
		} else if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}

		err = classify(err)
	}()

	return fn(ctx, tx)
}
