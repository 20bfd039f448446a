// Package dbx provides tiny DB abstractions shared by the client
// repositories: DBTX, implemented by both *sql.DB and *sql.Tx, and helpers to
// run work inside a transaction.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by the repositories.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx begins a transaction, runs fn with it, then commits on success or
// rolls back on error or panic. Panics are rethrown.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}

// InTx is WithTx for a single repository: newRepo is bound to the
// transaction and handed to fn.
//
//	err := dbx.InTx(ctx, db, outbox.NewSQLiteRepository, func(ctx context.Context, r *outbox.SQLiteRepository) error {
//	    return r.Enqueue(ctx, item)
//	})
func InTx[R any](ctx context.Context, db *sql.DB, newRepo func(DBTX) R, fn func(ctx context.Context, repo R) error) error {
	return WithTx(ctx, db, nil, func(ctx context.Context, tx DBTX) error {
		return fn(ctx, newRepo(tx))
	})
}
