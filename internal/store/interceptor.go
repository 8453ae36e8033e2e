package store

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// QueryInterceptor wraps a database or a transaction and debug-logs every
// statement going through it.
type QueryInterceptor struct {
	db *sql.DB
	q  querier
}

func NewQueryInterceptor(db *sql.DB) QueryInterceptor {
	return QueryInterceptor{db: db, q: db}
}

func (qi QueryInterceptor) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	zap.S().Named("store").Debugw("query row", "query", query, "args", args)
	return qi.q.QueryRowContext(ctx, query, args...)
}

func (qi QueryInterceptor) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	zap.S().Named("store").Debugw("query", "query", query, "args", args)
	return qi.q.QueryContext(ctx, query, args...)
}

func (qi QueryInterceptor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	zap.S().Named("store").Debugw("exec", "query", query, "args", args)
	return qi.q.ExecContext(ctx, query, args...)
}

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise. Nested calls reuse the running transaction.
func (qi QueryInterceptor) WithTx(ctx context.Context, fn func(tx QueryInterceptor) error) error {
	if qi.db == nil {
		return fn(qi)
	}

	tx, err := qi.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(QueryInterceptor{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			zap.S().Named("store").Warnw("failed to rollback transaction", "error", rbErr)
		}
		return err
	}

	return tx.Commit()
}
