// Package tx carries an ambient *sql.Tx through context so the catalog
// stores can join a caller-managed transaction without changing their
// signatures. A store that finds no transaction falls back to its own
// connection pool.
package tx

import (
	"context"
	"database/sql"
)

type txKey struct{}

// WithTx attaches tx to the context. A nil tx is ignored so callers can
// thread an optional transaction unconditionally.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, tx)
}

// From returns the transaction attached by WithTx, if any.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}
