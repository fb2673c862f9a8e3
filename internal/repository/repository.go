package repository

import (
	"context"
	"errors"

	"ebdmanager/internal/database"
)

// ErrNotFound is returned by single-row lookups when no row matches.
var ErrNotFound = errors.New("not found")

// inTx runs fn in a transaction when q is a plain connection, and directly
// when q already is a transaction.
func inTx(ctx context.Context, q database.DBTX, fn func(q database.DBTX) error) error {
	if db, ok := q.(*database.DB); ok {
		return db.WithTx(ctx, func(tx *database.Tx) error {
			return fn(tx)
		})
	}
	return fn(q)
}
