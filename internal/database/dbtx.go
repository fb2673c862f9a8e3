package database

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX defines the database operations needed by repositories
// This interface is satisfied by both *DB and *Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	GetDialect() Dialect
}

// Tx wraps sql.Tx with dialect-aware methods
type Tx struct {
	*sql.Tx
	dialect Dialect
}

// BeginTx starts a new transaction
func (db *DB) BeginTx(ctx context.Context) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{Tx: tx, dialect: db.Dialect}, nil
}

// WithTx runs fn inside a transaction, committing when it returns nil and
// rolling back otherwise.
func (db *DB) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetDialect returns the database dialect
func (db *DB) GetDialect() Dialect {
	return db.Dialect
}

// QueryContext executes a query with automatic placeholder rewriting
func (tx *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return tx.Tx.QueryContext(ctx, tx.dialect.RewriteQuery(query), args...)
}

// QueryRowContext executes a query that returns a single row with automatic placeholder rewriting
func (tx *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return tx.Tx.QueryRowContext(ctx, tx.dialect.RewriteQuery(query), args...)
}

// ExecContext executes a query that doesn't return rows with automatic placeholder rewriting
func (tx *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return tx.Tx.ExecContext(ctx, tx.dialect.RewriteQuery(query), args...)
}

// GetDialect returns the transaction's dialect
func (tx *Tx) GetDialect() Dialect {
	return tx.dialect
}
