package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ebdmanager/internal/config"
)

const pingTimeout = 5 * time.Second

// DB is a connection pool that rewrites placeholders for its dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// OpenSQLite opens a SQLite database file. Used by the admin tool and tests.
func OpenSQLite(dbPath string) (*DB, error) {
	return open(NewSQLiteDialect(), DialectConfig{Path: dbPath})
}

// InitializeWithConfig opens the engine named by DATABASE_TYPE.
func InitializeWithConfig(cfg *config.Config) (*DB, error) {
	dc := DialectConfig{
		Path: cfg.DatabasePath,
		URL:  cfg.DatabaseURL,
		Pool: PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
		},
	}

	var dialect Dialect
	switch strings.ToLower(cfg.DatabaseType) {
	case "postgres", "postgresql":
		dialect = NewPostgresDialect()
	case "mysql", "mariadb":
		dialect = NewMySQLDialect()
	case "sqlite", "sqlite3", "":
		dialect = NewSQLiteDialect()
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DatabaseType)
	}
	if dialect.DriverName() != "sqlite3" && dc.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for %s", cfg.DatabaseType)
	}

	return open(dialect, dc)
}

func open(dialect Dialect, dc DialectConfig) (*DB, error) {
	db, err := sql.Open(dialect.DriverName(), dialect.DSN(dc))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := dialect.ConfigureConnection(db, dc.Pool); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// QueryContext executes a query with automatic placeholder rewriting
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.DB.QueryContext(ctx, db.Dialect.RewriteQuery(query), args...)
}

// QueryRowContext executes a query that returns a single row with automatic placeholder rewriting
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.DB.QueryRowContext(ctx, db.Dialect.RewriteQuery(query), args...)
}

// ExecContext executes a query that doesn't return rows with automatic placeholder rewriting
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.DB.ExecContext(ctx, db.Dialect.RewriteQuery(query), args...)
}
