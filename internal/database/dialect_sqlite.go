package database

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// sqliteOptions are go-sqlite3 DSN parameters. Every pooled connection
// gets them, unlike a PRAGMA issued once after open.
const sqliteOptions = "_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL"

// SQLiteDialect is the file-backed engine used by default and by the admin
// tool.
type SQLiteDialect struct{}

// NewSQLiteDialect creates a new SQLite dialect
func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) DriverName() string {
	return "sqlite3"
}

func (d *SQLiteDialect) DSN(config DialectConfig) string {
	sep := "?"
	if strings.Contains(config.Path, "?") {
		sep = "&"
	}
	return config.Path + sep + sqliteOptions
}

func (d *SQLiteDialect) RewriteQuery(query string) string {
	return query
}

// ConfigureConnection pins the pool to one connection so the deactivation
// batch never meets "database is locked".
func (d *SQLiteDialect) ConfigureConnection(db *sql.DB, pool PoolConfig) error {
	pool = pool.withDefaults()
	pool.MaxOpenConns = 1
	pool.MaxIdleConns = 1
	pool.apply(db)
	return nil
}

func (d *SQLiteDialect) MigrationsSubdir() string {
	return "sqlite"
}

func (d *SQLiteDialect) CreateMigrationsTableQuery() string {
	return `CREATE TABLE IF NOT EXISTS schema_migrations (
	filename   TEXT PRIMARY KEY,
	applied_at TEXT NOT NULL DEFAULT (datetime('now'))
)`
}

func (d *SQLiteDialect) Upsert(table string, key []string, columns []string) string {
	return upsertOnConflict(table, key, columns)
}
