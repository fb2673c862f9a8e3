package database

import (
	"database/sql"
	"strings"
	"time"

	"github.com/lib/pq"
)

const postgresApplicationName = "ebdmanager"

// PostgresDialect implements Dialect for PostgreSQL
type PostgresDialect struct{}

// NewPostgresDialect creates a new PostgreSQL dialect
func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

// DSN converts a postgres:// URL into lib/pq's key=value form and tags the
// session with an application name. Anything that is not a URL is passed
// through for the driver to judge.
func (d *PostgresDialect) DSN(config DialectConfig) string {
	dsn := config.URL
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		converted, err := pq.ParseURL(dsn)
		if err != nil {
			return config.URL
		}
		dsn = converted
	}
	if !strings.Contains(dsn, "=") || strings.Contains(dsn, "application_name=") {
		return dsn
	}
	return dsn + " application_name=" + postgresApplicationName
}

func (d *PostgresDialect) RewriteQuery(query string) string {
	return numberPlaceholders(query)
}

func (d *PostgresDialect) ConfigureConnection(db *sql.DB, pool PoolConfig) error {
	pool.withDefaults().apply(db)
	db.SetConnMaxIdleTime(time.Minute)
	return nil
}

func (d *PostgresDialect) MigrationsSubdir() string {
	return "postgres"
}

func (d *PostgresDialect) CreateMigrationsTableQuery() string {
	return `CREATE TABLE IF NOT EXISTS schema_migrations (
	filename   TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
}

func (d *PostgresDialect) Upsert(table string, key []string, columns []string) string {
	return upsertOnConflict(table, key, columns)
}
