package database

import (
	"database/sql"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

// DSN forces utf8mb4 so student and class names keep their accents, and
// UTC for the migration timestamps. An unparseable DSN is passed through
// so the open error names it.
func (d *MySQLDialect) DSN(config DialectConfig) string {
	cfg, err := mysql.ParseDSN(config.URL)
	if err != nil {
		return config.URL
	}
	if cfg.Collation == "" || !strings.HasPrefix(cfg.Collation, "utf8mb4") {
		cfg.Collation = "utf8mb4_unicode_ci"
	}
	cfg.Loc = time.UTC
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	return query
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB, pool PoolConfig) error {
	pool = pool.withDefaults()
	// Stay under the server's wait_timeout.
	if pool.ConnMaxLifetime > 3*time.Minute {
		pool.ConnMaxLifetime = 3 * time.Minute
	}
	pool.apply(db)
	return nil
}

func (d *MySQLDialect) MigrationsSubdir() string {
	return "mysql"
}

func (d *MySQLDialect) CreateMigrationsTableQuery() string {
	return `CREATE TABLE IF NOT EXISTS schema_migrations (
	filename   VARCHAR(255) PRIMARY KEY,
	applied_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
)`
}

func (d *MySQLDialect) Upsert(table string, key []string, columns []string) string {
	var sets []string
	for _, c := range nonKeyColumns(key, columns) {
		sets = append(sets, c+" = VALUES("+c+")")
	}
	if len(sets) == 0 {
		sets = append(sets, key[0]+" = "+key[0])
	}
	return insertPrefix(table, columns) + " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
}
