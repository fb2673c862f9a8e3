package database

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Dialect hides the differences between the supported SQL engines.
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN builds the data source name, adding the connection options the
	// schema relies on.
	DSN(config DialectConfig) string

	// RewriteQuery converts ? placeholders to the engine's syntax.
	RewriteQuery(query string) string

	// ConfigureConnection sizes the pool and applies per-engine settings.
	ConfigureConnection(db *sql.DB, pool PoolConfig) error

	// MigrationsSubdir names the migrations/<subdir> folder for this engine.
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the DDL of schema_migrations.
	CreateMigrationsTableQuery() string

	// Upsert returns an INSERT that updates the listed columns when a row
	// with the same key already exists.
	Upsert(table string, key []string, columns []string) string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// SQLite file path
	Path string

	// PostgreSQL/MySQL connection URL
	URL string

	Pool PoolConfig
}

// PoolConfig sizes the connection pool. Zero values fall back to defaults.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
)

func (p PoolConfig) withDefaults() PoolConfig {
	if p.MaxOpenConns <= 0 {
		p.MaxOpenConns = defaultMaxOpenConns
	}
	if p.MaxIdleConns <= 0 || p.MaxIdleConns > p.MaxOpenConns {
		p.MaxIdleConns = min(defaultMaxIdleConns, p.MaxOpenConns)
	}
	if p.ConnMaxLifetime <= 0 {
		p.ConnMaxLifetime = defaultConnMaxLifetime
	}
	return p
}

func (p PoolConfig) apply(db *sql.DB) {
	db.SetMaxOpenConns(p.MaxOpenConns)
	db.SetMaxIdleConns(p.MaxIdleConns)
	db.SetConnMaxLifetime(p.ConnMaxLifetime)
}

// numberPlaceholders turns ? into $1, $2, ... leaving question marks inside
// single-quoted literals alone.
func numberPlaceholders(query string) string {
	if !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	quoted := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			quoted = !quoted
			b.WriteByte(c)
		case c == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func insertPrefix(table string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + placeholders + ")"
}

// upsertOnConflict builds the ON CONFLICT form shared by SQLite and PostgreSQL.
func upsertOnConflict(table string, key []string, columns []string) string {
	var sets []string
	for _, c := range nonKeyColumns(key, columns) {
		sets = append(sets, c+" = excluded."+c)
	}
	q := insertPrefix(table, columns) + " ON CONFLICT (" + strings.Join(key, ", ") + ")"
	if len(sets) == 0 {
		return q + " DO NOTHING"
	}
	return q + " DO UPDATE SET " + strings.Join(sets, ", ")
}

func nonKeyColumns(key []string, columns []string) []string {
	isKey := make(map[string]bool, len(key))
	for _, k := range key {
		isKey[k] = true
	}
	var out []string
	for _, c := range columns {
		if !isKey[c] {
			out = append(out, c)
		}
	}
	return out
}
