package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// RunMigrations executes the SQL files in migrationsPath/<dialect subdir>
// that have not been recorded yet, in file name order.
func (db *DB) RunMigrations(migrationsPath string) error {
	if _, err := db.DB.Exec(db.Dialect.CreateMigrationsTableQuery()); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	dir := filepath.Join(migrationsPath, db.Dialect.MigrationsSubdir())
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no migration files found in %s", dir)
	}

	// Sort files to ensure they run in order
	sort.Strings(files)

	for _, file := range files {
		filename := filepath.Base(file)

		hasRun, err := db.hasMigrationRun(filename)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if hasRun {
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		if err := db.executeMigration(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", filename, err)
		}

		if err := db.recordMigration(filename); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", filename, err)
		}

		log.Info().Str("migration", filename).Msg("migration completed")
	}

	return nil
}

// hasMigrationRun checks if a migration has already been executed
func (db *DB) hasMigrationRun(filename string) (bool, error) {
	var count int
	query := db.Dialect.RewriteQuery("SELECT COUNT(*) FROM schema_migrations WHERE filename = ?")
	if err := db.DB.QueryRow(query, filename).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// executeMigration runs the statements of a migration file one at a time.
// The MySQL driver rejects multi-statement Exec calls by default, so files
// are split on semicolons at line ends.
func (db *DB) executeMigration(content string) error {
	for _, stmt := range splitStatements(content) {
		if _, err := db.DB.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// recordMigration marks a migration as completed
func (db *DB) recordMigration(filename string) error {
	query := db.Dialect.RewriteQuery("INSERT INTO schema_migrations (filename) VALUES (?)")
	_, err := db.DB.Exec(query, filename)
	return err
}

func splitStatements(content string) []string {
	var stmts []string
	var current strings.Builder
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			stmts = append(stmts, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
