package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaMismatch means the schema_migrations table claims a version whose
// tables are not actually present.
var ErrSchemaMismatch = errors.New("journal schema does not match recorded version")

// schemaVersionTable records which migrations have been applied.
const schemaVersionTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version     INTEGER PRIMARY KEY,
    description TEXT NOT NULL,
    applied_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// GetSchemaVersion returns the highest applied migration version, or 0 for a
// fresh database.
func GetSchemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec(schemaVersionTable); err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var version sql.NullInt64
	err := db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return int(version.Int64), nil
}

// TableExists reports whether the journal database has a table of that name.
func TableExists(db *sql.DB, table string) (bool, error) {
	var n int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_schema WHERE type = 'table' AND name = ?", table,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CheckIntegrity runs PRAGMA quick_check, which reports every problem row;
// only a single "ok" row means the journal file is sound.
func CheckIntegrity(db *sql.DB) error {
	rows, err := db.Query("PRAGMA quick_check")
	if err != nil {
		return fmt.Errorf("journal integrity check: %w", err)
	}
	defer rows.Close()

	var problems []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return fmt.Errorf("journal integrity check: %w", err)
		}
		if line != "ok" {
			problems = append(problems, line)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("journal integrity check: %w", err)
	}
	if len(problems) > 0 {
		return fmt.Errorf("journal integrity check failed: %s", strings.Join(problems, "; "))
	}
	return nil
}
