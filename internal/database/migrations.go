package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Migration represents a database migration.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations contains all database migrations in order.
// Add new migrations to the end of this slice.
var migrations = []Migration{
	{
		Version:     1,
		Description: "Create enrollment_events journal",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS enrollment_events (
				    id          TEXT PRIMARY KEY,
				    activity    TEXT NOT NULL,
				    email       TEXT NOT NULL,
				    action      TEXT NOT NULL CHECK (action IN ('signup', 'unregister')),
				    created_at  DATETIME NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_enrollment_events_activity
				    ON enrollment_events(activity, created_at);
			`)
			return err
		},
	},

	// Version 2: correlate journal entries with request logs
	{
		Version:     2,
		Description: "Add request_id to enrollment_events",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`ALTER TABLE enrollment_events ADD COLUMN request_id TEXT NOT NULL DEFAULT ''`)
			if isDuplicateColumnError(err) {
				log.Debug().Str("column", "request_id").Msg("Column already exists, skipping")
				return nil
			}
			return err
		},
	},
}

// CurrentSchemaVersion is the version a fully migrated database reports.
func CurrentSchemaVersion() int {
	return migrations[len(migrations)-1].Version
}

// isDuplicateColumnError checks if an error is a "duplicate column" error
func isDuplicateColumnError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate column")
}

// Migrate runs all pending database migrations.
// It's safe to call this multiple times - it only runs migrations
// that haven't been applied yet.
func Migrate(db *sql.DB) error {
	currentVersion, err := GetSchemaVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	log.Info().Int("current_version", currentVersion).Int("target_version", CurrentSchemaVersion()).Msg("Checking migrations")

	for _, m := range migrations {
		if m.Version <= currentVersion {
			continue
		}

		log.Info().Int("version", m.Version).Str("description", m.Description).Msg("Running migration")

		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}

		log.Info().Int("version", m.Version).Msg("Migration completed")
	}

	return nil
}

func applyMigration(db *sql.DB, m Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := m.Up(tx); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`, m.Version, m.Description); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return tx.Commit()
}
