// Package database provides SQLite database initialization and management.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// journalTables must exist once migrations have run.
var journalTables = []string{"schema_migrations", "enrollment_events"}

// journalPragmas are applied to every connection. A request waits on each
// journal write, so busy_timeout stays short.
var journalPragmas = []string{
	"busy_timeout(2000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"foreign_keys(ON)",
}

// journalDSN builds the modernc.org/sqlite DSN for a journal file.
func journalDSN(dbPath string) string {
	params := url.Values{}
	for _, p := range journalPragmas {
		params.Add("_pragma", p)
	}
	return dbPath + "?" + params.Encode()
}

// Open opens or creates the enrollment journal database at dbPath.
// The parent directory is created if needed.
func Open(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		return nil, errors.New("journal path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", journalDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// One connection serializes journal writes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping journal: %w", err)
	}

	log.Debug().Str("path", dbPath).Msg("Journal database opened")
	return db, nil
}

// OpenAndMigrate opens the journal, brings its schema up to date and
// verifies the result. A journal that fails the integrity check or is missing
// a table after migration is rejected.
func OpenAndMigrate(dbPath string) (*sql.DB, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := verify(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func verify(db *sql.DB) error {
	if err := CheckIntegrity(db); err != nil {
		return err
	}
	for _, table := range journalTables {
		ok, err := TableExists(db, table)
		if err != nil {
			return fmt.Errorf("failed to look up table %s: %w", table, err)
		}
		if !ok {
			return fmt.Errorf("%w: table %s is missing", ErrSchemaMismatch, table)
		}
	}
	return nil
}

// Close closes the database connection.
func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}
