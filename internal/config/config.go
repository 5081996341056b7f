// Package config provides application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. ACTIVITIES_API_PORT.
const Prefix = "ACTIVITIES"

// Settings holds all application configuration.
type Settings struct {
	// Application metadata
	Version  string `envconfig:"VERSION" default:"1.0.0"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// API server settings
	APIHost string `envconfig:"API_HOST" default:"0.0.0.0"`
	APIPort int    `envconfig:"API_PORT" default:"8000"`

	// Front-end assets served under /static/
	StaticDir string `envconfig:"STATIC_DIR" default:"static"`

	// Activity catalog
	SeedFile        string `envconfig:"SEED_FILE" default:""` // empty = built-in catalog
	EnforceCapacity bool   `envconfig:"ENFORCE_CAPACITY" default:"false"`

	// Enrollment journal (SQLite). Empty disables it.
	JournalPath string `envconfig:"JOURNAL_PATH" default:""`

	// Consecutive write failures before journal writes are suspended
	JournalFailureThreshold int           `envconfig:"JOURNAL_FAILURE_THRESHOLD" default:"5"`
	JournalCooldown         time.Duration `envconfig:"JOURNAL_COOLDOWN" default:"30s"`

	// Timeouts
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// ListenAddr returns the address string for the HTTP server to bind to.
func (s *Settings) ListenAddr() string {
	return fmt.Sprintf("%s:%d", s.APIHost, s.APIPort)
}

// JournalEnabled reports whether enrollment events are recorded.
func (s *Settings) JournalEnabled() bool {
	return s.JournalPath != ""
}

var (
	cfg  *Settings
	once sync.Once
)

// Get returns the singleton Settings instance.
func Get() *Settings {
	once.Do(func() {
		s, err := Load()
		if err != nil {
			panic(err.Error())
		}
		cfg = s
	})
	return cfg
}

// Load creates a new Settings instance from environment variables.
// Variables from a .env file in the working directory are applied first;
// variables already set in the environment win.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	s := &Settings{}
	if err := envconfig.Process(Prefix, s); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return s, nil
}
