package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8000, cfg.APIPort)
	assert.Equal(t, "0.0.0.0:8000", cfg.ListenAddr())
	assert.Equal(t, "static", cfg.StaticDir)
	assert.False(t, cfg.EnforceCapacity)
	assert.False(t, cfg.JournalEnabled())
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.JournalFailureThreshold)
	assert.Equal(t, 30*time.Second, cfg.JournalCooldown)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ACTIVITIES_API_PORT", "9090")
	t.Setenv("ACTIVITIES_API_HOST", "127.0.0.1")
	t.Setenv("ACTIVITIES_ENFORCE_CAPACITY", "true")
	t.Setenv("ACTIVITIES_JOURNAL_PATH", "/tmp/journal.db")
	t.Setenv("ACTIVITIES_REQUEST_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.ListenAddr())
	assert.True(t, cfg.EnforceCapacity)
	assert.True(t, cfg.JournalEnabled())
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestLoadInvalidValue(t *testing.T) {
	t.Setenv("ACTIVITIES_API_PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/.env", []byte("ACTIVITIES_VERSION=2.3.4\nACTIVITIES_LOG_LEVEL=debug\n"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(wd)
		os.Unsetenv("ACTIVITIES_VERSION")
		os.Unsetenv("ACTIVITIES_LOG_LEVEL")
	})

	// Explicit environment beats the file.
	t.Setenv("ACTIVITIES_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "2.3.4", cfg.Version)
	assert.Equal(t, "warn", cfg.LogLevel)
}
