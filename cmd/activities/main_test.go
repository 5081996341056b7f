package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuclearlighters/activities/internal/config"
	"github.com/nuclearlighters/activities/internal/registry"
)

func TestLoadRegistryBuiltin(t *testing.T) {
	reg, err := loadRegistry(&config.Settings{})
	require.NoError(t, err)
	assert.Contains(t, reg.Names(), "Chess Club")
}

func TestLoadRegistryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: Choir\n  max_participants: 1\n  participants: [a@x]\n"), 0644))

	reg, err := loadRegistry(&config.Settings{SeedFile: path, EnforceCapacity: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Choir"}, reg.Names())
	_, err = reg.Enroll("Choir", "b@x")
	assert.ErrorIs(t, err, registry.ErrActivityFull)
}

func TestLoadRegistryBadFile(t *testing.T) {
	_, err := loadRegistry(&config.Settings{SeedFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}
