package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.AssignmentVersion)
	assert.Equal(t, int64(42), cfg.RNGSeed)
	assert.Equal(t, 7, cfg.LockI)
	assert.Equal(t, 15, cfg.LockT)
	assert.Equal(t, 2000, cfg.DefaultTrials)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grader.yaml")
	content := `
assignment_version: fall2026
rng_seed: 7
lock_i: 5
lock_t: 10
server:
  port: "9000"
storage:
  database_path: /tmp/test.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fall2026", cfg.AssignmentVersion)
	assert.Equal(t, int64(7), cfg.RNGSeed)
	assert.Equal(t, 5, cfg.LockI)
	assert.Equal(t, 10, cfg.LockT)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "/tmp/test.db", cfg.Storage.DatabasePath)

	// Fields the file omits keep their defaults.
	assert.Equal(t, 2000, cfg.DefaultTrials)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grader.yaml")
	require.NoError(t, os.WriteFile(path, []byte("assignment_version: fromfile\n"), 0o644))

	t.Setenv("ASSIGNMENT_VERSION", "fromenv")
	t.Setenv("RNG_SEED", "99")
	t.Setenv("API_PORT", "7777")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fromenv", cfg.AssignmentVersion)
	assert.Equal(t, int64(99), cfg.RNGSeed)
	assert.Equal(t, "7777", cfg.Server.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty version", func(c *Config) { c.AssignmentVersion = "" }},
		{"lock_i too large", func(c *Config) { c.LockI = 21 }},
		{"lock_t zero", func(c *Config) { c.LockT = 0 }},
		{"max_trials above cap", func(c *Config) { c.MaxTrials = 10001 }},
		{"default_trials above max", func(c *Config) { c.DefaultTrials = c.MaxTrials + 1 }},
		{"window above lock_t", func(c *Config) { c.DefaultLastMinuteK = c.LockT + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestDefaultSimConfig(t *testing.T) {
	cfg := Default()
	sim := cfg.DefaultSimConfig()

	assert.Equal(t, cfg.LockI, sim.I)
	assert.Equal(t, cfg.LockT, sim.T)
	assert.Equal(t, cfg.DefaultTrials, sim.Trials)
	assert.Equal(t, cfg.RNGSeed, sim.Seed)
	assert.NoError(t, sim.Validate())
}
