package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 0, cfg.WorkerID)
	assert.Equal(t, 30.0, cfg.Pathfinder.TimeWindow)
	assert.Equal(t, 1.0, cfg.Pathfinder.Weights.InVehicle)
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yml := `
port: 8080
env: test
workerId: 3
outputDir: /tmp/traces
pathfinder:
  timeWindow: 45
  weights:
    wait: 2.5
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, 3, cfg.WorkerID)
	assert.Equal(t, "/tmp/traces", cfg.OutputDir)
	assert.Equal(t, 45.0, cfg.Pathfinder.TimeWindow)
	assert.Equal(t, 2.5, cfg.Pathfinder.Weights.Wait)
	// Untouched keys keep their defaults.
	assert.Equal(t, 1.0, cfg.Pathfinder.Dispersion)
	assert.Equal(t, 1.0, cfg.Pathfinder.Weights.InVehicle)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PATHFINDER_PORT", "9999")
	t.Setenv("PATHFINDER_ENV", "staging")
	t.Setenv("PATHFINDER_WORKER_ID", "7")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, 7, cfg.WorkerID)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Run("bad env name", func(t *testing.T) {
		t.Setenv("PATHFINDER_ENV", "sandbox")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("bad search parameters", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		yml := `
pathfinder:
  dispersion: -1
`
		require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("does-not-exist.yml")
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("port: [oops"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}
