package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutConfigFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvBackend, "")

	cfg, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Backend)
	assert.Equal(t, filepath.Join(dir, ".stillpoint", "stillpoint.db"), cfg.DBPath)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvBackend, "")

	cfg := Default(dir)
	cfg.Backend = BackendSQLite
	cfg.Timezone = "Europe/Berlin"
	cfg.Stage.MinSessions = 4
	require.NoError(t, cfg.Save())

	loaded, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, loaded.Backend)
	assert.Equal(t, "Europe/Berlin", loaded.Timezone)
	assert.Equal(t, 4, loaded.Stage.MinSessions)
	assert.Equal(t, cfg.ConfigPath, loaded.ConfigPath)
}

func TestEnvOverridesBackend(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvBackend, " Memory ")

	cfg, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
}

func TestNewRejectsBadInput(t *testing.T) {
	t.Setenv(EnvBackend, "")

	_, err := New("")
	require.Error(t, err)

	dir := t.TempDir()
	cfg := Default(dir)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.ConfigPath), 0o755))

	require.NoError(t, os.WriteFile(cfg.ConfigPath, []byte("backend: [unterminated"), 0o644))
	_, err = New(dir)
	require.ErrorContains(t, err, "parse config")

	require.NoError(t, os.WriteFile(cfg.ConfigPath, []byte("backend: postgres\n"), 0o644))
	_, err = New(dir)
	require.ErrorContains(t, err, "unsupported backend")

	require.NoError(t, os.WriteFile(cfg.ConfigPath, []byte("stage_policy:\n  min_completion_rate: 1.5\n"), 0o644))
	_, err = New(dir)
	require.ErrorContains(t, err, "min_completion_rate")
}
