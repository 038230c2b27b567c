package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout.Duration())
	assert.Equal(t, CollectorFile, cfg.Collector.Type)
	assert.Zero(t, cfg.Collector.PollInterval)
	assert.Equal(t, "./vspheremap.db", cfg.Database.Path)
	assert.Equal(t, 10, cfg.Database.KeepSnapshots)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPath(t *testing.T) {
	t.Run("applies defaults to a partial file", func(t *testing.T) {
		path := writeConfig(t, `
collector:
  path: /data/vsphere_data_export.json
  poll_interval: 15m
  watch: true
logging:
  level: debug
`)
		cfg, got, err := LoadFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, path, got)
		assert.Equal(t, "/data/vsphere_data_export.json", cfg.Collector.Path)
		assert.Equal(t, 15*time.Minute, cfg.Collector.PollInterval.Duration())
		assert.True(t, cfg.Collector.Watch)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, ":8000", cfg.Server.Addr)
	})

	t.Run("rejects an unknown collector type", func(t *testing.T) {
		path := writeConfig(t, "collector:\n  type: vcenter\n")
		_, _, err := LoadFromPath(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Collector.Type")
	})

	t.Run("rejects an unknown log level", func(t *testing.T) {
		path := writeConfig(t, "logging:\n  level: chatty\n")
		_, _, err := LoadFromPath(path)
		assert.Error(t, err)
	})

	t.Run("rejects a malformed duration", func(t *testing.T) {
		path := writeConfig(t, "collector:\n  poll_interval: soon\n")
		_, _, err := LoadFromPath(path)
		assert.Error(t, err)
	})

	t.Run("rejects a negative poll interval", func(t *testing.T) {
		path := writeConfig(t, "collector:\n  poll_interval: -1m\n")
		_, _, err := LoadFromPath(path)
		assert.Error(t, err)
	})

	t.Run("reports a missing file", func(t *testing.T) {
		_, _, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestSaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = "127.0.0.1:9000"
	cfg.Server.AllowedOrigins = []string{"http://localhost:5173"}
	cfg.Collector.Path = "export.json"
	cfg.Collector.PollInterval = Duration(time.Hour)
	cfg.Database.KeepSnapshots = 3

	require.NoError(t, cfg.Save(configPath))

	loaded, path, err := LoadFromPath(configPath)
	require.NoError(t, err)
	assert.Equal(t, configPath, path)
	assert.Equal(t, cfg, loaded)
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, DefaultConfig().Save(filepath.Join(tmpDir, ConfigFileName)))

	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer os.Chdir(oldWd)

	t.Run("finds the config in the working directory", func(t *testing.T) {
		assert.NotEmpty(t, FindConfigPath())
	})

	t.Run("falls back when the env path does not exist", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
		assert.NotEmpty(t, FindConfigPath())
	})

	t.Run("prefers an existing env path", func(t *testing.T) {
		explicit := writeConfig(t, "version: 1\n")
		t.Setenv(EnvConfigPath, explicit)
		assert.Equal(t, explicit, FindConfigPath())
	})
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	assert.Equal(t, 5*time.Minute, d.Duration())

	marshaled, err := d.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "5m0s", marshaled)
}

func TestSummary(t *testing.T) {
	cfg := DefaultConfig()
	assert.Contains(t, cfg.Summary(), "Collector: file (none)")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
