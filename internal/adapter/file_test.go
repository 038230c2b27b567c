package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"vspheremap/internal/domain"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileCollector(t *testing.T) {
	t.Run("requires a path", func(t *testing.T) {
		_, err := NewFileCollector("", logr.Discard())
		assert.Error(t, err)
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		_, err := NewFileCollector("export.csv", logr.Discard())
		assert.Error(t, err)
	})

	t.Run("names itself after the path", func(t *testing.T) {
		c, err := NewFileCollector("/data/export.yml", logr.Discard())
		require.NoError(t, err)
		assert.Equal(t, "file:/data/export.yml", c.Name())
		assert.Equal(t, CollectorTypeFile, c.Type())
		assert.Equal(t, "/data/export.yml", c.Path())
	})
}

func TestFileCollectorCollect(t *testing.T) {
	ctx := context.Background()

	t.Run("reads the shared fixture", func(t *testing.T) {
		c, err := NewFileCollector(filepath.Join("..", "codec", "testdata", "export.json"), logr.Discard())
		require.NoError(t, err)

		snap, err := c.Collect(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, snap.VMs)
		assert.NotEmpty(t, snap.Infrastructure.Datacenters)
	})

	t.Run("reads yaml exports", func(t *testing.T) {
		path := writeExport(t, "export.yaml", `
vms:
  - name: lab01
    host_name: esx-lab
`)
		c, err := NewFileCollector(path, logr.Discard())
		require.NoError(t, err)

		snap, err := c.Collect(ctx)
		require.NoError(t, err)
		require.Len(t, snap.VMs, 1)
		assert.Equal(t, "lab01", snap.VMs[0].Name)
	})

	t.Run("reports an empty export", func(t *testing.T) {
		c, err := NewFileCollector(writeExport(t, "export.json", `{}`), logr.Discard())
		require.NoError(t, err)

		_, err = c.Collect(ctx)
		assert.ErrorIs(t, err, domain.ErrEmptyCollection)
	})

	t.Run("reports a missing file", func(t *testing.T) {
		c, err := NewFileCollector(filepath.Join(t.TempDir(), "missing.json"), logr.Discard())
		require.NoError(t, err)

		_, err = c.Collect(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrEmptyCollection)
	})

	t.Run("reports malformed content", func(t *testing.T) {
		c, err := NewFileCollector(writeExport(t, "export.json", `{"vms": [`), logr.Discard())
		require.NoError(t, err)

		_, err = c.Collect(ctx)
		assert.Error(t, err)
	})

	t.Run("honors a cancelled context", func(t *testing.T) {
		c, err := NewFileCollector(writeExport(t, "export.json", `{}`), logr.Discard())
		require.NoError(t, err)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err = c.Collect(cancelled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func writeExport(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
