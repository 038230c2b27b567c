package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixture = filepath.Join("..", "..", "internal", "codec", "testdata", "export.json")

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGraphCommand(t *testing.T) {
	t.Run("prints the graph of a vm", func(t *testing.T) {
		out, err := execute(t, "graph", "--export", fixture, "--start", "web01")
		require.NoError(t, err)

		var g struct {
			Nodes []map[string]any `json:"nodes"`
			Edges []map[string]any `json:"edges"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &g))
		require.NotEmpty(t, g.Nodes)
		assert.Equal(t, "VM", g.Nodes[0]["type"])
		assert.Equal(t, "web01", g.Nodes[0]["label"])
	})

	t.Run("narrows with inclusion flags", func(t *testing.T) {
		out, err := execute(t, "graph", "-e", fixture, "-s", "web01",
			"--no-host", "--no-cluster", "--no-datastores", "--no-networks")
		require.NoError(t, err)

		var g struct {
			Nodes []map[string]any `json:"nodes"`
			Edges []map[string]any `json:"edges"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &g))
		assert.Len(t, g.Nodes, 1)
		assert.Empty(t, g.Edges)
	})

	t.Run("rejects an invalid depth", func(t *testing.T) {
		_, err := execute(t, "graph", "-e", fixture, "-s", "web01", "--depth", "3")
		assert.Error(t, err)
	})

	t.Run("requires a start vm", func(t *testing.T) {
		_, err := execute(t, "graph", "-e", fixture)
		assert.Error(t, err)
	})
}

func TestReportCommand(t *testing.T) {
	out, err := execute(t, "report", "-e", fixture, "--vm", "db01")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	ident, ok := doc["vm_identification"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "db01", ident["vm_name"])

	_, err = execute(t, "report", "-e", fixture, "--vm", "nope")
	assert.Error(t, err)
}

func TestSummaryCommand(t *testing.T) {
	out, err := execute(t, "summary", "-e", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "KIND")
	assert.Regexp(t, `VM\s+4`, out)
	assert.Regexp(t, `Host\s+3`, out)
	assert.Regexp(t, `Cluster\s+1`, out)
	assert.Regexp(t, `Datastore\s+2`, out)
}

func TestNormalizeCommand(t *testing.T) {
	out, err := execute(t, "normalize", "-e", fixture)
	require.NoError(t, err)

	var snap map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, fixture, snap["source"])
	assert.Len(t, snap["vms"], 4)
}

func TestMissingExport(t *testing.T) {
	_, err := execute(t, "summary", "-e", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
