package graph

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vspheremap/internal/domain"
)

func TestRegistryAddNode(t *testing.T) {
	t.Run("returns the first registered node for an identity", func(t *testing.T) {
		r := NewRegistry(logr.Discard())
		first := r.AddNode(&domain.VM{Name: "web01", InstanceUUID: "u1", PowerState: "poweredOn"})
		second := r.AddNode(&domain.VM{Name: "renamed", InstanceUUID: "u1"})

		require.NotNil(t, first)
		assert.Same(t, first, second)
		assert.Equal(t, "web01", second.Label)
		assert.Equal(t, 1, r.NodeCount())
	})

	t.Run("skips objects without identifier", func(t *testing.T) {
		r := NewRegistry(logr.Discard())
		assert.Nil(t, r.AddNode(&domain.Cluster{}))
		assert.Nil(t, r.AddNode(nil))
		assert.Zero(t, r.NodeCount())
	})

	t.Run("separates kinds sharing an identifier", func(t *testing.T) {
		r := NewRegistry(logr.Discard())
		vm := r.AddNode(&domain.VM{Name: "shared"})
		host := r.AddNode(&domain.Host{Name: "shared"})
		assert.NotEqual(t, vm.ID, host.ID)
		assert.Equal(t, 2, r.NodeCount())
	})

	t.Run("looks nodes up by id", func(t *testing.T) {
		r := NewRegistry(logr.Discard())
		r.AddNode(&domain.Datastore{Name: "ds1"})
		n, ok := r.Node("datastore-ds1")
		require.True(t, ok)
		assert.Equal(t, domain.KindDatastore, n.Type)
	})
}

func TestRegistryAddEdge(t *testing.T) {
	r := NewRegistry(logr.Discard())
	vm := r.AddNode(&domain.VM{Name: "web01", InstanceUUID: "u1"})
	ds := r.AddNode(&domain.Datastore{Name: "ds1"})

	t.Run("ignores nil endpoints", func(t *testing.T) {
		r.AddEdge(vm, nil, domain.RelationStoredOn)
		r.AddEdge(nil, ds, domain.RelationStoredOn)
		assert.Zero(t, r.EdgeCount())
	})

	t.Run("deduplicates identical triples", func(t *testing.T) {
		r.AddEdge(vm, ds, domain.RelationStoredOn)
		r.AddEdge(vm, ds, domain.RelationStoredOn)
		assert.Equal(t, 1, r.EdgeCount())
	})

	t.Run("keeps distinct labels between the same nodes", func(t *testing.T) {
		r.AddEdge(vm, ds, domain.RelationConnectedTo)
		g := r.Graph()
		require.Len(t, g.Edges, 2)
		assert.Equal(t, "edge-vm-u1-to-datastore-ds1-stored_on-1", g.Edges[0].ID)
		assert.Equal(t, "edge-vm-u1-to-datastore-ds1-connected_to-2", g.Edges[1].ID)
	})
}
