package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeID(t *testing.T) {
	t.Run("replaces non alphanumeric label characters", func(t *testing.T) {
		assert.Equal(t, "edge-vm-u1-to-host-esx1-hosted_by-1",
			EdgeID("vm-u1", "host-esx1", RelationHostedBy, 1))
		assert.Equal(t, "edge-a-to-b-also_hosts-12", EdgeID("a", "b", RelationAlsoHosts, 12))
	})

	t.Run("replaces non ASCII letters", func(t *testing.T) {
		assert.Equal(t, "edge-a-to-b-h_berg_e-3", EdgeID("a", "b", Relation("hébergée"), 3))
	})
}

func TestEdgeKey(t *testing.T) {
	a := Edge{ID: "x", Source: "s", Target: "t", Label: RelationStoredOn}
	b := Edge{ID: "y", Source: "s", Target: "t", Label: RelationStoredOn}
	c := Edge{ID: "x", Source: "s", Target: "t", Label: RelationConnectedTo}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}
