package graph

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vspheremap/internal/domain"
)

func policyFor(start string, depth int) domain.Policy {
	p := domain.DefaultPolicy()
	p.StartIdentifier = start
	p.Depth = depth
	return p
}

func edgeTriples(g *domain.Graph) []string {
	out := make([]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		out = append(out, e.Source+" "+string(e.Label)+" "+e.Target)
	}
	return out
}

func nodeIDs(g *domain.Graph) []string {
	out := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		out = append(out, n.ID)
	}
	return out
}

func singleHostSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		VMs: []domain.VM{{Name: "web01", InstanceUUID: "u1", HostName: "esx1", PowerState: "poweredOn"}},
		Infrastructure: domain.Infrastructure{Datacenters: []domain.Datacenter{{
			Name:            "dc1",
			StandaloneHosts: []domain.Host{{Name: "esx1"}},
		}}},
	}
}

// richSnapshot has two clustered hosts, three VMs on esx1, one on esx2, a
// shared datastore and both port group flavours.
func richSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		VMs: []domain.VM{
			{
				Name: "web01", InstanceUUID: "u1", HostName: "esx1",
				Disks: []domain.Disk{
					{Label: "Hard disk 1", DatastoreName: "ds1"},
					{Label: "Hard disk 2", DatastoreName: "ds1"},
					{Label: "Hard disk 3", DatastoreName: "missing"},
				},
				NICs: []domain.NIC{
					{Label: "Network adapter 1", NetworkName: "VM Network"},
					{Label: "Network adapter 2", NetworkName: "dvpg-prod", PortgroupKey: "dvportgroup-10"},
					{Label: "Network adapter 3", NetworkName: "dvpg-stale", PortgroupKey: "dvportgroup-99"},
				},
			},
			{Name: "db01", InstanceUUID: "u2", HostName: "esx1", Disks: []domain.Disk{{DatastoreName: "ds1"}}},
			{Name: "cache01", InstanceUUID: "u3", HostName: "esx1"},
			{Name: "batch01", InstanceUUID: "u4", HostName: "esx2"},
		},
		Infrastructure: domain.Infrastructure{Datacenters: []domain.Datacenter{{
			Name: "dc1",
			Clusters: []domain.Cluster{{
				Name:   "prod",
				Status: "green",
				Hosts: []domain.Host{
					{Name: "esx1", BIOSUUID: "b-1", Status: "green"},
					{Name: "esx2", BIOSUUID: "b-2"},
				},
			}},
		}}},
		Datastores: []domain.Datastore{{Name: "ds1", UUID: "ds-uuid-1", Accessible: true}},
		Networks: domain.Networks{
			Standard: []domain.Network{{Name: "VM Network", Type: domain.NetworkTypeStandard, VLAN: &domain.VLAN{Mode: domain.VLANModeAccess, ID: 100}}},
			Distributed: []domain.Network{
				{Name: "dvpg-prod", Key: "dvportgroup-10", Type: domain.NetworkTypeDistributed, VLAN: &domain.VLAN{Mode: domain.VLANModeTrunk, Ranges: []domain.VLANRange{{Start: 1, End: 10}}}},
				{Name: "dvpg-stale", Key: "dvportgroup-20", Type: domain.NetworkTypeDistributed},
			},
		},
	}
}

func TestBuildScenarios(t *testing.T) {
	log := logr.Discard()

	t.Run("single VM with its host at depth one", func(t *testing.T) {
		g, err := Build(singleHostSnapshot(), policyFor("web01", 1), log)
		require.NoError(t, err)

		assert.Equal(t, []string{"vm-u1", "host-esx1"}, nodeIDs(g))
		require.Len(t, g.Edges, 1)
		assert.Equal(t, "vm-u1", g.Edges[0].Source)
		assert.Equal(t, "host-esx1", g.Edges[0].Target)
		assert.Equal(t, domain.RelationHostedBy, g.Edges[0].Label)
		assert.Equal(t, "edge-vm-u1-to-host-esx1-hosted_by-1", g.Edges[0].ID)
	})

	t.Run("host excluded leaves only the start VM", func(t *testing.T) {
		p := policyFor("web01", 1)
		p.VMInclusions.IncludeHost = false

		g, err := Build(singleHostSnapshot(), p, log)
		require.NoError(t, err)
		assert.Equal(t, []string{"vm-u1"}, nodeIDs(g))
		assert.Empty(t, g.Edges)
	})

	t.Run("unknown start identifier is not found", func(t *testing.T) {
		g, err := Build(singleHostSnapshot(), policyFor("ghost01", 1), log)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, g)
	})

	t.Run("two disks on one datastore yield one node and one edge", func(t *testing.T) {
		snap := &domain.Snapshot{
			VMs: []domain.VM{{Name: "web01", InstanceUUID: "u1", Disks: []domain.Disk{
				{DatastoreName: "ds1"}, {DatastoreName: "ds1"},
			}}},
			Datastores: []domain.Datastore{{Name: "ds1"}},
		}
		g, err := Build(snap, policyFor("web01", 1), log)
		require.NoError(t, err)

		assert.Equal(t, []string{"vm-u1", "datastore-ds1"}, nodeIDs(g))
		assert.Equal(t, []string{"vm-u1 stored-on datastore-ds1"}, edgeTriples(g))
	})

	t.Run("host start type is unsupported", func(t *testing.T) {
		p := policyFor("esx1", 1)
		p.StartType = domain.KindHost

		g, err := Build(singleHostSnapshot(), p, log)
		assert.ErrorIs(t, err, domain.ErrUnsupported)
		assert.Nil(t, g)
	})
}

func TestBuildErrors(t *testing.T) {
	log := logr.Discard()

	t.Run("missing snapshot is unavailable", func(t *testing.T) {
		_, err := Build(nil, policyFor("web01", 1), log)
		assert.ErrorIs(t, err, domain.ErrUnavailable)
	})

	t.Run("depth outside the allowed range is rejected", func(t *testing.T) {
		for _, depth := range []int{0, 3, -1} {
			_, err := Build(singleHostSnapshot(), policyFor("web01", depth), log)
			assert.ErrorIs(t, err, domain.ErrInvalidPolicy, "depth %d", depth)
		}
	})

	t.Run("empty start identifier is rejected", func(t *testing.T) {
		_, err := Build(singleHostSnapshot(), policyFor("  ", 1), log)
		assert.ErrorIs(t, err, domain.ErrInvalidPolicy)
	})

	t.Run("invalid policy wins over a missing snapshot", func(t *testing.T) {
		_, err := Build(nil, policyFor("web01", 5), log)
		assert.ErrorIs(t, err, domain.ErrInvalidPolicy)
	})

	t.Run("start type must match exactly", func(t *testing.T) {
		p := policyFor("web01", 1)
		p.StartType = "vm"
		_, err := Build(singleHostSnapshot(), p, log)
		assert.ErrorIs(t, err, domain.ErrUnsupported)
	})

	t.Run("unknown start type is unsupported", func(t *testing.T) {
		p := policyFor("web01", 1)
		p.StartType = "Folder"
		_, err := Build(singleHostSnapshot(), p, log)
		assert.ErrorIs(t, err, domain.ErrUnsupported)
	})
}

func TestBuildDepthOne(t *testing.T) {
	g, err := Build(richSnapshot(), policyFor("u1", 1), logr.Discard())
	require.NoError(t, err)

	t.Run("includes direct relationships only", func(t *testing.T) {
		assert.Equal(t, []string{
			"vm-u1",
			"host-b-1",
			"cluster-prod",
			"datastore-ds-uuid-1",
			"network-VM_Network",
			"network-dvportgroup-10",
			"network-dvportgroup-20",
		}, nodeIDs(g))
	})

	t.Run("does not list sibling VMs", func(t *testing.T) {
		for _, n := range g.Nodes {
			if n.Type == domain.KindVM {
				assert.Equal(t, "vm-u1", n.ID)
			}
		}
	})

	t.Run("links every edge to the start VM or its host", func(t *testing.T) {
		assert.Equal(t, []string{
			"vm-u1 hosted-by host-b-1",
			"host-b-1 member-of cluster-prod",
			"vm-u1 stored-on datastore-ds-uuid-1",
			"vm-u1 connected-to network-VM_Network",
			"vm-u1 connected-to network-dvportgroup-10",
			"vm-u1 connected-to network-dvportgroup-20",
		}, edgeTriples(g))
	})

	t.Run("numbers edges in creation order", func(t *testing.T) {
		for i, e := range g.Edges {
			assert.True(t, strings.HasSuffix(e.ID, fmt.Sprintf("-%d", i+1)), e.ID)
		}
		assert.Equal(t, "edge-host-b-1-to-cluster-prod-member_of-2", g.Edges[1].ID)
	})

	t.Run("appends VLAN info to network labels", func(t *testing.T) {
		n, ok := g.NodeByID("network-VM_Network")
		require.True(t, ok)
		assert.Equal(t, "VM Network (VLAN: 100)", n.Label)

		n, ok = g.NodeByID("network-dvportgroup-10")
		require.True(t, ok)
		assert.Equal(t, "dvpg-prod (VLAN: Trunk (1-10))", n.Label)

		n, ok = g.NodeByID("network-dvportgroup-20")
		require.True(t, ok)
		assert.Equal(t, "dvpg-stale", n.Label)
	})

	t.Run("carries status and record data", func(t *testing.T) {
		host, ok := g.NodeByID("host-b-1")
		require.True(t, ok)
		require.NotNil(t, host.Status)
		assert.Equal(t, "green", *host.Status)
		assert.Equal(t, "esx1", host.Data.(*domain.Host).Name)

		ds, _ := g.NodeByID("datastore-ds-uuid-1")
		require.NotNil(t, ds.Status)
		assert.Equal(t, "accessible", *ds.Status)

		net, _ := g.NodeByID("network-VM_Network")
		assert.Nil(t, net.Status)
	})
}

func TestBuildDepthTwo(t *testing.T) {
	g, err := Build(richSnapshot(), policyFor("web01", 2), logr.Discard())
	require.NoError(t, err)

	t.Run("adds sibling VMs on the host without duplicating the start VM", func(t *testing.T) {
		counts := g.CountByKind()
		assert.Equal(t, 3, counts[domain.KindVM])
		assert.Contains(t, edgeTriples(g), "host-b-1 also-hosts vm-u2")
		assert.Contains(t, edgeTriples(g), "host-b-1 also-hosts vm-u3")
		assert.NotContains(t, edgeTriples(g), "host-b-1 also-hosts vm-u1")
		assert.NotContains(t, nodeIDs(g), "vm-u4")
	})

	t.Run("does not expand siblings", func(t *testing.T) {
		for _, e := range g.Edges {
			assert.NotEqual(t, "vm-u2", e.Source)
			assert.NotEqual(t, "vm-u3", e.Source)
		}
	})

	t.Run("keeps edge triples unique", func(t *testing.T) {
		seen := make(map[domain.EdgeKey]bool)
		for _, e := range g.Edges {
			assert.False(t, seen[e.Key()], "duplicate edge %s", e.ID)
			seen[e.Key()] = true
		}
	})

	t.Run("omits siblings when host inclusions are off", func(t *testing.T) {
		p := policyFor("web01", 2)
		p.HostInclusions.IncludeVMsOnHost = false
		g, err := Build(richSnapshot(), p, logr.Discard())
		require.NoError(t, err)
		assert.Equal(t, 1, g.CountByKind()[domain.KindVM])
	})
}

func TestBuildInclusions(t *testing.T) {
	t.Run("cluster requires the host to be included", func(t *testing.T) {
		p := policyFor("web01", 1)
		p.VMInclusions.IncludeHost = false
		g, err := Build(richSnapshot(), p, logr.Discard())
		require.NoError(t, err)
		assert.Zero(t, g.CountByKind()[domain.KindCluster])
	})

	t.Run("datastores and networks can be switched off", func(t *testing.T) {
		p := policyFor("web01", 1)
		p.VMInclusions.IncludeDatastores = false
		p.VMInclusions.IncludeNetworks = false
		g, err := Build(richSnapshot(), p, logr.Discard())
		require.NoError(t, err)
		assert.Equal(t, []string{"vm-u1", "host-b-1", "cluster-prod"}, nodeIDs(g))
	})

	t.Run("unresolved host is skipped", func(t *testing.T) {
		snap := &domain.Snapshot{VMs: []domain.VM{{Name: "orphan", HostName: "gone"}}}
		g, err := Build(snap, policyFor("orphan", 2), logr.Discard())
		require.NoError(t, err)
		assert.Equal(t, []string{"vm-orphan"}, nodeIDs(g))
		assert.Empty(t, g.Edges)
	})
}

func TestBuildTerminatesOnSharedHost(t *testing.T) {
	// Sibling VM named like the start VM's host exercises the expanded set.
	snap := richSnapshot()
	snap.VMs = append(snap.VMs, domain.VM{Name: "esx1", HostName: "esx1"})

	g, err := Build(snap, policyFor("web01", 2), logr.Discard())
	require.NoError(t, err)
	assert.Contains(t, nodeIDs(g), "vm-esx1")
	assert.Contains(t, nodeIDs(g), "host-b-1")
}

func TestBuildIsDeterministic(t *testing.T) {
	first, err := Build(richSnapshot(), policyFor("web01", 2), logr.Discard())
	require.NoError(t, err)
	second, err := Build(richSnapshot(), policyFor("web01", 2), logr.Discard())
	require.NoError(t, err)

	assert.Equal(t, nodeIDs(first), nodeIDs(second))
	assert.Equal(t, first.Edges, second.Edges)
}
