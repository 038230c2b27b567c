// Package graph derives bounded-depth dependency graphs from an inventory
// snapshot.
package graph

import (
	"fmt"

	"github.com/go-logr/logr"

	"vspheremap/internal/domain"
)

// Builder explores a snapshot from a start object under a traversal policy.
// A Builder is single-use: it owns the registry and the set of expanded nodes
// for exactly one build.
type Builder struct {
	snap     *domain.Snapshot
	policy   domain.Policy
	log      logr.Logger
	reg      *Registry
	expanded map[string]struct{}
}

// NewBuilder creates a builder over snap. The snapshot is only read.
func NewBuilder(snap *domain.Snapshot, policy domain.Policy, log logr.Logger) *Builder {
	return &Builder{
		snap:     snap,
		policy:   policy,
		log:      log,
		reg:      NewRegistry(log),
		expanded: make(map[string]struct{}),
	}
}

// Build validates the policy, resolves the start object and explores from
// it. The policy is checked before the snapshot. Only an invalid policy, a
// missing snapshot and an unresolvable start object are errors; every other
// lookup miss is skipped.
func Build(snap *domain.Snapshot, policy domain.Policy, log logr.Logger) (*domain.Graph, error) {
	return NewBuilder(snap, policy, log).Build()
}

// Build runs the exploration
func (b *Builder) Build() (*domain.Graph, error) {
	if err := b.policy.Validate(); err != nil {
		return nil, err
	}
	if b.policy.StartType != domain.KindVM {
		return nil, fmt.Errorf("%w: start object type %q", domain.ErrUnsupported, b.policy.StartType)
	}
	if b.snap == nil {
		return nil, domain.ErrUnavailable
	}

	start, found := b.snap.FindVM(b.policy.StartIdentifier)
	if !found {
		return nil, fmt.Errorf("%w: start VM %q", domain.ErrNotFound, b.policy.StartIdentifier)
	}

	b.explore(start, 1)

	g := b.reg.Graph()
	b.log.Info("Built graph", "start", b.policy.StartIdentifier, "depth", b.policy.Depth,
		"nodes", len(g.Nodes), "edges", len(g.Edges))
	return g, nil
}

// explore registers obj and, the first time its node is seen, expands it
// according to its kind
func (b *Builder) explore(obj domain.Object, depth int) {
	node := b.reg.AddNode(obj)
	if node == nil {
		return
	}
	if _, done := b.expanded[node.ID]; done {
		return
	}
	b.expanded[node.ID] = struct{}{}

	if depth > b.policy.Depth {
		return
	}

	switch node.Type {
	case domain.KindVM:
		b.expandVM(node, depth)
	case domain.KindHost:
		b.expandHost(node)
	}
}

func (b *Builder) expandVM(vmNode *domain.Node, depth int) {
	vm, ok := vmNode.Data.(*domain.VM)
	if !ok {
		return
	}
	inc := b.policy.VMInclusions

	var hostNode *domain.Node
	if inc.IncludeHost && vm.HostName != "" {
		if host, found := b.snap.FindHost(vm.HostName); found {
			hostNode = b.reg.AddNode(host)
			if hostNode != nil {
				b.reg.AddEdge(vmNode, hostNode, domain.RelationHostedBy)
				if depth < b.policy.Depth {
					b.explore(host, depth+1)
				}
			}
		} else {
			b.log.V(1).Info("Host not found", "vm", vm.Name, "host", vm.HostName)
		}
	}

	if inc.IncludeClusterOfHost && hostNode != nil {
		if host, ok := hostNode.Data.(*domain.Host); ok {
			if cluster, found := b.snap.FindClusterContaining(host); found {
				if clusterNode := b.reg.AddNode(cluster); clusterNode != nil {
					b.reg.AddEdge(hostNode, clusterNode, domain.RelationMemberOf)
				}
			}
		}
	}

	if inc.IncludeDatastores {
		for _, disk := range vm.Disks {
			if disk.DatastoreName == "" {
				continue
			}
			ds, found := b.snap.FindDatastore(disk.DatastoreName)
			if !found {
				b.log.V(1).Info("Datastore not found", "vm", vm.Name, "datastore", disk.DatastoreName)
				continue
			}
			if dsNode := b.reg.AddNode(ds); dsNode != nil {
				b.reg.AddEdge(vmNode, dsNode, domain.RelationStoredOn)
			}
		}
	}

	if inc.IncludeNetworks {
		for _, nic := range vm.NICs {
			network, found := b.resolveNetwork(nic)
			if !found {
				continue
			}
			netNode := b.reg.AddNode(network)
			if netNode == nil {
				continue
			}
			b.reg.AddEdge(vmNode, netNode, domain.RelationConnectedTo)
			if network.VLAN != nil {
				netNode.AppendLabelInfo("VLAN", network.VLAN.String())
			}
		}
	}
}

// resolveNetwork looks a NIC's port group up by portgroup key first and, when
// that fails, by network name
func (b *Builder) resolveNetwork(nic domain.NIC) (*domain.Network, bool) {
	identifier := nic.NetworkName
	if nic.PortgroupKey != "" {
		identifier = nic.PortgroupKey
	}
	if identifier == "" {
		return nil, false
	}
	if network, found := b.snap.FindNetwork(identifier); found {
		return network, true
	}
	if nic.PortgroupKey != "" && nic.NetworkName != "" && nic.NetworkName != nic.PortgroupKey {
		if network, found := b.snap.FindNetwork(nic.NetworkName); found {
			return network, true
		}
	}
	b.log.V(1).Info("Network not found", "nic", nic.Label, "identifier", identifier)
	return nil, false
}

// expandHost adds the other VMs running on the host. Siblings are not
// expanded further.
func (b *Builder) expandHost(hostNode *domain.Node) {
	if !b.policy.HostInclusions.IncludeVMsOnHost {
		return
	}
	host, ok := hostNode.Data.(*domain.Host)
	if !ok {
		return
	}
	for i := range b.snap.VMs {
		vm := &b.snap.VMs[i]
		if vm.HostName != host.Name || vm.Matches(b.policy.StartIdentifier) {
			continue
		}
		if vmNode := b.reg.AddNode(vm); vmNode != nil {
			b.reg.AddEdge(hostNode, vmNode, domain.RelationAlsoHosts)
		}
	}
}
