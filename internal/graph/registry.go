package graph

import (
	"github.com/go-logr/logr"

	"vspheremap/internal/domain"
)

// Registry accumulates the nodes and edges of one build. A node is keyed by
// its identity; the first record seen for an identity is kept and later
// registrations return the existing node. Edges are unique by
// (source, target, label). Insertion order is preserved for both.
type Registry struct {
	log   logr.Logger
	nodes map[string]*domain.Node
	order []*domain.Node
	edges map[domain.EdgeKey]struct{}
	list  []domain.Edge
	seq   int
}

// NewRegistry creates an empty registry
func NewRegistry(log logr.Logger) *Registry {
	return &Registry{
		log:   log,
		nodes: make(map[string]*domain.Node),
		edges: make(map[domain.EdgeKey]struct{}),
	}
}

// AddNode registers obj and returns its node. It returns nil when obj has no
// usable identifier.
func (r *Registry) AddNode(obj domain.Object) *domain.Node {
	if obj == nil {
		return nil
	}
	candidate, ok := domain.NewNode(obj)
	if !ok {
		r.log.Info("Skipping object without identifier", "kind", obj.Kind(), "label", obj.DisplayLabel())
		return nil
	}
	if existing, found := r.nodes[candidate.ID]; found {
		return existing
	}
	r.nodes[candidate.ID] = candidate
	r.order = append(r.order, candidate)
	r.log.V(1).Info("Added node", "id", candidate.ID, "kind", candidate.Type)
	return candidate
}

// Node returns a registered node by id
func (r *Registry) Node(id string) (*domain.Node, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

// AddEdge records a directed edge. It is a no-op when either endpoint is nil
// or the same (source, target, label) was already recorded.
func (r *Registry) AddEdge(source, target *domain.Node, label domain.Relation) {
	if source == nil || target == nil {
		return
	}
	key := domain.EdgeKey{Source: source.ID, Target: target.ID, Label: label}
	if _, dup := r.edges[key]; dup {
		return
	}
	r.seq++
	edge := domain.Edge{
		ID:     domain.EdgeID(source.ID, target.ID, label, r.seq),
		Source: source.ID,
		Target: target.ID,
		Label:  label,
	}
	r.edges[key] = struct{}{}
	r.list = append(r.list, edge)
	r.log.V(1).Info("Added edge", "id", edge.ID)
}

// NodeCount returns the number of distinct nodes
func (r *Registry) NodeCount() int { return len(r.order) }

// EdgeCount returns the number of distinct edges
func (r *Registry) EdgeCount() int { return len(r.list) }

// Graph materializes the registry contents in insertion order
func (r *Registry) Graph() *domain.Graph {
	g := domain.NewGraph()
	g.Nodes = append(g.Nodes, r.order...)
	g.Edges = append(g.Edges, r.list...)
	return g
}
