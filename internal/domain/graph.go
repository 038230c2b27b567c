package domain

// Graph is the result of a graph build, ready for the visualization client
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Edges []Edge  `json:"edges"`
}

// NewGraph creates an empty graph with initialized collections
func NewGraph() *Graph {
	return &Graph{
		Nodes: []*Node{},
		Edges: []Edge{},
	}
}

// NodeByID returns the node with the given id
func (g *Graph) NodeByID(id string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// CountByKind tallies nodes per kind
func (g *Graph) CountByKind() map[Kind]int {
	counts := make(map[Kind]int, len(Kinds))
	for _, n := range g.Nodes {
		counts[n.Type]++
	}
	return counts
}
