package domain

// Kind is the closed set of inventory object kinds that can appear in a graph
type Kind string

const (
	KindVM        Kind = "VM"
	KindHost      Kind = "Host"
	KindCluster   Kind = "Cluster"
	KindDatastore Kind = "Datastore"
	KindNetwork   Kind = "Network"
)

// Kinds lists every known kind in display order
var Kinds = []Kind{KindVM, KindHost, KindCluster, KindDatastore, KindNetwork}

// Object is implemented by every inventory record that can become a graph node
type Object interface {
	Kind() Kind
	// PrimaryID returns the identifier the node identity is derived from,
	// or "" when the record carries no usable identifier.
	PrimaryID() string
	DisplayLabel() string
	// NodeStatus returns the status shown on the node, or "" for none.
	NodeStatus() string
}
