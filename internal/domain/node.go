package domain

import "strings"

// Node is a vertex of a dependency graph. Data carries the full record.
type Node struct {
	ID     string  `json:"id"`
	Type   Kind    `json:"type"`
	Label  string  `json:"label"`
	Status *string `json:"status"`
	Data   Object  `json:"data"`
}

// NewNode builds the node for obj, or returns false when obj has no usable
// primary identifier
func NewNode(obj Object) (*Node, bool) {
	primary := obj.PrimaryID()
	if primary == "" {
		return nil, false
	}
	node := &Node{
		ID:    NodeID(obj.Kind(), primary),
		Type:  obj.Kind(),
		Label: obj.DisplayLabel(),
		Data:  obj,
	}
	if status := obj.NodeStatus(); status != "" {
		node.Status = &status
	}
	return node, true
}

var nodeIDReplacer = strings.NewReplacer(" ", "_", ":", "-", ".", "_", "/", "_")

// NodeID derives the stable textual id of (kind, identifier)
func NodeID(kind Kind, identifier string) string {
	return strings.ToLower(string(kind)) + "-" + nodeIDReplacer.Replace(identifier)
}

// AppendLabelInfo appends " (<name>: <info>)" unless info already appears in
// the label
func (n *Node) AppendLabelInfo(name, info string) bool {
	if info == "" || strings.Contains(n.Label, info) {
		return false
	}
	n.Label += " (" + name + ": " + info + ")"
	return true
}
