package domain

import (
	"fmt"
	"strings"
)

// Relation labels an edge between two nodes
type Relation string

const (
	RelationHostedBy    Relation = "hosted-by"
	RelationMemberOf    Relation = "member-of"
	RelationStoredOn    Relation = "stored-on"
	RelationConnectedTo Relation = "connected-to"
	RelationAlsoHosts   Relation = "also-hosts"
)

// Edge is a directed, labelled relationship between two nodes
type Edge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Label  Relation `json:"label"`
}

// EdgeKey is the identity of an edge
type EdgeKey struct {
	Source string
	Target string
	Label  Relation
}

// Key returns the identity of the edge
func (e Edge) Key() EdgeKey {
	return EdgeKey{Source: e.Source, Target: e.Target, Label: e.Label}
}

// EdgeID builds the display id of the seq-th edge
func EdgeID(source, target string, label Relation, seq int) string {
	safe := strings.Map(func(r rune) rune {
		if r < 128 && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, string(label))
	return fmt.Sprintf("edge-%s-to-%s-%s-%d", source, target, safe, seq)
}
