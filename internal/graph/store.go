// Package graph models the feature-dependency graph an agent session designs
// against: feature nodes keyed by id, typed directed edges between them, and
// a reconciliation pass that turns an iteratively-edited graph into a
// canonical one plus a bidirectional dependency index.
//
// Nodes reference each other only through string ids inside edges, never
// through pointers, so there are no ownership cycles. The store hands out
// defensive copies from every accessor; callers may mutate returned values
// freely without corrupting the snapshot. Replacement is the only write.
package graph

import (
	"errors"
	"fmt"
	"sort"
)

// ErrReferentialIntegrity is returned when an edge names a node id that is
// not present in the graph. It indicates a missing reconciliation pass, not
// a runtime condition to recover from.
var ErrReferentialIntegrity = errors.New("edge references unknown feature")

// Status describes a feature node's lifecycle state.
type Status string

const (
	StatusProposed   Status = "proposed"
	StatusActive     Status = "active"
	StatusInProgress Status = "in-progress"
	StatusInactive   Status = "inactive"
)

// FeatureNode is a single product feature in the graph.
type FeatureNode struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Artifacts   []string `json:"artifacts,omitempty"`
}

// clone returns a deep copy of the node.
func (n FeatureNode) clone() FeatureNode {
	c := n
	if n.Artifacts != nil {
		c.Artifacts = append([]string(nil), n.Artifacts...)
	}
	return c
}

// FeatureEdge is a directed, typed relation between two feature nodes.
// Multiple edges between the same pair with different types are permitted.
type FeatureEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// Direction selects which edges Neighbors traverses.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
	DirectionBoth     Direction = "both"
)

// FeatureGraph is an immutable snapshot of nodes, edges, and auxiliary
// artifacts. Construction may legally hold a not-yet-reconciled graph; edge
// integrity is checked lazily at traversal time.
type FeatureGraph struct {
	version   int
	nodes     map[string]FeatureNode
	edges     []FeatureEdge
	artifacts map[string]string
}

// New constructs a graph snapshot. All inputs are copied; the caller keeps
// no handle into internal state.
func New(version int, nodes map[string]FeatureNode, edges []FeatureEdge, artifacts map[string]string) *FeatureGraph {
	g := &FeatureGraph{
		version:   version,
		nodes:     make(map[string]FeatureNode, len(nodes)),
		edges:     make([]FeatureEdge, len(edges)),
		artifacts: make(map[string]string, len(artifacts)),
	}
	for id, n := range nodes {
		g.nodes[id] = n.clone()
	}
	copy(g.edges, edges)
	for k, v := range artifacts {
		g.artifacts[k] = v
	}
	return g
}

// Version returns the graph's monotonically increasing version.
func (g *FeatureGraph) Version() int {
	return g.version
}

// HasFeature reports whether a node with the given id exists.
func (g *FeatureGraph) HasFeature(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// GetFeature returns a copy of the node, or ok=false if absent.
func (g *FeatureGraph) GetFeature(id string) (FeatureNode, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return FeatureNode{}, false
	}
	return n.clone(), true
}

// ListFeatures returns a fresh copy of all nodes, sorted by id for
// deterministic ordering.
func (g *FeatureGraph) ListFeatures() []FeatureNode {
	out := make([]FeatureNode, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListEdges returns a fresh copy of the edge sequence in original order.
func (g *FeatureGraph) ListEdges() []FeatureEdge {
	out := make([]FeatureEdge, len(g.edges))
	copy(out, g.edges)
	return out
}

// EdgesFrom returns copies of all edges whose source is id. It fails with
// ErrReferentialIntegrity if any edge in the graph names an unknown node.
func (g *FeatureGraph) EdgesFrom(id string) ([]FeatureEdge, error) {
	if err := g.checkIntegrity(); err != nil {
		return nil, err
	}
	var out []FeatureEdge
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out, nil
}

// EdgesInto returns copies of all edges whose target is id. It fails with
// ErrReferentialIntegrity if any edge in the graph names an unknown node.
func (g *FeatureGraph) EdgesInto(id string) ([]FeatureEdge, error) {
	if err := g.checkIntegrity(); err != nil {
		return nil, err
	}
	var out []FeatureEdge
	for _, e := range g.edges {
		if e.Target == id {
			out = append(out, e)
		}
	}
	return out, nil
}

// Neighbors returns the ids of nodes adjacent to id in the given direction.
// DirectionBoth deduplicates a neighbor reachable through both an outgoing
// and an incoming edge into a single entry.
func (g *FeatureGraph) Neighbors(id string, dir Direction) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	if dir == DirectionOutgoing || dir == DirectionBoth {
		edges, err := g.EdgesFrom(id)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			if !seen[e.Target] {
				seen[e.Target] = true
				out = append(out, e.Target)
			}
		}
	}
	if dir == DirectionIncoming || dir == DirectionBoth {
		edges, err := g.EdgesInto(id)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			if !seen[e.Source] {
				seen[e.Source] = true
				out = append(out, e.Source)
			}
		}
	}
	return out, nil
}

// Artifacts returns a copy of the auxiliary artifacts mapping.
func (g *FeatureGraph) Artifacts() map[string]string {
	out := make(map[string]string, len(g.artifacts))
	for k, v := range g.artifacts {
		out[k] = v
	}
	return out
}

// checkIntegrity verifies every edge endpoint names a known node.
func (g *FeatureGraph) checkIntegrity() error {
	for _, e := range g.edges {
		if !g.HasFeature(e.Source) {
			return fmt.Errorf("%w: source %q in edge %q -> %q", ErrReferentialIntegrity, e.Source, e.Source, e.Target)
		}
		if !g.HasFeature(e.Target) {
			return fmt.Errorf("%w: target %q in edge %q -> %q", ErrReferentialIntegrity, e.Target, e.Source, e.Target)
		}
	}
	return nil
}
