package graph

// DependencyIndex maps every node id to the ids it shares an edge with, in
// edge order. Every node in the graph has an entry, possibly empty.
type DependencyIndex map[string][]string

// Reconcile validates and normalizes a graph snapshot accumulated across
// iterative editing. Edges are walked in original order; an edge is dropped
// when either endpoint is unknown or when its (source, target, type) triple
// has already been seen (first occurrence wins). The result is a new graph
// carrying the same version, nodes, and artifacts, plus a bidirectional
// dependency index.
//
// Reconcile is idempotent: reconciling an already-reconciled graph yields an
// identical graph and index.
func Reconcile(g *FeatureGraph) (*FeatureGraph, DependencyIndex) {
	type triple struct {
		source, target, kind string
	}

	seen := make(map[triple]bool)
	kept := make([]FeatureEdge, 0, len(g.edges))
	index := make(DependencyIndex, len(g.nodes))

	for id := range g.nodes {
		index[id] = []string{}
	}

	for _, e := range g.edges {
		if !g.HasFeature(e.Source) || !g.HasFeature(e.Target) {
			continue
		}
		key := triple{e.Source, e.Target, e.Type}
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, e)
		index[e.Source] = append(index[e.Source], e.Target)
		index[e.Target] = append(index[e.Target], e.Source)
	}

	return New(g.version, g.nodes, kept, g.artifacts), index
}

// Describe returns a human-readable summary for a node, falling back from
// description to name to id so the result is never empty for a node with an
// id.
func Describe(n FeatureNode) string {
	if n.Description != "" {
		return n.Description
	}
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}
