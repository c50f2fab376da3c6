package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGraph() *FeatureGraph {
	return New(3,
		map[string]FeatureNode{
			"auth":    {ID: "auth", Name: "Authentication", Status: StatusActive},
			"billing": {ID: "billing", Name: "Billing", Status: StatusProposed, Artifacts: []string{"docs/billing.md"}},
			"audit":   {ID: "audit", Name: "Audit Log", Status: StatusProposed},
		},
		[]FeatureEdge{
			{Source: "billing", Target: "auth", Type: "depends-on"},
			{Source: "audit", Target: "auth", Type: "depends-on"},
			{Source: "auth", Target: "audit", Type: "supports"},
		},
		map[string]string{"design-doc": "docs/design.md"},
	)
}

func TestGetFeature(t *testing.T) {
	g := testGraph()

	n, ok := g.GetFeature("auth")
	require.True(t, ok)
	assert.Equal(t, "Authentication", n.Name)

	_, ok = g.GetFeature("missing")
	assert.False(t, ok)
}

func TestHasFeature(t *testing.T) {
	g := testGraph()
	assert.True(t, g.HasFeature("billing"))
	assert.False(t, g.HasFeature("search"))
}

func TestListFeaturesSortedAndCopied(t *testing.T) {
	g := testGraph()

	first := g.ListFeatures()
	require.Len(t, first, 3)
	assert.Equal(t, []string{first[0].ID, first[1].ID, first[2].ID}, []string{"audit", "auth", "billing"})

	// Mutating the returned slice and its elements must not affect the store.
	first[0] = FeatureNode{ID: "mutated"}
	second := g.ListFeatures()
	assert.Equal(t, "audit", second[0].ID)
}

func TestNodeArtifactsCopied(t *testing.T) {
	g := testGraph()

	n, ok := g.GetFeature("billing")
	require.True(t, ok)
	n.Artifacts[0] = "mutated"

	again, _ := g.GetFeature("billing")
	assert.Equal(t, "docs/billing.md", again.Artifacts[0])
}

func TestConstructionCopiesInputs(t *testing.T) {
	nodes := map[string]FeatureNode{"a": {ID: "a"}}
	edges := []FeatureEdge{{Source: "a", Target: "a", Type: "self"}}
	g := New(1, nodes, edges, nil)

	delete(nodes, "a")
	edges[0].Source = "mutated"

	assert.True(t, g.HasFeature("a"))
	assert.Equal(t, "a", g.ListEdges()[0].Source)
}

func TestListEdgesCopyIndependence(t *testing.T) {
	g := testGraph()

	first := g.ListEdges()
	first[0].Type = "mutated"

	second := g.ListEdges()
	assert.Equal(t, "depends-on", second[0].Type)
}

func TestEdgesFromAndInto(t *testing.T) {
	g := testGraph()

	from, err := g.EdgesFrom("auth")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "audit", from[0].Target)

	into, err := g.EdgesInto("auth")
	require.NoError(t, err)
	assert.Len(t, into, 2)
}

func TestTraversalFailsOnDanglingEdge(t *testing.T) {
	g := New(1,
		map[string]FeatureNode{"a": {ID: "a"}},
		[]FeatureEdge{{Source: "a", Target: "ghost", Type: "depends-on"}},
		nil,
	)

	// Construction holds the inconsistent graph; traversal surfaces it.
	_, err := g.EdgesFrom("a")
	assert.ErrorIs(t, err, ErrReferentialIntegrity)

	_, err = g.EdgesInto("ghost")
	assert.ErrorIs(t, err, ErrReferentialIntegrity)

	_, err = g.Neighbors("a", DirectionBoth)
	assert.ErrorIs(t, err, ErrReferentialIntegrity)
}

func TestNeighbors(t *testing.T) {
	g := testGraph()

	out, err := g.Neighbors("auth", DirectionOutgoing)
	require.NoError(t, err)
	assert.Equal(t, []string{"audit"}, out)

	in, err := g.Neighbors("auth", DirectionIncoming)
	require.NoError(t, err)
	assert.Equal(t, []string{"billing", "audit"}, in)
}

func TestNeighborsBothDeduplicates(t *testing.T) {
	g := testGraph()

	// audit is reachable from auth via both an outgoing and an incoming edge.
	both, err := g.Neighbors("auth", DirectionBoth)
	require.NoError(t, err)
	assert.Equal(t, []string{"audit", "billing"}, both)
}

func TestArtifactsCopy(t *testing.T) {
	g := testGraph()

	a := g.Artifacts()
	a["design-doc"] = "mutated"
	a["extra"] = "value"

	again := g.Artifacts()
	assert.Equal(t, map[string]string{"design-doc": "docs/design.md"}, again)
}
