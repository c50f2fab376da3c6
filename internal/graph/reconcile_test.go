package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileDropsDuplicateTriples(t *testing.T) {
	g := New(1,
		map[string]FeatureNode{"a": {ID: "a"}, "b": {ID: "b"}},
		[]FeatureEdge{
			{Source: "a", Target: "b", Type: "depends-on"},
			{Source: "a", Target: "b", Type: "depends-on"},
			{Source: "a", Target: "b", Type: "relates-to"},
		},
		nil,
	)

	clean, _ := Reconcile(g)
	edges := clean.ListEdges()
	require.Len(t, edges, 2)
	assert.Equal(t, "depends-on", edges[0].Type)
	assert.Equal(t, "relates-to", edges[1].Type)
}

func TestReconcileDropsDanglingEdges(t *testing.T) {
	g := New(1,
		map[string]FeatureNode{"a": {ID: "a"}, "b": {ID: "b"}},
		[]FeatureEdge{
			{Source: "a", Target: "x", Type: "depends-on"},
			{Source: "y", Target: "b", Type: "depends-on"},
			{Source: "a", Target: "b", Type: "depends-on"},
		},
		nil,
	)

	clean, index := Reconcile(g)
	require.Len(t, clean.ListEdges(), 1)

	// A reconciled graph traverses without integrity errors.
	from, err := clean.EdgesFrom("a")
	require.NoError(t, err)
	assert.Len(t, from, 1)

	assert.Equal(t, []string{"b"}, index["a"])
	assert.Equal(t, []string{"a"}, index["b"])
}

func TestReconcilePreservesVersionNodesArtifacts(t *testing.T) {
	g := New(7,
		map[string]FeatureNode{"a": {ID: "a", Name: "A"}},
		nil,
		map[string]string{"doc": "out/doc.md"},
	)

	clean, index := Reconcile(g)
	assert.Equal(t, 7, clean.Version())
	assert.True(t, clean.HasFeature("a"))
	assert.Equal(t, map[string]string{"doc": "out/doc.md"}, clean.Artifacts())
	assert.Equal(t, DependencyIndex{"a": {}}, index)
}

func TestReconcileIndexIncludesIsolatedNodes(t *testing.T) {
	g := New(1,
		map[string]FeatureNode{
			"a": {ID: "a"}, "b": {ID: "b"}, "lone": {ID: "lone"},
		},
		[]FeatureEdge{{Source: "a", Target: "b", Type: "depends-on"}},
		nil,
	)

	_, index := Reconcile(g)
	require.Contains(t, index, "lone")
	assert.Empty(t, index["lone"])
}

func TestReconcileIdempotent(t *testing.T) {
	g := New(2,
		map[string]FeatureNode{"a": {ID: "a"}, "b": {ID: "b"}, "c": {ID: "c"}},
		[]FeatureEdge{
			{Source: "a", Target: "b", Type: "depends-on"},
			{Source: "a", Target: "b", Type: "depends-on"},
			{Source: "b", Target: "c", Type: "supports"},
			{Source: "c", Target: "ghost", Type: "depends-on"},
		},
		nil,
	)

	once, onceIndex := Reconcile(g)
	twice, twiceIndex := Reconcile(once)

	assert.Equal(t, once.Version(), twice.Version())
	assert.Equal(t, once.ListEdges(), twice.ListEdges())
	assert.Equal(t, once.ListFeatures(), twice.ListFeatures())
	assert.Equal(t, onceIndex, twiceIndex)
}

func TestDescribeFallback(t *testing.T) {
	tests := []struct {
		name string
		node FeatureNode
		want string
	}{
		{"description wins", FeatureNode{ID: "f1", Name: "Login", Description: "User login flow"}, "User login flow"},
		{"name fallback", FeatureNode{ID: "f1", Name: "Login"}, "Login"},
		{"id fallback", FeatureNode{ID: "f1"}, "f1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.node))
		})
	}
}
