package scratch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeUnderTest runs the Store contract against any implementation.
func storeUnderTest(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "sess-1", "notes")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "sess-1", "notes", "checked the router wiring"))
	got, err := store.Get(ctx, "sess-1", "notes")
	require.NoError(t, err)
	assert.Equal(t, "checked the router wiring", got)

	// Namespaces are isolated.
	_, err = store.Get(ctx, "sess-2", "notes")
	assert.ErrorIs(t, err, ErrNotFound)

	// Put replaces.
	require.NoError(t, store.Put(ctx, "sess-1", "notes", "revised"))
	got, err = store.Get(ctx, "sess-1", "notes")
	require.NoError(t, err)
	assert.Equal(t, "revised", got)
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestBadgerStore(t *testing.T) {
	store, err := NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	storeUnderTest(t, store)
}

func TestBadgerStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewBadgerStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "sess-1", "notes", "survives restart"))
	require.NoError(t, store.Close())

	reopened, err := NewBadgerStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "sess-1", "notes")
	require.NoError(t, err)
	assert.Equal(t, "survives restart", got)
}
