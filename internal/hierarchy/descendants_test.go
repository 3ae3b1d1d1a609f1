package hierarchy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescendantOrgIDs_Leaf(t *testing.T) {
	store := newMemoryStore().addRoot(1)

	ids, err := DescendantOrgIDs(context.Background(), store, 1)

	require.NoError(t, err)
	require.NotNil(t, ids)
	assert.Empty(t, ids)
	assert.False(t, Truncated(ids))
}

func TestDescendantOrgIDs_BreadthFirstExcludesSelf(t *testing.T) {
	store := newMemoryStore().addRoot(1)
	store.addChild(2, 1).addChild(3, 1)
	store.addChild(4, 2).addChild(5, 3)

	ids, err := DescendantOrgIDs(context.Background(), store, 1)

	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3, 4, 5}, ids)
	assert.NotContains(t, ids, uint64(1))
}

func TestDescendantOrgIDs_CappedMidLevel(t *testing.T) {
	store := newMemoryStore().addRoot(1)
	for i := uint64(0); i < MaxDescendants+500; i++ {
		store.addChild(100+i, 1)
	}

	ids, err := DescendantOrgIDs(context.Background(), store, 1)

	require.NoError(t, err)
	assert.Len(t, ids, MaxDescendants)
	assert.True(t, Truncated(ids))
	assert.Equal(t, 1, store.childReads, "cap hit while reading the first level")
}

func TestDescendantOrgIDs_CappedAcrossLevels(t *testing.T) {
	store := newMemoryStore().addRoot(1)
	next := uint64(2)
	for i := 0; i < 40; i++ {
		mid := next
		next++
		store.addChild(mid, 1)
		for j := 0; j < 40; j++ {
			store.addChild(next, mid)
			next++
		}
	}

	ids, err := DescendantOrgIDs(context.Background(), store, 1)

	require.NoError(t, err)
	assert.Len(t, ids, MaxDescendants)
}

func TestDescendantOrgIDs_CycleTerminates(t *testing.T) {
	store := newMemoryStore()
	store.addChild(1, 2)
	store.addChild(2, 1)
	store.addChild(3, 2)

	ids, err := DescendantOrgIDs(context.Background(), store, 1)

	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{2, 3}, ids)
}
