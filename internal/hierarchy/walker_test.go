package hierarchy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepth_RootIsZero(t *testing.T) {
	store := newMemoryStore().addRoot(1)

	depth, err := Depth(context.Background(), store, 1)

	require.NoError(t, err)
	assert.Equal(t, 0, depth)
	assert.Equal(t, 1, store.parentReads)
}

func TestDepth_Grandchild(t *testing.T) {
	const root, child, grandchild = 1, 2, 3
	store := newMemoryStore().chain(root, child, grandchild)

	depth, err := Depth(context.Background(), store, grandchild)

	require.NoError(t, err)
	assert.Equal(t, 2, depth)
}

func TestDepth_MissingOrganization(t *testing.T) {
	depth, err := Depth(context.Background(), newMemoryStore(), 42)

	require.NoError(t, err)
	assert.Equal(t, 0, depth)
}

func TestDepth_ChainLengths(t *testing.T) {
	for _, n := range []int{0, 1, 5, 50, MaxParentWalkIterations} {
		ids := make([]uint64, n+1)
		for i := range ids {
			ids[i] = uint64(i + 1)
		}
		store := newMemoryStore().chain(ids...)

		depth, err := Depth(context.Background(), store, ids[n])

		require.NoError(t, err)
		assert.Equal(t, n, depth, "chain of %d hops", n)
	}
}

func TestDepth_LongChainIsCapped(t *testing.T) {
	ids := make([]uint64, MaxParentWalkIterations+50)
	for i := range ids {
		ids[i] = uint64(i + 1)
	}
	store := newMemoryStore().chain(ids...)

	depth, err := Depth(context.Background(), store, ids[len(ids)-1])

	require.NoError(t, err)
	assert.Equal(t, MaxParentWalkIterations, depth)
	assert.Equal(t, MaxParentWalkIterations, store.parentReads)
}

func TestDepth_CyclicChainIsCapped(t *testing.T) {
	store := newMemoryStore()
	store.addChild(1, 2)
	store.addChild(2, 3)
	store.addChild(3, 1)

	depth, err := Depth(context.Background(), store, 1)

	require.NoError(t, err)
	assert.LessOrEqual(t, depth, MaxParentWalkIterations)
	assert.Equal(t, MaxParentWalkIterations, depth)
}

func TestDepth_StoreError(t *testing.T) {
	store := newMemoryStore().addRoot(1)
	store.err = errStoreDown

	_, err := Depth(context.Background(), store, 1)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errStoreDown))
}

func TestWalkParentChain_TargetFoundAnywhereUp(t *testing.T) {
	const target, mid, start = 1, 2, 3
	store := newMemoryStore().chain(target, mid, start)
	watch := uint64(target)

	_, err := walkParentChain(context.Background(), store, start, &watch)

	require.ErrorIs(t, err, ErrHierarchyCycle)
	assert.Equal(t, 2, store.parentReads, "stops at the hop where the target appears")
}

func TestWalkParentChain_TargetAbsent(t *testing.T) {
	store := newMemoryStore().chain(1, 2, 3)
	watch := uint64(99)

	depth, err := walkParentChain(context.Background(), store, 3, &watch)

	require.NoError(t, err)
	assert.Equal(t, 2, depth)
}
