package hierarchy

import (
	"context"
	"fmt"
)

// Depth returns the number of parent hops from id up to a root. A root, or an
// id that does not exist, has depth 0. The walk stops after
// MaxParentWalkIterations hops and returns what it has counted, so a cyclic
// parent chain yields MaxParentWalkIterations rather than an error.
func Depth(ctx context.Context, store Store, id uint64) (int, error) {
	return walkParentChain(ctx, store, id, nil)
}

// walkParentChain counts hops upward from startID. When target is non-nil and
// shows up as a parent anywhere along the chain, it returns a cycle error at
// that hop.
func walkParentChain(ctx context.Context, store Store, startID uint64, target *uint64) (int, error) {
	depth := 0
	current := startID

	for i := 0; i < MaxParentWalkIterations; i++ {
		node, err := store.FetchParent(ctx, current)
		if err != nil {
			return depth, fmt.Errorf("fetch parent of organization %d: %w", current, err)
		}
		if node == nil || node.IsRoot() {
			return depth, nil
		}

		parentID := *node.ParentOrganizationID
		if target != nil && parentID == *target {
			return depth, cycleError(*target, startID)
		}

		depth++
		current = parentID
	}

	recordCapHit(ctx, traversalAncestors, startID, MaxParentWalkIterations)
	return depth, nil
}
