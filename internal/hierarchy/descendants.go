package hierarchy

import (
	"context"
	"fmt"
)

// DescendantOrgIDs returns every organization below id, breadth first,
// excluding id itself. The result is never nil.
//
// Collection stops as soon as MaxDescendants ids are gathered, even in the
// middle of a level, and the partial list is returned. Callers must treat a
// result of exactly MaxDescendants ids as possibly incomplete.
func DescendantOrgIDs(ctx context.Context, store Store, id uint64) ([]uint64, error) {
	result := make([]uint64, 0)
	seen := map[uint64]struct{}{id: {}}
	queue := []uint64{id}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := store.FetchChildren(ctx, current)
		if err != nil {
			return result, fmt.Errorf("fetch children of organization %d: %w", current, err)
		}

		for _, childID := range children {
			if _, ok := seen[childID]; ok {
				continue
			}
			seen[childID] = struct{}{}
			result = append(result, childID)

			if len(result) >= MaxDescendants {
				recordCapHit(ctx, traversalDescendants, id, MaxDescendants)
				return result, nil
			}
			queue = append(queue, childID)
		}
	}

	return result, nil
}

// Truncated reports whether a DescendantOrgIDs result may be incomplete.
func Truncated(descendants []uint64) bool {
	return len(descendants) >= MaxDescendants
}
