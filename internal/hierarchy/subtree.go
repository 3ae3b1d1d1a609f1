package hierarchy

import (
	"context"
	"fmt"
)

type subtreeFrame struct {
	id    uint64
	level int
}

// SubtreeDepth returns the length of the longest parent->child chain below
// id. A leaf (or an unknown id) has subtree depth 0; otherwise the result is
// 1 + the maximum subtree depth of its children.
//
// The descent uses an explicit stack and issues one FetchChildren per node it
// expands. Once the running maximum reaches MaxParentWalkIterations+1 the
// traversal stops, skipping any siblings still on the stack, and returns
// MaxParentWalkIterations+1.
func SubtreeDepth(ctx context.Context, store Store, id uint64) (int, error) {
	limit := MaxParentWalkIterations + 1
	best := 0
	stack := []subtreeFrame{{id: id}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := store.FetchChildren(ctx, frame.id)
		if err != nil {
			return best, fmt.Errorf("fetch children of organization %d: %w", frame.id, err)
		}
		if len(children) == 0 {
			continue
		}

		level := frame.level + 1
		if level > best {
			best = level
		}
		if best >= limit {
			recordCapHit(ctx, traversalSubtree, id, MaxParentWalkIterations)
			return limit, nil
		}

		// Push in reverse so siblings are visited in store order.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, subtreeFrame{id: children[i], level: level})
		}
	}

	return best, nil
}
