// Package hierarchy keeps the organization tree acyclic and bounded in depth.
//
// Every function here is read-only: it measures the tree through a Store and
// either reports a number or approves/rejects a proposed reparent. Traversals
// are bounded by fixed caps so that corrupted data (a pre-existing cycle, an
// unexpectedly deep chain) costs bounded work instead of an unbounded walk.
package hierarchy

import "context"

const (
	// MaxParentWalkIterations bounds the ancestor walk and the subtree descent.
	MaxParentWalkIterations = 100

	// MaxDescendants bounds DescendantOrgIDs.
	MaxDescendants = 1000

	// MaxHierarchyDepth is the number of levels a tree may have
	// (root, child, grandchild).
	MaxHierarchyDepth = 3
)

// Node is the slice of an organization row the hierarchy math needs.
type Node struct {
	ID                   uint64
	ParentOrganizationID *uint64
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.ParentOrganizationID == nil
}

// Store is the read interface the hierarchy core consumes.
//
// FetchParent returns (nil, nil) when id does not exist. FetchChildren returns
// an empty slice for a leaf or an unknown id. Transaction runs fn against a
// Store bound to one consistent snapshot.
type Store interface {
	FetchParent(ctx context.Context, id uint64) (*Node, error)
	FetchChildren(ctx context.Context, id uint64) ([]uint64, error)
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
