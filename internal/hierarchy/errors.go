package hierarchy

import (
	"errors"
	"fmt"
)

var (
	// ErrHierarchyCycle is returned when a proposed parent is, or would become,
	// a descendant of the organization being moved.
	ErrHierarchyCycle = errors.New("hierarchy: move would create a cycle")
	// ErrHierarchyDepthExceeded is returned when a move would push the tree
	// past MaxHierarchyDepth levels.
	ErrHierarchyDepthExceeded = errors.New("hierarchy: maximum depth exceeded")
)

// ValidationError carries the details of a rejected move. It unwraps to
// ErrHierarchyCycle or ErrHierarchyDepthExceeded.
type ValidationError struct {
	Kind error
	// OrgID is zero when the rejected change is the creation of a new child.
	OrgID       uint64
	NewParentID uint64
	// Depth is where the deepest node of the moved subtree would end up.
	// Zero for cycle errors.
	Depth int
	// Limit is MaxHierarchyDepth; valid depths are 0..Limit-1.
	Limit int
}

func (e *ValidationError) Error() string {
	if errors.Is(e.Kind, ErrHierarchyCycle) {
		return fmt.Sprintf("%v: organization %d is an ancestor of %d", e.Kind, e.OrgID, e.NewParentID)
	}
	if e.OrgID == 0 {
		return fmt.Sprintf("%v: a new organization under %d would sit at depth %d (max %d)",
			e.Kind, e.NewParentID, e.Depth, e.Limit-1)
	}
	return fmt.Sprintf("%v: attaching %d under %d puts its subtree at depth %d (max %d)",
		e.Kind, e.OrgID, e.NewParentID, e.Depth, e.Limit-1)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func cycleError(orgID, newParentID uint64) error {
	return &ValidationError{Kind: ErrHierarchyCycle, OrgID: orgID, NewParentID: newParentID}
}

func depthError(orgID, newParentID uint64, depth int) error {
	return &ValidationError{
		Kind:        ErrHierarchyDepthExceeded,
		OrgID:       orgID,
		NewParentID: newParentID,
		Depth:       depth,
		Limit:       MaxHierarchyDepth,
	}
}
