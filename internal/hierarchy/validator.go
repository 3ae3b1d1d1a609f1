package hierarchy

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yukikurage/org-hierarchy-api/internal/logging"
)

const (
	validationKindReparent = "reparent"
	validationKindCreate   = "create"
)

// Validator approves or rejects changes to an organization's parent pointer.
// It never writes; the caller performs the update after a nil result.
type Validator struct {
	store Store
}

// NewValidator creates a Validator reading through store.
func NewValidator(store Store) *Validator {
	return &Validator{store: store}
}

// ValidateHierarchy decides whether orgID may be attached under newParentID.
//
// Checks run in order and the first failure wins, so a move that is both
// cyclic and too deep reports ErrHierarchyCycle:
//  1. orgID == newParentID is a cycle; the store is not consulted.
//  2. Inside one store transaction, walk up from newParentID. Meeting orgID
//     at any hop is a cycle. The walk also yields depth(newParentID).
//  3. Outside that transaction, measure SubtreeDepth(orgID).
//  4. depth(newParentID) + 1 + subtreeDepth(orgID) must stay below
//     MaxHierarchyDepth.
//
// Step 3 reads after the transaction of step 2 has ended, so a concurrent
// change beneath orgID can slip in between. Callers that need the whole
// validate-then-write sequence to be atomic should hand in a Store that is
// already bound to their own transaction.
func (v *Validator) ValidateHierarchy(ctx context.Context, orgID, newParentID uint64) (err error) {
	defer func() { recordValidation(validationKindReparent, err) }()

	if orgID == newParentID {
		return cycleError(orgID, newParentID)
	}

	var parentDepth int
	err = v.store.Transaction(ctx, func(tx Store) error {
		d, walkErr := walkParentChain(ctx, tx, newParentID, &orgID)
		parentDepth = d
		return walkErr
	})
	if err != nil {
		return err
	}

	subtree, err := SubtreeDepth(ctx, v.store, orgID)
	if err != nil {
		return err
	}

	total := parentDepth + 1 + subtree
	if total >= MaxHierarchyDepth {
		return depthError(orgID, newParentID, total)
	}

	logging.WithFields(ctx, logrus.Fields{
		"organization_id": orgID,
		"new_parent_id":   newParentID,
		"resulting_depth": total,
	}).Debug("org.hierarchy.reparent_approved")
	return nil
}

// ValidateNewChild decides whether a new organization may be created under
// parentID. A node that does not exist yet has no subtree and cannot be part
// of a cycle, so only the depth budget applies.
func (v *Validator) ValidateNewChild(ctx context.Context, parentID uint64) (err error) {
	defer func() { recordValidation(validationKindCreate, err) }()

	var parentDepth int
	err = v.store.Transaction(ctx, func(tx Store) error {
		d, walkErr := walkParentChain(ctx, tx, parentID, nil)
		parentDepth = d
		return walkErr
	})
	if err != nil {
		return err
	}

	if total := parentDepth + 1; total >= MaxHierarchyDepth {
		return depthError(0, parentID, total)
	}
	return nil
}
