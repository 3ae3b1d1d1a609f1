package hierarchy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ValidatorTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memoryStore
	v     *Validator
}

func (s *ValidatorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = newMemoryStore()
	s.v = NewValidator(s.store)
}

func (s *ValidatorTestSuite) TestSelfReferenceTouchesNoStore() {
	for _, id := range []uint64{0, 1, 42, ^uint64(0)} {
		err := s.v.ValidateHierarchy(s.ctx, id, id)
		s.Require().ErrorIs(err, ErrHierarchyCycle)
	}
	s.Equal(0, s.store.reads())
	s.Equal(0, s.store.txCount)
}

func (s *ValidatorTestSuite) TestCycleThroughAncestorChain() {
	const orgID, mid, newParent = 1, 2, 3
	// new-parent <- mid <- org-1
	s.store.chain(orgID, mid, newParent)

	err := s.v.ValidateHierarchy(s.ctx, orgID, newParent)

	s.Require().ErrorIs(err, ErrHierarchyCycle)
	s.NotErrorIs(err, ErrHierarchyDepthExceeded)
	s.Equal(1, s.store.txCount)
	s.Equal(0, s.store.childReads, "subtree is never measured after a cycle")

	var verr *ValidationError
	s.Require().True(errors.As(err, &verr))
	s.Equal(uint64(orgID), verr.OrgID)
	s.Equal(uint64(newParent), verr.NewParentID)
}

func (s *ValidatorTestSuite) TestCycleWithImmediateParent() {
	s.store.chain(1, 2)

	err := s.v.ValidateHierarchy(s.ctx, 1, 2)

	s.Require().ErrorIs(err, ErrHierarchyCycle)
}

func (s *ValidatorTestSuite) TestRootParentLeafMoveResolves() {
	const newParent, orgMove = 1, 2
	s.store.addRoot(newParent).addRoot(orgMove)

	s.Require().NoError(s.v.ValidateHierarchy(s.ctx, orgMove, newParent))
}

func (s *ValidatorTestSuite) TestParentAtDepthTwoIsRejected() {
	const root, mid, newParent, orgMove = 1, 2, 3, 10
	s.store.chain(root, mid, newParent)
	s.store.addRoot(orgMove)

	err := s.v.ValidateHierarchy(s.ctx, orgMove, newParent)

	s.Require().ErrorIs(err, ErrHierarchyDepthExceeded)
	var verr *ValidationError
	s.Require().True(errors.As(err, &verr))
	s.Equal(3, verr.Depth)
	s.Equal(MaxHierarchyDepth, verr.Limit)
}

func (s *ValidatorTestSuite) TestBoundarySumTwoPasses() {
	// depth(newParent)=1, subtree(orgMove)=0 -> 2
	s.store.chain(1, 2)
	s.store.addRoot(10)
	s.Require().NoError(s.v.ValidateHierarchy(s.ctx, 10, 2))

	// depth(newParent)=0, subtree(orgMove)=1 -> 2
	store := newMemoryStore().addRoot(1)
	store.addRoot(10).addChild(11, 10)
	s.Require().NoError(NewValidator(store).ValidateHierarchy(s.ctx, 10, 1))
}

func (s *ValidatorTestSuite) TestSubtreeDepthCountsTowardsBudget() {
	// depth(newParent)=0, subtree(orgMove)=2 -> 3
	s.store.addRoot(1)
	s.store.chain(10, 11, 12)

	err := s.v.ValidateHierarchy(s.ctx, 10, 1)

	s.Require().ErrorIs(err, ErrHierarchyDepthExceeded)
}

func (s *ValidatorTestSuite) TestCycleReportedBeforeDepth() {
	// orgID sits three hops above newParent: cyclic and too deep at once.
	s.store.chain(1, 2, 3, 4)

	err := s.v.ValidateHierarchy(s.ctx, 1, 4)

	s.Require().ErrorIs(err, ErrHierarchyCycle)
}

func (s *ValidatorTestSuite) TestMovingWithinOwnSubtreeSiblings() {
	// Reparenting a child to its sibling is fine as long as depth allows.
	s.store.addRoot(1)
	s.store.addChild(2, 1).addChild(3, 1)

	s.Require().NoError(s.v.ValidateHierarchy(s.ctx, 3, 2))
}

func (s *ValidatorTestSuite) TestStoreErrorPropagates() {
	s.store.addRoot(1).addRoot(2)
	s.store.err = errStoreDown

	err := s.v.ValidateHierarchy(s.ctx, 1, 2)

	s.Require().ErrorIs(err, errStoreDown)
	s.NotErrorIs(err, ErrHierarchyCycle)
}

func (s *ValidatorTestSuite) TestValidateNewChild() {
	s.store.chain(1, 2, 3)

	s.NoError(s.v.ValidateNewChild(s.ctx, 1))
	s.NoError(s.v.ValidateNewChild(s.ctx, 2))
	s.ErrorIs(s.v.ValidateNewChild(s.ctx, 3), ErrHierarchyDepthExceeded)
	s.NoError(s.v.ValidateNewChild(s.ctx, 99), "unknown parent has depth 0")
}

func TestValidatorTestSuite(t *testing.T) {
	suite.Run(t, new(ValidatorTestSuite))
}

// The depth rule holds exactly when depth(parent)+1+subtree(org) >= 3.
func TestValidateHierarchy_DepthRuleTable(t *testing.T) {
	for parentDepth := 0; parentDepth <= 3; parentDepth++ {
		for subtree := 0; subtree <= 3; subtree++ {
			store := newMemoryStore()

			parentChain := make([]uint64, parentDepth+1)
			for i := range parentChain {
				parentChain[i] = uint64(100 + i)
			}
			store.chain(parentChain...)

			orgChain := make([]uint64, subtree+1)
			for i := range orgChain {
				orgChain[i] = uint64(200 + i)
			}
			store.chain(orgChain...)

			err := NewValidator(store).ValidateHierarchy(context.Background(), orgChain[0], parentChain[parentDepth])

			if parentDepth+1+subtree >= MaxHierarchyDepth {
				assert.ErrorIs(t, err, ErrHierarchyDepthExceeded, "parentDepth=%d subtree=%d", parentDepth, subtree)
			} else {
				assert.NoError(t, err, "parentDepth=%d subtree=%d", parentDepth, subtree)
			}
		}
	}
}

func TestValidateHierarchy_PreExistingCycleElsewhereIsBounded(t *testing.T) {
	// newParent's ancestors loop among themselves and never reach orgID.
	// The capped walk reports a large depth, so the move is rejected on
	// depth rather than looping forever.
	store := newMemoryStore()
	store.addChild(1, 2)
	store.addChild(2, 1)
	store.addRoot(10)

	err := NewValidator(store).ValidateHierarchy(context.Background(), 10, 1)

	require.ErrorIs(t, err, ErrHierarchyDepthExceeded)
	assert.LessOrEqual(t, store.parentReads, MaxParentWalkIterations)
}
