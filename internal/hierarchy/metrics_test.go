package hierarchy

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/org-hierarchy-api/internal/logging"
)

func TestRecordCapHit_CountsAndLogs(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	ctx := logging.WithLogger(context.Background(), logrus.NewEntry(logger))

	store := newMemoryStore()
	store.addRoot(1)
	store.addChild(2, 1)
	store.addChild(1, 2) // 1 <-> 2

	before := testutil.ToFloat64(hierarchyCapHits.WithLabelValues(traversalAncestors))
	depth, err := Depth(ctx, store, 1)
	require.NoError(t, err)
	assert.Equal(t, MaxParentWalkIterations, depth)
	assert.Equal(t, before+1, testutil.ToFloat64(hierarchyCapHits.WithLabelValues(traversalAncestors)))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "org.hierarchy.cap_reached", entry.Message)
	assert.Equal(t, traversalAncestors, entry.Data["traversal"])
	assert.Equal(t, uint64(1), entry.Data["organization_id"])
}

func TestRecordValidation_Results(t *testing.T) {
	store := newMemoryStore()
	store.chain(1, 2, 3)
	store.addRoot(4)
	v := NewValidator(store)
	ctx := context.Background()

	count := func(result string) float64 {
		return testutil.ToFloat64(hierarchyValidations.WithLabelValues(validationKindReparent, result))
	}
	approved, cycle, deep := count("approved"), count("cycle"), count("depth_exceeded")

	require.NoError(t, v.ValidateHierarchy(ctx, 4, 1))
	require.ErrorIs(t, v.ValidateHierarchy(ctx, 1, 3), ErrHierarchyCycle)
	require.ErrorIs(t, v.ValidateHierarchy(ctx, 4, 3), ErrHierarchyDepthExceeded)

	assert.Equal(t, approved+1, count("approved"))
	assert.Equal(t, cycle+1, count("cycle"))
	assert.Equal(t, deep+1, count("depth_exceeded"))
}
