package hierarchy

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/yukikurage/org-hierarchy-api/internal/logging"
)

var (
	hierarchyValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "org",
		Subsystem: "hierarchy",
		Name:      "validations_total",
		Help:      "Total number of hierarchy validations broken down by result.",
	}, []string{"kind", "result"})

	hierarchyCapHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "org",
		Subsystem: "hierarchy",
		Name:      "traversal_caps_total",
		Help:      "Total number of traversals stopped by an iteration cap, broken down by traversal.",
	}, []string{"traversal"})
)

const (
	traversalAncestors   = "ancestors"
	traversalSubtree     = "subtree"
	traversalDescendants = "descendants"
)

func recordValidation(kind string, err error) {
	result := "approved"
	switch {
	case err == nil:
	case errors.Is(err, ErrHierarchyCycle):
		result = "cycle"
	case errors.Is(err, ErrHierarchyDepthExceeded):
		result = "depth_exceeded"
	default:
		result = "error"
	}
	hierarchyValidations.WithLabelValues(kind, result).Inc()
}

// recordCapHit notes that a traversal returned a bounded answer. The stored
// tree is either corrupted or far deeper than MaxHierarchyDepth allows.
func recordCapHit(ctx context.Context, traversal string, orgID uint64, limit int) {
	hierarchyCapHits.WithLabelValues(traversal).Inc()
	logging.WithFields(ctx, logrus.Fields{
		"traversal":       traversal,
		"organization_id": orgID,
		"cap":             limit,
	}).Warn("org.hierarchy.cap_reached")
}
