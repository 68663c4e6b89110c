package validity

import "github.com/danielpatrickdp/geometric-consensus/internal/graph"

// ErrSizeLimitExceeded is graph.ErrSizeLimitExceeded, re-exported so callers
// of this package need not import graph to match it.
var ErrSizeLimitExceeded = graph.ErrSizeLimitExceeded

const (
	// MaxExactVertices bounds deletion-contraction and exhaustive orientation counting.
	MaxExactVertices = 10

	// MaxApproxVertices bounds the greedy chromatic approximation.
	MaxApproxVertices = 20

	// MaxExhaustiveEdges bounds exhaustive orientation enumeration (2^E cases).
	MaxExhaustiveEdges = 20

	// MaxTutteVertices bounds Tutte polynomial deletion-contraction.
	MaxTutteVertices = 8
)
