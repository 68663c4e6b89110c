package graph

import "errors"

var (
	ErrEmptyLabel      = errors.New("graph: empty vertex label")
	ErrDuplicateVertex = errors.New("graph: duplicate vertex")
	ErrUnknownVertex   = errors.New("graph: unknown vertex")
	ErrSelfLoop        = errors.New("graph: self-loop")
	ErrDuplicateEdge   = errors.New("graph: duplicate edge")

	// ErrSizeLimitExceeded is returned before an exponential algorithm starts
	// on an input above its ceiling.
	ErrSizeLimitExceeded = errors.New("graph: size limit exceeded")
)
