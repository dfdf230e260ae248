package toolbox

import "errors"

var (
	// ErrInvalidTopology is returned when an edge would violate the allowed
	// edge directions of its endpoint node kinds.
	ErrInvalidTopology = errors.New("invalid topology")

	// ErrDimensionMismatch is returned when a value, target, or gradient
	// vector does not match the shape of the graph.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrEmptyVector is returned when a softmax or weighted sum has no inputs.
	ErrEmptyVector = errors.New("empty vector")
)
