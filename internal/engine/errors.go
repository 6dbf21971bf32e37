package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrValueOutOfRange indicates a value outside the configured range.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrTreeFull indicates the tree already holds the configured maximum
	// number of nodes.
	ErrTreeFull = errors.New("tree is full")

	// ErrInvalidCount indicates a node count that cannot be generated.
	ErrInvalidCount = errors.New("invalid node count")

	// ErrInvalidRange indicates a value range with min greater than max.
	ErrInvalidRange = errors.New("invalid value range")
)
