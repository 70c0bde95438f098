package types

import "errors"

// Domain errors for type validation
var (
	// Marker pair errors
	ErrEmptyPairID = errors.New("marker pair id cannot be empty")
	ErrEmptyMarker = errors.New("start and end markers cannot be empty")

	// Chunk errors
	ErrNegativeLine  = errors.New("line numbers must be non-negative")
	ErrInvertedRange = errors.New("start line must be before or equal to end line")
)
