package convex

import "errors"

var (
	// ErrEmptyGeometry is returned when a query requires a body with at
	// least one shape and got an empty one.
	ErrEmptyGeometry = errors.New("body has no shapes")

	// ErrUnattachedShape is returned when a query needs a world transform
	// but the shape has no owning body.
	ErrUnattachedShape = errors.New("shape is not attached to a body")
)
