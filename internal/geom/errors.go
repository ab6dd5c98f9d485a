package geom

import (
	"errors"
	"fmt"
)

// ErrResourceState is the sentinel for every vector lifecycle violation:
// double-release, releasing a weak vector, or writing a disposed/immutable
// one. Use errors.Is(err, geom.ErrResourceState) to classify.
var ErrResourceState = errors.New("resource state violation")

// ResourceStateError reports which operation hit which vector state.
type ResourceStateError struct {
	Op    string    // "release", "set", "checkout", ...
	State Ownership // state the vector was in
	Cause string    // short reason, e.g. "double release"
}

func (e *ResourceStateError) Error() string {
	return fmt.Sprintf("%s on %s vector: %s", e.Op, e.State, e.Cause)
}

// Is makes ResourceStateError match the ErrResourceState sentinel.
func (e *ResourceStateError) Is(target error) bool {
	return target == ErrResourceState
}

func resourceStateErr(op string, state Ownership, cause string) error {
	return &ResourceStateError{Op: op, State: state, Cause: cause}
}
