// Package geom provides the low-level geometric primitives shared by every
// query component: mgl64-backed 2D vector math, pooled transient vector
// handles with ownership tracking, axis-aligned bounding boxes and rigid
// transforms.
package geom

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Ownership describes who currently owns a pooled vector handle.
type Ownership uint8

const (
	// OwnershipFree means the vector sits on the pool free list.
	OwnershipFree Ownership = iota
	// OwnershipCheckedOut means the vector is on loan from the pool.
	OwnershipCheckedOut
	// OwnershipWeak means the caller owns the vector; the pool never
	// releases it and never hands it out.
	OwnershipWeak
	// OwnershipDisposed means the vector is dead and must not be written
	// or reused.
	OwnershipDisposed
)

func (o Ownership) String() string {
	switch o {
	case OwnershipFree:
		return "free"
	case OwnershipCheckedOut:
		return "checked-out"
	case OwnershipWeak:
		return "weak"
	case OwnershipDisposed:
		return "disposed"
	}
	return "unknown"
}

// Vec is a mutable 2D vector handle with lifecycle state. Queries write
// results into Vec handles supplied by the caller; the pool recycles its own
// handles between queries. The math itself runs on plain mgl64.Vec2 values,
// Vec only carries results across the API boundary.
type Vec struct {
	v         mgl64.Vec2
	state     Ownership
	immutable bool
}

// NewWeak returns a caller-owned vector. Weak vectors are valid query
// outputs but are exempt from pool release.
func NewWeak(x, y float64) *Vec {
	return &Vec{v: mgl64.Vec2{x, y}, state: OwnershipWeak}
}

// X returns the first component.
func (v *Vec) X() float64 { return v.v[0] }

// Y returns the second component.
func (v *Vec) Y() float64 { return v.v[1] }

// Value returns the current value as a plain math vector.
func (v *Vec) Value() mgl64.Vec2 { return v.v }

// State returns the current ownership state.
func (v *Vec) State() Ownership { return v.state }

// Immutable reports whether writes are blocked.
func (v *Vec) Immutable() bool { return v.immutable }

// Writable returns nil when the vector may be written, or a
// ResourceStateError when it is disposed or immutable. Every mutating path
// goes through this check first.
func (v *Vec) Writable() error {
	if v.state == OwnershipDisposed {
		return resourceStateErr("write", v.state, "vector is disposed")
	}
	if v.immutable {
		return resourceStateErr("write", v.state, "vector is immutable")
	}
	return nil
}

// Store sets the value. Fails with ResourceStateError on a disposed or
// immutable vector; the value is untouched on failure.
func (v *Vec) Store(p mgl64.Vec2) error {
	if err := v.Writable(); err != nil {
		return err
	}
	v.v = p
	return nil
}

// StoreXY sets the components. Same state rules as Store.
func (v *Vec) StoreXY(x, y float64) error {
	return v.Store(mgl64.Vec2{x, y})
}

// MarkImmutable blocks all further writes. Idempotent.
func (v *Vec) MarkImmutable() {
	v.immutable = true
}

// MarkDisposed retires the vector permanently. Idempotent. A disposed
// vector can never be written, released or checked out again.
func (v *Vec) MarkDisposed() {
	v.state = OwnershipDisposed
}
