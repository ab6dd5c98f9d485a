// Package sweep implements the swept time-of-impact query: a shape
// translating linearly over the unit time interval, tested against a
// candidate set with conservative advancement. Results can only be built
// by a completed sweep; nothing outside this package can construct one.
package sweep

import (
	"github.com/go-gl/mathgl/mgl64"

	"convex2d/internal/convex"
)

// ConvexResult is one first-contact record of a sweep. Immutable.
type ConvexResult struct {
	normal   mgl64.Vec2
	position mgl64.Vec2
	toi      float64
	shape    convex.Shape
}

func newConvexResult(normal, position mgl64.Vec2, toi float64, shape convex.Shape) *ConvexResult {
	return &ConvexResult{normal: normal, position: position, toi: toi, shape: shape}
}

// Normal is the unit direction from the struck shape toward the caster.
func (r *ConvexResult) Normal() mgl64.Vec2 { return r.normal }

// Position is the world contact point on the struck shape.
func (r *ConvexResult) Position() mgl64.Vec2 { return r.position }

// TOI is the normalized impact time in [0, 1].
func (r *ConvexResult) TOI() float64 { return r.toi }

// Shape is the struck shape.
func (r *ConvexResult) Shape() convex.Shape { return r.shape }
