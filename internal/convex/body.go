package convex

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"convex2d/internal/geom"
)

// Body owns an ordered collection of shapes and a world pose. Its AABB is
// the union of its shapes' world AABBs and is refreshed on every attach and
// pose change. Queries never mutate bodies; the surrounding simulation owns
// them and they outlive individual queries.
type Body struct {
	shapes []Shape
	xf     geom.Transform
	aabb   geom.AABB
}

// NewBody creates an empty body at the given world position and angle.
func NewBody(pos mgl64.Vec2, angle float64) *Body {
	return &Body{xf: geom.NewTransform(pos, angle)}
}

// Attach adds a shape to the body, preserving insertion order. A shape
// belongs to exactly one body; attaching an owned shape is an error.
func (b *Body) Attach(s Shape) error {
	if s.Body() != nil {
		return errors.New("shape already attached to a body")
	}
	s.setBody(b)
	s.refreshWorld(b.xf)
	b.shapes = append(b.shapes, s)
	if len(b.shapes) == 1 {
		b.aabb = s.AABB()
	} else {
		b.aabb = b.aabb.Union(s.AABB())
	}
	return nil
}

// Shapes returns the shape list in insertion order. Callers must not
// modify the returned slice.
func (b *Body) Shapes() []Shape { return b.shapes }

// Len returns the number of attached shapes.
func (b *Body) Len() int { return len(b.shapes) }

// Transform returns the current world pose.
func (b *Body) Transform() geom.Transform { return b.xf }

// Position returns the current world position.
func (b *Body) Position() mgl64.Vec2 { return b.xf.Pos }

// AABB returns the union of the shapes' world AABBs. Zero for an empty
// body.
func (b *Body) AABB() geom.AABB { return b.aabb }

// SetTransform moves the body and refreshes every shape's world AABB plus
// the body union.
func (b *Body) SetTransform(pos mgl64.Vec2, angle float64) {
	b.xf = geom.NewTransform(pos, angle)
	for i, s := range b.shapes {
		s.refreshWorld(b.xf)
		if i == 0 {
			b.aabb = s.AABB()
		} else {
			b.aabb = b.aabb.Union(s.AABB())
		}
	}
}
