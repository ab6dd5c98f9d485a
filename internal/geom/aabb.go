package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned bounding box with closed-interval bounds: boxes
// that merely touch still overlap.
type AABB struct {
	Min, Max mgl64.Vec2
}

// NewAABB builds a box from two corner points in any order.
func NewAABB(a, b mgl64.Vec2) AABB {
	return AABB{
		Min: mgl64.Vec2{math.Min(a[0], b[0]), math.Min(a[1], b[1])},
		Max: mgl64.Vec2{math.Max(a[0], b[0]), math.Max(a[1], b[1])},
	}
}

// Overlaps reports whether the boxes intersect on both axes.
func (a AABB) Overlaps(b AABB) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1]
}

// Contains reports whether b lies entirely inside a.
func (a AABB) Contains(b AABB) bool {
	return a.Min[0] <= b.Min[0] && a.Min[1] <= b.Min[1] &&
		a.Max[0] >= b.Max[0] && a.Max[1] >= b.Max[1]
}

// ContainsPoint reports whether p lies inside the box.
func (a AABB) ContainsPoint(p mgl64.Vec2) bool {
	return p[0] >= a.Min[0] && p[0] <= a.Max[0] &&
		p[1] >= a.Min[1] && p[1] <= a.Max[1]
}

// Union returns the smallest box covering both inputs.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: mgl64.Vec2{math.Min(a.Min[0], b.Min[0]), math.Min(a.Min[1], b.Min[1])},
		Max: mgl64.Vec2{math.Max(a.Max[0], b.Max[0]), math.Max(a.Max[1], b.Max[1])},
	}
}

// Expand grows the box by margin on every side.
func (a AABB) Expand(margin float64) AABB {
	m := mgl64.Vec2{margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

// Center returns the box midpoint.
func (a AABB) Center() mgl64.Vec2 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Distance returns the gap between the boxes, 0 when they overlap. This is
// a lower bound on the distance between any shapes the boxes enclose, which
// lets body-level queries skip pairs that cannot beat a running best.
func (a AABB) Distance(b AABB) float64 {
	dx := math.Max(math.Max(b.Min[0]-a.Max[0], a.Min[0]-b.Max[0]), 0)
	dy := math.Max(math.Max(b.Min[1]-a.Max[1], a.Min[1]-b.Max[1]), 0)
	return math.Hypot(dx, dy)
}
