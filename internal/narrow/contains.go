package narrow

import (
	"convex2d/internal/convex"
	"convex2d/internal/geom"
)

// Contains reports whether shape b lies entirely inside shape a. Both
// shapes are taken at the given poses. The test checks every extremal
// support point of b against every bounding constraint of a: half-planes
// for a polygon, the disc for a circle.
func (s *Solver) Contains(a convex.Shape, xfA geom.Transform, b convex.Shape, xfB geom.Transform) bool {
	switch outer := a.(type) {
	case *convex.Polygon:
		return s.polygonContains(outer, xfA, b, xfB)
	case *convex.Circle:
		return s.circleContains(outer, xfA, b, xfB)
	}
	return false
}

// polygonContains: b is inside iff, for every edge half-plane of the
// polygon, b's farthest point along the outward normal still satisfies it.
func (s *Solver) polygonContains(a *convex.Polygon, xfA geom.Transform, b convex.Shape, xfB geom.Transform) bool {
	for i := 0; i < a.VertexCount(); i++ {
		n := xfA.Rot.Apply(a.Normal(i))
		v := xfA.Apply(a.Vertex(i))
		p := convex.WorldSupport(b, xfB, n).Add(n.Mul(b.Radius()))
		if n.Dot(p.Sub(v)) > s.Epsilon {
			return false
		}
	}
	return true
}

// circleContains: b is inside iff its farthest point from the disc center
// stays within the radius.
func (s *Solver) circleContains(a *convex.Circle, xfA geom.Transform, b convex.Shape, xfB geom.Transform) bool {
	center := xfA.Apply(a.Center())
	rA := a.Radius()

	switch inner := b.(type) {
	case *convex.Circle:
		d := xfB.Apply(inner.Center()).Sub(center).Len()
		return d+inner.Radius() <= rA+s.Epsilon
	case *convex.Polygon:
		// The extremal points of a polygon are its vertices.
		for i := 0; i < inner.VertexCount(); i++ {
			w := xfB.Apply(inner.Vertex(i))
			if w.Sub(center).Len() > rA+s.Epsilon {
				return false
			}
		}
		return true
	}
	return false
}
