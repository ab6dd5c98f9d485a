// Package narrow implements the exact narrow-phase queries: GJK distance
// with witness points over the Minkowski difference of shape cores, EPA
// penetration depth for overlapping cores, a boolean overlap variant that
// stops at the first separating axis, and the support-point containment
// test. Results for inflated shapes (circles) come from the cores with the
// proxy radii re-applied afterwards.
package narrow

import (
	"github.com/go-gl/mathgl/mgl64"

	"convex2d/internal/geom"
)

// simplexVertex is one support sample of the Minkowski difference A - B.
type simplexVertex struct {
	wA, wB mgl64.Vec2 // world support points on core A and core B
	w      mgl64.Vec2 // wA - wB
	a      float64    // barycentric weight
	indexA int
	indexB int
}

// simplex holds 1-3 Minkowski vertices. The solve routines reduce it to
// the feature closest to the origin, following the Voronoi-region analysis
// used throughout simplex-based distance solvers.
type simplex struct {
	v     [3]simplexVertex
	count int
}

// closestPoint returns the point of the current feature nearest the
// origin. Zero when the simplex is a triangle containing the origin.
func (s *simplex) closestPoint() mgl64.Vec2 {
	switch s.count {
	case 1:
		return s.v[0].w
	case 2:
		return s.v[0].w.Mul(s.v[0].a).Add(s.v[1].w.Mul(s.v[1].a))
	default:
		return mgl64.Vec2{}
	}
}

// witnessPoints returns the closest points on core A and core B via the
// barycentric weights. pA - pB equals the closest Minkowski point.
func (s *simplex) witnessPoints() (pA, pB mgl64.Vec2) {
	switch s.count {
	case 1:
		return s.v[0].wA, s.v[0].wB
	case 2:
		pA = s.v[0].wA.Mul(s.v[0].a).Add(s.v[1].wA.Mul(s.v[1].a))
		pB = s.v[0].wB.Mul(s.v[0].a).Add(s.v[1].wB.Mul(s.v[1].a))
		return pA, pB
	default:
		pA = s.v[0].wA.Mul(s.v[0].a).
			Add(s.v[1].wA.Mul(s.v[1].a)).
			Add(s.v[2].wA.Mul(s.v[2].a))
		pB = s.v[0].wB.Mul(s.v[0].a).
			Add(s.v[1].wB.Mul(s.v[1].a)).
			Add(s.v[2].wB.Mul(s.v[2].a))
		return pA, pB
	}
}

// searchDirection returns the next direction to sample, pointing from the
// current closest feature toward the origin. For a segment the exact
// perpendicular is used instead of the negated closest point, which stays
// stable when the origin lies almost on the segment line.
func (s *simplex) searchDirection() mgl64.Vec2 {
	switch s.count {
	case 1:
		return s.v[0].w.Mul(-1)
	default:
		e12 := s.v[1].w.Sub(s.v[0].w)
		sgn := geom.Cross(e12, s.v[0].w.Mul(-1))
		if sgn > 0 {
			return geom.CrossSV(1.0, e12)
		}
		return geom.CrossVS(e12, 1.0)
	}
}

// solve2 reduces a segment to its closest feature.
func (s *simplex) solve2() {
	w1 := s.v[0].w
	w2 := s.v[1].w
	e12 := w2.Sub(w1)

	d12_2 := -w1.Dot(e12)
	if d12_2 <= 0 {
		// Origin in the w1 vertex region.
		s.v[0].a = 1
		s.count = 1
		return
	}

	d12_1 := w2.Dot(e12)
	if d12_1 <= 0 {
		// Origin in the w2 vertex region.
		s.v[0] = s.v[1]
		s.v[0].a = 1
		s.count = 1
		return
	}

	inv := 1 / (d12_1 + d12_2)
	s.v[0].a = d12_1 * inv
	s.v[1].a = d12_2 * inv
	s.count = 2
}

// solve3 reduces a triangle to its closest feature. A retained count of 3
// means the origin lies inside the triangle: the cores overlap.
func (s *simplex) solve3() {
	w1 := s.v[0].w
	w2 := s.v[1].w
	w3 := s.v[2].w

	e12 := w2.Sub(w1)
	d12_1 := w2.Dot(e12)
	d12_2 := -w1.Dot(e12)

	e13 := w3.Sub(w1)
	d13_1 := w3.Dot(e13)
	d13_2 := -w1.Dot(e13)

	e23 := w3.Sub(w2)
	d23_1 := w3.Dot(e23)
	d23_2 := -w2.Dot(e23)

	n123 := geom.Cross(e12, e13)
	d123_1 := n123 * geom.Cross(w2, w3)
	d123_2 := n123 * geom.Cross(w3, w1)
	d123_3 := n123 * geom.Cross(w1, w2)

	// w1 vertex region
	if d12_2 <= 0 && d13_2 <= 0 {
		s.v[0].a = 1
		s.count = 1
		return
	}

	// e12 edge region
	if d12_1 > 0 && d12_2 > 0 && d123_3 <= 0 {
		inv := 1 / (d12_1 + d12_2)
		s.v[0].a = d12_1 * inv
		s.v[1].a = d12_2 * inv
		s.count = 2
		return
	}

	// e13 edge region
	if d13_1 > 0 && d13_2 > 0 && d123_2 <= 0 {
		inv := 1 / (d13_1 + d13_2)
		s.v[0].a = d13_1 * inv
		s.v[1] = s.v[2]
		s.v[1].a = d13_2 * inv
		s.count = 2
		return
	}

	// w2 vertex region
	if d12_1 <= 0 && d23_2 <= 0 {
		s.v[0] = s.v[1]
		s.v[0].a = 1
		s.count = 1
		return
	}

	// w3 vertex region
	if d13_1 <= 0 && d23_1 <= 0 {
		s.v[0] = s.v[2]
		s.v[0].a = 1
		s.count = 1
		return
	}

	// e23 edge region
	if d23_1 > 0 && d23_2 > 0 && d123_1 <= 0 {
		inv := 1 / (d23_1 + d23_2)
		s.v[0] = s.v[1]
		s.v[1] = s.v[2]
		s.v[0].a = d23_1 * inv
		s.v[1].a = d23_2 * inv
		s.count = 2
		return
	}

	// Origin inside the triangle.
	inv := 1 / (d123_1 + d123_2 + d123_3)
	s.v[0].a = d123_1 * inv
	s.v[1].a = d123_2 * inv
	s.v[2].a = d123_3 * inv
	s.count = 3
}
