package narrow

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"convex2d/internal/convex"
	"convex2d/internal/geom"
)

// epaConvergence is the expansion stop threshold: when the next support
// point improves the closest-edge distance by less than this, the polytope
// has reached the Minkowski boundary.
const epaConvergence = 1e-9

// epa refines a core penetration after gjk reports overlap. It returns the
// core depth, the unit axis with pA - pB = axis·depth, witness points on
// both cores and the iterations spent.
//
// A 1-vertex simplex means the very first support already sat on the
// origin: touching cores, depth zero. A 2-vertex simplex is blown up to a
// full polytope loop first; only when the Minkowski difference is flat
// across the segment line is the origin on the boundary and depth zero.
func (s *Solver) epa(sim *simplex, a convex.Shape, xfA geom.Transform, b convex.Shape, xfB geom.Transform) (depth float64, axis mgl64.Vec2, pA, pB mgl64.Vec2, iters int) {
	var poly []simplexVertex
	switch sim.count {
	case 1:
		pA, pB = sim.v[0].wA, sim.v[0].wB
		return 0, s.fallbackAxis(xfA, xfB), pA, pB, 0
	case 2:
		// The segment through the origin may be a chord of the polytope
		// interior, not a boundary edge. Blow it up to a full loop by
		// sampling both perpendiculars; only when neither side extends
		// past the segment line is the origin truly on the boundary.
		var ok bool
		poly, ok = s.blowUp(sim, a, xfA, b, xfB)
		if !ok {
			e := sim.v[1].w.Sub(sim.v[0].w)
			axis = geom.CrossVS(e, 1.0)
			if l := axis.Len(); l > 1e-12 {
				axis = axis.Mul(1 / l)
			} else {
				axis = s.fallbackAxis(xfA, xfB)
			}
			if axis.Mul(-1).Dot(xfB.Pos.Sub(xfA.Pos)) < 0 {
				axis = axis.Mul(-1)
			}
			pA, pB = sim.witnessPoints()
			return 0, axis, pA, pB, 0
		}
	default:
		poly = make([]simplexVertex, 3, 3+s.MaxIterations)
		copy(poly, sim.v[:3])
	}

	var (
		bestI int
		bestT float64
		bestQ mgl64.Vec2
	)
	for ; iters < s.MaxIterations; iters++ {
		bestI, bestT, bestQ = closestEdge(poly)
		qd := bestQ.Len()
		if qd < 1e-12 {
			// Origin on the polytope boundary.
			axis = edgeOutwardNormal(poly, bestI)
			pA, pB = edgeWitness(poly, bestI, bestT)
			return 0, axis, pA, pB, iters
		}

		dir := bestQ.Mul(1 / qd)
		vert := s.supportVertex(a, xfA, b, xfB, dir)

		if vert.w.Dot(dir)-qd < epaConvergence {
			break
		}
		j := (bestI + 1) % len(poly)
		if (vert.indexA == poly[bestI].indexA && vert.indexB == poly[bestI].indexB) ||
			(vert.indexA == poly[j].indexA && vert.indexB == poly[j].indexB) {
			break
		}

		// Expand: insert the support point between the edge endpoints.
		poly = append(poly, simplexVertex{})
		copy(poly[j+1:], poly[j:])
		poly[j] = vert
	}

	depth = bestQ.Len()
	if depth > 1e-12 {
		axis = bestQ.Mul(1 / depth)
	} else {
		axis = edgeOutwardNormal(poly, bestI)
	}
	pA, pB = edgeWitness(poly, bestI, bestT)
	return depth, axis, pA, pB, iters
}

// blowUp grows a 2-vertex simplex into a polytope loop enclosing the
// origin by sampling supports on both sides of the segment line. Returns
// ok=false when the Minkowski difference is flat along the segment, i.e.
// the origin really does sit on the boundary.
func (s *Solver) blowUp(sim *simplex, a convex.Shape, xfA geom.Transform, b convex.Shape, xfB geom.Transform) ([]simplexVertex, bool) {
	e := sim.v[1].w.Sub(sim.v[0].w)
	n := geom.CrossVS(e, 1.0)
	l := n.Len()
	if l < 1e-12 {
		return nil, false
	}
	n = n.Mul(1 / l)

	// The segment line passes through the origin, so a support's offset
	// along the perpendicular measures how far the polytope extends past
	// the line on that side.
	plus := s.supportVertex(a, xfA, b, xfB, n)
	minus := s.supportVertex(a, xfA, b, xfB, n.Mul(-1))

	poly := make([]simplexVertex, 0, 4+s.MaxIterations)
	poly = append(poly, sim.v[0])
	if plus.w.Dot(n) > 1e-12 {
		poly = append(poly, plus)
	}
	poly = append(poly, sim.v[1])
	if -minus.w.Dot(n) > 1e-12 {
		poly = append(poly, minus)
	}
	if len(poly) < 3 {
		return nil, false
	}
	return poly, true
}

// fallbackAxis picks a separation direction when the geometry gives none:
// between the poses, or +x when those coincide too.
func (s *Solver) fallbackAxis(xfA, xfB geom.Transform) mgl64.Vec2 {
	d := xfB.Pos.Sub(xfA.Pos)
	if l := d.Len(); l > 1e-12 {
		return d.Mul(-1 / l)
	}
	return mgl64.Vec2{-1, 0}
}

// closestEdge scans the polytope loop for the edge whose segment passes
// nearest the origin, returning the edge start index, the projection
// parameter and the closest point itself.
func closestEdge(poly []simplexVertex) (int, float64, mgl64.Vec2) {
	bestI := 0
	bestT := 0.0
	var bestQ mgl64.Vec2
	bestD := math.Inf(1)
	for i := range poly {
		j := (i + 1) % len(poly)
		q, t := closestOnSegment(poly[i].w, poly[j].w)
		if d := q.Dot(q); d < bestD {
			bestD = d
			bestI = i
			bestT = t
			bestQ = q
		}
	}
	return bestI, bestT, bestQ
}

// closestOnSegment returns the point of segment ab nearest the origin and
// the clamped projection parameter.
func closestOnSegment(a, b mgl64.Vec2) (mgl64.Vec2, float64) {
	ab := b.Sub(a)
	den := ab.Dot(ab)
	if den < 1e-24 {
		return a, 0
	}
	t := -a.Dot(ab) / den
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Mul(t)), t
}

// edgeWitness interpolates the core witness points along polytope edge i.
func edgeWitness(poly []simplexVertex, i int, t float64) (pA, pB mgl64.Vec2) {
	j := (i + 1) % len(poly)
	pA = poly[i].wA.Add(poly[j].wA.Sub(poly[i].wA).Mul(t))
	pB = poly[i].wB.Add(poly[j].wB.Sub(poly[i].wB).Mul(t))
	return pA, pB
}

// edgeOutwardNormal returns the unit perpendicular of edge i oriented away
// from the polytope interior.
func edgeOutwardNormal(poly []simplexVertex, i int) mgl64.Vec2 {
	j := (i + 1) % len(poly)
	var centroid mgl64.Vec2
	for _, v := range poly {
		centroid = centroid.Add(v.w)
	}
	centroid = centroid.Mul(1 / float64(len(poly)))

	n := geom.CrossVS(poly[j].w.Sub(poly[i].w), 1.0)
	if l := n.Len(); l > 1e-12 {
		n = n.Mul(1 / l)
	} else {
		n = mgl64.Vec2{1, 0}
	}
	if n.Dot(poly[i].w.Sub(centroid)) < 0 {
		n = n.Mul(-1)
	}
	return n
}
