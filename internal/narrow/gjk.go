package narrow

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"convex2d/internal/convex"
	"convex2d/internal/geom"
)

// Solver runs the narrow-phase searches with fixed tolerances and hard
// iteration bounds. Non-convergence is never an error: on bound exhaustion
// the best estimate found so far is returned, so a real-time caller never
// sees a failure from a single query.
//
// A Solver borrows transient vectors from its Pool during body-level
// queries and is therefore as thread-confined as the pool is.
type Solver struct {
	// MaxIterations bounds the GJK refinement, the EPA expansion and each
	// per-candidate advancement downstream. Small fixed constant.
	MaxIterations int

	// Epsilon is the touch threshold: configurations closer than this are
	// classified as touching/overlapping, never separated, which keeps
	// boundary configurations from oscillating between answers.
	Epsilon float64

	pool *geom.Pool
}

// NewSolver creates a solver. maxIterations and epsilon follow the
// configured solver tuning; pool supplies the transient vectors.
func NewSolver(maxIterations int, epsilon float64, pool *geom.Pool) *Solver {
	return &Solver{MaxIterations: maxIterations, Epsilon: epsilon, pool: pool}
}

// Pool exposes the solver's vector pool to the facade layer.
func (s *Solver) Pool() *geom.Pool { return s.pool }

// Result is the outcome of a distance query between two posed shapes.
type Result struct {
	// Distance is positive separation, or -(penetration depth) when the
	// shapes overlap. Values inside (-epsilon, epsilon) are touching.
	Distance float64

	// PointA and PointB are the witness points on the shape boundaries.
	// Their difference is a valid separating vector for the pair.
	PointA, PointB mgl64.Vec2

	// Normal is the unit axis from shape A toward shape B.
	Normal mgl64.Vec2

	// Iterations spent across GJK and, when needed, EPA.
	Iterations int
}

// gjkOutcome carries the raw core search state between helpers.
type gjkOutcome struct {
	sim        simplex
	coreDist   float64
	overlap    bool // cores overlap or touch
	separated  bool // early-out proof for boolean mode
	iterations int
}

// gjk runs the support/simplex refinement on the shape cores.
//
// sepLimit >= 0 enables the boolean early exit: the search stops with
// separated=true as soon as any sampled axis proves the origin is farther
// than sepLimit from the Minkowski difference. Pass a negative sepLimit
// for full distance mode.
func (s *Solver) gjk(a convex.Shape, xfA geom.Transform, b convex.Shape, xfB geom.Transform, sepLimit float64) gjkOutcome {
	var out gjkOutcome
	sim := &out.sim

	// Initial direction: between the poses. Any direction works; this one
	// typically converges in a handful of iterations.
	dir := xfB.Pos.Sub(xfA.Pos)
	if dir.Dot(dir) < 1e-12 {
		dir = mgl64.Vec2{1, 0}
	}
	sim.v[0] = s.supportVertex(a, xfA, b, xfB, dir)
	sim.v[0].a = 1
	sim.count = 1

	eps2 := s.Epsilon * s.Epsilon

	var saveA, saveB [3]int
	for out.iterations < s.MaxIterations {
		saveCount := sim.count
		for i := 0; i < saveCount; i++ {
			saveA[i] = sim.v[i].indexA
			saveB[i] = sim.v[i].indexB
		}

		switch sim.count {
		case 2:
			sim.solve2()
		case 3:
			sim.solve3()
		}

		if sim.count == 3 {
			// Origin inside the triangle: the cores overlap.
			out.overlap = true
			return out
		}

		p := sim.closestPoint()
		if p.Dot(p) < eps2 {
			// Origin on the simplex: touching cores.
			out.overlap = true
			return out
		}

		dir = sim.searchDirection()
		if dir.Dot(dir) < 1e-24 {
			break
		}

		vert := s.supportVertex(a, xfA, b, xfB, dir)
		out.iterations++

		if sepLimit >= 0 {
			// supp_M(d)·d̂ bounds the origin distance from below along
			// this axis; exceeding the limit proves separation without
			// any witness computation.
			dlen := math.Sqrt(dir.Dot(dir))
			if -vert.w.Dot(dir)/dlen > sepLimit {
				out.separated = true
				return out
			}
		}

		// A repeated support pair means the polytope is exhausted: the
		// current feature is the closest one.
		dup := false
		for i := 0; i < saveCount; i++ {
			if vert.indexA == saveA[i] && vert.indexB == saveB[i] {
				dup = true
				break
			}
		}
		if dup {
			break
		}

		sim.v[sim.count] = vert
		sim.count++
	}

	pA, pB := sim.witnessPoints()
	out.coreDist = pA.Sub(pB).Len()
	if out.coreDist < s.Epsilon {
		out.overlap = true
	}
	return out
}

// supportVertex samples the Minkowski difference A - B in world direction
// dir.
func (s *Solver) supportVertex(a convex.Shape, xfA geom.Transform, b convex.Shape, xfB geom.Transform, dir mgl64.Vec2) simplexVertex {
	iA := a.Support(xfA.Rot.ApplyInv(dir))
	iB := b.Support(xfB.Rot.ApplyInv(dir.Mul(-1)))
	wA := xfA.Apply(a.Vertex(iA))
	wB := xfB.Apply(b.Vertex(iB))
	return simplexVertex{
		wA:     wA,
		wB:     wB,
		w:      wA.Sub(wB),
		indexA: iA,
		indexB: iB,
	}
}

// Distance computes the minimum separation or penetration between two
// posed shapes, with witness points on both boundaries.
func (s *Solver) Distance(a convex.Shape, xfA geom.Transform, b convex.Shape, xfB geom.Transform) Result {
	out := s.gjk(a, xfA, b, xfB, -1)
	rA, rB := a.Radius(), b.Radius()

	if !out.overlap {
		pA, pB := out.sim.witnessPoints()
		coreDist := out.coreDist
		n := pB.Sub(pA).Mul(1 / coreDist)
		return Result{
			Distance:   coreDist - rA - rB,
			PointA:     pA.Add(n.Mul(rA)),
			PointB:     pB.Sub(n.Mul(rB)),
			Normal:     n,
			Iterations: out.iterations,
		}
	}

	// Overlapping or touching cores: fall through to the penetration
	// refinement for the core depth, then re-apply the radii.
	depth, axis, pA, pB, epaIters := s.epa(&out.sim, a, xfA, b, xfB)
	n := axis.Mul(-1) // from A toward B
	return Result{
		Distance:   -(depth + rA + rB),
		PointA:     pA.Add(n.Mul(rA)),
		PointB:     pB.Sub(n.Mul(rB)),
		Normal:     n,
		Iterations: out.iterations + epaIters,
	}
}
