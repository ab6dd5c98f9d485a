package sweep

import (
	"iter"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"convex2d/internal/convex"
	"convex2d/internal/geom"
	"convex2d/internal/narrow"
)

// Caster runs swept time-of-impact queries with conservative advancement:
// at the current time estimate it measures the exact separation to a
// candidate, then advances time by separation over the closing-speed bound
// along the separating axis. Per-candidate work is hard-bounded.
type Caster struct {
	solver *narrow.Solver

	// MaxSteps bounds the advancement iterations per candidate.
	MaxSteps int

	// Tolerance is the separation below which contact is declared.
	Tolerance float64
}

// NewCaster creates a caster on top of the narrow-phase solver.
func NewCaster(solver *narrow.Solver, maxSteps int, tolerance float64) *Caster {
	return &Caster{solver: solver, MaxSteps: maxSteps, Tolerance: tolerance}
}

// Cast sweeps shape from start to end and returns a lazy sequence of
// first-contact results ordered by ascending TOI. Candidates with equal
// impact times keep their insertion order. The sweep runs on first pull.
//
// The moving shape keeps its body rotation (identity while unattached);
// only its translation is driven by the path. Candidates stay at their
// body poses.
func (c *Caster) Cast(shape convex.Shape, start, end mgl64.Vec2, candidates []convex.Shape) iter.Seq[*ConvexResult] {
	return func(yield func(*ConvexResult) bool) {
		results := c.sweepAll(shape, start, end, candidates)
		for _, r := range results {
			if !yield(r) {
				return
			}
		}
	}
}

func (c *Caster) sweepAll(shape convex.Shape, start, end mgl64.Vec2, candidates []convex.Shape) []*ConvexResult {
	rot := geom.IdentityRot
	if shape.Body() != nil {
		rot = shape.Body().Transform().Rot
	}
	path := end.Sub(start)

	results := make([]*ConvexResult, 0, len(candidates))
	for _, cand := range candidates {
		if r := c.advance(shape, rot, start, path, cand); r != nil {
			results = append(results, r)
		}
	}
	// Stable sort preserves candidate insertion order on ties.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].toi < results[j].toi
	})
	return results
}

// advance runs conservative advancement against one candidate. Returns nil
// on a miss.
func (c *Caster) advance(shape convex.Shape, rot geom.Rot, start, path mgl64.Vec2, cand convex.Shape) *ConvexResult {
	xfC := cand.Body().Transform()

	// Witness bookkeeping lives in pooled temporaries for the duration of
	// the advancement; released on every exit path.
	pool := c.solver.Pool()
	witness := pool.Checkout()
	defer pool.Release(witness)

	t := 0.0
	var res narrow.Result
	for step := 0; step < c.MaxSteps; step++ {
		xfM := geom.Transform{Pos: start.Add(path.Mul(t)), Rot: rot}
		res = c.solver.Distance(shape, xfM, cand, xfC)
		if err := witness.Store(res.PointB); err != nil {
			return nil
		}

		if res.Distance <= c.Tolerance {
			return c.hit(t, path, res, witness.Value(), cand)
		}

		// res.Normal points from the mover toward the candidate; the
		// projection of the path velocity onto it bounds the closing
		// speed. Non-positive means the gap along this axis never
		// shrinks: a guaranteed miss.
		closing := path.Dot(res.Normal)
		if closing <= 1e-12 {
			return nil
		}

		t += res.Distance / closing
		if t > 1 {
			return nil
		}
	}

	// Bound exhausted: degrade to the best estimate rather than failing.
	// The remaining separation is above tolerance but the time estimate
	// is already conservative-correct, so report the contact there.
	return c.hit(t, path, res, witness.Value(), cand)
}

func (c *Caster) hit(t float64, path mgl64.Vec2, res narrow.Result, contact mgl64.Vec2, cand convex.Shape) *ConvexResult {
	// Normal points from the struck shape toward the caster.
	n := res.Normal.Mul(-1)
	if n.Dot(n) < 1e-18 {
		if l := path.Len(); l > 1e-12 {
			n = path.Mul(-1 / l)
		} else {
			n = mgl64.Vec2{1, 0}
		}
	}
	return newConvexResult(n, contact, t, cand)
}
