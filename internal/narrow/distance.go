package narrow

import (
	"math"

	"convex2d/internal/convex"
	"convex2d/internal/geom"
)

// DistanceOut computes the shape-pair distance and writes the witness
// points into caller-supplied output vectors. Outputs may be weak
// (caller-owned) or checked-out handles; nil outputs skip the write.
func (s *Solver) DistanceOut(a convex.Shape, xfA geom.Transform, b convex.Shape, xfB geom.Transform, outA, outB *geom.Vec) (Result, error) {
	if err := writableOut(outA); err != nil {
		return Result{}, err
	}
	if err := writableOut(outB); err != nil {
		return Result{}, err
	}

	res := s.Distance(a, xfA, b, xfB)
	if outA != nil {
		if err := outA.Store(res.PointA); err != nil {
			return Result{}, err
		}
	}
	if outB != nil {
		if err := outB.Store(res.PointB); err != nil {
			return Result{}, err
		}
	}
	return res, nil
}

// BodyDistance runs the exhaustive shape cross-product between two bodies,
// tracking the running best distance (most negative, else smallest) and
// updating outA/outB only when a pair improves it.
//
// A pair is skipped once its own AABB gap already matches or exceeds the
// running best: the gap is a lower bound on the pair distance, so the pair
// cannot improve. Overlapping AABBs give a zero gap and are never skipped,
// which keeps deep-penetration pairs in play when the best is negative.
func (s *Solver) BodyDistance(a, b *convex.Body, outA, outB *geom.Vec) (float64, error) {
	if a.Len() == 0 || b.Len() == 0 {
		return 0, convex.ErrEmptyGeometry
	}
	if err := writableOut(outA); err != nil {
		return 0, err
	}
	if err := writableOut(outB); err != nil {
		return 0, err
	}

	xfA, xfB := a.Transform(), b.Transform()
	best := math.Inf(1)
	for _, sa := range a.Shapes() {
		for _, sb := range b.Shapes() {
			if gap := sa.AABB().Distance(sb.AABB()); gap > 0 && gap >= best {
				continue
			}
			res := s.Distance(sa, xfA, sb, xfB)
			if res.Distance >= best {
				continue
			}
			best = res.Distance
			if outA != nil {
				if err := outA.Store(res.PointA); err != nil {
					return 0, err
				}
			}
			if outB != nil {
				if err := outB.Store(res.PointB); err != nil {
					return 0, err
				}
			}
		}
	}
	return best, nil
}

// BodyOverlaps answers body-level overlap: AABB reject first, then the
// shape cross-product in insertion order, returning on the first
// overlapping pair.
func (s *Solver) BodyOverlaps(a, b *convex.Body) (bool, error) {
	if a.Len() == 0 || b.Len() == 0 {
		return false, convex.ErrEmptyGeometry
	}
	if !a.AABB().Overlaps(b.AABB()) {
		return false, nil
	}

	xfA, xfB := a.Transform(), b.Transform()
	for _, sa := range a.Shapes() {
		for _, sb := range b.Shapes() {
			if !sa.AABB().Overlaps(sb.AABB()) {
				continue
			}
			if hit, _ := s.Overlaps(sa, xfA, sb, xfB); hit {
				return true, nil
			}
		}
	}
	return false, nil
}

// writableOut validates an optional output vector.
func writableOut(v *geom.Vec) error {
	if v == nil {
		return nil
	}
	return v.Writable()
}
