package narrow

import (
	"convex2d/internal/convex"
	"convex2d/internal/geom"
)

// Overlaps answers the boolean overlap question without computing witness
// points. It runs the same simplex search as Distance but terminates the
// instant any sampled axis proves a separation larger than the combined
// proxy radii plus the touch epsilon.
func (s *Solver) Overlaps(a convex.Shape, xfA geom.Transform, b convex.Shape, xfB geom.Transform) (bool, int) {
	limit := a.Radius() + b.Radius() + s.Epsilon
	out := s.gjk(a, xfA, b, xfB, limit)
	if out.separated {
		return false, out.iterations
	}
	if out.overlap {
		return true, out.iterations
	}
	return out.coreDist-a.Radius()-b.Radius() <= s.Epsilon, out.iterations
}
