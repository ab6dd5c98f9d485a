package narrow

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"convex2d/internal/convex"
	"convex2d/internal/geom"
)

// TestPolygonContainsCircle tests circle-in-box containment
func TestPolygonContainsCircle(t *testing.T) {
	s := newTestSolver()
	box := convex.NewBox(mgl64.Vec2{0, 0}, mgl64.Vec2{2, 2})
	c := convex.NewCircle(mgl64.Vec2{0, 0}, 0.5)
	xfA := geom.IdentityTransform

	tests := []struct {
		name string
		pos  mgl64.Vec2
		want bool
	}{
		{"centered", mgl64.Vec2{0, 0}, true},
		{"near edge still inside", mgl64.Vec2{1.5, 0}, true},
		{"touching edge", mgl64.Vec2{1.5 + 1e-12, 0}, true},
		{"poking through edge", mgl64.Vec2{1.7, 0}, false},
		{"outside", mgl64.Vec2{5, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xfB := geom.NewTransform(tt.pos, 0)
			if got := s.Contains(box, xfA, c, xfB); got != tt.want {
				t.Errorf("Contains = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestPolygonContainsPolygon tests box-in-box containment
func TestPolygonContainsPolygon(t *testing.T) {
	s := newTestSolver()
	outer := convex.NewBox(mgl64.Vec2{0, 0}, mgl64.Vec2{3, 3})
	inner := convex.NewBox(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1})
	xfA := geom.IdentityTransform

	if !s.Contains(outer, xfA, inner, geom.NewTransform(mgl64.Vec2{1, 1}, 0)) {
		t.Error("Inner box should be contained")
	}
	if s.Contains(outer, xfA, inner, geom.NewTransform(mgl64.Vec2{2.5, 0}, 0)) {
		t.Error("Straddling box should not be contained")
	}
	// Containment is not symmetric.
	if s.Contains(inner, geom.IdentityTransform, outer, xfA) {
		t.Error("Small box cannot contain the large one")
	}
}

// TestCircleContains tests disc containment of both shape kinds
func TestCircleContains(t *testing.T) {
	s := newTestSolver()
	disc := convex.NewCircle(mgl64.Vec2{0, 0}, 3)
	xfA := geom.IdentityTransform

	small := convex.NewCircle(mgl64.Vec2{0, 0}, 1)
	if !s.Contains(disc, xfA, small, geom.NewTransform(mgl64.Vec2{1, 0}, 0)) {
		t.Error("Offset small circle should be contained")
	}
	if s.Contains(disc, xfA, small, geom.NewTransform(mgl64.Vec2{2.5, 0}, 0)) {
		t.Error("Circle crossing the boundary should not be contained")
	}

	box := convex.NewBox(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1})
	if !s.Contains(disc, xfA, box, geom.NewTransform(mgl64.Vec2{0.5, 0.5}, 0)) {
		t.Error("Small box should be contained in the disc")
	}
	if s.Contains(disc, xfA, box, geom.NewTransform(mgl64.Vec2{2.5, 0}, 0)) {
		t.Error("Box with a vertex outside should not be contained")
	}
}

// TestContainmentImpliesOverlap tests that contained pairs always overlap
func TestContainmentImpliesOverlap(t *testing.T) {
	s := newTestSolver()
	outer := convex.NewBox(mgl64.Vec2{0, 0}, mgl64.Vec2{2, 2})
	xfA := geom.IdentityTransform
	inner := convex.NewCircle(mgl64.Vec2{0, 0}, 0.5)

	for _, x := range []float64{0, 0.5, 1.2, 1.5} {
		xfB := geom.NewTransform(mgl64.Vec2{x, 0}, 0)
		if !s.Contains(outer, xfA, inner, xfB) {
			t.Fatalf("Expected containment at x=%v", x)
		}
		if hit, _ := s.Overlaps(outer, xfA, inner, xfB); !hit {
			t.Errorf("Contained pair at x=%v must overlap", x)
		}
	}
}
