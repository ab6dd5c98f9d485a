package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func vecNear(a, b mgl64.Vec2, tol float64) bool {
	return math.Abs(a[0]-b[0]) <= tol && math.Abs(a[1]-b[1]) <= tol
}

// TestTransformRoundTrip tests that ApplyInv undoes Apply
func TestTransformRoundTrip(t *testing.T) {
	xf := NewTransform(mgl64.Vec2{3, -2}, math.Pi/3)
	points := []mgl64.Vec2{{0, 0}, {1, 0}, {-2.5, 4}, {0.001, -0.001}}

	for _, p := range points {
		world := xf.Apply(p)
		back := xf.ApplyInv(world)
		if !vecNear(back, p, 1e-12) {
			t.Errorf("Round trip of %v gave %v", p, back)
		}
	}
}

// TestRotQuarterTurn tests a 90 degree rotation
func TestRotQuarterTurn(t *testing.T) {
	r := NewRot(math.Pi / 2)
	got := r.Apply(mgl64.Vec2{1, 0})
	if !vecNear(got, mgl64.Vec2{0, 1}, 1e-12) {
		t.Errorf("Expected (0, 1), got %v", got)
	}
	got = r.ApplyInv(mgl64.Vec2{0, 1})
	if !vecNear(got, mgl64.Vec2{1, 0}, 1e-12) {
		t.Errorf("Expected (1, 0), got %v", got)
	}
}

// TestIdentityTransform tests that identity leaves points alone
func TestIdentityTransform(t *testing.T) {
	p := mgl64.Vec2{7, -9}
	if got := IdentityTransform.Apply(p); got != p {
		t.Errorf("Identity moved %v to %v", p, got)
	}
}

// TestCrossHelpers tests the 2D cross product variants
func TestCrossHelpers(t *testing.T) {
	if got := Cross(mgl64.Vec2{1, 0}, mgl64.Vec2{0, 1}); got != 1 {
		t.Errorf("Cross(e1, e2) = %v, want 1", got)
	}
	if got := CrossSV(2, mgl64.Vec2{1, 0}); got != (mgl64.Vec2{0, 2}) {
		t.Errorf("CrossSV = %v", got)
	}
	if got := CrossVS(mgl64.Vec2{1, 0}, 2); got != (mgl64.Vec2{0, -2}) {
		t.Errorf("CrossVS = %v", got)
	}
}
