package narrow

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"convex2d/internal/convex"
	"convex2d/internal/geom"
)

func attachCircle(t *testing.T, b *convex.Body, center mgl64.Vec2, r float64) {
	t.Helper()
	if err := b.Attach(convex.NewCircle(center, r)); err != nil {
		t.Fatal(err)
	}
}

// TestDistanceOutWritesWitnesses tests the caller-supplied output form
func TestDistanceOutWritesWitnesses(t *testing.T) {
	s := newTestSolver()
	a := convex.NewCircle(mgl64.Vec2{0, 0}, 1)
	b := convex.NewCircle(mgl64.Vec2{0, 0}, 1)
	xfA := geom.IdentityTransform
	xfB := geom.NewTransform(mgl64.Vec2{3, 0}, 0)

	outA, outB := geom.NewWeak(0, 0), geom.NewWeak(0, 0)
	res, err := s.DistanceOut(a, xfA, b, xfB, outA, outB)
	if err != nil {
		t.Fatalf("DistanceOut failed: %v", err)
	}
	if math.Abs(res.Distance-1.0) > 1e-12 {
		t.Errorf("Expected distance 1.0, got %v", res.Distance)
	}
	if math.Abs(outA.X()-1) > 1e-12 || math.Abs(outA.Y()) > 1e-12 {
		t.Errorf("Expected outA (1, 0), got (%v, %v)", outA.X(), outA.Y())
	}
	if math.Abs(outB.X()-2) > 1e-12 || math.Abs(outB.Y()) > 1e-12 {
		t.Errorf("Expected outB (2, 0), got (%v, %v)", outB.X(), outB.Y())
	}
}

// TestDistanceOutNilOutputs tests that nil outputs skip the write
func TestDistanceOutNilOutputs(t *testing.T) {
	s := newTestSolver()
	a := convex.NewCircle(mgl64.Vec2{0, 0}, 1)
	b := convex.NewCircle(mgl64.Vec2{0, 0}, 1)

	res, err := s.DistanceOut(a, geom.IdentityTransform, b, geom.NewTransform(mgl64.Vec2{3, 0}, 0), nil, nil)
	if err != nil {
		t.Fatalf("DistanceOut with nil outputs failed: %v", err)
	}
	if math.Abs(res.Distance-1.0) > 1e-12 {
		t.Errorf("Expected distance 1.0, got %v", res.Distance)
	}
}

// TestDistanceOutRejectsImmutable tests the output precondition check
func TestDistanceOutRejectsImmutable(t *testing.T) {
	s := newTestSolver()
	a := convex.NewCircle(mgl64.Vec2{0, 0}, 1)
	b := convex.NewCircle(mgl64.Vec2{0, 0}, 1)

	out := geom.NewWeak(0, 0)
	out.MarkImmutable()
	_, err := s.DistanceOut(a, geom.IdentityTransform, b, geom.NewTransform(mgl64.Vec2{3, 0}, 0), out, nil)
	if !errors.Is(err, geom.ErrResourceState) {
		t.Errorf("Expected ErrResourceState, got %v", err)
	}
}

// TestBodyDistancePicksClosestPair tests the cross-product minimum
func TestBodyDistancePicksClosestPair(t *testing.T) {
	s := newTestSolver()
	a := convex.NewBody(mgl64.Vec2{0, 0}, 0)
	attachCircle(t, a, mgl64.Vec2{0, 0}, 1)
	attachCircle(t, a, mgl64.Vec2{10, 0}, 1)
	b := convex.NewBody(mgl64.Vec2{0, 0}, 0)
	attachCircle(t, b, mgl64.Vec2{3, 0}, 1)

	outA, outB := geom.NewWeak(0, 0), geom.NewWeak(0, 0)
	d, err := s.BodyDistance(a, b, outA, outB)
	if err != nil {
		t.Fatalf("BodyDistance failed: %v", err)
	}
	if math.Abs(d-1.0) > 1e-12 {
		t.Errorf("Expected distance 1.0, got %v", d)
	}
	if math.Abs(outA.X()-1) > 1e-12 {
		t.Errorf("Expected witness A (1, 0), got (%v, %v)", outA.X(), outA.Y())
	}
	if math.Abs(outB.X()-2) > 1e-12 {
		t.Errorf("Expected witness B (2, 0), got (%v, %v)", outB.X(), outB.Y())
	}
}

// TestBodyDistanceDeepestPenetrationWins tests the most-negative rule
func TestBodyDistanceDeepestPenetrationWins(t *testing.T) {
	s := newTestSolver()
	a := convex.NewBody(mgl64.Vec2{0, 0}, 0)
	attachCircle(t, a, mgl64.Vec2{0, 0}, 1)
	attachCircle(t, a, mgl64.Vec2{10, 0}, 1)
	b := convex.NewBody(mgl64.Vec2{0, 0}, 0)
	attachCircle(t, b, mgl64.Vec2{0.5, 0}, 1)

	d, err := s.BodyDistance(a, b, nil, nil)
	if err != nil {
		t.Fatalf("BodyDistance failed: %v", err)
	}
	if math.Abs(d-(-1.5)) > 1e-12 {
		t.Errorf("Expected distance -1.5, got %v", d)
	}
}

// TestBodyDistanceEmptyGeometry tests the empty-body precondition
func TestBodyDistanceEmptyGeometry(t *testing.T) {
	s := newTestSolver()
	empty := convex.NewBody(mgl64.Vec2{0, 0}, 0)
	full := convex.NewBody(mgl64.Vec2{0, 0}, 0)
	attachCircle(t, full, mgl64.Vec2{0, 0}, 1)

	if _, err := s.BodyDistance(empty, full, nil, nil); !errors.Is(err, convex.ErrEmptyGeometry) {
		t.Errorf("Expected ErrEmptyGeometry, got %v", err)
	}
	if _, err := s.BodyDistance(full, empty, nil, nil); !errors.Is(err, convex.ErrEmptyGeometry) {
		t.Errorf("Expected ErrEmptyGeometry (swapped), got %v", err)
	}
	if _, err := s.BodyOverlaps(empty, full); !errors.Is(err, convex.ErrEmptyGeometry) {
		t.Errorf("Expected ErrEmptyGeometry from BodyOverlaps, got %v", err)
	}
}

// TestBodyDistanceMatchesShapeDistance tests the single-shape reduction
func TestBodyDistanceMatchesShapeDistance(t *testing.T) {
	s := newTestSolver()
	a := convex.NewBody(mgl64.Vec2{-1, 0.5}, 0.3)
	if err := a.Attach(convex.NewBox(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 0.5})); err != nil {
		t.Fatal(err)
	}
	b := convex.NewBody(mgl64.Vec2{2, -0.3}, 0)
	attachCircle(t, b, mgl64.Vec2{0, 0}, 0.75)

	d, err := s.BodyDistance(a, b, nil, nil)
	if err != nil {
		t.Fatalf("BodyDistance failed: %v", err)
	}
	res := s.Distance(a.Shapes()[0], a.Transform(), b.Shapes()[0], b.Transform())
	if math.Abs(d-res.Distance) > 1e-12 {
		t.Errorf("Body distance %v != shape distance %v", d, res.Distance)
	}
}

// TestBodyOverlaps tests body-level overlap with the AABB reject
func TestBodyOverlaps(t *testing.T) {
	s := newTestSolver()
	a := convex.NewBody(mgl64.Vec2{0, 0}, 0)
	attachCircle(t, a, mgl64.Vec2{0, 0}, 1)
	b := convex.NewBody(mgl64.Vec2{0, 0}, 0)
	attachCircle(t, b, mgl64.Vec2{1.5, 0}, 1)

	hit, err := s.BodyOverlaps(a, b)
	if err != nil {
		t.Fatalf("BodyOverlaps failed: %v", err)
	}
	if !hit {
		t.Error("Overlapping bodies should report true")
	}

	b.SetTransform(mgl64.Vec2{50, 50}, 0)
	hit, err = s.BodyOverlaps(a, b)
	if err != nil {
		t.Fatalf("BodyOverlaps failed: %v", err)
	}
	if hit {
		t.Error("Distant bodies should report false")
	}
}
