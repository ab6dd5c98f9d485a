package geom

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// TestPoolCheckoutRelease tests the basic borrow cycle
func TestPoolCheckoutRelease(t *testing.T) {
	p := NewPool(4)

	if p.FreeLen() != 4 {
		t.Fatalf("Expected 4 free handles, got %d", p.FreeLen())
	}

	v := p.Checkout()
	if v.State() != OwnershipCheckedOut {
		t.Errorf("Expected checked-out state, got %s", v.State())
	}
	if p.FreeLen() != 3 {
		t.Errorf("Expected 3 free handles after checkout, got %d", p.FreeLen())
	}

	if err := p.Release(v); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if v.State() != OwnershipFree {
		t.Errorf("Expected free state after release, got %s", v.State())
	}
	if p.FreeLen() != 4 {
		t.Errorf("Expected 4 free handles after release, got %d", p.FreeLen())
	}
}

// TestPoolDoubleRelease tests that releasing twice fails with the sentinel
func TestPoolDoubleRelease(t *testing.T) {
	p := NewPool(2)
	v := p.Checkout()

	if err := p.Release(v); err != nil {
		t.Fatalf("First release failed: %v", err)
	}
	err := p.Release(v)
	if err == nil {
		t.Fatal("Second release should fail")
	}
	if !errors.Is(err, ErrResourceState) {
		t.Errorf("Expected ErrResourceState, got %v", err)
	}
	var rse *ResourceStateError
	if !errors.As(err, &rse) {
		t.Fatalf("Expected *ResourceStateError, got %T", err)
	}
	if rse.Op != "release" {
		t.Errorf("Expected op 'release', got '%s'", rse.Op)
	}
	if p.FreeLen() != 2 {
		t.Errorf("Double release must not grow the free list, got %d", p.FreeLen())
	}
}

// TestPoolReleaseWeak tests that weak vectors are never pool property
func TestPoolReleaseWeak(t *testing.T) {
	p := NewPool(2)
	w := NewWeak(1, 2)

	err := p.Release(w)
	if err == nil {
		t.Fatal("Releasing a weak vector should fail")
	}
	if !errors.Is(err, ErrResourceState) {
		t.Errorf("Expected ErrResourceState, got %v", err)
	}
	if w.State() != OwnershipWeak {
		t.Errorf("Weak vector state must be unchanged, got %s", w.State())
	}
}

// TestPoolReleaseDisposed tests that disposed vectors cannot return
func TestPoolReleaseDisposed(t *testing.T) {
	p := NewPool(2)
	v := p.Checkout()
	v.MarkDisposed()

	if err := p.Release(v); !errors.Is(err, ErrResourceState) {
		t.Errorf("Expected ErrResourceState releasing disposed vector, got %v", err)
	}
}

// TestCheckoutSkipsDisposed tests that handles disposed while parked on the
// free list are discarded instead of being handed out again
func TestCheckoutSkipsDisposed(t *testing.T) {
	p := NewPool(2)
	v := p.Checkout()
	if err := p.Release(v); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	v.MarkDisposed()

	v2 := p.Checkout()
	if v2 == v {
		t.Fatal("Checkout must never reissue a disposed handle")
	}
	if v.State() != OwnershipDisposed {
		t.Errorf("Disposed handle state must be unchanged, got %s", v.State())
	}
	if v2.State() != OwnershipCheckedOut {
		t.Errorf("Expected checked-out state, got %s", v2.State())
	}

	// Dispose the whole free list: the next checkout must allocate fresh.
	if err := p.Release(v2); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	v2.MarkDisposed()
	_, allocsBefore := p.Stats()
	v3 := p.Checkout()
	if v3 == v || v3 == v2 {
		t.Fatal("Checkout must never reissue a disposed handle")
	}
	if _, allocs := p.Stats(); allocs != allocsBefore+1 {
		t.Errorf("Expected a fresh allocation, allocs %d -> %d", allocsBefore, allocs)
	}
	if p.FreeLen() != 0 {
		t.Errorf("Disposed handles must leave the free list, got %d", p.FreeLen())
	}
}

// TestPoolGrowsWhenEmpty tests allocation past the pre-warmed size
func TestPoolGrowsWhenEmpty(t *testing.T) {
	p := NewPool(1)
	a := p.Checkout()
	b := p.Checkout()

	if b.State() != OwnershipCheckedOut {
		t.Errorf("Overflow checkout should still be checked out, got %s", b.State())
	}
	checkouts, allocs := p.Stats()
	if checkouts != 2 {
		t.Errorf("Expected 2 checkouts, got %d", checkouts)
	}
	if allocs != 1 {
		t.Errorf("Expected 1 allocation, got %d", allocs)
	}
	if err := p.ReleaseAll(a, b); err != nil {
		t.Fatalf("ReleaseAll failed: %v", err)
	}
	if p.FreeLen() != 2 {
		t.Errorf("Expected 2 free handles after ReleaseAll, got %d", p.FreeLen())
	}
}

// TestCheckoutResetsHandle tests that recycled handles come back zeroed
func TestCheckoutResetsHandle(t *testing.T) {
	p := NewPool(1)
	v := p.Checkout()
	if err := v.StoreXY(3, 4); err != nil {
		t.Fatalf("StoreXY failed: %v", err)
	}
	v.MarkImmutable()
	if err := p.Release(v); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	v2 := p.Checkout()
	if v2 != v {
		t.Fatal("Expected the recycled handle back")
	}
	if v2.X() != 0 || v2.Y() != 0 {
		t.Errorf("Expected zeroed value, got (%v, %v)", v2.X(), v2.Y())
	}
	if v2.Immutable() {
		t.Error("Recycled handle must be writable again")
	}
}

// TestVecStoreRules tests the write guards on disposed and immutable vectors
func TestVecStoreRules(t *testing.T) {
	v := NewWeak(0, 0)
	if err := v.Store(mgl64.Vec2{5, 6}); err != nil {
		t.Fatalf("Store on weak vector failed: %v", err)
	}
	if v.X() != 5 || v.Y() != 6 {
		t.Errorf("Expected (5, 6), got (%v, %v)", v.X(), v.Y())
	}

	v.MarkImmutable()
	if err := v.Store(mgl64.Vec2{7, 8}); !errors.Is(err, ErrResourceState) {
		t.Errorf("Expected ErrResourceState on immutable store, got %v", err)
	}
	if v.X() != 5 {
		t.Errorf("Failed store must leave the value untouched, got %v", v.X())
	}

	d := NewWeak(0, 0)
	d.MarkDisposed()
	if err := d.StoreXY(1, 1); !errors.Is(err, ErrResourceState) {
		t.Errorf("Expected ErrResourceState on disposed store, got %v", err)
	}
	// Idempotent: disposing twice changes nothing.
	d.MarkDisposed()
	if d.State() != OwnershipDisposed {
		t.Errorf("Expected disposed state, got %s", d.State())
	}
}
