package geom

// Pool is a reusable arena of Vec handles. Queries check vectors out
// immediately before use and release them immediately after, keeping the
// hot paths allocation-free once the pool is warm.
//
// A Pool is NOT safe for concurrent use. Embeddings that query from several
// goroutines must confine one Pool per goroutine; shape and body geometry
// is read-only during queries, so independent pools never conflict.
type Pool struct {
	free []*Vec

	// Stats for monitoring
	checkouts uint64
	allocs    uint64
}

// NewPool creates a pool pre-warmed with size handles.
func NewPool(size int) *Pool {
	p := &Pool{free: make([]*Vec, 0, size)}
	for i := 0; i < size; i++ {
		p.free = append(p.free, &Vec{state: OwnershipFree})
	}
	return p
}

// Checkout returns a checked-out vector zeroed for use. Allocates a fresh
// handle when the free list is empty. Handles disposed while parked on the
// free list are discarded, never reissued.
func (p *Pool) Checkout() *Vec {
	p.checkouts++
	for n := len(p.free); n > 0; n = len(p.free) {
		v := p.free[n-1]
		p.free = p.free[:n-1]
		if v.state == OwnershipDisposed {
			continue
		}
		v.state = OwnershipCheckedOut
		v.immutable = false
		v.v = [2]float64{}
		return v
	}
	p.allocs++
	return &Vec{state: OwnershipCheckedOut}
}

// Release returns a checked-out vector to the free list.
//
// Fails with ResourceStateError when v is already free (double release),
// weak (caller-owned, never pool property) or disposed.
func (p *Pool) Release(v *Vec) error {
	switch v.state {
	case OwnershipCheckedOut:
		v.state = OwnershipFree
		p.free = append(p.free, v)
		return nil
	case OwnershipFree:
		return resourceStateErr("release", v.state, "double release")
	case OwnershipWeak:
		return resourceStateErr("release", v.state, "weak vectors are caller-owned")
	default:
		return resourceStateErr("release", v.state, "vector is disposed")
	}
}

// ReleaseAll releases each vector in order, stopping at the first failure.
// Convenience for the query paths that borrow several temporaries at once.
func (p *Pool) ReleaseAll(vs ...*Vec) error {
	for _, v := range vs {
		if err := p.Release(v); err != nil {
			return err
		}
	}
	return nil
}

// FreeLen returns the current free-list length.
func (p *Pool) FreeLen() int { return len(p.free) }

// Stats returns total checkouts and how many required a fresh allocation.
func (p *Pool) Stats() (checkouts, allocs uint64) {
	return p.checkouts, p.allocs
}
