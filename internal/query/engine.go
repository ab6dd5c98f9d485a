// Package query is the public surface of the geometry engine. The Engine
// composes the narrow-phase solver, the sweep caster and the transient
// vector pool, and guards every operation with its preconditions before
// any solver work runs. All operations are pure queries: no simulation
// state is ever mutated and nothing is retained across calls.
package query

import (
	"errors"
	"iter"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	pkgerrors "github.com/pkg/errors"

	"convex2d/internal/config"
	"convex2d/internal/convex"
	"convex2d/internal/geom"
	"convex2d/internal/narrow"
	"convex2d/internal/sweep"
)

// Engine answers exact pairwise queries on posed convex shapes. It owns an
// explicit vector pool, so embeddings that query from several goroutines
// confine one Engine per goroutine.
type Engine struct {
	solver *narrow.Solver
	caster *sweep.Caster
	pool   *geom.Pool
}

// New creates an engine from solver tuning.
func New(cfg config.SolverConfig) *Engine {
	pool := geom.NewPool(cfg.PoolSize)
	solver := narrow.NewSolver(cfg.MaxIterations, cfg.Epsilon, pool)
	return &Engine{
		solver: solver,
		caster: sweep.NewCaster(solver, cfg.CastMaxSteps, cfg.CastTolerance),
		pool:   pool,
	}
}

// Pool returns the engine's vector pool, the source of checked-out output
// handles for callers that want pool-owned buffers.
func (e *Engine) Pool() *geom.Pool { return e.pool }

// Distance returns the minimum separation between two attached shapes, or
// the negated penetration depth when they overlap. Witness points are
// written to outA/outB; pass caller-owned (weak) or checked-out handles,
// or nil to skip a write.
func (e *Engine) Distance(shapeA, shapeB convex.Shape, outA, outB *geom.Vec) (float64, error) {
	defer observe("distance", time.Now())
	if err := requireAttached(shapeA, shapeB); err != nil {
		return 0, err
	}
	res, err := e.solver.DistanceOut(
		shapeA, shapeA.Body().Transform(),
		shapeB, shapeB.Body().Transform(),
		outA, outB,
	)
	if err != nil {
		recordFailure("resource_state")
		return 0, pkgerrors.Wrap(err, "distance")
	}
	solverIterations.Observe(float64(res.Iterations))
	return res.Distance, nil
}

// DistanceValues is the engine-allocated form of Distance: witnesses are
// computed in pooled temporaries, auto-released before returning, and
// handed back by value.
func (e *Engine) DistanceValues(shapeA, shapeB convex.Shape) (float64, mgl64.Vec2, mgl64.Vec2, error) {
	outA := e.pool.Checkout()
	outB := e.pool.Checkout()
	defer e.pool.ReleaseAll(outA, outB)

	d, err := e.Distance(shapeA, shapeB, outA, outB)
	if err != nil {
		return 0, mgl64.Vec2{}, mgl64.Vec2{}, err
	}
	return d, outA.Value(), outB.Value(), nil
}

// DistanceBody returns the minimum distance over the shape cross-product
// of two non-empty bodies, updating outA/outB only when a pair improves
// the running best.
func (e *Engine) DistanceBody(bodyA, bodyB *convex.Body, outA, outB *geom.Vec) (float64, error) {
	defer observe("distance_body", time.Now())
	d, err := e.solver.BodyDistance(bodyA, bodyB, outA, outB)
	if err != nil {
		recordFailure(failureReason(err))
		return 0, pkgerrors.Wrap(err, "distance body")
	}
	return d, nil
}

// Intersects reports whether two attached shapes overlap: a bounding-box
// pre-check first, then the exact test that stops at the first separating
// axis.
func (e *Engine) Intersects(shapeA, shapeB convex.Shape) (bool, error) {
	defer observe("intersects", time.Now())
	if err := requireAttached(shapeA, shapeB); err != nil {
		return false, err
	}
	if !shapeA.AABB().Overlaps(shapeB.AABB()) {
		aabbRejects.Inc()
		return false, nil
	}
	hit, _ := e.solver.Overlaps(
		shapeA, shapeA.Body().Transform(),
		shapeB, shapeB.Body().Transform(),
	)
	return hit, nil
}

// IntersectsBody reports whether two non-empty bodies overlap, short-
// circuiting across the shape cross-product in insertion order.
func (e *Engine) IntersectsBody(bodyA, bodyB *convex.Body) (bool, error) {
	defer observe("intersects_body", time.Now())
	hit, err := e.solver.BodyOverlaps(bodyA, bodyB)
	if err != nil {
		recordFailure(failureReason(err))
		return false, pkgerrors.Wrap(err, "intersects body")
	}
	return hit, nil
}

// Contains reports whether shapeB lies entirely within shapeA. Both
// shapes must be attached.
func (e *Engine) Contains(shapeA, shapeB convex.Shape) (bool, error) {
	defer observe("contains", time.Now())
	if err := requireAttached(shapeA, shapeB); err != nil {
		return false, err
	}
	return e.solver.Contains(
		shapeA, shapeA.Body().Transform(),
		shapeB, shapeB.Body().Transform(),
	), nil
}

// Cast sweeps shape linearly from startPos to endPos and returns the lazy
// ascending-TOI sequence of first contacts with the candidates. Candidates
// must be attached; the moving shape needs no body (its rotation defaults
// to identity).
func (e *Engine) Cast(shape convex.Shape, startPos, endPos mgl64.Vec2, candidates []convex.Shape) (iter.Seq[*sweep.ConvexResult], error) {
	defer observe("cast", time.Now())
	for _, c := range candidates {
		if c.Body() == nil {
			recordFailure("unattached_shape")
			return nil, pkgerrors.Wrap(convex.ErrUnattachedShape, "cast candidate")
		}
	}
	return e.caster.Cast(shape, startPos, endPos, candidates), nil
}

// requireAttached validates that every shape has an owning body.
func requireAttached(shapes ...convex.Shape) error {
	for _, s := range shapes {
		if s.Body() == nil {
			recordFailure("unattached_shape")
			return convex.ErrUnattachedShape
		}
	}
	return nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, convex.ErrEmptyGeometry):
		return "empty_geometry"
	case errors.Is(err, convex.ErrUnattachedShape):
		return "unattached_shape"
	case errors.Is(err, geom.ErrResourceState):
		return "resource_state"
	}
	return "other"
}
