// Package convex defines the shape and body model the query engine runs
// on: support-mapped convex shapes attached to posed bodies. Shapes carry a
// core polytope (one or more local vertices) plus a proxy radius; a circle
// is a single core point with its radius, a polygon is its vertex ring with
// radius zero. Solvers work on the cores and re-apply the radii, which
// keeps the simplex search exact for curved boundaries.
package convex

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"convex2d/internal/geom"
)

// Shape is a convex shape bound to at most one body. The support-function
// contract (VertexCount/Vertex/Support/Radius) is everything the narrow
// phase needs; world pose comes from the owning body.
//
// The unexported methods keep implementations inside this package, so the
// attach/pose bookkeeping cannot be bypassed.
type Shape interface {
	// Body returns the owning body, nil while unattached.
	Body() *Body

	// AABB returns the cached world bounding box. Only valid once
	// attached; bodies refresh it on every pose change.
	AABB() geom.AABB

	// VertexCount returns the number of core vertices.
	VertexCount() int

	// Vertex returns core vertex i in local space.
	Vertex(i int) mgl64.Vec2

	// Support returns the index of the core vertex farthest along dir,
	// with dir in local space.
	Support(dir mgl64.Vec2) int

	// Radius is the proxy radius inflating the core.
	Radius() float64

	// Interaction returns the upstream filtering flags.
	Interaction() InteractionType

	// SetInteraction replaces the filtering flags.
	SetInteraction(t InteractionType)

	setBody(b *Body)
	refreshWorld(xf geom.Transform)
}

// shapeBase carries the bookkeeping every shape shares.
type shapeBase struct {
	body        *Body
	worldAABB   geom.AABB
	interaction InteractionType
}

func (s *shapeBase) Body() *Body                      { return s.body }
func (s *shapeBase) AABB() geom.AABB                  { return s.worldAABB }
func (s *shapeBase) Interaction() InteractionType     { return s.interaction }
func (s *shapeBase) SetInteraction(t InteractionType) { s.interaction = t }
func (s *shapeBase) setBody(b *Body)                  { s.body = b }

// Circle is a disc: one core point plus its radius.
type Circle struct {
	shapeBase
	center mgl64.Vec2
	radius float64
}

// NewCircle creates a circle with the given local center and radius.
func NewCircle(center mgl64.Vec2, radius float64) *Circle {
	c := &Circle{center: center, radius: radius}
	c.interaction = InteractionCollision
	return c
}

// Center returns the local center.
func (c *Circle) Center() mgl64.Vec2 { return c.center }

func (c *Circle) VertexCount() int              { return 1 }
func (c *Circle) Vertex(int) mgl64.Vec2         { return c.center }
func (c *Circle) Support(mgl64.Vec2) int        { return 0 }
func (c *Circle) Radius() float64               { return c.radius }

func (c *Circle) refreshWorld(xf geom.Transform) {
	wc := xf.Apply(c.center)
	r := mgl64.Vec2{c.radius, c.radius}
	c.worldAABB = geom.AABB{Min: wc.Sub(r), Max: wc.Add(r)}
}

// Polygon is a convex vertex ring with outward edge normals. Vertices must
// be supplied in counter-clockwise order.
type Polygon struct {
	shapeBase
	verts   []mgl64.Vec2
	normals []mgl64.Vec2
}

// NewPolygon creates a polygon from counter-clockwise local vertices and
// precomputes the outward edge normals.
func NewPolygon(verts ...mgl64.Vec2) *Polygon {
	normals := make([]mgl64.Vec2, len(verts))
	for i := range verts {
		j := (i + 1) % len(verts)
		edge := verts[j].Sub(verts[i])
		normals[i] = geom.CrossVS(edge, 1.0).Normalize()
	}
	p := &Polygon{verts: verts, normals: normals}
	p.interaction = InteractionCollision
	return p
}

// NewBox creates an axis-aligned rectangle polygon from a center and half
// extents.
func NewBox(center, halfExtents mgl64.Vec2) *Polygon {
	hx, hy := halfExtents[0], halfExtents[1]
	return NewPolygon(
		center.Add(mgl64.Vec2{-hx, -hy}),
		center.Add(mgl64.Vec2{hx, -hy}),
		center.Add(mgl64.Vec2{hx, hy}),
		center.Add(mgl64.Vec2{-hx, hy}),
	)
}

func (p *Polygon) VertexCount() int      { return len(p.verts) }
func (p *Polygon) Vertex(i int) mgl64.Vec2 { return p.verts[i] }
func (p *Polygon) Radius() float64       { return 0 }

// Normal returns the outward normal of edge i (from vertex i to i+1) in
// local space.
func (p *Polygon) Normal(i int) mgl64.Vec2 { return p.normals[i] }

func (p *Polygon) Support(dir mgl64.Vec2) int {
	best := 0
	bestDot := dir.Dot(p.verts[0])
	for i := 1; i < len(p.verts); i++ {
		if d := dir.Dot(p.verts[i]); d > bestDot {
			best = i
			bestDot = d
		}
	}
	return best
}

func (p *Polygon) refreshWorld(xf geom.Transform) {
	min := mgl64.Vec2{math.Inf(1), math.Inf(1)}
	max := mgl64.Vec2{math.Inf(-1), math.Inf(-1)}
	for _, v := range p.verts {
		w := xf.Apply(v)
		min[0] = math.Min(min[0], w[0])
		min[1] = math.Min(min[1], w[1])
		max[0] = math.Max(max[0], w[0])
		max[1] = math.Max(max[1], w[1])
	}
	p.worldAABB = geom.AABB{Min: min, Max: max}
}

// WorldSupport returns the world-space core support point of s posed by xf,
// farthest along the world direction dir. The proxy radius is not applied.
func WorldSupport(s Shape, xf geom.Transform, dir mgl64.Vec2) mgl64.Vec2 {
	i := s.Support(xf.Rot.ApplyInv(dir))
	return xf.Apply(s.Vertex(i))
}
