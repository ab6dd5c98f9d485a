package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rot is a 2D rotation stored as sine/cosine.
type Rot struct {
	Sin, Cos float64
}

// NewRot builds a rotation from an angle in radians.
func NewRot(angle float64) Rot {
	return Rot{Sin: math.Sin(angle), Cos: math.Cos(angle)}
}

// IdentityRot is the zero-angle rotation.
var IdentityRot = Rot{Sin: 0, Cos: 1}

// Apply rotates v.
func (r Rot) Apply(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{r.Cos*v[0] - r.Sin*v[1], r.Sin*v[0] + r.Cos*v[1]}
}

// ApplyInv rotates v by the inverse rotation.
func (r Rot) ApplyInv(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{r.Cos*v[0] + r.Sin*v[1], -r.Sin*v[0] + r.Cos*v[1]}
}

// Transform is a rigid 2D transform: rotate then translate.
type Transform struct {
	Pos mgl64.Vec2
	Rot Rot
}

// NewTransform builds a transform from a position and angle.
func NewTransform(pos mgl64.Vec2, angle float64) Transform {
	return Transform{Pos: pos, Rot: NewRot(angle)}
}

// IdentityTransform is the do-nothing transform.
var IdentityTransform = Transform{Rot: IdentityRot}

// Apply maps a local point into world space.
func (t Transform) Apply(p mgl64.Vec2) mgl64.Vec2 {
	return t.Rot.Apply(p).Add(t.Pos)
}

// ApplyInv maps a world point into local space.
func (t Transform) ApplyInv(p mgl64.Vec2) mgl64.Vec2 {
	return t.Rot.ApplyInv(p.Sub(t.Pos))
}

// CrossSV returns s × v for scalar s, the 2D perpendicular scaled by s.
func CrossSV(s float64, v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-s * v[1], s * v[0]}
}

// CrossVS returns v × s, the opposite perpendicular.
func CrossVS(v mgl64.Vec2, s float64) mgl64.Vec2 {
	return mgl64.Vec2{s * v[1], -s * v[0]}
}

// Cross returns the 2D cross product a × b.
func Cross(a, b mgl64.Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}
