// Package scene runs a small scripted world that continuously exercises
// the query engine: orbiting bodies around an anchor box, per-tick closest
// pair tracking and a rotating sweep cast. It exists for the inspection
// server; bodies follow fixed paths, there is no dynamics here.
package scene

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"convex2d/internal/convex"
	"convex2d/internal/geom"
	"convex2d/internal/query"
)

// Scene owns the demo bodies and a tick loop producing immutable
// snapshots. The engine's pool is single-threaded, so every engine call
// (tick loop and ad-hoc API queries alike) is serialized under mu.
type Scene struct {
	mu       sync.Mutex
	engine   *query.Engine
	bodies   []*convex.Body
	names    []string
	probe    convex.Shape // unattached mover used by the cast
	tickRate int

	running  bool
	stopChan chan struct{}

	tickCount atomic.Int64
	snapshot  atomic.Pointer[Snapshot]
}

// Snapshot is the immutable per-tick state handed to the API layer.
type Snapshot struct {
	Tick    int64      `json:"tick"`
	Bodies  []BodyView `json:"bodies"`
	Closest *PairView  `json:"closest,omitempty"`
	Cast    CastView   `json:"cast"`
}

// BodyView describes one body for rendering and JSON.
type BodyView struct {
	Name   string      `json:"name"`
	AABB   [4]float64  `json:"aabb"` // minX, minY, maxX, maxY
	Shapes []ShapeView `json:"shapes"`
}

// ShapeView describes one shape in world space.
type ShapeView struct {
	Kind        string       `json:"kind"` // circle | polygon
	Center      [2]float64   `json:"center,omitempty"`
	Radius      float64      `json:"radius,omitempty"`
	Verts       [][2]float64 `json:"verts,omitempty"`
	Interaction string       `json:"interaction"`
}

// PairView is a body-pair distance result with its witness segment.
type PairView struct {
	A        string     `json:"a"`
	B        string     `json:"b"`
	Distance float64    `json:"distance"`
	PointA   [2]float64 `json:"point_a"`
	PointB   [2]float64 `json:"point_b"`
	Overlap  bool       `json:"overlap"`
}

// CastView is the per-tick sweep with its ordered hits.
type CastView struct {
	Start [2]float64 `json:"start"`
	End   [2]float64 `json:"end"`
	Hits  []HitView  `json:"hits"`
}

// HitView is one sweep contact.
type HitView struct {
	Body     string     `json:"body"`
	TOI      float64    `json:"toi"`
	Position [2]float64 `json:"position"`
	Normal   [2]float64 `json:"normal"`
}

// New builds the demo world: an anchor box, three orbiting collision
// circles, one sensor region the cast filters out, and a probe circle
// used as the sweep mover.
func New(engine *query.Engine, tickRate int) *Scene {
	s := &Scene{
		engine:   engine,
		tickRate: tickRate,
		probe:    convex.NewCircle(mgl64.Vec2{}, 0.25),
	}

	anchor := convex.NewBody(mgl64.Vec2{}, 0)
	_ = anchor.Attach(convex.NewBox(mgl64.Vec2{}, mgl64.Vec2{1.5, 1.5}))
	s.addBody("anchor", anchor)

	for i := 0; i < 3; i++ {
		b := convex.NewBody(orbitPos(i, 0), 0)
		_ = b.Attach(convex.NewCircle(mgl64.Vec2{}, 0.6))
		s.addBody(fmt.Sprintf("orbiter-%d", i), b)
	}

	sensor := convex.NewBody(mgl64.Vec2{6, 0}, 0)
	ring := convex.NewCircle(mgl64.Vec2{}, 1.2)
	ring.SetInteraction(convex.InteractionSensor)
	_ = sensor.Attach(ring)
	s.addBody("sensor", sensor)

	s.step(0)
	return s
}

func (s *Scene) addBody(name string, b *convex.Body) {
	s.bodies = append(s.bodies, b)
	s.names = append(s.names, name)
}

// orbitPos is the scripted path of orbiter i at tick t.
func orbitPos(i int, t int64) mgl64.Vec2 {
	phase := float64(i) * 2 * math.Pi / 3
	angle := phase + float64(t)*0.02
	r := 4.0 + 0.8*math.Sin(float64(t)*0.01+phase)
	return mgl64.Vec2{r * math.Cos(angle), r * math.Sin(angle)}
}

// Start begins the tick loop. A stopped scene can be started again.
func (s *Scene) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	go s.run(s.stopChan)
}

// Stop halts the tick loop. Safe to call twice.
func (s *Scene) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stopChan)
}

func (s *Scene) run(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / time.Duration(s.tickRate))
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			s.step(s.tickCount.Add(1))
			s.mu.Unlock()
		case <-stop:
			return
		}
	}
}

// step advances the scripted poses and reruns every query.
func (s *Scene) step(tick int64) {
	for i := 1; i <= 3; i++ {
		s.bodies[i].SetTransform(orbitPos(i-1, tick), float64(tick)*0.01)
	}

	snap := &Snapshot{Tick: tick}
	for i, b := range s.bodies {
		snap.Bodies = append(snap.Bodies, bodyView(s.names[i], b))
	}
	snap.Closest = s.closestPair()
	snap.Cast = s.castSweep(tick)
	s.snapshot.Store(snap)
}

// closestPair runs DistanceBody across every body pair and keeps the
// minimum, witness segment included.
func (s *Scene) closestPair() *PairView {
	outA := geom.NewWeak(0, 0)
	outB := geom.NewWeak(0, 0)
	var best *PairView
	for i := 0; i < len(s.bodies); i++ {
		for j := i + 1; j < len(s.bodies); j++ {
			d, err := s.engine.DistanceBody(s.bodies[i], s.bodies[j], outA, outB)
			if err != nil {
				continue
			}
			if best == nil || d < best.Distance {
				best = &PairView{
					A:        s.names[i],
					B:        s.names[j],
					Distance: d,
					PointA:   [2]float64{outA.X(), outA.Y()},
					PointB:   [2]float64{outB.X(), outB.Y()},
					Overlap:  d <= 0,
				}
			}
		}
	}
	return best
}

// castSweep fires the probe through the world along a slowly rotating
// path, filtering candidates to collision shapes only.
func (s *Scene) castSweep(tick int64) CastView {
	angle := float64(tick) * 0.013
	start := mgl64.Vec2{-8 * math.Cos(angle), -8 * math.Sin(angle)}
	end := start.Mul(-1)

	var candidates []convex.Shape
	var owners []string
	for i, b := range s.bodies {
		for _, sh := range b.Shapes() {
			if sh.Interaction().Matches(convex.InteractionCollision) {
				candidates = append(candidates, sh)
				owners = append(owners, s.names[i])
			}
		}
	}

	view := CastView{
		Start: [2]float64{start[0], start[1]},
		End:   [2]float64{end[0], end[1]},
	}
	seq, err := s.engine.Cast(s.probe, start, end, candidates)
	if err != nil {
		return view
	}
	ownerOf := func(sh convex.Shape) string {
		for i, c := range candidates {
			if c == sh {
				return owners[i]
			}
		}
		return "?"
	}
	for hit := range seq {
		n := hit.Normal()
		p := hit.Position()
		view.Hits = append(view.Hits, HitView{
			Body:     ownerOf(hit.Shape()),
			TOI:      hit.TOI(),
			Position: [2]float64{p[0], p[1]},
			Normal:   [2]float64{n[0], n[1]},
		})
	}
	return view
}

// Snapshot returns the latest immutable snapshot.
func (s *Scene) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Names returns the body names in insertion order.
func (s *Scene) Names() []string {
	return s.names
}

// Distance runs a body-pair distance query by name.
func (s *Scene) Distance(a, b string) (*PairView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ia, ib := -1, -1
	for i, n := range s.names {
		if n == a {
			ia = i
		}
		if n == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return nil, fmt.Errorf("unknown body pair %q, %q", a, b)
	}
	outA := geom.NewWeak(0, 0)
	outB := geom.NewWeak(0, 0)
	d, err := s.engine.DistanceBody(s.bodies[ia], s.bodies[ib], outA, outB)
	if err != nil {
		return nil, err
	}
	return &PairView{
		A:        a,
		B:        b,
		Distance: d,
		PointA:   [2]float64{outA.X(), outA.Y()},
		PointB:   [2]float64{outB.X(), outB.Y()},
		Overlap:  d <= 0,
	}, nil
}

func bodyView(name string, b *convex.Body) BodyView {
	box := b.AABB()
	v := BodyView{
		Name: name,
		AABB: [4]float64{box.Min[0], box.Min[1], box.Max[0], box.Max[1]},
	}
	xf := b.Transform()
	for _, sh := range b.Shapes() {
		v.Shapes = append(v.Shapes, shapeView(sh, xf))
	}
	return v
}

func shapeView(sh convex.Shape, xf geom.Transform) ShapeView {
	switch t := sh.(type) {
	case *convex.Circle:
		c := xf.Apply(t.Center())
		return ShapeView{
			Kind:        "circle",
			Center:      [2]float64{c[0], c[1]},
			Radius:      t.Radius(),
			Interaction: t.Interaction().String(),
		}
	case *convex.Polygon:
		verts := make([][2]float64, t.VertexCount())
		for i := range verts {
			w := xf.Apply(t.Vertex(i))
			verts[i] = [2]float64{w[0], w[1]}
		}
		return ShapeView{Kind: "polygon", Verts: verts, Interaction: t.Interaction().String()}
	}
	return ShapeView{Kind: "unknown"}
}
