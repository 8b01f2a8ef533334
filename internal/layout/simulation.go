// Package layout positions mind-map nodes with a force-directed simulation
// modelled on d3-force: link springs, many-body repulsion, a centering force
// and collision avoidance, cooled by a decaying alpha.
package layout

import (
	"math"
	"math/rand/v2"

	"github.com/jask/mindmap/internal/graph"
)

const (
	// SpawnJitter bounds, per axis, where nodes without an initial position appear.
	SpawnJitter = 50.0

	alphaMin      = 0.001
	velocityDecay = 0.4
	dragAlpha     = 0.3
	distanceMin2  = 1.0
)

// alphaDecay cools alpha from 1 to alphaMin in about 300 ticks.
var alphaDecay = 1 - math.Pow(alphaMin, 1.0/300)

// Forces configures the simulation.
type Forces struct {
	LinkDistance  float64
	Charge        float64
	CollideRadius float64
	// Center is where the centering force pulls the layout's mean position.
	Center graph.Point
}

// DefaultForces returns link distance 150, charge -800 and collision radius 80.
func DefaultForces() Forces {
	return Forces{LinkDistance: 150, Charge: -800, CollideRadius: 80}
}

// Body is a simulated node.
type Body struct {
	ID     string
	X, Y   float64
	VX, VY float64

	pinned bool
	fx, fy float64
}

// Pinned reports whether the body is held at a fixed position.
func (b Body) Pinned() bool { return b.pinned }

type link struct {
	source, target *Body
	strength, bias float64
}

// Simulation is not safe for concurrent use; drive it from one goroutine.
type Simulation struct {
	forces Forces
	rng    *rand.Rand

	bodies []*Body
	index  map[string]*Body
	links  []link

	alpha       float64
	alphaTarget float64
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithRand makes spawn positions and jiggle deterministic.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulation) { s.rng = r }
}

func New(f Forces, opts ...Option) *Simulation {
	s := &Simulation{
		forces: f,
		index:  map[string]*Body{},
		alpha:  1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetForces swaps force parameters and reheats.
func (s *Simulation) SetForces(f Forces) {
	s.forces = f
	s.Reheat()
}

func (s *Simulation) Forces() Forces { return s.forces }

// Sync mirrors g: bodies for new nodes are added, bodies for vanished nodes are
// dropped and links are rebuilt. Existing bodies keep their position and
// velocity. Any structural change reheats the simulation. It reports whether
// anything changed.
func (s *Simulation) Sync(g graph.Graph) bool {
	changed := false
	keep := make(map[string]struct{}, len(g.Nodes))
	bodies := make([]*Body, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		keep[n.ID] = struct{}{}
		b, ok := s.index[n.ID]
		if !ok {
			b = s.spawn(n)
			s.index[n.ID] = b
			changed = true
		}
		bodies = append(bodies, b)
	}
	for id := range s.index {
		if _, ok := keep[id]; !ok {
			delete(s.index, id)
			changed = true
		}
	}
	s.bodies = bodies

	links := s.buildLinks(g.Edges)
	if len(links) != len(s.links) {
		changed = true
	}
	s.links = links

	if changed {
		s.Reheat()
	}
	return changed
}

func (s *Simulation) spawn(n graph.Node) *Body {
	if n.Initial != nil {
		return &Body{ID: n.ID, X: n.Initial.X, Y: n.Initial.Y}
	}
	return &Body{
		ID: n.ID,
		X:  s.forces.Center.X + (s.random()*2-1)*SpawnJitter,
		Y:  s.forces.Center.Y + (s.random()*2-1)*SpawnJitter,
	}
}

// buildLinks resolves edges to bodies and derives d3's degree-based strength
// and bias. Edges with a missing endpoint are skipped.
func (s *Simulation) buildLinks(edges []graph.Edge) []link {
	degree := map[*Body]int{}
	out := make([]link, 0, len(edges))
	for _, e := range edges {
		src, ok1 := s.index[e.Source]
		dst, ok2 := s.index[e.Target]
		if !ok1 || !ok2 || src == dst {
			continue
		}
		degree[src]++
		degree[dst]++
		out = append(out, link{source: src, target: dst})
	}
	for i := range out {
		ds, dt := float64(degree[out[i].source]), float64(degree[out[i].target])
		out[i].strength = 1 / math.Min(ds, dt)
		out[i].bias = ds / (ds + dt)
	}
	return out
}

// Clear removes every body and link.
func (s *Simulation) Clear() {
	s.bodies = nil
	s.links = nil
	s.index = map[string]*Body{}
	s.alphaTarget = 0
	s.alpha = 1
}

// Reheat restarts cooling from alpha 1.
func (s *Simulation) Reheat() { s.alpha = 1 }

func (s *Simulation) Alpha() float64       { return s.alpha }
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// Hot reports whether the simulation still has energy worth spending ticks on.
func (s *Simulation) Hot() bool {
	return s.alpha >= alphaMin || s.alphaTarget >= alphaMin
}

// Len returns the number of bodies.
func (s *Simulation) Len() int { return len(s.bodies) }

// Position returns a body's current position.
func (s *Simulation) Position(id string) (graph.Point, bool) {
	b, ok := s.index[id]
	if !ok {
		return graph.Point{}, false
	}
	return graph.Point{X: b.X, Y: b.Y}, true
}

// Body returns a copy of the body for id.
func (s *Simulation) Body(id string) (Body, bool) {
	b, ok := s.index[id]
	if !ok {
		return Body{}, false
	}
	return *b, true
}

// Bodies returns copies of all bodies in node order.
func (s *Simulation) Bodies() []Body {
	out := make([]Body, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = *b
	}
	return out
}

// DragStart pins id at its current position and keeps the simulation warm.
func (s *Simulation) DragStart(id string) bool {
	b, ok := s.index[id]
	if !ok {
		return false
	}
	b.pinned, b.fx, b.fy = true, b.X, b.Y
	s.alphaTarget = dragAlpha
	return true
}

// DragTo moves id's pin.
func (s *Simulation) DragTo(id string, p graph.Point) {
	if b, ok := s.index[id]; ok && b.pinned {
		b.fx, b.fy = p.X, p.Y
	}
}

// DragEnd releases id's pin and lets the simulation cool again.
func (s *Simulation) DragEnd(id string) {
	if b, ok := s.index[id]; ok {
		b.pinned = false
	}
	s.alphaTarget = 0
}

// Tick advances the simulation by one step.
func (s *Simulation) Tick() {
	s.alpha += (s.alphaTarget - s.alpha) * alphaDecay

	s.applyLinks()
	s.applyCharge()
	s.applyCenter()
	s.applyCollide()

	for _, b := range s.bodies {
		if b.pinned {
			b.X, b.VX = b.fx, 0
			b.Y, b.VY = b.fy, 0
			continue
		}
		b.VX *= 1 - velocityDecay
		b.VY *= 1 - velocityDecay
		b.X += b.VX
		b.Y += b.VY
	}
}

func (s *Simulation) applyLinks() {
	for _, l := range s.links {
		src, dst := l.source, l.target
		x := dst.X + dst.VX - src.X - src.VX
		y := dst.Y + dst.VY - src.Y - src.VY
		if x == 0 {
			x = s.jiggle()
		}
		if y == 0 {
			y = s.jiggle()
		}
		d := math.Sqrt(x*x + y*y)
		k := (d - s.forces.LinkDistance) / d * s.alpha * l.strength
		x, y = x*k, y*k
		dst.VX -= x * l.bias
		dst.VY -= y * l.bias
		src.VX += x * (1 - l.bias)
		src.VY += y * (1 - l.bias)
	}
}

func (s *Simulation) applyCharge() {
	w := s.forces.Charge * s.alpha
	for _, b := range s.bodies {
		for _, o := range s.bodies {
			if o == b {
				continue
			}
			x, y := o.X-b.X, o.Y-b.Y
			if x == 0 {
				x = s.jiggle()
			}
			if y == 0 {
				y = s.jiggle()
			}
			l := x*x + y*y
			if l < distanceMin2 {
				l = math.Sqrt(distanceMin2 * l)
			}
			b.VX += x * w / l
			b.VY += y * w / l
		}
	}
}

func (s *Simulation) applyCenter() {
	n := len(s.bodies)
	if n == 0 {
		return
	}
	var sx, sy float64
	for _, b := range s.bodies {
		sx += b.X
		sy += b.Y
	}
	sx = sx/float64(n) - s.forces.Center.X
	sy = sy/float64(n) - s.forces.Center.Y
	for _, b := range s.bodies {
		b.X -= sx
		b.Y -= sy
	}
}

func (s *Simulation) applyCollide() {
	r := s.forces.CollideRadius
	if r <= 0 {
		return
	}
	reach := 2 * r
	for i, b := range s.bodies {
		xi, yi := b.X+b.VX, b.Y+b.VY
		for _, o := range s.bodies[i+1:] {
			x := xi - o.X - o.VX
			y := yi - o.Y - o.VY
			l := x*x + y*y
			if l >= reach*reach {
				continue
			}
			if x == 0 {
				x = s.jiggle()
				l += x * x
			}
			if y == 0 {
				y = s.jiggle()
				l += y * y
			}
			d := math.Sqrt(l)
			k := (reach - d) / d
			// Equal radii split the correction evenly.
			x, y = x*k*0.5, y*k*0.5
			b.VX += x
			b.VY += y
			o.VX -= x
			o.VY -= y
		}
	}
}

func (s *Simulation) random() float64 {
	if s.rng != nil {
		return s.rng.Float64()
	}
	return rand.Float64()
}

func (s *Simulation) jiggle() float64 {
	return (s.random() - 0.5) * 1e-6
}
