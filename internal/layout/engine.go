package layout

import (
	"hash/fnv"
	"math"
	"math/rand"

	"kinship-backend/internal/domain"
)

// Force tuning. Link attraction gets stronger and shorter as strength
// rises; repulsion only acts within repelRange so far-apart clusters do
// not push each other off screen.
const (
	repelForce    = 1200.0
	repelRange    = 260.0
	anchorPull    = 0.02
	centerPull    = 0.5
	globalPull    = 0.005
	velocityDecay = 0.6
	alphaDecay    = 0.995
	alphaMin      = 0.02
	minSeparation = 1e-4
)

func linkDistance(strength int) float64 {
	return 190 - 11*float64(strength)
}

func linkPull(strength int) float64 {
	return 0.03 + 0.012*float64(strength)
}

type simNode struct {
	id     string
	group  string
	x, y   float64
	vx, vy float64
	radius float64
	pinned bool
}

type simLink struct {
	a, b     *simNode
	strength int
}

// Engine owns the working copy of node positions. It is not safe for
// concurrent use; the owning session serializes access.
type Engine struct {
	cfg      Config
	rng      *rand.Rand
	centerID string
	alpha    float64

	nodes []*simNode
	links []simLink
	index map[string]*simNode

	// cache carries positions forward across Load calls (continuity).
	cache map[string]Position
}

// NewEngine creates an engine with the self node as the initial center.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		centerID: domain.SelfID,
		index:    make(map[string]*simNode),
		cache:    make(map[string]Position),
	}
}

// Center returns the id of the node pinned at the layout center.
func (e *Engine) Center() string { return e.centerID }

// SetCenter reassigns the center node. This is the one structural
// change that clears the continuity cache wholesale: the whole graph
// rearranges around the new center.
func (e *Engine) SetCenter(id string) {
	if id == e.centerID {
		return
	}
	e.centerID = id
	e.cache = make(map[string]Position)
}

// Load rebuilds the working copy from a snapshot of persons and links.
// Nodes present in the continuity cache are seeded from it; new nodes
// are seeded near their group anchor with a little jitter so they never
// start stacked. The center node is always seeded at the exact center.
// Links with a dangling endpoint are skipped; deduplication is the data
// model's job, not ours.
func (e *Engine) Load(persons []domain.Person, links []domain.Link) {
	degrees := make(map[string]int, len(persons))
	for _, l := range links {
		degrees[l.A]++
		degrees[l.B]++
	}

	cx, cy := e.cfg.Width/2, e.cfg.Height/2
	fresh := 0

	e.nodes = e.nodes[:0]
	e.index = make(map[string]*simNode, len(persons))
	for _, p := range persons {
		n := &simNode{
			id:     p.ID,
			group:  p.Group,
			radius: e.radiusFor(p.ID, degrees[p.ID]),
		}
		if p.ID == e.centerID {
			n.x, n.y = cx, cy
		} else if pos, ok := e.cache[p.ID]; ok {
			n.x, n.y = pos.X, pos.Y
		} else {
			a := e.anchor(p.Group)
			n.x = a.X + (e.rng.Float64()-0.5)*60
			n.y = a.Y + (e.rng.Float64()-0.5)*60
			fresh++
		}
		e.nodes = append(e.nodes, n)
		e.index[p.ID] = n
	}

	e.links = e.links[:0]
	for _, l := range links {
		a, okA := e.index[l.A]
		b, okB := e.index[l.B]
		if !okA || !okB {
			continue
		}
		e.links = append(e.links, simLink{a: a, b: b, strength: l.Strength})
	}

	// Evict cache entries for removed nodes, then re-seed it.
	e.cache = make(map[string]Position, len(e.nodes))
	e.syncCache()

	// A mostly-cached load is an incremental update: start cooler so
	// settled nodes stay where they are.
	switch {
	case fresh == len(e.nodes):
		e.alpha = 1.0
	case fresh > 0:
		e.alpha = 0.3
	default:
		e.alpha = 0.1
	}
}

// Run relaxes the layout to rest synchronously and returns the final
// positions. Zero nodes is a no-op.
func (e *Engine) Run() map[string]Position {
	if len(e.nodes) == 0 {
		return map[string]Position{}
	}
	for i := 0; i < e.cfg.Iterations; i++ {
		e.Step()
	}
	// Converged layouts must not overlap: sweep remaining collisions
	// until stable.
	for i := 0; i < 50; i++ {
		if !e.resolveCollisions() {
			break
		}
	}
	e.syncCache()
	return e.Positions()
}

// Step advances the simulation by one tick. It is separated from Run so
// an interactive driver can call it once per frame while dragging.
func (e *Engine) Step() {
	if len(e.nodes) == 0 {
		return
	}
	cx, cy := e.cfg.Width/2, e.cfg.Height/2

	// Link attraction toward a strength-dependent rest distance.
	for _, l := range e.links {
		dx, dy, d := e.separation(l.a, l.b)
		f := (d - linkDistance(l.strength)) / d * linkPull(l.strength) * e.alpha
		fx, fy := dx*f, dy*f
		l.a.vx += fx
		l.a.vy += fy
		l.b.vx -= fx
		l.b.vy -= fy
	}

	// Bounded pairwise repulsion.
	for i := 0; i < len(e.nodes); i++ {
		for j := i + 1; j < len(e.nodes); j++ {
			a, b := e.nodes[i], e.nodes[j]
			dx, dy, d := e.separation(a, b)
			if d > repelRange {
				continue
			}
			f := repelForce * e.alpha / (d * d)
			fx, fy := dx/d*f, dy/d*f
			a.vx -= fx
			a.vy -= fy
			b.vx += fx
			b.vy += fy
		}
	}

	// Group anchors, center pin, weak global centering.
	for _, n := range e.nodes {
		ax, ay := cx, cy
		pull := centerPull
		if n.id != e.centerID {
			a := e.anchor(n.group)
			ax, ay = a.X, a.Y
			pull = anchorPull
		}
		n.vx += (ax - n.x) * pull * e.alpha
		n.vy += (ay - n.y) * pull * e.alpha
		n.vx += (cx - n.x) * globalPull * e.alpha
		n.vy += (cy - n.y) * globalPull * e.alpha
	}

	// Integrate. Pinned nodes are held at the last applied pin.
	for _, n := range e.nodes {
		if n.pinned {
			n.vx, n.vy = 0, 0
			continue
		}
		n.vx *= velocityDecay
		n.vy *= velocityDecay
		n.x += n.vx
		n.y += n.vy
	}

	e.resolveCollisions()

	if e.alpha > alphaMin {
		e.alpha *= alphaDecay
	}
	e.syncCache()
}

// Pin holds a node at the pointer position during a drag and reheats
// the simulation so neighbors keep adjusting. The last applied pin wins
// for the next tick.
func (e *Engine) Pin(id string, x, y float64) {
	n, ok := e.index[id]
	if !ok {
		return
	}
	n.pinned = true
	n.x, n.y = x, y
	n.vx, n.vy = 0, 0
	e.Reheat()
}

// Unpin releases a dragged node so it settles again.
func (e *Engine) Unpin(id string) {
	if n, ok := e.index[id]; ok {
		n.pinned = false
	}
}

// Reheat raises the simulation energy, used at drag start and while the
// pointer moves.
func (e *Engine) Reheat() {
	if e.alpha < 0.5 {
		e.alpha = 0.5
	}
}

// Positions returns a copy of the current coordinates keyed by node id.
func (e *Engine) Positions() map[string]Position {
	out := make(map[string]Position, len(e.nodes))
	for _, n := range e.nodes {
		out[n.id] = Position{X: n.x, Y: n.y}
	}
	return out
}

// Radii returns the rendered radius per node id, as used for collision.
func (e *Engine) Radii() map[string]float64 {
	out := make(map[string]float64, len(e.nodes))
	for _, n := range e.nodes {
		out[n.id] = n.radius
	}
	return out
}

// radiusFor scales the node radius with degree, clamped to the cap; the
// center node always renders above the cap.
func (e *Engine) radiusFor(id string, degree int) float64 {
	if id == e.centerID {
		return e.cfg.CenterRadius
	}
	r := e.cfg.BaseRadius + e.cfg.RadiusPerDegree*float64(degree)
	if r > e.cfg.MaxRadius {
		r = e.cfg.MaxRadius
	}
	return r
}

// anchor derives a stable per-group position offset from the center, so
// the same group always gathers in the same part of the canvas.
func (e *Engine) anchor(group string) Position {
	h := fnv.New32a()
	h.Write([]byte(group))
	angle := float64(h.Sum32()%360) * math.Pi / 180
	dist := math.Min(e.cfg.Width, e.cfg.Height) / 3.5
	return Position{
		X: e.cfg.Width/2 + math.Cos(angle)*dist,
		Y: e.cfg.Height/2 + math.Sin(angle)*dist,
	}
}

// separation returns the vector from a to b with the distance floored
// at a small epsilon, so coincident nodes never produce NaN forces.
func (e *Engine) separation(a, b *simNode) (dx, dy, d float64) {
	dx = b.x - a.x
	dy = b.y - a.y
	d = math.Hypot(dx, dy)
	if d < minSeparation {
		// Nudge apart in a reproducible pseudo-random direction.
		angle := e.rng.Float64() * 2 * math.Pi
		dx = math.Cos(angle) * minSeparation
		dy = math.Sin(angle) * minSeparation
		d = minSeparation
	}
	return dx, dy, d
}

// resolveCollisions pushes overlapping pairs apart so that center
// distance is at least the sum of radii plus the configured padding.
// Pinned nodes do not move; their counterpart absorbs the full shift.
// Reports whether any overlap was corrected.
func (e *Engine) resolveCollisions() bool {
	moved := false
	for i := 0; i < len(e.nodes); i++ {
		for j := i + 1; j < len(e.nodes); j++ {
			a, b := e.nodes[i], e.nodes[j]
			dx, dy, d := e.separation(a, b)
			min := a.radius + b.radius + e.cfg.CollisionPadding
			if d >= min {
				continue
			}
			overlap := (min - d) / d
			sx, sy := dx*overlap, dy*overlap
			switch {
			case a.pinned && b.pinned:
				// Both held by the user; leave them.
				continue
			case a.pinned:
				b.x += sx
				b.y += sy
			case b.pinned:
				a.x -= sx
				a.y -= sy
			default:
				a.x -= sx / 2
				a.y -= sy / 2
				b.x += sx / 2
				b.y += sy / 2
			}
			moved = true
		}
	}
	return moved
}

func (e *Engine) syncCache() {
	for _, n := range e.nodes {
		e.cache[n.id] = Position{X: n.x, Y: n.y}
	}
}
