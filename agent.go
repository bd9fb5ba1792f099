package floornav

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrNoAvailablePosition reports a destination/spawn pool too small to
// operate on: a setup-time configuration error (too many agents for too
// little floor), never a runtime condition.
var ErrNoAvailablePosition = errors.New("no available floor position")

// AgentState is the navigation state of one agent.
type AgentState int

const (
	ChooseDestination AgentState = iota
	MovingToDestination
	ReplanPath
	WaitingToChooseDestination
	WaitingToReplan
)

func (s AgentState) String() string {
	switch s {
	case ChooseDestination:
		return "ChooseDestination"
	case MovingToDestination:
		return "MovingToDestination"
	case ReplanPath:
		return "ReplanPath"
	case WaitingToChooseDestination:
		return "WaitingToChooseDestination"
	case WaitingToReplan:
		return "WaitingToReplan"
	default:
		return fmt.Sprintf("AgentState(%d)", int(s))
	}
}

// Agent drives one mover across the floor. It owns a private working
// copy of the canonical graph and sees other agents only through their
// current positions. The agent loops through destinations indefinitely;
// every in-loop failure has a local recovery, so there is no terminal
// state.
type Agent struct {
	ID    int
	Color string

	pos       Point
	dest      Point
	path      []int
	pathIdx   int
	replans   int
	state     AgentState
	waitUntil float64

	// Last destination that turned out unreachable; excluded from the
	// draw exactly once, like the start.
	lastFailed Point
	hasFailed  bool

	working  *WorkingGraph
	pool     []Point
	cfg      Config
	rng      *rand.Rand
	renderer Renderer

	marker     Handle
	pathVisual Handle
}

// NewAgent spawns an agent at start. The destination pool is shared
// read-only; the agent keeps its own draw-order copy. The pool must
// hold at least two positions or destination churn cannot work.
func NewAgent(id int, color string, start Point, canonical *Graph, vb *VisibilityBuilder,
	pool []Point, cfg Config, rng *rand.Rand, renderer Renderer) (*Agent, error) {

	if len(pool) < 2 {
		return nil, fmt.Errorf("agent %d: %w", id, ErrNoAvailablePosition)
	}

	own := make([]Point, len(pool))
	copy(own, pool)
	rng.Shuffle(len(own), func(i, j int) { own[i], own[j] = own[j], own[i] })

	return &Agent{
		ID:       id,
		Color:    color,
		pos:      start,
		dest:     start, // the current destination seeds the first start
		state:    ChooseDestination,
		working:  NewWorkingGraph(canonical, vb),
		pool:     own,
		cfg:      cfg,
		rng:      rng,
		renderer: renderer,
	}, nil
}

// Pos returns the agent's current position.
func (a *Agent) Pos() Point { return a.pos }

// State returns the agent's current navigation state.
func (a *Agent) State() AgentState { return a.state }

// Destination returns the agent's current destination.
func (a *Agent) Destination() Point { return a.dest }

// PathPoints returns the world positions of the agent's current path.
func (a *Agent) PathPoints() []Point {
	pts := make([]Point, len(a.path))
	for i, v := range a.path {
		pts[i] = a.working.Vertices[v]
	}
	return pts
}

// Tick advances the agent by dt seconds of simulation time. others must
// be the pre-tick positions of all other agents, so that collision
// checks are order-independent within the tick.
func (a *Agent) Tick(now, dt float64, others []Point) {
	switch a.state {
	case ChooseDestination:
		a.chooseDestination()
	case MovingToDestination:
		a.move(now, dt, others)
	case ReplanPath:
		a.replan(now)
	case WaitingToChooseDestination:
		if now >= a.waitUntil {
			a.state = ChooseDestination
		}
	case WaitingToReplan:
		if now >= a.waitUntil {
			a.state = ReplanPath
		}
	}
}

// chooseDestination draws a fresh destination, rebuilds the transient
// tail of the working graph and plans a path. On planning failure the
// agent stays in ChooseDestination and draws again next tick.
func (a *Agent) chooseDestination() {
	start := a.dest // the agent is physically here
	dest := a.drawDestination(start)

	startIdx, goalIdx := a.working.AppendEndpoints(start, dest)
	path, ok := AStarPath(&a.working.Graph, startIdx, goalIdx)
	if !ok {
		// Unreachable draw; routine. Retry with a new one next tick.
		a.lastFailed = dest
		a.hasFailed = true
		return
	}

	a.dest = dest
	a.path = path
	a.pathIdx = 1 // already standing on the first path vertex
	a.state = MovingToDestination

	if a.marker != NoHandle {
		a.renderer.DestroyMarker(a.marker)
	}
	a.marker = a.renderer.CreateMarker(dest, a.Color, a.ID)
	if a.pathVisual != NoHandle {
		a.renderer.DestroyPathVisual(a.pathVisual)
	}
	a.pathVisual = a.renderer.CreatePathVisual(a.PathPoints(), a.Color)
}

// drawDestination picks uniformly from the agent's pool, excluding the
// current start, and the previously failed destination if any, for this
// one draw.
func (a *Agent) drawDestination(start Point) Point {
	excludeFailed := a.hasFailed
	a.hasFailed = false

	for attempt := 0; ; attempt++ {
		c := a.pool[a.rng.Intn(len(a.pool))]
		if c == start {
			continue
		}
		if excludeFailed && c == a.lastFailed {
			// Give up on the extra exclusion in a tiny pool
			if attempt < 4*len(a.pool) {
				continue
			}
		}
		return c
	}
}

// move advances toward the current path vertex, refusing the move when
// it would come within the clearance of another agent's position.
func (a *Agent) move(now, dt float64, others []Point) {
	target := a.working.Vertices[a.path[a.pathIdx]]
	step := a.cfg.Speed * (dt / a.cfg.TickInterval)

	next := target
	if dist := a.pos.Distance(target); dist > step {
		next = Point{
			X: a.pos.X + (target.X-a.pos.X)*step/dist,
			Y: a.pos.Y + (target.Y-a.pos.Y)*step/dist,
		}
	}

	for _, other := range others {
		if next.Distance(other) < a.cfg.Clearance {
			a.state = WaitingToReplan
			a.waitUntil = now + a.cfg.ReplanWaitMin +
				a.rng.Float64()*(a.cfg.ReplanWaitMax-a.cfg.ReplanWaitMin)
			return
		}
	}

	a.pos = next
	if next != target {
		return
	}

	if a.pathIdx == len(a.path)-1 {
		// Arrived; counter resets on reaching a destination
		a.replans = 0
		a.state = WaitingToChooseDestination
		a.waitUntil = now + a.cfg.DestinationWait
		return
	}
	a.pathIdx++
}

// replan applies the local avoidance heuristic: retreat one path vertex
// (or step forward when already at the first), bounded by MaxReplans
// before the destination is abandoned. The heuristic is deliberately
// stateless with respect to other agents' trajectories.
func (a *Agent) replan(now float64) {
	if a.replans >= a.cfg.MaxReplans {
		a.replans = 0
		a.dest = a.pos // abandon the goal where the agent stands
		a.state = WaitingToChooseDestination
		a.waitUntil = now + a.cfg.DestinationWait
		return
	}

	a.replans++
	if a.pathIdx > 0 {
		a.pathIdx--
	} else {
		a.pathIdx++
	}
	a.state = MovingToDestination
}

// Teardown releases the agent's render artifacts.
func (a *Agent) Teardown() {
	if a.marker != NoHandle {
		a.renderer.DestroyMarker(a.marker)
		a.marker = NoHandle
	}
	if a.pathVisual != NoHandle {
		a.renderer.DestroyPathVisual(a.pathVisual)
		a.pathVisual = NoHandle
	}
}
