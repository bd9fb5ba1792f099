package floornav

import (
	"fmt"
	"log"
	"math/rand"
)

// Handle identifies a render artifact. Renderers hand out non-zero
// handles; NoHandle means "nothing created".
type Handle int64

// NoHandle is the zero Handle.
const NoHandle Handle = 0

// Renderer receives destination-marker and path-visual notifications
// from the navigation core. Calls are one-way: the core never reads
// anything back and must not depend on them synchronously.
type Renderer interface {
	CreateMarker(pos Point, color string, owner int) Handle
	DestroyMarker(h Handle)
	CreatePathVisual(points []Point, color string) Handle
	DestroyPathVisual(h Handle)
}

// NopRenderer discards all notifications.
type NopRenderer struct{}

func (NopRenderer) CreateMarker(Point, string, int) Handle { return NoHandle }

func (NopRenderer) DestroyMarker(Handle) {}

func (NopRenderer) CreatePathVisual([]Point, string) Handle { return NoHandle }

func (NopRenderer) DestroyPathVisual(Handle) {}

// agentColors cycles across spawned agents.
var agentColors = []string{"red", "green", "blue", "yellow", "magenta", "cyan", "orange", "white"}

// Simulation owns a floor, the canonical visibility graph and the agent
// population for one session. All shared state is scoped here; agents
// read the canonical graph concurrently but never mutate it.
type Simulation struct {
	Floor  *Floor
	Graph  *Graph
	Agents []*Agent

	cfg   Config
	clock float64
	rng   *rand.Rand

	// Scratch buffers reused every tick
	snapshot []Point
	others   []Point
}

// NewSimulation generates a floor, builds the canonical graph once, and
// spawns numAgents agents at distinct destination-pool positions.
func NewSimulation(width, height, numObstacles, numAgents int, cfg Config, renderer Renderer) (*Simulation, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	floor := GenerateFloor(width, height, numObstacles, rng)
	return NewSimulationOnFloor(floor, numAgents, cfg, renderer, rng)
}

// NewSimulationOnFloor runs a simulation over a pre-built floor.
func NewSimulationOnFloor(floor *Floor, numAgents int, cfg Config, renderer Renderer, rng *rand.Rand) (*Simulation, error) {
	if numAgents < 1 {
		return nil, fmt.Errorf("need at least one agent, got %d", numAgents)
	}
	pool := floor.DestinationPool
	if len(pool) < numAgents || len(pool) < 2 {
		return nil, fmt.Errorf("%d agents on %d open cells: %w",
			numAgents, len(pool), ErrNoAvailablePosition)
	}

	graph := BuildVisibilityGraph(floor, cfg.OvershootMargin)
	vb := NewVisibilityBuilder(floor, cfg.OvershootMargin)

	sim := &Simulation{
		Floor:    floor,
		Graph:    graph,
		cfg:      cfg,
		rng:      rng,
		snapshot: make([]Point, numAgents),
		others:   make([]Point, 0, numAgents-1),
	}

	// Distinct spawn positions drawn from the pool
	order := rng.Perm(len(pool))
	for i := 0; i < numAgents; i++ {
		start := pool[order[i]]
		color := agentColors[i%len(agentColors)]
		agent, err := NewAgent(i, color, start, graph, vb, pool, cfg,
			rand.New(rand.NewSource(cfg.Seed+int64(i)+1)), renderer)
		if err != nil {
			return nil, err
		}
		sim.Agents = append(sim.Agents, agent)
	}

	log.Printf("simulation ready: %d agents, %d destination cells", numAgents, len(pool))
	return sim, nil
}

// Clock returns the current simulation time in seconds.
func (s *Simulation) Clock() float64 { return s.clock }

// Step advances every agent by dt seconds. Collision checks compare
// candidate moves against a snapshot of all positions taken at the
// start of the tick, so agent update order does not affect outcomes.
func (s *Simulation) Step(dt float64) {
	s.clock += dt

	for i, agent := range s.Agents {
		s.snapshot[i] = agent.Pos()
	}

	for i, agent := range s.Agents {
		s.others = s.others[:0]
		for j, p := range s.snapshot {
			if j != i {
				s.others = append(s.others, p)
			}
		}
		agent.Tick(s.clock, dt, s.others)
	}
}

// Teardown releases all agents' render artifacts.
func (s *Simulation) Teardown() {
	for _, agent := range s.Agents {
		agent.Teardown()
	}
}
