package floornav

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRenderer tracks live render artifacts.
type recordingRenderer struct {
	next    Handle
	live    map[Handle]bool
	created int
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{live: map[Handle]bool{}}
}

func (r *recordingRenderer) create() Handle {
	r.next++
	r.live[r.next] = true
	r.created++
	return r.next
}

func (r *recordingRenderer) CreateMarker(Point, string, int) Handle { return r.create() }

func (r *recordingRenderer) DestroyMarker(h Handle) { delete(r.live, h) }

func (r *recordingRenderer) CreatePathVisual([]Point, string) Handle { return r.create() }

func (r *recordingRenderer) DestroyPathVisual(h Handle) { delete(r.live, h) }

func TestSimulationPoolTooSmall(t *testing.T) {
	f := singleBlockFloor(t) // 27 pool cells
	cfg := DefaultConfig()

	_, err := NewSimulationOnFloor(f, 28, cfg, NopRenderer{}, rand.New(rand.NewSource(1)))
	assert.True(t, errors.Is(err, ErrNoAvailablePosition))
}

func TestSimulationRejectsZeroAgents(t *testing.T) {
	f := singleBlockFloor(t)
	_, err := NewSimulationOnFloor(f, 0, DefaultConfig(), NopRenderer{}, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestSimulationStep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42

	sim, err := NewSimulation(24, 16, 4, 3, cfg, NopRenderer{})
	require.NoError(t, err)
	require.Len(t, sim.Agents, 3)

	// Distinct spawn positions
	seen := map[Point]bool{}
	for _, a := range sim.Agents {
		assert.False(t, seen[a.Pos()])
		seen[a.Pos()] = true
	}

	for i := 0; i < 2000; i++ {
		sim.Step(cfg.TickInterval)
	}

	assert.InDelta(t, 2000*cfg.TickInterval, sim.Clock(), 1e-6)
	for _, a := range sim.Agents {
		assert.True(t, sim.Floor.InBounds(a.Pos()),
			"agent %d wandered out of bounds to %v", a.ID, a.Pos())
	}
}

func TestSimulationClearanceHolds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 99

	sim, err := NewSimulation(20, 14, 2, 4, cfg, NopRenderer{})
	require.NoError(t, err)

	// Each agent checks its candidate move against the others' pre-tick
	// positions, so a pair may close on each other by at most one step
	// past the clearance within a single tick, never more.
	minAllowed := cfg.Clearance - cfg.Speed - 1e-9
	for i := 0; i < 5000; i++ {
		sim.Step(cfg.TickInterval)
		for x := 0; x < len(sim.Agents); x++ {
			for y := x + 1; y < len(sim.Agents); y++ {
				d := sim.Agents[x].Pos().Distance(sim.Agents[y].Pos())
				if d < minAllowed {
					t.Fatalf("step %d: agents %d and %d at distance %.3f",
						i, x, y, d)
				}
			}
		}
	}
}

func TestSimulationRendererLifecycle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7

	r := newRecordingRenderer()
	sim, err := NewSimulation(24, 16, 3, 2, cfg, r)
	require.NoError(t, err)

	for i := 0; i < 3000; i++ {
		sim.Step(cfg.TickInterval)
	}

	assert.Greater(t, r.created, 0, "destination churn must create markers and paths")
	// At most one marker and one path visual live per agent
	assert.LessOrEqual(t, len(r.live), 2*len(sim.Agents))

	sim.Teardown()
	assert.Empty(t, r.live)
}

func TestWorkingGraphsAreIndependent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 11

	sim, err := NewSimulation(24, 16, 4, 3, cfg, NopRenderer{})
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		sim.Step(cfg.TickInterval)
	}

	// Every agent's working prefix is still the canonical graph
	n := len(sim.Graph.Vertices)
	e := len(sim.Graph.Edges)
	for _, a := range sim.Agents {
		assert.Equal(t, sim.Graph.Vertices, a.working.Vertices[:n])
		assert.Equal(t, sim.Graph.Edges, a.working.Edges[:e])
	}
}
