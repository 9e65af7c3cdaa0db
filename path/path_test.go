package path

import (
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/pathing/agent"
	"github.com/oomph-ac/pathing/cost"
	"github.com/oomph-ac/pathing/goal"
	"github.com/oomph-ac/pathing/movement"
	"github.com/oomph-ac/pathing/settings"
	"github.com/oomph-ac/pathing/world"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

func testWorld() *world.World {
	w := world.New(nil)
	w.Fill(cube.Pos{-16, 63, -16}, cube.Pos{47, 63, 15}, world.Stone)
	return w
}

// line returns a path of traverses through the positions passed.
func line(t *testing.T, w world.Provider, g goal.Goal, positions ...cube.Pos) *Path {
	t.Helper()
	c := movement.NewContext(w, settings.DefaultSettings().Movement, agent.State{CanSprint: true})
	var movements []*movement.Movement
	for i := 1; i < len(positions); i++ {
		movements = append(movements, movement.New(movement.KindTraverse, positions[i-1], positions[i], c, cost.Inf))
	}
	p, err := New(positions, movements, g, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func xs(from, to int) []cube.Pos {
	var positions []cube.Pos
	step := 1
	if to < from {
		step = -1
	}
	for x := from; x != to+step; x += step {
		positions = append(positions, cube.Pos{x, 64, 0})
	}
	return positions
}

func TestNewValidates(t *testing.T) {
	if _, err := New(nil, nil, goal.Block{}, 0); err == nil {
		t.Fatalf("expected error for empty path")
	}
	w := testWorld()
	c := movement.NewContext(w, settings.DefaultSettings().Movement, agent.State{})
	m := movement.New(movement.KindTraverse, cube.Pos{0, 64, 0}, cube.Pos{1, 64, 0}, c, cost.Inf)
	if _, err := New([]cube.Pos{{0, 64, 0}, {0, 64, 1}}, []*movement.Movement{m}, goal.Block{}, 0); err == nil {
		t.Fatalf("expected error for movement not connecting positions")
	}
	if _, err := New([]cube.Pos{{0, 64, 0}}, []*movement.Movement{m}, goal.Block{}, 0); err == nil {
		t.Fatalf("expected error for movement count mismatch")
	}
	p, err := New([]cube.Pos{{0, 64, 0}}, nil, goal.Block{Pos: cube.Pos{0, 64, 0}}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.ReachesGoal() || p.Start() != p.Dest() {
		t.Fatalf("expected single position path at the goal")
	}
}

func TestReachesGoal(t *testing.T) {
	w := testWorld()
	p := line(t, w, goal.Block{Pos: cube.Pos{5, 64, 0}}, xs(0, 5)...)
	if !p.ReachesGoal() {
		t.Fatalf("expected path to reach the goal")
	}
	p = line(t, w, goal.Block{Pos: cube.Pos{9, 64, 0}}, xs(0, 5)...)
	if p.ReachesGoal() {
		t.Fatalf("expected partial path")
	}
	if got := p.TicksRemainingFrom(3); got < 2*cost.SprintOneBlock-1e-9 || got > 2*cost.SprintOneBlock+1e-9 {
		t.Fatalf("expected two sprinted blocks remaining, got %v", got)
	}
}

func TestCutoffAtLoadedChunks(t *testing.T) {
	w := testWorld()
	p := line(t, w, goal.Block{Pos: cube.Pos{40, 64, 0}}, xs(10, 20)...)
	w.UnloadChunk(protocol.ChunkPos{1, 0})

	cut := p.CutoffAtLoadedChunks(w)
	if cut.Dest() != (cube.Pos{15, 64, 0}) {
		t.Fatalf("expected path to end at the chunk border, got %v", cut.Dest())
	}
	if len(cut.Movements()) != cut.Len()-1 {
		t.Fatalf("expected movements to be cut along with positions")
	}
	if p.Len() != 11 {
		t.Fatalf("expected the original path to be untouched")
	}
}

func TestStaticCutoff(t *testing.T) {
	w := testWorld()
	p := line(t, w, goal.Block{Pos: cube.Pos{46, 64, 0}}, xs(0, 40)...)
	cut := p.StaticCutoff(0.9, 30)
	if cut.Dest() != (cube.Pos{36, 64, 0}) {
		t.Fatalf("expected cutoff at x=36, got %v", cut.Dest())
	}
	if short := p.StaticCutoff(0.9, 50); short != p {
		t.Fatalf("expected short path to be kept")
	}
	full := line(t, w, goal.Block{Pos: cube.Pos{40, 64, 0}}, xs(0, 40)...)
	if full.StaticCutoff(0.9, 30) != full {
		t.Fatalf("expected path reaching the goal to be kept")
	}
}

func TestSplice(t *testing.T) {
	w := testWorld()
	g := goal.Block{Pos: cube.Pos{10, 64, 0}}
	first := line(t, w, g, xs(0, 5)...)
	second := line(t, w, g, xs(5, 10)...)

	spliced, ok := Splice(first, second, false)
	if !ok {
		t.Fatalf("expected paths to splice")
	}
	if spliced.Len() != 11 || spliced.Start() != first.Start() || spliced.Dest() != second.Dest() {
		t.Fatalf("unexpected spliced path %v", spliced.Positions())
	}
	if !spliced.ReachesGoal() {
		t.Fatalf("expected spliced path to reach the goal")
	}
	if spliced.NumNodes() != 20 {
		t.Fatalf("expected node counts to add up, got %d", spliced.NumNodes())
	}

	if _, ok := Splice(second, first, false); ok {
		t.Fatalf("expected disconnected paths not to splice")
	}
	if _, ok := Splice(first, line(t, w, goal.XZ{X: 10}, xs(5, 10)...), false); ok {
		t.Fatalf("expected paths with different goals not to splice")
	}
}

func TestSpliceOverlap(t *testing.T) {
	w := testWorld()
	g := goal.Block{Pos: cube.Pos{0, 64, 0}}
	first := line(t, w, g, xs(0, 5)...)
	// The second path walks back over the first.
	second := line(t, w, g, xs(5, 0)...)

	if _, ok := Splice(first, second, false); ok {
		t.Fatalf("expected overlapping paths not to splice without overlap allowed")
	}
	spliced, ok := Splice(first, second, true)
	if !ok {
		t.Fatalf("expected overlapping paths to splice")
	}
	if spliced.Len() != 1 || spliced.Dest() != (cube.Pos{0, 64, 0}) {
		t.Fatalf("expected the shortcut to collapse the path, got %v", spliced.Positions())
	}
}
