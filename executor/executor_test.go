package executor

import (
	"strings"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/pathing/agent"
	"github.com/oomph-ac/pathing/cost"
	"github.com/oomph-ac/pathing/goal"
	"github.com/oomph-ac/pathing/movement"
	"github.com/oomph-ac/pathing/path"
	"github.com/oomph-ac/pathing/settings"
	"github.com/oomph-ac/pathing/world"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

type fakeAgent struct {
	st         agent.State
	in         agent.Input
	stoppedAll bool
}

func (f *fakeAgent) State() agent.State             { return f.st }
func (f *fakeAgent) SetInput(in agent.Input)        { f.in = in }
func (f *fakeAgent) SetRotation(yaw, pitch float32) { f.st.Yaw, f.st.Pitch = yaw, pitch }
func (f *fakeAgent) StartBreaking(cube.Pos)         {}
func (f *fakeAgent) StopBreaking()                  { f.stoppedAll = true }
func (f *fakeAgent) Place(cube.Pos, cube.Face) bool { return false }
func (f *fakeAgent) moveTo(x, y, z float64)         { f.st.Pos = mgl64.Vec3{x, y, z} }

func newAgent(x, y, z float64) *fakeAgent {
	return &fakeAgent{st: agent.State{Pos: mgl64.Vec3{x, y, z}, OnGround: true, CanSprint: true}}
}

type fixture struct {
	w    *world.World
	s    settings.Settings
	st   agent.State
	path *path.Path
}

func newFixture(t *testing.T, from, to int) *fixture {
	t.Helper()
	w := world.New(nil)
	w.Fill(cube.Pos{-16, 63, -16}, cube.Pos{31, 63, 15}, world.Stone)
	f := &fixture{w: w, s: settings.DefaultSettings(), st: agent.State{CanSprint: true}}

	c := f.context()
	var positions []cube.Pos
	var movements []*movement.Movement
	for x := from; x <= to; x++ {
		positions = append(positions, cube.Pos{x, 64, 0})
		if x > from {
			movements = append(movements, movement.New(movement.KindTraverse, cube.Pos{x - 1, 64, 0}, cube.Pos{x, 64, 0}, c, cost.Inf))
		}
	}
	p, err := path.New(positions, movements, goal.Block{Pos: cube.Pos{to, 64, 0}}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.path = p
	return f
}

func (f *fixture) context() *movement.Context {
	return movement.NewContext(f.w, f.s.Movement, f.st)
}

func (f *fixture) executor(inProgress func() []cube.Pos) *Executor {
	return New(f.path, Options{Context: f.context, InProgress: inProgress, Settings: f.s.Execution})
}

func TestDefinitelyLostCancels(t *testing.T) {
	f := newFixture(t, 0, 5)
	e := f.executor(nil)
	a := newAgent(0.5, 64, 10.5)
	a.in = agent.Input{Forward: true, Sprint: true}

	e.Tick(a)
	if !e.Failed() || !e.Finished() {
		t.Fatalf("expected executor to cancel on the first tick")
	}
	if a.in != (agent.Input{}) {
		t.Fatalf("expected inputs to be cleared, got %+v", a.in)
	}
	if !a.stoppedAll {
		t.Fatalf("expected breaking to stop")
	}
	for _, m := range f.path.Movements() {
		if m.Status() != movement.StatusCancelled {
			t.Fatalf("expected %v to be cancelled, got %v", m, m.Status())
		}
	}

	reason := e.Reason()
	e.Cancel(a, "again")
	if e.Reason() != reason {
		t.Fatalf("expected a second cancel to be a no-op")
	}
	if !e.Tick(a) {
		t.Fatalf("expected a finished executor to stay idle")
	}
}

func TestSkipAheadAndLagBack(t *testing.T) {
	f := newFixture(t, 0, 5)
	e := f.executor(nil)
	a := newAgent(3.5, 64, 0.5)

	e.Tick(a)
	if e.Position() != 3 {
		t.Fatalf("expected cursor to skip ahead to 3, got %d", e.Position())
	}
	if e.Failed() {
		t.Fatalf("unexpected cancel: %v", e.Reason())
	}

	a.moveTo(1.5, 64, 0.5)
	e.Tick(a)
	if e.Position() != 1 {
		t.Fatalf("expected cursor to be reset to 1, got %d", e.Position())
	}
	if e.Failed() {
		t.Fatalf("unexpected cancel: %v", e.Reason())
	}
	movements := f.path.Movements()
	if s := movements[1].Status(); s != movement.StatusRunning {
		t.Fatalf("expected the new current movement to run, got %v", s)
	}
	for _, i := range []int{2, 3} {
		if s := movements[i].Status(); s != movement.StatusPrepping {
			t.Fatalf("expected movement %d to be reset, got %v", i, s)
		}
	}
}

func TestFinishes(t *testing.T) {
	f := newFixture(t, 0, 1)
	e := f.executor(nil)
	a := newAgent(1.5, 64, 0.5)

	if !e.Tick(a) {
		t.Fatalf("expected finished path to be safe to leave")
	}
	if !e.Finished() || e.Failed() {
		t.Fatalf("expected path to finish successfully")
	}
	e.Cancel(a, "late")
	if e.Failed() {
		t.Fatalf("expected cancelling a finished path to do nothing")
	}
}

func TestWorldEditCancels(t *testing.T) {
	f := newFixture(t, 0, 5)
	e := f.executor(nil)
	a := newAgent(0.5, 64, 0.5)

	e.Tick(a)
	if e.Failed() {
		t.Fatalf("unexpected cancel: %v", e.Reason())
	}
	f.w.SetBlock(cube.Pos{1, 64, 0}, world.Bedrock)
	f.w.SetBlock(cube.Pos{1, 65, 0}, world.Bedrock)
	e.Tick(a)
	if !e.Failed() {
		t.Fatalf("expected cancel after the destination became solid")
	}
	if !strings.Contains(e.Reason(), "impossible") {
		t.Fatalf("unexpected reason %q", e.Reason())
	}
}

func TestFutureMovementVerified(t *testing.T) {
	f := newFixture(t, 0, 5)
	e := f.executor(nil)
	f.w.SetBlock(cube.Pos{3, 64, 0}, world.Bedrock)

	e.Tick(newAgent(0.5, 64, 0.5))
	if !e.Failed() || !strings.Contains(e.Reason(), "future") {
		t.Fatalf("expected cancel for a future movement, got %q", e.Reason())
	}
}

func TestPausesAtUnloadedChunk(t *testing.T) {
	f := newFixture(t, 14, 18)
	e := f.executor(nil)
	f.w.UnloadChunk(protocol.ChunkPos{1, 0})

	a := newAgent(14.5, 64, 0.5)
	a.in.Forward = true
	if !e.Tick(a) {
		t.Fatalf("expected a paused executor to be safe to leave")
	}
	if e.Failed() || a.in.Moving() {
		t.Fatalf("expected executor to pause, failed=%v input=%+v", e.Failed(), a.in)
	}
}

func TestSprint(t *testing.T) {
	f := newFixture(t, 0, 5)
	e := f.executor(nil)
	a := newAgent(0.5, 64, 0.5)
	e.Tick(a)
	if !a.in.Forward || !a.in.Sprint || !e.Sprinting() {
		t.Fatalf("expected sprinting, got %+v", a.in)
	}

	f = newFixture(t, 0, 5)
	f.st.CanSprint = false
	e = f.executor(nil)
	a = newAgent(0.5, 64, 0.5)
	e.Tick(a)
	if !a.in.Forward || a.in.Sprint || e.Sprinting() {
		t.Fatalf("expected walking, got %+v", a.in)
	}
}

func TestMovementTimeout(t *testing.T) {
	f := newFixture(t, 0, 5)
	e := f.executor(nil)
	a := newAgent(0.5, 64, 0.5)
	for i := 0; i < 200 && !e.Finished(); i++ {
		e.Tick(a)
	}
	if !e.Failed() || !strings.Contains(e.Reason(), "too long") {
		t.Fatalf("expected a timeout, got %q", e.Reason())
	}
}

func TestDriftTimeout(t *testing.T) {
	f := newFixture(t, 0, 5)
	f.s.Execution.MaxTicksAway = 5
	f.s.Execution.MaxMaxDistFromPath = 100
	e := f.executor(nil)
	a := newAgent(0.5, 64, 3.5)
	for i := 0; i < 5; i++ {
		e.Tick(a)
		if e.Failed() {
			t.Fatalf("cancelled too early on tick %d: %v", i, e.Reason())
		}
	}
	e.Tick(a)
	if !e.Failed() || !strings.Contains(e.Reason(), "too long") {
		t.Fatalf("expected drift cancel, got %q", e.Reason())
	}
}

func TestPausesOnBacktrack(t *testing.T) {
	f := newFixture(t, 0, 5)
	e := f.executor(func() []cube.Pos {
		return []cube.Pos{{5, 64, 0}, {0, 64, 0}, {-1, 64, 0}}
	})
	a := newAgent(0.5, 64, 0.5)
	a.in.Forward = true
	e.Tick(a)
	if e.Failed() || a.in.Moving() {
		t.Fatalf("expected executor to pause")
	}
	if s := f.path.Movements()[0].Status(); s != movement.StatusPrepping {
		t.Fatalf("expected the movement not to be ticked, got %v", s)
	}
}

func TestTrySplice(t *testing.T) {
	f := newFixture(t, 0, 5)
	e := f.executor(nil)
	e.Tick(newAgent(2.5, 64, 0.5))

	c := f.context()
	next, err := path.New(
		[]cube.Pos{{5, 64, 0}, {6, 64, 0}},
		[]*movement.Movement{movement.New(movement.KindTraverse, cube.Pos{5, 64, 0}, cube.Pos{6, 64, 0}, c, cost.Inf)},
		goal.Block{Pos: cube.Pos{5, 64, 0}}, 0,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	spliced := e.TrySplice(next)
	if spliced == e {
		t.Fatalf("expected a new executor")
	}
	if spliced.Path().Len() != 7 || spliced.Position() != e.Position() {
		t.Fatalf("unexpected spliced executor: len=%d pos=%d", spliced.Path().Len(), spliced.Position())
	}
	if e.TrySplice(nil) != e {
		t.Fatalf("expected a short path to be kept without a next path")
	}
}

func TestSnipsnap(t *testing.T) {
	f := newFixture(t, 0, 5)
	e := f.executor(nil)
	a := newAgent(3.5, 64, 0.5)
	if !e.SnipsnapIfPossible(a) || e.Position() != 3 {
		t.Fatalf("expected cursor at 3, got %d", e.Position())
	}
	a.moveTo(3.5, 64, 7.5)
	if e.SnipsnapIfPossible(a) {
		t.Fatalf("expected no snipsnap off the path")
	}
}

func TestBlockSets(t *testing.T) {
	f := newFixture(t, 0, 5)
	f.st.HasThrowaway = true
	f.w.SetBlock(cube.Pos{2, 65, 0}, world.Dirt)
	f.w.SetBlock(cube.Pos{3, 63, 0}, world.Air)
	e := f.executor(nil)
	e.Tick(newAgent(0.5, 64, 0.5))

	if got := e.ToBreak(); len(got) != 1 || got[0] != (cube.Pos{2, 65, 0}) {
		t.Fatalf("expected (2, 65, 0) to break, got %v", got)
	}
	if got := e.ToPlace(); len(got) != 1 || got[0] != (cube.Pos{3, 63, 0}) {
		t.Fatalf("expected (3, 63, 0) to place, got %v", got)
	}
}
