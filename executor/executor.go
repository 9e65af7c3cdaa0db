// Package executor drives an agent along a calculated path, one movement at a time, and decides when
// the path has to be abandoned.
package executor

import (
	"io"
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/pathing/agent"
	"github.com/oomph-ac/pathing/assert"
	"github.com/oomph-ac/pathing/movement"
	"github.com/oomph-ac/pathing/path"
	"github.com/oomph-ac/pathing/settings"
	"github.com/sirupsen/logrus"
)

// Options holds what an Executor needs besides its path.
type Options struct {
	// Context returns a movement context over the live world. It is called every tick.
	Context func() *movement.Context
	// InProgress returns the positions of the best path found so far by a calculation that is still
	// running, or nil if there is none.
	InProgress func() []cube.Pos
	// Settings are the execution settings.
	Settings settings.Execution
	// Log is the logger cancellations are reported to.
	Log logrus.FieldLogger
}

// Executor executes a single path. It is used from the tick goroutine only.
type Executor struct {
	path *path.Path
	opts Options

	pos            int
	ticksAway      int
	ticksOnCurrent int

	costEstimateIndex    int
	originalCostEstimate float64

	recalcBlocks bool
	toBreak      *orderedmap.OrderedMap[cube.Pos, struct{}]
	toPlace      *orderedmap.OrderedMap[cube.Pos, struct{}]
	toWalkInto   *orderedmap.OrderedMap[cube.Pos, struct{}]

	sprint bool
	failed bool
	reason string
}

// New creates an Executor for the path passed.
func New(p *path.Path, opts Options) *Executor {
	assert.NotNil(opts.Context, "context func")
	if opts.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Log = l
	}
	return &Executor{
		path:              p,
		opts:              opts,
		costEstimateIndex: -1,
		recalcBlocks:      true,
		toBreak:           orderedmap.NewOrderedMap[cube.Pos, struct{}](),
		toPlace:           orderedmap.NewOrderedMap[cube.Pos, struct{}](),
		toWalkInto:        orderedmap.NewOrderedMap[cube.Pos, struct{}](),
	}
}

// Path returns the path being executed.
func (e *Executor) Path() *path.Path { return e.path }

// Position returns the index of the movement currently being executed.
func (e *Executor) Position() int { return e.pos }

// Failed returns true if the path was cancelled.
func (e *Executor) Failed() bool { return e.failed }

// Reason returns why the path was cancelled, or an empty string if it was not.
func (e *Executor) Reason() string { return e.reason }

// Finished returns true if every movement of the path was executed or the path was cancelled.
func (e *Executor) Finished() bool {
	return e.failed || e.pos >= len(e.path.Movements())
}

// Sprinting returns true if the agent was allowed to sprint during the last tick.
func (e *Executor) Sprinting() bool { return e.sprint }

// ToBreak returns the blocks that the movements around the current one still have to break.
func (e *Executor) ToBreak() []cube.Pos { return e.toBreak.Keys() }

// ToPlace returns the blocks that the movements around the current one still have to place.
func (e *Executor) ToPlace() []cube.Pos { return e.toPlace.Keys() }

// ToWalkInto returns the hazardous blocks that the movements around the current one brush against.
func (e *Executor) ToWalkInto() []cube.Pos { return e.toWalkInto.Keys() }

// Current returns the movement currently being executed, or nil if the executor is finished.
func (e *Executor) Current() *movement.Movement {
	if e.Finished() {
		return nil
	}
	return e.path.Movements()[e.pos]
}

// Tick runs one tick of the path. It returns true if the agent is in a state in which it is safe to
// switch over to another path.
func (e *Executor) Tick(a agent.Controller) bool {
	if e.Finished() {
		return true
	}
	movements := e.path.Movements()
	st := a.State()
	feet := st.Feet()

	if !movements[e.pos].ContainsValid(feet) {
		for i := 0; i < e.pos; i++ {
			if movements[i].ContainsValid(feet) {
				e.opts.Log.WithFields(logrus.Fields{"from": e.pos, "to": i}).Debug("agent lagged back on path")
				previous := e.pos
				e.pos = i
				for j := i; j <= previous; j++ {
					movements[j].Reset()
				}
				e.onChangeInPosition(a)
				e.Tick(a)
				return false
			}
		}
		for i := e.pos + 3; i < len(movements); i++ {
			if movements[i].ContainsValid(feet) {
				e.opts.Log.WithFields(logrus.Fields{"from": e.pos, "to": i - 1}).Debug("agent skipped ahead on path")
				e.pos = i - 1
				e.onChangeInPosition(a)
				e.Tick(a)
				return false
			}
		}
	}

	dist := e.distanceFromPath(st)
	if e.offPath(st, dist, e.opts.Settings.MaxDistFromPath) {
		e.ticksAway++
		if e.ticksAway > e.opts.Settings.MaxTicksAway {
			e.Cancel(a, "too far away from path for too long")
			return false
		}
	} else {
		e.ticksAway = 0
	}
	if e.offPath(st, dist, e.opts.Settings.MaxMaxDistFromPath) {
		e.Cancel(a, "too far away from path")
		return false
	}

	c := e.opts.Context()
	e.refreshBlocks(c)

	if e.pos < len(movements)-1 {
		next := movements[e.pos+1]
		if !c.Loaded(next.Dest()) {
			e.opts.Log.Debug("pausing since destination is at the edge of loaded chunks")
			e.clearKeys(a)
			return true
		}
	}

	current := movements[e.pos]
	canCancel := current.SafeToCancel(st, c)
	if e.costEstimateIndex != e.pos {
		e.costEstimateIndex = e.pos
		e.originalCostEstimate = current.Cost()
		for i := 1; i < e.opts.Settings.CostVerificationLookahead && e.pos+i < len(movements); i++ {
			if movement.Impossible(movements[e.pos+i].RecalculateCost(c)) && canCancel {
				e.Cancel(a, "a future movement became impossible")
				return true
			}
		}
	}
	currentCost := current.RecalculateCost(c)
	if movement.Impossible(currentCost) && canCancel {
		e.Cancel(a, "the current movement became impossible")
		return true
	}
	if !current.CalculatedWhileLoaded() && currentCost-e.originalCostEstimate > e.opts.Settings.MaxCostIncrease && canCancel {
		e.Cancel(a, "the cost of the current movement increased too much")
		return true
	}
	if e.shouldPause(st, c, current) {
		e.opts.Log.Debug("pausing since the best path so far is a backtrack")
		e.clearKeys(a)
		return true
	}

	switch current.Update(a, c) {
	case movement.StatusFailed, movement.StatusUnreachable:
		e.Cancel(a, "movement "+current.String()+" returned "+current.Status().String())
		return true
	case movement.StatusSuccess:
		e.pos++
		e.onChangeInPosition(a)
		e.Tick(a)
		return true
	}

	e.applySprint(a, c, current)
	e.ticksOnCurrent++
	if float64(e.ticksOnCurrent) > e.originalCostEstimate+e.opts.Settings.MovementTimeoutTicks {
		e.Cancel(a, "movement "+current.String()+" took too long")
		return true
	}
	return canCancel
}

// Cancel abandons the path: every unfinished movement is cancelled and the agent stops. Cancelling a
// finished executor does nothing.
func (e *Executor) Cancel(a agent.Controller, reason string) {
	if e.Finished() {
		return
	}
	e.opts.Log.WithFields(logrus.Fields{"position": e.pos, "reason": reason}).Info("path cancelled")
	e.clearKeys(a)
	a.StopBreaking()
	for _, m := range e.path.Movements()[e.pos:] {
		m.Cancel()
	}
	e.failed, e.reason = true, reason
}

// SnipsnapIfPossible moves the cursor straight to the position the agent is standing on, if it is part
// of the path and the agent is not falling. It returns true if the cursor was moved.
func (e *Executor) SnipsnapIfPossible(a agent.Controller) bool {
	st := a.State()
	if !st.OnGround {
		if c := e.opts.Context(); !c.Block(st.Feet()).Water() {
			return false
		}
	}
	if st.Vel[1] < -0.1 {
		return false
	}
	index := -1
	for i, pos := range e.path.Positions() {
		if pos == st.Feet() {
			index = i
			break
		}
	}
	if index == -1 {
		return false
	}
	e.pos = index
	e.clearKeys(a)
	return true
}

// TrySplice joins the path of next onto the path of e if they connect, returning an executor for the
// joined path that continues where e is. Without a connecting path, e is returned, with the walked
// part of its path cut off if it grew too long.
func (e *Executor) TrySplice(next *path.Path) *Executor {
	if next == nil {
		return e.cutIfTooLong()
	}
	spliced, ok := path.Splice(e.path, next, false)
	if !ok {
		return e.cutIfTooLong()
	}
	assert.IsTrue(spliced.Dest() == next.Dest(), "spliced path ends at %v instead of %v", spliced.Dest(), next.Dest())
	return e.continueOn(spliced, e.pos)
}

func (e *Executor) cutIfTooLong() *Executor {
	s := e.opts.Settings
	if s.MaxPathHistoryLength <= 0 || e.pos <= s.MaxPathHistoryLength {
		return e
	}
	e.opts.Log.WithField("amount", s.PathHistoryCutoffAmount).Debug("discarding walked part of path")
	return e.continueOn(e.path.From(s.PathHistoryCutoffAmount), e.pos-s.PathHistoryCutoffAmount)
}

func (e *Executor) continueOn(p *path.Path, pos int) *Executor {
	ret := New(p, e.opts)
	ret.pos = pos
	ret.originalCostEstimate = e.originalCostEstimate
	ret.costEstimateIndex = e.costEstimateIndex - (e.pos - pos)
	ret.ticksOnCurrent = e.ticksOnCurrent
	ret.ticksAway = e.ticksAway
	return ret
}

func (e *Executor) onChangeInPosition(a agent.Controller) {
	e.clearKeys(a)
	e.ticksOnCurrent = 0
}

func (e *Executor) clearKeys(a agent.Controller) {
	a.SetInput(agent.Input{})
	e.sprint = false
}

// distanceFromPath returns the distance from the agent to the centre of the closest position of the
// path that was not walked yet.
func (e *Executor) distanceFromPath(st agent.State) float64 {
	best := math.MaxFloat64
	for _, pos := range e.path.Positions()[e.pos:] {
		best = math.Min(best, st.Pos.Sub(centre(pos)).Len())
	}
	return best
}

// offPath returns true if dist exceeds the leniency passed. An agent falling towards the destination of
// a fall movement is never considered off the path.
func (e *Executor) offPath(st agent.State, dist, leniency float64) bool {
	if dist <= leniency {
		return false
	}
	if m := e.path.Movements()[e.pos]; m.Kind() == movement.KindFall {
		return st.Pos.Sub(centre(m.Dest())).Len() >= leniency
	}
	return true
}

// refreshBlocks updates the block caches of the movements around the cursor, rebuilding the aggregate
// sets if any of them changed.
func (e *Executor) refreshBlocks(c *movement.Context) {
	movements := e.path.Movements()
	w := e.opts.Settings.BlockWindow
	lo, hi := max(e.pos-w, 0), min(e.pos+w, len(movements)-1)
	for _, m := range movements[lo : hi+1] {
		if m.RefreshBlocks(c) {
			e.recalcBlocks = true
		}
	}
	if !e.recalcBlocks {
		return
	}
	e.recalcBlocks = false
	e.toBreak = orderedmap.NewOrderedMap[cube.Pos, struct{}]()
	e.toPlace = orderedmap.NewOrderedMap[cube.Pos, struct{}]()
	e.toWalkInto = orderedmap.NewOrderedMap[cube.Pos, struct{}]()
	for _, m := range movements[lo : hi+1] {
		for _, pos := range m.ToBreak() {
			e.toBreak.Set(pos, struct{}{})
		}
		for _, pos := range m.ToPlace() {
			e.toPlace.Set(pos, struct{}{})
		}
		for _, pos := range m.ToWalkInto() {
			e.toWalkInto.Set(pos, struct{}{})
		}
	}
}

// shouldPause returns true if a calculation in progress is heading back over the position the agent is
// standing on, in which case continuing would likely walk the agent away from where the next path
// starts.
func (e *Executor) shouldPause(st agent.State, c *movement.Context, current *movement.Movement) bool {
	if e.opts.InProgress == nil || !st.OnGround {
		return false
	}
	feet := st.Feet()
	if !c.Standable(feet) || !current.SafeToCancel(st, c) {
		return false
	}
	best := e.opts.InProgress()
	if len(best) < 3 {
		return false
	}
	// The first position of the next path always overlaps the current one.
	for _, pos := range best[1:] {
		if pos == feet {
			return true
		}
	}
	return false
}

// applySprint decides whether the agent may sprint this tick and overrides the input of the movement
// if the decision differs from what it asked for.
func (e *Executor) applySprint(a agent.Controller, c *movement.Context, current *movement.Movement) {
	in := current.Input()
	sprint := in.Forward && c.CanSprint && (in.Sprint || e.sprintFromDescend(current))
	e.sprint = sprint
	if sprint != in.Sprint {
		in.Sprint = sprint
		a.SetInput(in)
	}
}

// sprintFromDescend returns true if the current movement is a descend that leads straight into another
// descend or traverse in the same direction, which can be done at a sprint.
func (e *Executor) sprintFromDescend(current *movement.Movement) bool {
	if current.Kind() != movement.KindDescend || e.pos >= len(e.path.Movements())-1 {
		return false
	}
	next := e.path.Movements()[e.pos+1]
	d, nd := current.Direction(), next.Direction()
	switch next.Kind() {
	case movement.KindDescend:
		return nd == d
	case movement.KindTraverse:
		return nd == d.Add(cube.Pos{0, 1, 0})
	}
	return false
}

func centre(pos cube.Pos) mgl64.Vec3 {
	return mgl64.Vec3{float64(pos[0]) + 0.5, float64(pos[1]) + 0.5, float64(pos[2]) + 0.5}
}
