// Package pathing coordinates path calculation and execution for a single agent. A Pathing owns the
// path currently being executed, the segment planned to follow it and the calculation in flight.
package pathing

import (
	"context"
	"errors"
	"io"
	"reflect"
	"slices"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/pathing/agent"
	"github.com/oomph-ac/pathing/astar"
	"github.com/oomph-ac/pathing/event"
	"github.com/oomph-ac/pathing/executor"
	"github.com/oomph-ac/pathing/goal"
	"github.com/oomph-ac/pathing/movement"
	"github.com/oomph-ac/pathing/oerror"
	"github.com/oomph-ac/pathing/settings"
	"github.com/oomph-ac/pathing/utils"
	"github.com/oomph-ac/pathing/worker"
	"github.com/oomph-ac/pathing/world"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// minHeuristicImprovement is the amount the goal heuristic has to drop between partial segments for
// the agent to be considered making progress.
const minHeuristicImprovement = 0.01

// Config holds the dependencies of a Pathing.
type Config struct {
	// World is the live world the agent is in. Calculations run against snapshots of it.
	World world.Snapshotter
	// Settings are the settings used. The zero value is replaced by settings.DefaultSettings.
	Settings settings.Settings
	// Log is the logger used. If nil, nothing is logged.
	Log logrus.FieldLogger
	// Pool runs calculations. If nil, a pool with a single worker is created and closed by Close.
	Pool *worker.Pool
}

// Pathing drives an agent towards a goal. Tick, SetGoal, SetGoalAndPath and Cancel are expected to be
// called from the tick goroutine. The status queries may be called from anywhere.
type Pathing struct {
	world world.Snapshotter
	s     settings.Settings
	log   logrus.FieldLogger

	pool     *worker.Pool
	ownsPool bool

	handler event.Handler

	// mu is the plan lock: it guards everything below.
	mu   deadlock.Mutex
	tick int64

	a             agent.Controller
	goal          goal.Goal
	current, next *executor.Executor
	inProgress    *calculation
	calculating   atomic.Bool
	expectedStart cube.Pos
	safeToCancel  bool
	// pending is set when a calculation from the agent has to be started as soon as the one in flight
	// is done.
	pending bool

	// progress holds the goal heuristic at the end of the latest partial segments.
	progress *utils.CircularQueue[float64]

	events []event.Event
}

// calculation is a path calculation running on the worker pool.
type calculation struct {
	calc      *astar.Calculator
	segment   bool
	cancel    context.CancelFunc
	cancelled bool
	done      chan calcResult
}

type calcResult struct {
	res astar.Result
	err error
}

func (c *calculation) stop() {
	c.cancelled = true
	c.cancel()
}

// New creates a Pathing over the world in the config passed.
func New(conf Config) *Pathing {
	if conf.Settings == (settings.Settings{}) {
		conf.Settings = settings.DefaultSettings()
	}
	if conf.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		conf.Log = l
	}
	p := &Pathing{
		world:    conf.World,
		s:        conf.Settings,
		log:      conf.Log,
		pool:     conf.Pool,
		handler:  event.NopHandler{},
		progress: utils.NewCircularQueue[float64](max(conf.Settings.Calculation.StallLimit, 0) + 1),
	}
	if p.pool == nil {
		p.pool, p.ownsPool = worker.NewPool(1, conf.Log), true
	}
	return p
}

// Handle sets the handler events are sent to. Passing nil removes the handler.
func (p *Pathing) Handle(h event.Handler) {
	if h == nil {
		h = event.NopHandler{}
	}
	p.mu.Lock()
	p.handler = h
	p.mu.Unlock()
}

// Close cancels the calculation in progress and closes the worker pool if it was created by New.
func (p *Pathing) Close() {
	p.mu.Lock()
	if p.inProgress != nil {
		p.inProgress.stop()
	}
	p.mu.Unlock()
	if p.ownsPool {
		p.pool.Close()
	}
}

// Goal returns the goal being pathed to, or nil if there is none.
func (p *Pathing) Goal() goal.Goal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.goal
}

// IsPathing returns true if a path is being executed.
func (p *Pathing) IsPathing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}

// IsCalculating returns true if a calculation is in flight.
func (p *Pathing) IsCalculating() bool {
	return p.calculating.Load()
}

// Executor returns the executor of the path currently being executed, or nil.
func (p *Pathing) Executor() *executor.Executor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// SetGoal changes the goal without starting a calculation. Segments planned from now on head towards
// the new goal.
func (p *Pathing) SetGoal(g goal.Goal) {
	p.mu.Lock()
	p.goal = g
	p.mu.Unlock()
}

// SetGoalAndPath sets the goal and starts calculating a path to it from the position of the agent. It
// returns false if no calculation was started: the agent is already in the goal, a path is being
// executed towards the same goal, or another calculation is still in flight.
func (p *Pathing) SetGoalAndPath(g goal.Goal, a agent.Controller) bool {
	p.mu.Lock()
	p.a = a
	p.goal = g
	if g == nil {
		p.mu.Unlock()
		return false
	}
	p.expectedStart = p.pathStart()
	started := p.setGoalAndPath(g, a)
	events, h := p.flush()
	p.mu.Unlock()

	p.dispatch(events, h)
	return started
}

func (p *Pathing) setGoalAndPath(g goal.Goal, a agent.Controller) bool {
	if g.Satisfied(a.State().Feet()) || g.Satisfied(p.expectedStart) {
		return false
	}
	if p.current != nil {
		if equalGoal(p.current.Path().Goal(), g) {
			return false
		}
		p.log.WithField("goal", g).Debug("goal changed, abandoning current path")
		p.stopExecuting(a, "goal changed")
	}
	p.progress.Clear()
	if in := p.inProgress; in != nil && !in.cancelled && !equalGoal(in.calc.Goal(), g) {
		in.stop()
	}
	if p.inProgress != nil {
		if !p.inProgress.cancelled {
			return false
		}
		// Start as soon as the cancelled calculation has stopped.
		p.pending = true
		return true
	}
	p.queue(event.CalcStarted)
	p.startCalculation(p.expectedStart, false)
	return true
}

// Cancel stops executing the current path, cancels the calculation in flight and clears the goal. The
// keys held by the agent are released.
func (p *Pathing) Cancel(a agent.Controller) {
	p.mu.Lock()
	p.a = a
	p.cancel(a, "cancelled")
	events, h := p.flush()
	p.mu.Unlock()

	p.dispatch(events, h)
}

func (p *Pathing) cancel(a agent.Controller, reason string) {
	active := p.current != nil || p.inProgress != nil
	p.queue(event.Canceled)
	if p.inProgress != nil {
		p.inProgress.stop()
	}
	p.stopExecuting(a, reason)
	p.goal, p.pending = nil, false
	if active {
		p.complete(false, reason)
	}
}

func (p *Pathing) stopExecuting(a agent.Controller, reason string) {
	if p.current != nil {
		p.current.Cancel(a, reason)
		a.SetInput(agent.Input{})
		a.StopBreaking()
	}
	p.current, p.next = nil, nil
}

// Tick runs one tick of pathing: results of finished calculations are installed, the current path is
// executed and new calculations are started when needed. Events are sent to the handler once the tick
// is done.
func (p *Pathing) Tick(a agent.Controller) {
	p.mu.Lock()
	p.a = a
	p.tick++
	p.expectedStart = p.pathStart()
	p.consumeResult()
	p.tickPath(a)
	events, h := p.flush()
	p.mu.Unlock()

	p.dispatch(events, h)
}

func (p *Pathing) tickPath(a agent.Controller) {
	feet := a.State().Feet()
	if in := p.inProgress; in != nil && !in.cancelled {
		from := in.calc.Start()
		best := in.calc.BestPositionsSoFar()
		if (p.current == nil || p.current.Path().Dest() != from) &&
			from != feet && from != p.expectedStart &&
			(len(best) == 0 || (!slices.Contains(best, feet) && !slices.Contains(best, p.expectedStart))) {
			p.log.WithField("start", from).Debug("cancelling calculation that no longer starts near the agent")
			in.stop()
			if p.current == nil {
				p.pending = true
			}
		}
	}
	if p.current == nil {
		if p.pending && p.inProgress == nil && p.goal != nil {
			p.pending = false
			p.queue(event.CalcStarted)
			p.startCalculation(p.expectedStart, false)
		}
		return
	}

	p.safeToCancel = p.current.Tick(a)
	if p.current.Failed() || p.current.Finished() {
		p.segmentEnded(a, feet)
		return
	}

	if p.safeToCancel && p.next != nil && p.next.SnipsnapIfPossible(a) {
		p.log.Debug("splicing onto planned next path early")
		p.queue(event.SplicingOntoNextEarly)
		p.current, p.next = p.next, nil
		p.current.Tick(a)
		return
	}
	if p.s.Execution.SplicePath {
		if p.next != nil {
			p.current = p.current.TrySplice(p.next.Path())
		} else {
			p.current = p.current.TrySplice(nil)
		}
	}
	if p.next != nil && p.current.Path().Dest() == p.next.Path().Dest() {
		p.next = nil
	}
	if p.inProgress != nil || p.next != nil || p.goal == nil || p.goal.Satisfied(p.current.Path().Dest()) {
		return
	}
	if p.current.Path().TicksRemainingFrom(p.current.Position()+1) < p.s.Calculation.PlanAheadTicks {
		p.log.Debug("path almost over, planning ahead")
		p.queue(event.NextSegmentCalcStarted)
		p.startCalculation(p.current.Path().Dest(), true)
	}
}

// segmentEnded handles the current path having finished or failed.
func (p *Pathing) segmentEnded(a agent.Controller, feet cube.Pos) {
	ended := p.current
	p.current = nil
	if p.goal == nil || p.goal.Satisfied(feet) {
		p.log.WithField("goal", p.goal).Debug("all done")
		p.queue(event.AtGoal)
		p.next = nil
		p.complete(true, "")
		return
	}
	if p.next != nil && !slices.Contains(p.next.Path().Positions(), feet) && !slices.Contains(p.next.Path().Positions(), p.expectedStart) {
		p.log.Debug("discarding next path as it does not contain the current position")
		p.queue(event.Discarded)
		p.next = nil
	}
	if p.next != nil {
		p.log.Debug("continuing on to planned next path")
		p.queue(event.ContinuingOntoPlannedNext)
		p.current, p.next = p.next, nil
		p.current.Tick(a)
		return
	}
	if !ended.Failed() && p.stalled(feet) {
		p.log.WithField("goal", p.goal).Info("giving up, partial paths are not getting closer to the goal")
		p.complete(false, "no progress towards goal")
		return
	}
	if p.inProgress != nil {
		// The next segment is still being calculated and will be installed once it is done.
		return
	}
	p.queue(event.CalcStarted)
	p.startCalculation(p.expectedStart, false)
}

// stalled records the heuristic at the end of a partial segment and reports whether the last
// StallLimit segments all failed to improve on the one before them.
func (p *Pathing) stalled(feet cube.Pos) bool {
	if p.s.Calculation.StallLimit <= 0 {
		return false
	}
	h := p.goal.Heuristic(feet)
	if p.progress.Full() {
		p.progress.Pop()
	}
	_ = p.progress.Append(h)
	if !p.progress.Full() {
		return false
	}
	oldest, _ := p.progress.Get(0)
	first := true
	for v := range p.progress.Iter() {
		if first {
			first = false
			continue
		}
		if v < oldest-minHeuristicImprovement {
			return false
		}
	}
	return true
}

// startCalculation submits a calculation from start towards the goal to the worker pool.
func (p *Pathing) startCalculation(start cube.Pos, segment bool) {
	g := p.goal
	if g == nil {
		return
	}
	if p.inProgress != nil {
		panic(oerror.New("calculation started while another is in progress"))
	}
	c := movement.NewContext(p.world.Snapshot(), p.s.Movement, p.a.State())
	calc := astar.NewCalculator(start, g, c, p.s.Calculation, p.log)
	ctx, cancel := context.WithCancel(context.Background())
	in := &calculation{calc: calc, segment: segment, cancel: cancel, done: make(chan calcResult, 1)}

	ok := p.pool.Submit(func() {
		res, err := calc.Calculate(ctx)
		in.done <- calcResult{res: res, err: err}
	}, func(v any) {
		in.done <- calcResult{err: oerror.New("calculation panicked: %v", v)}
	})
	if !ok {
		cancel()
		p.log.Warn("unable to submit path calculation")
		p.queue(event.CalcFailed)
		if p.current == nil {
			p.complete(false, "calculation could not be started")
		}
		return
	}
	p.log.WithFields(logrus.Fields{"start": start, "goal": g, "segment": segment}).Debug("path calculation started")
	p.inProgress = in
	p.calculating.Store(true)
}

// consumeResult installs the result of the calculation in flight if it is done.
func (p *Pathing) consumeResult() {
	in := p.inProgress
	if in == nil {
		return
	}
	var r calcResult
	select {
	case r = <-in.done:
	default:
		return
	}
	p.inProgress = nil
	p.calculating.Store(false)
	in.cancel()

	if in.cancelled || errors.Is(r.err, astar.ErrCancelled) {
		return
	}
	if r.err != nil {
		p.log.WithError(r.err).Warn("path calculation failed")
		p.queue(event.CalcFailed)
		if p.current == nil {
			p.complete(false, "calculation failed")
		}
		return
	}

	pth := r.res.Path.CutoffAtLoadedChunks(p.world).StaticCutoff(p.s.Calculation.CutoffFactor, p.s.Calculation.CutoffMinimumLength)
	p.log.WithFields(logrus.Fields{
		"length":   pth.Len(),
		"reaches":  pth.ReachesGoal(),
		"expanded": r.res.Expanded,
		"duration": r.res.Duration,
	}).Debug("path calculation finished")
	p.events = append(p.events, event.PathCalculated{
		NopEvent:    event.NopEvent{EvTick: p.tick},
		Length:      pth.Len(),
		ReachesGoal: pth.ReachesGoal(),
		Segment:     in.segment,
		Expanded:    r.res.Expanded,
		Considered:  r.res.Considered,
		ChunkSkips:  r.res.ChunkSkips,
		Duration:    r.res.Duration,
	})

	var ex *executor.Executor
	if len(pth.Movements()) > 0 {
		ex = executor.New(pth, p.executorOptions())
	}
	switch {
	case p.current == nil && ex == nil:
		p.queue(event.CalcFailed)
		p.complete(false, "no path found")
	case p.current == nil:
		if !slices.Contains(pth.Positions(), p.expectedStart) {
			p.log.WithField("start", pth.Start()).Debug("discarding orphan path segment with incorrect start")
			p.queue(event.Discarded)
			p.pending = true
			return
		}
		p.queue(event.CalcFinishedNowExecuting)
		p.current = ex
	case p.next != nil:
		p.log.Warn("discarding path calculated while a next segment is already planned")
	case ex == nil:
		p.log.Debug("next segment calculation found no path")
		p.queue(event.CalcFailed)
	case pth.Start() != p.current.Path().Dest():
		p.log.WithField("start", pth.Start()).Debug("discarding orphan next segment with incorrect start")
		p.queue(event.Discarded)
	default:
		p.queue(event.NextSegmentCalcFinished)
		p.next = ex
	}
}

func (p *Pathing) executorOptions() executor.Options {
	return executor.Options{
		Context: func() *movement.Context {
			return movement.NewContext(p.world, p.s.Movement, p.a.State())
		},
		InProgress: func() []cube.Pos {
			if p.inProgress == nil || p.inProgress.cancelled {
				return nil
			}
			return p.inProgress.calc.BestPositionsSoFar()
		},
		Settings: p.s.Execution,
		Log:      p.log,
	}
}

// pathStart returns the position a calculation should start from. When the agent is sneaking over the
// edge of a block or in the middle of a jump, this is the block it is actually supported by rather
// than the one its feet are in.
func (p *Pathing) pathStart() cube.Pos {
	st := p.a.State()
	feet := st.Feet()
	c := movement.NewContext(p.world, p.s.Movement, st)
	if c.Standable(feet) {
		return feet
	}
	if !st.OnGround {
		if below := feet.Side(cube.FaceDown); c.Standable(below) {
			return below
		}
		return feet
	}
	type candidate struct {
		pos  cube.Pos
		dist float64
	}
	closest := make([]candidate, 0, 9)
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			pos := feet.Add(cube.Pos{dx, 0, dz})
			x, z := float64(pos[0])+0.5-st.Pos[0], float64(pos[2])+0.5-st.Pos[2]
			closest = append(closest, candidate{pos: pos, dist: x*x + z*z})
		}
	}
	slices.SortStableFunc(closest, func(a, b candidate) int {
		switch {
		case a.dist < b.dist:
			return -1
		case a.dist > b.dist:
			return 1
		}
		return 0
	})
	for _, cand := range closest[:4] {
		x, z := float64(cand.pos[0])+0.5-st.Pos[0], float64(cand.pos[2])+0.5-st.Pos[2]
		if (x > 0.8 || x < -0.8) && (z > 0.8 || z < -0.8) {
			continue
		}
		if c.Standable(cand.pos) {
			return cand.pos
		}
	}
	return feet
}

func (p *Pathing) complete(success bool, reason string) {
	p.events = append(p.events, event.PathCompleted{NopEvent: event.NopEvent{EvTick: p.tick}, Success: success, Reason: reason})
}

func (p *Pathing) queue(k event.Kind) {
	p.events = append(p.events, event.PathEvent{NopEvent: event.NopEvent{EvTick: p.tick}, Kind: k})
}

func (p *Pathing) flush() ([]event.Event, event.Handler) {
	events := p.events
	p.events = nil
	return events, p.handler
}

func (p *Pathing) dispatch(events []event.Event, h event.Handler) {
	for _, ev := range events {
		h.HandleEvent(ev)
	}
}

// equalGoal returns true if a and b describe the same goal. Composite goals hold slices, so they are
// compared deeply.
func equalGoal(a, b goal.Goal) bool {
	return a != nil && b != nil && reflect.DeepEqual(a, b)
}
