// Package astar implements the path calculator: an A* search over movements with an iteration budget,
// returning the best partial path when the goal cannot be reached.
package astar

import (
	"context"
	"errors"
	"io"
	"slices"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/pathing/assert"
	"github.com/oomph-ac/pathing/goal"
	"github.com/oomph-ac/pathing/movement"
	"github.com/oomph-ac/pathing/path"
	"github.com/oomph-ac/pathing/settings"
	"github.com/oomph-ac/pathing/world"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// ErrCancelled is returned by Calculate if its context was cancelled. The best path found up to that
// point is returned along with it.
var ErrCancelled = errors.New("astar: calculation cancelled")

// publishInterval is the amount of nodes expanded between updates of the best path so far.
const publishInterval = 64

// Result is the outcome of a calculation.
type Result struct {
	// Path is the path to the goal, or to the node closest to it if the goal was not reached. It is
	// never nil.
	Path *path.Path
	// Expanded is the amount of nodes taken from the open set.
	Expanded int
	// Considered is the amount of movements whose cost was calculated.
	Considered int
	// ChunkSkips is the amount of movements skipped because they led into an unloaded chunk.
	ChunkSkips int
	// Duration is the wall-clock time the calculation took.
	Duration time.Duration
}

// Calculator finds a path from a start position to a goal. A Calculator performs a single calculation
// and may not be reused.
type Calculator struct {
	start cube.Pos
	goal  goal.Goal
	ctx   *movement.Context
	conf  settings.Calculation
	log   logrus.FieldLogger

	nodes map[cube.Pos]*PathNode
	open  *OpenSet

	running atomic.Bool
	mu      deadlock.Mutex
	best    []cube.Pos
}

// NewCalculator creates a Calculator searching from start towards g in the context passed. The context
// should be built over a world snapshot, since the search runs outside the tick goroutine.
func NewCalculator(start cube.Pos, g goal.Goal, c *movement.Context, conf settings.Calculation, log logrus.FieldLogger) *Calculator {
	assert.NotNil(g, "goal")
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Calculator{
		start: start,
		goal:  g,
		ctx:   c,
		conf:  conf,
		log:   log,
		nodes: make(map[cube.Pos]*PathNode),
		open:  NewOpenSet(),
	}
}

// Start returns the position the calculation starts from.
func (c *Calculator) Start() cube.Pos { return c.start }

// Goal returns the goal of the calculation.
func (c *Calculator) Goal() goal.Goal { return c.goal }

// Running returns true while Calculate is in progress.
func (c *Calculator) Running() bool { return c.running.Load() }

// BestPositionsSoFar returns the positions of the path to the best node found so far. It may be called
// from any goroutine while the calculation runs.
func (c *Calculator) BestPositionsSoFar() []cube.Pos {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.best)
}

// Calculate runs the search. It stops when the goal is reached, the open set is exhausted, the node
// budget is spent, too many unloaded chunks were run into or ctx is cancelled. In every case a path is
// returned. The error is ErrCancelled if ctx was cancelled, and nil otherwise.
func (c *Calculator) Calculate(ctx context.Context) (Result, error) {
	assert.IsTrue(c.running.CompareAndSwap(false, true), "calculator from %v is already running", c.start)
	defer c.running.Store(false)

	started := time.Now()
	res := Result{}

	startNode := c.node(c.start)
	startNode.G = 0
	startNode.Combined = startNode.H
	c.open.Insert(startNode)
	best := startNode

	var err error
	reached := false
search:
	for !c.open.Empty() && res.Expanded < c.conf.MaxNodes {
		select {
		case <-ctx.Done():
			err = ErrCancelled
			break search
		default:
		}

		current := c.open.RemoveLowest()
		res.Expanded++
		if better(current, best) {
			best = current
		}
		if res.Expanded%publishInterval == 0 {
			c.publish(best)
		}
		if c.goal.Satisfied(current.Pos) {
			best, reached = current, true
			break
		}

		for _, move := range movement.Moves {
			if !move.DynamicXZ && !move.DynamicY {
				dest := move.Dest(current.Pos)
				if !c.ctx.InWorld(dest) {
					continue
				}
				if world.ChunkPos(dest) != world.ChunkPos(current.Pos) && !c.ctx.Loaded(dest) {
					res.ChunkSkips++
					if res.ChunkSkips >= c.conf.MaxChunkBorderFetch {
						c.log.WithField("skips", res.ChunkSkips).Debug("calculation ran into too many unloaded chunks")
						break search
					}
					continue
				}
			}
			dest, cst := move.Apply(c.ctx, current.Pos)
			res.Considered++
			if movement.Impossible(cst) || !c.ctx.InWorld(dest) {
				continue
			}
			assert.IsTrue(cst > 0, "%v move from %v has non-positive cost %v", move.Kind, current.Pos, cst)

			n := c.node(dest)
			tentative := current.G + cst
			if tentative >= n.G-c.conf.MinimumImprovement {
				continue
			}
			n.Previous = current
			n.Kind = move.KindFor(current.Pos, dest)
			n.EdgeCost = cst
			n.G = tentative
			n.Combined = tentative + n.H
			if n.Open() {
				c.open.Update(n)
			} else {
				c.open.Insert(n)
			}
		}
	}
	c.publish(best)

	p, perr := c.build(best, res.Expanded)
	if perr != nil {
		// Every node is connected to its predecessor by the movement that reached it.
		panic(perr)
	}
	res.Path = p
	res.Duration = time.Since(started)

	c.log.WithFields(logrus.Fields{
		"start":      c.start,
		"goal":       c.goal,
		"reached":    reached,
		"length":     p.Len(),
		"expanded":   res.Expanded,
		"considered": res.Considered,
		"chunkSkips": res.ChunkSkips,
		"duration":   res.Duration,
	}).Debug("calculation finished")
	c.open.Clear()
	return res, err
}

// better returns true if n is closer to the goal than the best node so far.
func better(n, best *PathNode) bool {
	if n.H != best.H {
		return n.H < best.H
	}
	return n.G < best.G
}

func (c *Calculator) node(pos cube.Pos) *PathNode {
	n, ok := c.nodes[pos]
	if !ok {
		n = newNode(pos, c.goal.Heuristic(pos))
		c.nodes[pos] = n
	}
	return n
}

func (c *Calculator) publish(best *PathNode) {
	positions := chain(best)
	c.mu.Lock()
	c.best = positions
	c.mu.Unlock()
}

// chain returns the positions leading to n, starting at the start node.
func chain(n *PathNode) []cube.Pos {
	var positions []cube.Pos
	for ; n != nil; n = n.Previous {
		positions = append(positions, n.Pos)
	}
	slices.Reverse(positions)
	return positions
}

// build turns the node chain leading to end into a path, creating a movement for every step.
func (c *Calculator) build(end *PathNode, expanded int) (*path.Path, error) {
	var nodes []*PathNode
	for n := end; n != nil; n = n.Previous {
		nodes = append(nodes, n)
	}
	slices.Reverse(nodes)

	positions := make([]cube.Pos, len(nodes))
	movements := make([]*movement.Movement, 0, len(nodes)-1)
	for i, n := range nodes {
		positions[i] = n.Pos
		if i > 0 {
			movements = append(movements, movement.New(n.Kind, nodes[i-1].Pos, n.Pos, c.ctx, n.EdgeCost))
		}
	}
	return path.New(positions, movements, c.goal, expanded)
}
