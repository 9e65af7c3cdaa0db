// Package path holds calculated paths: the positions an agent walks through and the movements that
// connect them.
package path

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/pathing/goal"
	"github.com/oomph-ac/pathing/movement"
	"github.com/oomph-ac/pathing/oerror"
	"github.com/oomph-ac/pathing/world"
)

// Path is an ordered sequence of positions and the movements between each pair of them. The sequence
// never changes once created. The movements themselves hold execution state and are updated by the
// executor that runs the path.
type Path struct {
	positions []cube.Pos
	movements []*movement.Movement
	goal      goal.Goal
	numNodes  int
}

// New creates a path from the positions and movements passed. Movement i must lead from position i to
// position i+1.
func New(positions []cube.Pos, movements []*movement.Movement, g goal.Goal, numNodes int) (*Path, error) {
	if len(positions) == 0 {
		return nil, oerror.New("path has no positions")
	}
	if len(movements) != len(positions)-1 {
		return nil, oerror.New("path has %d positions but %d movements", len(positions), len(movements))
	}
	for i, m := range movements {
		if m.Src() != positions[i] || m.Dest() != positions[i+1] {
			return nil, oerror.New("movement %d (%v) does not connect %v and %v", i, m, positions[i], positions[i+1])
		}
	}
	return &Path{positions: positions, movements: movements, goal: g, numNodes: numNodes}, nil
}

// Start returns the first position of the path.
func (p *Path) Start() cube.Pos { return p.positions[0] }

// Dest returns the last position of the path.
func (p *Path) Dest() cube.Pos { return p.positions[len(p.positions)-1] }

// Positions returns every position of the path in order. The slice must not be modified.
func (p *Path) Positions() []cube.Pos { return p.positions }

// Movements returns every movement of the path in order. The slice must not be modified.
func (p *Path) Movements() []*movement.Movement { return p.movements }

// Len returns the amount of positions in the path.
func (p *Path) Len() int { return len(p.positions) }

// Goal returns the goal the path was calculated towards.
func (p *Path) Goal() goal.Goal { return p.goal }

// NumNodes returns the amount of nodes the calculator expanded to find the path.
func (p *Path) NumNodes() int { return p.numNodes }

// ReachesGoal returns true if the last position of the path satisfies its goal. A path that does not
// is the best partial effort of the calculator.
func (p *Path) ReachesGoal() bool {
	return p.goal != nil && p.goal.Satisfied(p.Dest())
}

// TicksRemainingFrom returns the sum of the cost estimates of the movements starting at index i.
func (p *Path) TicksRemainingFrom(i int) float64 {
	var sum float64
	for _, m := range p.movements[max(i, 0):] {
		sum += m.Cost()
	}
	return sum
}

// CutoffAtLoadedChunks returns the path up to, but excluding, the first position in a chunk that is
// not loaded in the provider passed.
func (p *Path) CutoffAtLoadedChunks(w world.Provider) *Path {
	for i := 1; i < len(p.positions); i++ {
		if !world.Loaded(w, p.positions[i]) {
			return p.sub(i - 1)
		}
	}
	return p
}

// StaticCutoff shortens a path that does not reach its goal to a fraction of its length, so that the
// agent does not walk into the edge of the area the calculator knew about. Paths shorter than
// minLength are returned as is.
func (p *Path) StaticCutoff(factor float64, minLength int) *Path {
	if p.Len() < minLength || p.ReachesGoal() {
		return p
	}
	return p.sub(int(float64(p.Len()-1) * factor))
}

// sub returns the path up to and including the position at index last.
func (p *Path) sub(last int) *Path {
	if last >= len(p.positions)-1 {
		return p
	}
	return &Path{positions: p.positions[:last+1], movements: p.movements[:last], goal: p.goal, numNodes: p.numNodes}
}

// From returns the path starting at the position at index first.
func (p *Path) From(first int) *Path {
	if first <= 0 {
		return p
	}
	first = min(first, len(p.positions)-1)
	return &Path{positions: p.positions[first:], movements: p.movements[first:], goal: p.goal, numNodes: p.numNodes}
}
