// Package goal contains the targets a path can be calculated towards. Goals are immutable values.
package goal

import (
	"fmt"
	"math"
	"strings"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/pathing/cost"
)

// Goal is a predicate over block positions with an admissible heuristic of the remaining cost. The
// set of goals is closed: Block, Near, XZ, YLevel and Composite.
type Goal interface {
	// Satisfied returns true if an agent with its feet at pos has reached the goal.
	Satisfied(pos cube.Pos) bool
	// Heuristic estimates the cost from pos to the goal without overestimating it.
	Heuristic(pos cube.Pos) float64
	fmt.Stringer

	goal()
}

// HorizontalCostPerBlock is the heuristic cost of moving one block horizontally. It is slightly
// below the cost of sprinting one block.
const HorizontalCostPerBlock = 3.563

// Block is satisfied when the feet of the agent are in an exact block.
type Block struct {
	Pos cube.Pos
}

func (g Block) Satisfied(pos cube.Pos) bool { return pos == g.Pos }

func (g Block) Heuristic(pos cube.Pos) float64 {
	return blockHeuristic(float64(pos[0]-g.Pos[0]), pos[1]-g.Pos[1], float64(pos[2]-g.Pos[2]))
}

func (g Block) String() string { return fmt.Sprintf("Block%v", g.Pos) }

// Near is satisfied when the feet of the agent are within Radius blocks of Pos.
type Near struct {
	Pos    cube.Pos
	Radius float64
}

func (g Near) Satisfied(pos cube.Pos) bool {
	dx, dy, dz := float64(pos[0]-g.Pos[0]), float64(pos[1]-g.Pos[1]), float64(pos[2]-g.Pos[2])
	return dx*dx+dy*dy+dz*dz <= g.Radius*g.Radius
}

func (g Near) Heuristic(pos cube.Pos) float64 {
	// Every satisfying position is at most Radius away on each axis, so shrinking each axis by Radius
	// gives a lower bound of the Block heuristic towards any of them.
	dx, dz := shrink(float64(pos[0]-g.Pos[0]), g.Radius), shrink(float64(pos[2]-g.Pos[2]), g.Radius)
	// Y offsets are whole blocks, so a partial block left after shrinking still has to be covered.
	dy := int(math.Ceil(math.Abs(shrink(float64(pos[1]-g.Pos[1]), g.Radius))))
	if pos[1] < g.Pos[1] {
		dy = -dy
	}
	return blockHeuristic(dx, dy, dz)
}

// shrink moves v towards zero by r, stopping at zero.
func shrink(v, r float64) float64 {
	if v > 0 {
		return math.Max(v-r, 0)
	}
	return math.Min(v+r, 0)
}

func (g Near) String() string { return fmt.Sprintf("Near%v r=%.1f", g.Pos, g.Radius) }

// XZ is satisfied at any Y level of a column.
type XZ struct {
	X, Z int
}

func (g XZ) Satisfied(pos cube.Pos) bool { return pos[0] == g.X && pos[2] == g.Z }

func (g XZ) Heuristic(pos cube.Pos) float64 {
	return xzHeuristic(float64(pos[0]-g.X), float64(pos[2]-g.Z))
}

func (g XZ) String() string { return fmt.Sprintf("XZ{%d, %d}", g.X, g.Z) }

// YLevel is satisfied at any X and Z on a Y level.
type YLevel struct {
	Y int
}

func (g YLevel) Satisfied(pos cube.Pos) bool { return pos[1] == g.Y }

func (g YLevel) Heuristic(pos cube.Pos) float64 { return yHeuristic(pos[1] - g.Y) }

func (g YLevel) String() string { return fmt.Sprintf("YLevel{%d}", g.Y) }

// Composite is satisfied if any of its goals are satisfied. Its heuristic is the lowest heuristic of
// its goals.
type Composite []Goal

func (g Composite) Satisfied(pos cube.Pos) bool {
	for _, sub := range g {
		if sub.Satisfied(pos) {
			return true
		}
	}
	return false
}

func (g Composite) Heuristic(pos cube.Pos) float64 {
	h := math.Inf(1)
	for _, sub := range g {
		h = math.Min(h, sub.Heuristic(pos))
	}
	if math.IsInf(h, 1) {
		return cost.Inf
	}
	return h
}

func (g Composite) String() string {
	names := make([]string, len(g))
	for i, sub := range g {
		names[i] = sub.String()
	}
	return "Composite[" + strings.Join(names, ", ") + "]"
}

func (Block) goal()     {}
func (Near) goal()      {}
func (XZ) goal()        {}
func (YLevel) goal()    {}
func (Composite) goal() {}

// blockHeuristic never overestimates the cost of a route covering the offset passed. Climbing and
// moving horizontally happen in the same ascend, so the larger of the two is taken. Falling and the
// walk off the edge do not overlap, so the fall is added on top.
func blockHeuristic(dx float64, dy int, dz float64) float64 {
	xz := xzHeuristic(dx, dz)
	switch {
	case dy > 0:
		return xz + fallHeuristic(dy)
	case dy < 0:
		return math.Max(xz, float64(-dy)*cost.JumpOneBlock)
	}
	return xz
}

// xzHeuristic combines straight and diagonal distance: the agent can walk diagonally for the
// shorter of the two axes and straight for the rest.
func xzHeuristic(dx, dz float64) float64 {
	x, z := math.Abs(dx), math.Abs(dz)
	straight, diagonal := x-z, z
	if x < z {
		straight, diagonal = z-x, x
	}
	return (diagonal*math.Sqrt2 + straight) * HorizontalCostPerBlock
}

// yHeuristic estimates the cost of a vertical difference, dy being the current Y minus the goal Y.
func yHeuristic(dy int) float64 {
	return blockHeuristic(0, dy, 0)
}

// fallHeuristic is the time it takes to fall n blocks in one go. Falls speed up as they go on, so
// splitting a drop into several falls never takes less.
func fallHeuristic(n int) float64 {
	return cost.FallNBlocks[min(n, cost.FallTableSize-1)]
}
