package astar

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/pathing/cost"
	"github.com/oomph-ac/pathing/movement"
)

// PathNode is a position discovered by the calculator. Exactly one PathNode exists per position in a
// calculation.
type PathNode struct {
	Pos cube.Pos
	// G is the cost of the cheapest known route from the start to the node.
	G float64
	// H is the heuristic estimate of the remaining cost to the goal.
	H float64
	// Combined is G+H, the value the open set is ordered by.
	Combined float64

	// Previous is the node the cheapest known route arrives from, or nil for the start.
	Previous *PathNode
	// Kind and EdgeCost describe the movement from Previous to the node.
	Kind     movement.Kind
	EdgeCost float64

	heapIndex int
}

func newNode(pos cube.Pos, h float64) *PathNode {
	return &PathNode{Pos: pos, G: cost.Inf, H: h, Combined: cost.Inf, heapIndex: -1}
}

// Open returns true if the node is currently in an open set.
func (n *PathNode) Open() bool {
	return n.heapIndex != -1
}
