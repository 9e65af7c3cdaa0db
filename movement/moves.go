package movement

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/pathing/cost"
)

// Move generates movements of one kind in one direction from any position. Moves with DynamicXZ or
// DynamicY set find their destination while calculating their cost.
type Move struct {
	Kind      Kind
	DX, DY, DZ int
	DynamicXZ bool
	DynamicY  bool
}

// Moves holds every move the calculator tries from each node.
var Moves = []Move{
	{Kind: KindDownward, DY: -1},
	{Kind: KindPillar, DY: 1},

	{Kind: KindTraverse, DZ: -1},
	{Kind: KindTraverse, DZ: 1},
	{Kind: KindTraverse, DX: 1},
	{Kind: KindTraverse, DX: -1},

	{Kind: KindAscend, DZ: -1, DY: 1},
	{Kind: KindAscend, DZ: 1, DY: 1},
	{Kind: KindAscend, DX: 1, DY: 1},
	{Kind: KindAscend, DX: -1, DY: 1},

	{Kind: KindDescend, DZ: -1, DY: -1, DynamicY: true},
	{Kind: KindDescend, DZ: 1, DY: -1, DynamicY: true},
	{Kind: KindDescend, DX: 1, DY: -1, DynamicY: true},
	{Kind: KindDescend, DX: -1, DY: -1, DynamicY: true},

	{Kind: KindDiagonal, DX: 1, DZ: -1},
	{Kind: KindDiagonal, DX: -1, DZ: -1},
	{Kind: KindDiagonal, DX: 1, DZ: 1},
	{Kind: KindDiagonal, DX: -1, DZ: 1},

	{Kind: KindParkour, DZ: -1, DynamicXZ: true},
	{Kind: KindParkour, DZ: 1, DynamicXZ: true},
	{Kind: KindParkour, DX: 1, DynamicXZ: true},
	{Kind: KindParkour, DX: -1, DynamicXZ: true},
}

// Dest returns the destination of the move from src when it is not dynamic.
func (m Move) Dest(src cube.Pos) cube.Pos {
	return src.Add(cube.Pos{m.DX, m.DY, m.DZ})
}

// Apply returns the destination of the move from src and its cost. An impossible move returns a cost
// of cost.Inf.
func (m Move) Apply(c *Context, src cube.Pos) (cube.Pos, float64) {
	return apply(c, m.Kind, src, m.DX, m.DZ)
}

// KindFor returns the kind of movement the move produces between src and dest. Descending moves that
// drop more than one block become falls.
func (m Move) KindFor(src, dest cube.Pos) Kind {
	if m.Kind == KindDescend && src[1]-dest[1] > 1 {
		return KindFall
	}
	return m.Kind
}

func apply(c *Context, k Kind, src cube.Pos, dx, dz int) (cube.Pos, float64) {
	x, y, z := src[0], src[1], src[2]
	switch k {
	case KindTraverse:
		return cube.Pos{x + dx, y, z + dz}, traverseCost(c, src, dx, dz)
	case KindAscend:
		return cube.Pos{x + dx, y + 1, z + dz}, ascendCost(c, src, dx, dz)
	case KindDescend, KindFall:
		return descendCost(c, src, dx, dz)
	case KindDiagonal:
		return cube.Pos{x + dx, y, z + dz}, diagonalCost(c, src, dx, dz)
	case KindPillar:
		return cube.Pos{x, y + 1, z}, pillarCost(c, src)
	case KindDownward:
		return cube.Pos{x, y - 1, z}, downwardCost(c, src)
	case KindParkour:
		return parkourCost(c, src, dx, dz)
	}
	return src, cost.Inf
}

// costBetween returns the cost of a movement of kind k from src to a known dest, or cost.Inf if the
// movement no longer leads there.
func costBetween(c *Context, k Kind, src, dest cube.Pos) float64 {
	dx, dz := sign(dest[0]-src[0]), sign(dest[2]-src[2])
	got, cst := apply(c, k, src, dx, dz)
	if got != dest {
		return cost.Inf
	}
	return cst
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
