// Package cost holds the tick cost model used by the path calculator and movements. Every value is
// measured in game ticks (1/20th of a second) so that costs of different actions can be summed.
package cost

import "math"

const (
	// Inf is the cost of an impossible action. It is a large finite value so that sums of costs
	// stay ordered and never turn into NaN.
	Inf = 1_000_000.0

	// WalkOneBlock is the cost of walking one block on a flat surface.
	WalkOneBlock = 20 / 4.317
	// WalkOneInWater is the cost of moving one block through water.
	WalkOneInWater = 20 / 2.2
	// WalkOneOverSoulSand is the cost of walking one block over soul sand.
	WalkOneOverSoulSand = WalkOneBlock * 2
	// LadderUpOne is the cost of climbing one block up a ladder or vine.
	LadderUpOne = 20 / 2.35
	// LadderDownOne is the cost of descending one block down a ladder or vine.
	LadderDownOne = 20 / 3.0
	// SneakOneBlock is the cost of sneaking one block.
	SneakOneBlock = 20 / 1.3
	// SprintOneBlock is the cost of sprinting one block.
	SprintOneBlock = 20 / 5.612
	// SprintMultiplier scales a walking cost into a sprinting cost.
	SprintMultiplier = SprintOneBlock / WalkOneBlock
	// WalkOffBlock is the cost of walking off the edge of a block, roughly 80% of a full block.
	WalkOffBlock = WalkOneBlock * 0.8
	// CenterAfterFall is the cost of walking to the centre of a block after landing on it.
	CenterAfterFall = WalkOneBlock - WalkOffBlock

	// Place is the default cost of placing a throwaway block.
	Place = 20.0
	// BreakPenalty is added on top of the raw ticks taken to break a block.
	BreakPenalty = 2.0
	// JumpPenalty is the default extra cost added to movements that require jumping.
	JumpPenalty = 2.0

	// FallTableSize is the number of entries in FallNBlocks.
	FallTableSize = 4097
)

var (
	// FallNBlocks holds, for every n in [0, 4096], the ticks it takes to fall n blocks.
	FallNBlocks [FallTableSize]float64
	// Fall125Blocks is the ticks it takes to fall 1.25 blocks.
	Fall125Blocks float64
	// Fall025Blocks is the ticks it takes to fall 0.25 blocks.
	Fall025Blocks float64
	// JumpOneBlock is the cost of jumping up a single block: the time spent rising 1.25 blocks
	// minus the 0.25 blocks of descent back onto the block.
	JumpOneBlock float64
)

func init() {
	for n := range FallNBlocks {
		FallNBlocks[n] = DistanceToTicks(float64(n))
	}
	Fall125Blocks = DistanceToTicks(1.25)
	Fall025Blocks = DistanceToTicks(0.25)
	JumpOneBlock = Fall125Blocks - Fall025Blocks
}

// Velocity returns the distance in blocks an entity falls during the given tick, assuming it
// started at rest. Gravity accumulates by 0.08 each tick and drag multiplies by 0.98, which
// converges to a terminal velocity of 3.92 blocks per tick.
func Velocity(tick int) float64 {
	return (math.Pow(0.98, float64(tick)) - 1) * -3.92
}

// DistanceToTicks returns the (fractional) number of ticks needed to fall the given distance.
func DistanceToTicks(distance float64) float64 {
	if distance == 0 {
		return 0
	}
	remaining := distance
	for tick := 0; ; tick++ {
		v := Velocity(tick)
		if remaining <= v {
			return float64(tick) + remaining/v
		}
		remaining -= v
	}
}

// Fall returns the cost of falling n blocks. Falls outside of the table saturate to Inf.
func Fall(n int) float64 {
	if n < 0 || n >= FallTableSize {
		return Inf
	}
	return FallNBlocks[n]
}

// BreakTicks returns the ticks needed to break a block of the given hardness with the given break
// speed (1 for an empty hand). Blocks with a negative hardness cannot be broken and return Inf.
func BreakTicks(hardness, speed float64) float64 {
	if hardness < 0 || speed <= 0 {
		return Inf
	}
	if hardness == 0 {
		return 1
	}
	return math.Ceil(hardness * 30 / speed)
}
