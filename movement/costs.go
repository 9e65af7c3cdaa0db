package movement

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/pathing/cost"
)

func traverseCost(c *Context, src cube.Pos, dx, dz int) float64 {
	x, y, z := src[0], src[1], src[2]
	destX, destZ := x+dx, z+dz
	upper, lower := c.Block(cube.Pos{destX, y + 1, destZ}), c.Block(cube.Pos{destX, y, destZ})
	destOn := c.Block(cube.Pos{destX, y - 1, destZ})
	srcDown := c.Block(cube.Pos{x, y - 1, z})

	water := upper.Water() || lower.Water()
	if canWalkOn(destOn) {
		wc := cost.WalkOneBlock
		if water {
			wc = cost.WalkOneInWater
		} else {
			if soulSand(destOn) {
				wc += (cost.WalkOneOverSoulSand - cost.WalkOneBlock) / 2
			}
			if soulSand(srcDown) {
				wc += (cost.WalkOneOverSoulSand - cost.WalkOneBlock) / 2
			}
		}
		h1 := c.miningTicks(cube.Pos{destX, y, destZ}, false)
		if h1 >= cost.Inf {
			return cost.Inf
		}
		h2 := c.miningTicks(cube.Pos{destX, y + 1, destZ}, true)
		if h1 == 0 && h2 == 0 {
			if !water && c.CanSprint {
				wc *= cost.SprintMultiplier
			}
			return wc
		}
		if ladder(srcDown) {
			h1, h2 = h1*5, h2*5
		}
		return math.Min(wc+h1+h2, cost.Inf)
	}

	// Nothing to walk on, so a block has to be placed to bridge over.
	if ladder(srcDown) || !replaceable(destOn) {
		return cost.Inf
	}
	if destOn.Water() && water {
		return cost.Inf
	}
	destOnPos := cube.Pos{destX, y - 1, destZ}
	place := c.placeCost(destOnPos)
	if place >= cost.Inf {
		return cost.Inf
	}
	h1 := c.miningTicks(cube.Pos{destX, y, destZ}, false)
	if h1 >= cost.Inf {
		return cost.Inf
	}
	h2 := c.miningTicks(cube.Pos{destX, y + 1, destZ}, true)
	wc := cost.WalkOneBlock
	if water {
		wc = cost.WalkOneInWater
	}
	srcDownPos := cube.Pos{x, y - 1, z}
	if _, ok := c.placeFace(destOnPos, &srcDownPos); ok {
		return math.Min(wc+place+h1+h2, cost.Inf)
	}
	// Only the block we stand on can be placed against, which means sneaking back to the edge.
	if soulSand(srcDown) || !srcDown.Solid {
		return cost.Inf
	}
	wc *= cost.SneakOneBlock / cost.WalkOneBlock
	return math.Min(wc+place+h1+h2, cost.Inf)
}

func ascendCost(c *Context, src cube.Pos, dx, dz int) float64 {
	x, y, z := src[0], src[1], src[2]
	destX, destZ := x+dx, z+dz
	if !c.InWorld(cube.Pos{x, y + 2, z}) {
		return cost.Inf
	}
	onto := cube.Pos{destX, y, destZ}
	toPlace := c.Block(onto)
	var placement float64
	if !canWalkOn(toPlace) {
		placement = c.placeCost(onto)
		if placement >= cost.Inf {
			return cost.Inf
		}
		if _, ok := c.placeFace(onto, &src); !ok {
			return cost.Inf
		}
	}
	srcUp2 := c.Block(cube.Pos{x, y + 2, z})
	if c.Block(cube.Pos{x, y + 3, z}).Falling && (canWalkThrough(c.Block(cube.Pos{x, y + 1, z})) || !srcUp2.Falling) {
		// Breaking the block above would drop the falling block on our head.
		return cost.Inf
	}
	if ladder(c.Block(cube.Pos{x, y - 1, z})) {
		return cost.Inf
	}
	walk := math.Max(cost.JumpOneBlock, cost.WalkOneBlock)
	if soulSand(toPlace) {
		walk = cost.WalkOneOverSoulSand
	}
	total := walk + c.JumpPenalty + placement
	total += c.miningTicks(cube.Pos{x, y + 2, z}, false)
	if total >= cost.Inf {
		return cost.Inf
	}
	total += c.miningTicks(cube.Pos{destX, y + 1, destZ}, false)
	if total >= cost.Inf {
		return cost.Inf
	}
	total += c.miningTicks(cube.Pos{destX, y + 2, destZ}, true)
	return math.Min(total, cost.Inf)
}

// descendCost returns the destination and cost of walking off src in a direction. If the block one
// below is not standable, the fall continues up to the maximum fall height or into water.
func descendCost(c *Context, src cube.Pos, dx, dz int) (cube.Pos, float64) {
	x, y, z := src[0], src[1], src[2]
	destX, destZ := x+dx, z+dz
	fail := cube.Pos{destX, y - 1, destZ}

	total := c.miningTicks(cube.Pos{destX, y - 1, destZ}, false)
	if total >= cost.Inf {
		return fail, cost.Inf
	}
	total += c.miningTicks(cube.Pos{destX, y, destZ}, false)
	if total >= cost.Inf {
		return fail, cost.Inf
	}
	total += c.miningTicks(cube.Pos{destX, y + 1, destZ}, true)
	if total >= cost.Inf {
		return fail, cost.Inf
	}
	fromDown := c.Block(cube.Pos{x, y - 1, z})
	if ladder(fromDown) {
		return fail, cost.Inf
	}
	below := c.Block(cube.Pos{destX, y - 2, destZ})
	if !canWalkOn(below) {
		return fallCost(c, src, destX, destZ, total)
	}
	if ladder(c.Block(cube.Pos{destX, y - 1, destZ})) {
		return fail, cost.Inf
	}
	walk := cost.WalkOffBlock
	if soulSand(fromDown) {
		walk *= cost.WalkOneOverSoulSand / cost.WalkOneBlock
	}
	total += walk + math.Max(cost.FallNBlocks[1], cost.CenterAfterFall)
	return fail, math.Min(total, cost.Inf)
}

// fallCost searches downwards from two blocks below src for a place to land.
func fallCost(c *Context, src cube.Pos, destX, destZ int, frontBreak float64) (cube.Pos, float64) {
	y := src[1]
	fail := cube.Pos{destX, y - 1, destZ}
	if frontBreak != 0 && c.Block(cube.Pos{destX, y + 2, destZ}).Falling {
		return fail, cost.Inf
	}
	if !canWalkThrough(c.Block(cube.Pos{destX, y - 2, destZ})) {
		return fail, cost.Inf
	}
	minY := c.World.Range()[0]
	var soFar float64
	start := y
	for height := 3; ; height++ {
		newY := y - height
		if newY < minY {
			return fail, cost.Inf
		}
		onto := c.Block(cube.Pos{destX, newY, destZ})
		unprotected := height - (y - start)
		if unprotected >= cost.FallTableSize {
			return fail, cost.Inf
		}
		tentative := cost.WalkOffBlock + cost.FallNBlocks[unprotected] + frontBreak + soFar
		if onto.Water() {
			if !canWalkOn(c.Block(cube.Pos{destX, newY - 1, destZ})) {
				// Too shallow to be sure it breaks the fall.
				return fail, cost.Inf
			}
			return cube.Pos{destX, newY, destZ}, math.Min(tentative, cost.Inf)
		}
		if unprotected <= 11 && ladder(onto) {
			// Grabbing onto a ladder resets the fall.
			soFar += cost.FallNBlocks[unprotected-1] + cost.LadderDownOne
			start = newY
			continue
		}
		if canWalkThrough(onto) {
			continue
		}
		if !canWalkOn(onto) {
			return fail, cost.Inf
		}
		if unprotected <= c.MaxFallHeight+1 {
			return cube.Pos{destX, newY + 1, destZ}, math.Min(tentative, cost.Inf)
		}
		return fail, cost.Inf
	}
}

func diagonalCost(c *Context, src cube.Pos, dx, dz int) float64 {
	if !c.AllowDiagonal {
		return cost.Inf
	}
	x, y, z := src[0], src[1], src[2]
	destX, destZ := x+dx, z+dz
	if !canWalkThrough(c.Block(cube.Pos{destX, y + 1, destZ})) {
		return cost.Inf
	}
	destInto := c.Block(cube.Pos{destX, y, destZ})
	if !canWalkThrough(destInto) {
		return cost.Inf
	}
	destOn := c.Block(cube.Pos{destX, y - 1, destZ})
	if !canWalkOn(destOn) {
		return cost.Inf
	}
	fromDown := c.Block(cube.Pos{x, y - 1, z})
	if ladder(fromDown) {
		return cost.Inf
	}
	multiplier := cost.WalkOneBlock
	if soulSand(destOn) {
		multiplier += (cost.WalkOneOverSoulSand - cost.WalkOneBlock) / 2
	}
	if soulSand(fromDown) {
		multiplier += (cost.WalkOneOverSoulSand - cost.WalkOneBlock) / 2
	}
	// Cutting the corner means walking over the edges of both neighbouring blocks.
	if c.Block(cube.Pos{x, y - 1, destZ}).Avoid || c.Block(cube.Pos{destX, y - 1, z}).Avoid {
		return cost.Inf
	}
	water := c.Block(src).Water() || destInto.Water()
	if water {
		multiplier = cost.WalkOneInWater
	}

	a0, a1 := c.Block(cube.Pos{x, y, destZ}), c.Block(cube.Pos{x, y + 1, destZ})
	b0, b1 := c.Block(cube.Pos{destX, y, z}), c.Block(cube.Pos{destX, y + 1, z})
	optionA := canWalkThrough(a0) && canWalkThrough(a1)
	optionB := canWalkThrough(b0) && canWalkThrough(b1)
	switch {
	case !optionA && !optionB:
		return cost.Inf
	case optionA && !optionB:
		if b0.Avoid || b1.Avoid {
			return cost.Inf
		}
	case optionB && !optionA:
		if a0.Avoid || a1.Avoid {
			return cost.Inf
		}
	}
	if optionA != optionB {
		// Brushing against the blocked side slows us down.
		multiplier *= math.Sqrt2 - 0.001
	}
	if !water && c.CanSprint {
		multiplier *= cost.SprintMultiplier
	}
	return multiplier * math.Sqrt2
}

func pillarCost(c *Context, src cube.Pos) float64 {
	x, y, z := src[0], src[1], src[2]
	if !c.InWorld(cube.Pos{x, y + 2, z}) {
		return cost.Inf
	}
	from := c.Block(src)
	fromDown := c.Block(cube.Pos{x, y - 1, z})
	isLadder := ladder(from)
	if !isLadder && ladder(fromDown) {
		return cost.Inf
	}
	toBreak := c.Block(cube.Pos{x, y + 2, z})
	var place float64
	if !isLadder {
		place = c.placeCost(src)
		if place >= cost.Inf {
			return cost.Inf
		}
		if from.Liquid || fromDown.Liquid {
			return cost.Inf
		}
	}
	hardness := c.miningTicks(cube.Pos{x, y + 2, z}, true)
	if hardness >= cost.Inf {
		return cost.Inf
	}
	if hardness != 0 {
		if ladder(toBreak) {
			hardness = 0
		} else if c.Block(cube.Pos{x, y + 3, z}).Falling && (!toBreak.Falling || !c.Block(cube.Pos{x, y + 1, z}).Falling) {
			return cost.Inf
		}
	}
	if isLadder {
		return math.Min(cost.LadderUpOne+hardness*5, cost.Inf)
	}
	return math.Min(cost.JumpOneBlock+place+c.JumpPenalty+hardness, cost.Inf)
}

func downwardCost(c *Context, src cube.Pos) float64 {
	if !c.AllowDownward {
		return cost.Inf
	}
	x, y, z := src[0], src[1], src[2]
	if !c.InWorld(cube.Pos{x, y - 2, z}) || !canWalkOn(c.Block(cube.Pos{x, y - 2, z})) {
		return cost.Inf
	}
	down := c.Block(cube.Pos{x, y - 1, z})
	if ladder(down) {
		return cost.LadderDownOne
	}
	return math.Min(cost.FallNBlocks[1]+c.miningTicks(cube.Pos{x, y - 1, z}, false), cost.Inf)
}

// parkourCost returns the nearest flat landing spot of a jump from src in a direction over a gap.
func parkourCost(c *Context, src cube.Pos, dx, dz int) (cube.Pos, float64) {
	x, y, z := src[0], src[1], src[2]
	fail := cube.Pos{x + dx, y, z + dz}
	if !c.AllowParkour || !c.InWorld(cube.Pos{x, y + 2, z}) {
		return fail, cost.Inf
	}
	if !fullyPassable(c.Block(cube.Pos{x + dx, y, z + dz})) {
		return fail, cost.Inf
	}
	adj := c.Block(cube.Pos{x + dx, y - 1, z + dz})
	if canWalkOn(adj) {
		// A traverse does the job.
		return fail, cost.Inf
	}
	if adj.Avoid && !adj.Liquid {
		return fail, cost.Inf
	}
	if !fullyPassable(c.Block(cube.Pos{x + dx, y + 1, z + dz})) ||
		!fullyPassable(c.Block(cube.Pos{x + dx, y + 2, z + dz})) ||
		!fullyPassable(c.Block(cube.Pos{x, y + 2, z})) {
		return fail, cost.Inf
	}
	standingOn := c.Block(cube.Pos{x, y - 1, z})
	if ladder(standingOn) || standingOn.Liquid || !standingOn.Solid {
		return fail, cost.Inf
	}
	maxJump := 3
	if soulSand(standingOn) {
		maxJump = 2
	} else if c.CanSprint {
		maxJump = 4
	}
	for i := 2; i <= maxJump; i++ {
		destX, destZ := x+dx*i, z+dz*i
		if !fullyPassable(c.Block(cube.Pos{destX, y + 1, destZ})) || !fullyPassable(c.Block(cube.Pos{destX, y + 2, destZ})) {
			break
		}
		if !fullyPassable(c.Block(cube.Pos{destX, y, destZ})) {
			break
		}
		if canWalkOn(c.Block(cube.Pos{destX, y - 1, destZ})) {
			if overshootSafe(c, cube.Pos{destX + dx, y, destZ + dz}) {
				return cube.Pos{destX, y, destZ}, jumpDistanceCost(i) + c.JumpPenalty
			}
			break
		}
		if !fullyPassable(c.Block(cube.Pos{destX, y + 3, destZ})) {
			break
		}
	}
	return fail, cost.Inf
}

// overshootSafe returns true if landing slightly past the destination does not walk into a hazard.
func overshootSafe(c *Context, pos cube.Pos) bool {
	return !c.Block(pos).Avoid && !c.Block(pos.Side(cube.FaceUp)).Avoid
}

func jumpDistanceCost(dist int) float64 {
	switch dist {
	case 2:
		return cost.WalkOneBlock * 2
	case 3:
		return cost.WalkOneBlock * 3
	}
	return cost.SprintOneBlock * float64(dist)
}
