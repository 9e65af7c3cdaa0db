package movement

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/pathing/agent"
	"github.com/oomph-ac/pathing/cost"
	"github.com/oomph-ac/pathing/settings"
	"github.com/oomph-ac/pathing/world"
)

// Context is the state a path calculation or cost verification is performed against: a view of the
// world, what the agent is able to do and how much actions cost. A Context is never modified after
// it is created, so one built over a world snapshot can be used from any goroutine.
type Context struct {
	World world.Provider

	CanSprint     bool
	AllowBreak    bool
	AllowPlace    bool
	AllowParkour  bool
	AllowDiagonal bool
	AllowDownward bool
	HasThrowaway  bool

	BreakSpeed    float64
	MaxFallHeight int
	JumpPenalty   float64
	BreakPenalty  float64
	PlaceCost     float64
	BreakReach    float64
	PrepWaitTicks int
}

// NewContext creates a Context over the world passed using the movement settings and the
// capabilities of the agent in the state passed.
func NewContext(w world.Provider, s settings.Movement, st agent.State) *Context {
	speed := st.BreakSpeed
	if speed <= 0 {
		speed = 1
	}
	return &Context{
		World:         w,
		CanSprint:     s.AllowSprint && st.CanSprint,
		AllowBreak:    s.AllowBreak,
		AllowPlace:    s.AllowPlace,
		AllowParkour:  s.AllowParkour,
		AllowDiagonal: s.AllowDiagonal,
		AllowDownward: s.AllowDownward,
		HasThrowaway:  st.HasThrowaway,
		BreakSpeed:    speed,
		MaxFallHeight: s.MaxFallHeight,
		JumpPenalty:   s.JumpPenalty,
		BreakPenalty:  s.BreakPenalty,
		PlaceCost:     s.PlaceCost,
		BreakReach:    s.BreakReach,
		PrepWaitTicks: s.PrepWaitTicks,
	}
}

// Block returns the block at pos.
func (c *Context) Block(pos cube.Pos) world.BlockInfo {
	return c.World.BlockAt(pos)
}

// Loaded returns true if the chunk holding the X and Z of pos is loaded.
func (c *Context) Loaded(pos cube.Pos) bool {
	return world.Loaded(c.World, pos)
}

// InWorld returns true if the Y of pos is within the height of the world.
func (c *Context) InWorld(pos cube.Pos) bool {
	return !pos.OutOfBounds(c.World.Range())
}

// Standable returns true if an agent can stand with its feet at pos.
func (c *Context) Standable(pos cube.Pos) bool {
	return canWalkOn(c.Block(pos.Side(cube.FaceDown))) && canWalkThrough(c.Block(pos)) && canWalkThrough(c.Block(pos.Side(cube.FaceUp)))
}

// canWalkThrough returns true if the agent's body can occupy the block at pos.
func canWalkThrough(b world.BlockInfo) bool {
	return b.Passable && !b.Avoid
}

// canWalkOn returns true if the agent can stand on top of the block at pos.
func canWalkOn(b world.BlockInfo) bool {
	return (b.Solid && !b.Avoid) || b.Climbable
}

// fullyPassable returns true for blocks that do not affect the agent in any way when moved through,
// which excludes liquids and climbables.
func fullyPassable(b world.BlockInfo) bool {
	return b.Passable && !b.Liquid && !b.Climbable && !b.Avoid
}

// replaceable returns true if a block can be placed where b is.
func replaceable(b world.BlockInfo) bool {
	return b.Passable && !b.Climbable && (!b.Liquid || b.Water())
}

// miningTicks returns the ticks needed to clear pos so it can be walked through, 0 if it already can
// be, or cost.Inf if it may not be broken. If includeFalling is set, falling blocks resting on top of
// pos are included, since they fall into pos once it is broken.
func (c *Context) miningTicks(pos cube.Pos, includeFalling bool) float64 {
	b := c.Block(pos)
	if canWalkThrough(b) {
		return 0
	}
	if !c.AllowBreak || b.Avoid || b.Liquid || c.adjacentLiquid(pos) {
		return cost.Inf
	}
	ticks := cost.BreakTicks(b.Hardness, c.BreakSpeed)
	if ticks >= cost.Inf {
		return cost.Inf
	}
	ticks += c.BreakPenalty
	if includeFalling {
		above := pos.Side(cube.FaceUp)
		if c.Block(above).Falling {
			ticks += c.miningTicks(above, true)
		}
	}
	return math.Min(ticks, cost.Inf)
}

// adjacentLiquid returns true if breaking pos would let a liquid flow into it.
func (c *Context) adjacentLiquid(pos cube.Pos) bool {
	for _, face := range []cube.Face{cube.FaceUp, cube.FaceNorth, cube.FaceSouth, cube.FaceWest, cube.FaceEast} {
		if c.Block(pos.Side(face)).Liquid {
			return true
		}
	}
	return false
}

// placeCost returns the cost of placing a block at pos, or cost.Inf if that is not possible.
func (c *Context) placeCost(pos cube.Pos) float64 {
	if !c.AllowPlace || !c.HasThrowaway || !c.InWorld(pos) || !replaceable(c.Block(pos)) {
		return cost.Inf
	}
	return c.PlaceCost
}

// placeFace returns the face of pos with a block it can be placed against. Faces towards except are
// skipped, which is used to find side placements that do not require backing up.
func (c *Context) placeFace(pos cube.Pos, except *cube.Pos) (cube.Face, bool) {
	for _, face := range []cube.Face{cube.FaceDown, cube.FaceNorth, cube.FaceSouth, cube.FaceWest, cube.FaceEast} {
		against := pos.Side(face)
		if except != nil && against[0] == except[0] && against[2] == except[2] {
			continue
		}
		if b := c.Block(against); b.Solid {
			return face, true
		}
	}
	return 0, false
}

// withinReach returns true if the centre of pos is within reach of the eyes of the agent.
func (c *Context) withinReach(st agent.State, pos cube.Pos) bool {
	return st.Eyes().Sub(centre(pos)).Len() <= c.BreakReach
}

func centre(pos cube.Pos) mgl64.Vec3 {
	return mgl64.Vec3{float64(pos[0]) + 0.5, float64(pos[1]) + 0.5, float64(pos[2]) + 0.5}
}

func ladder(b world.BlockInfo) bool {
	return b.Climbable
}

func soulSand(b world.BlockInfo) bool {
	return b.SpeedFactor > 0 && b.SpeedFactor < 1 && b.Solid
}
