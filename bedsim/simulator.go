// Package bedsim simulates the movement of a player in a world at 20 ticks per second. A Player
// implements agent.Controller, so it can be driven by the path executor in tests and demos.
package bedsim

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/pathing/agent"
	"github.com/oomph-ac/pathing/world"
)

// Options define what a simulated player is able to do.
type Options struct {
	// Throwaway is the block placed by the player.
	Throwaway world.BlockInfo
	// Throwaways is the amount of blocks the player starts out with.
	Throwaways int
	// BreakSpeed is the speed multiplier of the tool the player breaks blocks with.
	BreakSpeed float64
	// Reach is the maximum distance from the eyes of the player to the centre of a block it breaks or
	// places.
	Reach float64
	// CanSprint is false for a player that is too hungry to sprint.
	CanSprint bool
}

// DefaultOptions returns the options of a player holding a stack of cobblestone.
func DefaultOptions() Options {
	return Options{
		Throwaway:  world.Cobblestone,
		Throwaways: 64,
		BreakSpeed: 1,
		Reach:      5,
		CanSprint:  true,
	}
}

// Player is a simulated player. It is not safe for concurrent use.
type Player struct {
	w    world.Editor
	opts Options

	state MovementState
	input agent.Input

	breaking      *cube.Pos
	breakProgress float64
	throwaways    int

	ticks int64
}

// NewPlayer creates a Player with its feet at pos.
func NewPlayer(w world.Editor, pos mgl64.Vec3, opts Options) *Player {
	if opts.BreakSpeed <= 0 {
		opts.BreakSpeed = 1
	}
	p := &Player{w: w, opts: opts, throwaways: opts.Throwaways}
	p.state.Size = mgl64.Vec2{PlayerWidth, PlayerHeight}
	p.Teleport(pos)
	return p
}

// Teleport moves the player to pos and resets its velocity.
func (p *Player) Teleport(pos mgl64.Vec3) {
	p.state.Pos, p.state.LastPos = pos, pos
	p.state.Vel, p.state.LastVel = mgl64.Vec3{}, mgl64.Vec3{}
	p.state.OnGround = len(NearbyBBoxes(p.w, p.state.BoundingBox().Translate(mgl64.Vec3{0, -0.01}))) != 0
	p.state.FallDistance = 0
}

// Movement returns a copy of the movement state of the player.
func (p *Player) Movement() MovementState {
	return p.state
}

// Input returns the keys currently held by the player.
func (p *Player) Input() agent.Input {
	return p.input
}

// Throwaways returns the amount of blocks the player has left to place.
func (p *Player) Throwaways() int {
	return p.throwaways
}

// Breaking returns the block the player is breaking, if any.
func (p *Player) Breaking() (cube.Pos, bool) {
	if p.breaking == nil {
		return cube.Pos{}, false
	}
	return *p.breaking, true
}

// Ticks returns the amount of ticks the player has been simulated for.
func (p *Player) Ticks() int64 {
	return p.ticks
}

// Tick advances the player by one tick: the block being broken is damaged and the player moves with
// the keys it holds.
func (p *Player) Tick() {
	p.ticks++
	p.tickBreaking()
	Simulate(&p.state, p.input, p.opts.CanSprint, p.w)
}

// State ...
func (p *Player) State() agent.State {
	return agent.State{
		Pos:          p.state.Pos,
		Vel:          p.state.Vel,
		OnGround:     p.state.OnGround,
		Yaw:          p.state.Yaw,
		Pitch:        p.state.Pitch,
		CanSprint:    p.opts.CanSprint,
		CanSneak:     true,
		HasThrowaway: p.throwaways > 0,
		BreakSpeed:   p.opts.BreakSpeed,
	}
}

// SetInput ...
func (p *Player) SetInput(in agent.Input) {
	p.input = in
}

// SetRotation ...
func (p *Player) SetRotation(yaw, pitch float32) {
	p.state.Yaw, p.state.Pitch = yaw, pitch
}

// StartBreaking ...
func (p *Player) StartBreaking(pos cube.Pos) {
	if p.breaking != nil && *p.breaking == pos {
		return
	}
	p.breaking = &pos
	p.breakProgress = 0
}

// StopBreaking ...
func (p *Player) StopBreaking() {
	p.breaking = nil
	p.breakProgress = 0
}

// Place ...
func (p *Player) Place(pos cube.Pos, face cube.Face) bool {
	if p.throwaways <= 0 || !p.inReach(pos) {
		return false
	}
	if b := p.w.BlockAt(pos); !b.Passable || b.Climbable {
		return false
	}
	if p.w.BlockAt(pos.Side(face)).Passable {
		return false
	}
	if blockBox(pos).IntersectsWith(p.state.BoundingBox()) {
		return false
	}
	p.w.SetBlock(pos, p.opts.Throwaway)
	p.throwaways--
	return true
}

func (p *Player) tickBreaking() {
	if p.breaking == nil {
		return
	}
	pos := *p.breaking
	b := p.w.BlockAt(pos)
	if b.Passable && !b.Climbable {
		p.StopBreaking()
		return
	}
	if b.Hardness < 0 || !p.inReach(pos) {
		return
	}
	ticks := 1.0
	if b.Hardness > 0 {
		ticks = math.Ceil(b.Hardness * breakTicksPerHardness / p.opts.BreakSpeed)
	}
	p.breakProgress += 1 / ticks
	if p.breakProgress >= 1-1e-9 {
		p.w.SetBlock(pos, world.Air)
		p.StopBreaking()
	}
}

func (p *Player) inReach(pos cube.Pos) bool {
	c := mgl64.Vec3{float64(pos[0]) + 0.5, float64(pos[1]) + 0.5, float64(pos[2]) + 0.5}
	return p.State().Eyes().Sub(c).Len() <= p.opts.Reach
}
