// Package agent describes the entity driven by the path executor: what the engine can read about it
// and what it can ask it to do.
package agent

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// EyeHeight is the height of the eyes above the feet of a standing agent.
	EyeHeight = 1.62
	// feetOffset is added to the Y position before flooring it, so that agents standing on blocks
	// slightly lower than a full block (soul sand, farmland) still resolve to the block above.
	feetOffset = 0.1251
)

// State is a read-only snapshot of the agent taken at the start of a tick.
type State struct {
	// Pos is the position of the feet of the agent.
	Pos mgl64.Vec3
	// Vel is the velocity of the agent in blocks per tick.
	Vel mgl64.Vec3
	// OnGround is true if the agent is standing on a block.
	OnGround bool
	// Yaw and Pitch are the look rotation of the agent in degrees.
	Yaw, Pitch float32
	// CanSprint is false if the agent is not able to sprint, for example due to hunger.
	CanSprint bool
	// CanSneak is false if the agent is not able to sneak.
	CanSneak bool
	// HasThrowaway is true if the agent holds blocks it is willing to place.
	HasThrowaway bool
	// BreakSpeed is the speed multiplier of the tool the agent breaks blocks with. An empty hand
	// has a break speed of 1.
	BreakSpeed float64
}

// Feet returns the block position the agent is considered to be standing in.
func (s State) Feet() cube.Pos {
	return cube.Pos{
		int(math.Floor(s.Pos[0])),
		int(math.Floor(s.Pos[1] + feetOffset)),
		int(math.Floor(s.Pos[2])),
	}
}

// Eyes returns the position of the eyes of the agent.
func (s State) Eyes() mgl64.Vec3 {
	return s.Pos.Add(mgl64.Vec3{0, EyeHeight, 0})
}

// Input is the set of movement keys held by the agent for a tick.
type Input struct {
	Forward, Backward bool
	Left, Right       bool
	Jump              bool
	Sneak             bool
	Sprint            bool
}

// Moving returns true if any horizontal movement key is held.
func (i Input) Moving() bool {
	return i.Forward || i.Backward || i.Left || i.Right
}

// Controller is implemented by the agent driven by the path executor. Calls are made from the tick
// goroutine only and must not block.
type Controller interface {
	// State returns the current state of the agent.
	State() State
	// SetInput replaces the keys held by the agent.
	SetInput(in Input)
	// SetRotation sets the look rotation of the agent.
	SetRotation(yaw, pitch float32)
	// StartBreaking starts or continues breaking the block at pos.
	StartBreaking(pos cube.Pos)
	// StopBreaking aborts any block being broken.
	StopBreaking()
	// Place places a throwaway block at pos against the neighbouring block on the given face of pos.
	// It returns false if the placement was not possible.
	Place(pos cube.Pos, face cube.Face) bool
}
