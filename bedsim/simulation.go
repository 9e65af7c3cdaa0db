package bedsim

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/pathing/agent"
	"github.com/oomph-ac/pathing/game"
	"github.com/oomph-ac/pathing/world"
)

// Simulate runs a single movement tick for the state passed, with the keys held in the input.
func Simulate(state *MovementState, input agent.Input, canSprint bool, w world.Provider) {
	if state.Vel.LenSqr() < 1e-12 {
		state.SetVel(mgl64.Vec3{})
	}
	applyInput(state, input, canSprint)
	impulse := impulseFromInput(state, input)

	state.InWater = w.BlockAt(cube.PosFromVec3(state.Pos)).Water()
	if state.InWater {
		simulateWater(state, input, impulse, w)
		return
	}

	blockUnder := w.BlockAt(cube.PosFromVec3(state.Pos.Sub(mgl64.Vec3{0, 0.5})))
	blockFriction := DefaultAirFriction
	moveRelativeSpeed := AirSpeed
	if state.Sprinting {
		moveRelativeSpeed = SprintingAirSpeed
	}
	if state.OnGround {
		mSpeed := MovementSpeed
		if state.Sprinting {
			mSpeed *= SprintMultiplier
		}
		if f := blockUnder.SpeedFactor; f > 0 {
			mSpeed *= f
		}
		friction := blockUnder.Friction
		if friction <= 0 {
			friction = DefaultBlockFriction
		}
		blockFriction *= friction
		moveRelativeSpeed = mSpeed * (GroundAccelerationFactor / (blockFriction * blockFriction * blockFriction))
	}

	moveRelative(state, impulse, moveRelativeSpeed)
	attemptJump(state, input, blockUnder)
	climb(state, input, w)
	avoidEdge(state, w)

	oldY := state.Pos.Y()
	tryCollisions(state, w)
	if state.OnGround {
		state.FallDistance = 0
	} else if dy := state.Pos.Y() - oldY; dy < 0 {
		state.FallDistance -= dy
	}

	newVel := state.Vel
	newVel[1] -= NormalGravity
	newVel[1] *= NormalGravityMultiplier
	newVel[0] *= blockFriction
	newVel[2] *= blockFriction
	state.SetVel(newVel)
}

func applyInput(state *MovementState, input agent.Input, canSprint bool) {
	if state.JumpDelay > 0 {
		state.JumpDelay--
	}
	if !input.Jump {
		state.JumpDelay = 0
	}
	state.Sneaking = input.Sneak
	state.Sprinting = input.Sprint && input.Forward && canSprint && !input.Sneak
}

// impulseFromInput returns the strafe and forward impulse of the keys held.
func impulseFromInput(state *MovementState, input agent.Input) mgl64.Vec2 {
	var impulse mgl64.Vec2
	if input.Forward {
		impulse[1]++
	}
	if input.Backward {
		impulse[1]--
	}
	if input.Left {
		impulse[0]++
	}
	if input.Right {
		impulse[0]--
	}
	if state.Sneaking {
		impulse = impulse.Mul(MaxSneakImpulse)
	}
	return impulse.Mul(ImpulseMultiplier)
}

func moveRelative(state *MovementState, impulse mgl64.Vec2, moveRelativeSpeed float64) {
	force := impulse.Y()*impulse.Y() + impulse.X()*impulse.X()
	if force < 1e-4 {
		return
	}
	force = moveRelativeSpeed / max(math.Sqrt(force), 1.0)
	mf, ms := impulse.Y()*force, impulse.X()*force

	yaw := float64(state.Yaw) * 0.017453292
	v2, v3 := game.MCSin(yaw), game.MCCos(yaw)

	newVel := state.Vel
	newVel[0] += ms*v3 - mf*v2
	newVel[2] += mf*v3 + ms*v2
	state.SetVel(newVel)
}

func attemptJump(state *MovementState, input agent.Input, blockUnder world.BlockInfo) bool {
	if !input.Jump || !state.OnGround || state.JumpDelay > 0 {
		return false
	}
	jumpFactor := blockUnder.JumpFactor
	if jumpFactor <= 0 {
		jumpFactor = 1
	}

	newVel := state.Vel
	newVel[1] = max(DefaultJumpHeight*jumpFactor, newVel[1])
	state.JumpDelay = JumpDelayTicks

	if state.Sprinting {
		force := float64(state.Yaw) * 0.017453292
		newVel[0] -= game.MCSin(force) * SprintJumpBoost
		newVel[2] += game.MCCos(force) * SprintJumpBoost
	}
	state.SetVel(newVel)
	return true
}

func climb(state *MovementState, input agent.Input, w world.Provider) {
	if !w.BlockAt(cube.PosFromVec3(state.Pos)).Climbable {
		return
	}
	newVel := state.Vel
	newVel[0] = game.ClampFloat(newVel[0], -MaxClimbFallSpeed, MaxClimbFallSpeed)
	newVel[2] = game.ClampFloat(newVel[2], -MaxClimbFallSpeed, MaxClimbFallSpeed)
	newVel[1] = max(newVel[1], -MaxClimbFallSpeed)
	if input.Jump || state.CollideX || state.CollideZ {
		newVel[1] = ClimbSpeed
	}
	if state.Sneaking && newVel[1] < 0 {
		newVel[1] = 0
	}
	state.SetVel(newVel)
}

func simulateWater(state *MovementState, input agent.Input, impulse mgl64.Vec2, w world.Provider) {
	moveRelative(state, impulse, WaterAccel)
	if input.Jump {
		newVel := state.Vel
		newVel[1] += WaterSwimImpulse
		state.SetVel(newVel)
	}
	tryCollisions(state, w)
	state.FallDistance = 0

	newVel := state.Vel.Mul(WaterDrag)
	newVel[1] -= WaterGravity
	state.SetVel(newVel)
}
