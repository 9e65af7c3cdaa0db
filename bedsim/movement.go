package bedsim

import (
	"github.com/go-gl/mathgl/mgl64"
)

// MovementState holds the movement state of a simulated player.
type MovementState struct {
	Pos, LastPos mgl64.Vec3
	Vel, LastVel mgl64.Vec3

	Yaw, Pitch float32

	Size mgl64.Vec2

	CollideX, CollideY, CollideZ bool
	OnGround                     bool
	InWater                      bool

	Sprinting bool
	Sneaking  bool
	JumpDelay uint64

	FallDistance float64
}

func (s *MovementState) SetPos(newPos mgl64.Vec3) {
	s.LastPos = s.Pos
	s.Pos = newPos
}

func (s *MovementState) SetVel(newVel mgl64.Vec3) {
	s.LastVel = s.Vel
	s.Vel = newVel
}
