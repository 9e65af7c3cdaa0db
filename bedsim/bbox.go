package bedsim

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// BoundingBox returns the bounding box of the player translated to its current position.
func (s *MovementState) BoundingBox() cube.BBox {
	width := s.Size[0] * 0.5
	return cube.Box(
		s.Pos[0]-width,
		s.Pos[1],
		s.Pos[2]-width,
		s.Pos[0]+width,
		s.Pos[1]+s.Size[1],
		s.Pos[2]+width,
	).GrowVec3(mgl64.Vec3{-1e-4, 0, -1e-4})
}

// blockBox returns the full cube collision box of the block at pos.
func blockBox(pos cube.Pos) cube.BBox {
	x, y, z := float64(pos[0]), float64(pos[1]), float64(pos[2])
	return cube.Box(x, y, z, x+1, y+1, z+1)
}
