package bedsim

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/pathing/world"
)

// collisionEpsilon is the distance below which a box is considered to be touching another.
const collisionEpsilon = 1e-7

// NearbyBBoxes returns the collision boxes of every block in the world that intersects the box passed.
// Blocks that are not passable collide as a full cube.
func NearbyBBoxes(w world.Provider, bb cube.BBox) []cube.BBox {
	minX, minY, minZ := int(math.Floor(bb.Min()[0])), int(math.Floor(bb.Min()[1])), int(math.Floor(bb.Min()[2]))
	maxX, maxY, maxZ := int(math.Floor(bb.Max()[0])), int(math.Floor(bb.Max()[1])), int(math.Floor(bb.Max()[2]))

	var boxes []cube.BBox
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			for z := minZ; z <= maxZ; z++ {
				pos := cube.Pos{x, y, z}
				if w.BlockAt(pos).Passable {
					continue
				}
				if box := blockBox(pos); box.IntersectsWith(bb) {
					boxes = append(boxes, box)
				}
			}
		}
	}
	return boxes
}

// clipAxis returns how far the moving box can travel along axis, up to delta, before it runs into one
// of the stationary boxes.
func clipAxis(boxes []cube.BBox, moving cube.BBox, axis int, delta float64) float64 {
	if delta == 0 {
		return 0
	}
	for _, b := range boxes {
		if !overlapsOtherAxes(moving, b, axis) {
			continue
		}
		if delta > 0 && moving.Max()[axis] <= b.Min()[axis]+collisionEpsilon {
			delta = math.Min(delta, math.Max(b.Min()[axis]-moving.Max()[axis], 0))
		} else if delta < 0 && moving.Min()[axis] >= b.Max()[axis]-collisionEpsilon {
			delta = math.Max(delta, math.Min(b.Max()[axis]-moving.Min()[axis], 0))
		}
	}
	return delta
}

func overlapsOtherAxes(a, b cube.BBox, axis int) bool {
	for i := 0; i < 3; i++ {
		if i == axis {
			continue
		}
		if a.Max()[i] <= b.Min()[i]+collisionEpsilon || a.Min()[i] >= b.Max()[i]-collisionEpsilon {
			return false
		}
	}
	return true
}

// tryCollisions moves the player by its velocity, resolving collisions on the Y axis first, then X and
// finally Z. Velocity on an axis that collided is zeroed.
func tryCollisions(state *MovementState, w world.Provider) {
	collisionBB := state.BoundingBox()
	currVel := state.Vel
	bbList := NearbyBBoxes(w, collisionBB.Extend(currVel))

	yVel := clipAxis(bbList, collisionBB, 1, currVel[1])
	collisionBB = collisionBB.Translate(mgl64.Vec3{0, yVel})
	xVel := clipAxis(bbList, collisionBB, 0, currVel[0])
	collisionBB = collisionBB.Translate(mgl64.Vec3{xVel})
	zVel := clipAxis(bbList, collisionBB, 2, currVel[2])

	state.CollideX = xVel != currVel[0]
	state.CollideY = yVel != currVel[1]
	state.CollideZ = zVel != currVel[2]
	state.OnGround = state.CollideY && currVel[1] < 0

	state.SetPos(state.Pos.Add(mgl64.Vec3{xVel, yVel, zVel}))

	newVel := currVel
	if state.CollideX {
		newVel[0] = 0
	}
	if state.CollideY {
		newVel[1] = 0
	}
	if state.CollideZ {
		newVel[2] = 0
	}
	state.SetVel(newVel)
}

// avoidEdge shortens the horizontal velocity of a sneaking player on the ground so that it does not
// walk off the block it is standing on.
func avoidEdge(state *MovementState, w world.Provider) {
	if !state.Sneaking || !state.OnGround || state.Vel.Y() > 0 {
		return
	}

	const (
		edgeBoundary = 0.025
		offset       = 0.05
		drop         = -StepHeight * 1.01
	)
	supported := func(bb cube.BBox) bool {
		return len(NearbyBBoxes(w, bb)) != 0
	}
	shrink := func(v float64) float64 {
		if v < offset && v >= -offset {
			return 0
		} else if v > 0 {
			return v - offset
		}
		return v + offset
	}

	newVel := state.Vel
	bb := state.BoundingBox().GrowVec3(mgl64.Vec3{-edgeBoundary, 0, -edgeBoundary})
	xMov, zMov := newVel.X(), newVel.Z()

	for xMov != 0.0 && !supported(bb.Translate(mgl64.Vec3{xMov, drop, 0})) {
		xMov = shrink(xMov)
	}
	for zMov != 0.0 && !supported(bb.Translate(mgl64.Vec3{0, drop, zMov})) {
		zMov = shrink(zMov)
	}
	for xMov != 0.0 && zMov != 0.0 && !supported(bb.Translate(mgl64.Vec3{xMov, drop, zMov})) {
		xMov, zMov = shrink(xMov), shrink(zMov)
	}

	newVel[0], newVel[2] = xMov, zMov
	state.SetVel(newVel)
}
