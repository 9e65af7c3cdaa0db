package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl64"
)

// RotationTo returns the yaw and pitch needed for an entity with its eyes at origin to look at
// target. A yaw of 0 faces +Z and a yaw of -90 faces +X.
func RotationTo(origin, target mgl64.Vec3) (yaw, pitch float32) {
	xDist, zDist := float32(target[0]-origin[0]), float32(target[2]-origin[2])
	v := float32(target[1] - origin[1])
	hz := math32.Sqrt(xDist*xDist + zDist*zDist)

	pitch = -math32.Atan2(v, hz) / math32.Pi * 180
	yaw = math32.Atan2(zDist, xDist)/math32.Pi*180 - 90
	if yaw <= -180 {
		yaw += 360
	}
	return yaw, pitch
}
