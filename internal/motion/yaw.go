package motion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Scene axis convention shared with the interchange layer.
var (
	forwardAxis = mgl64.Vec3{0, 1, 0}
	upAxis      = mgl64.Vec3{0, 0, 1}
)

// Near-vertical forward vectors have no meaningful heading. The threshold is
// on 1-|forward·up|, so it triggers within roughly 8 degrees of vertical.
const verticalThreshold = 0.01

// YawFromQuat extracts the signed heading of q around the scene up axis, in
// radians. Rotations that point the character's forward vector almost
// straight up or down yield zero, keeping the root track stable through
// flips and handstands.
func YawFromQuat(q mgl64.Quat) float64 {
	forward := q.Rotate(forwardAxis)
	alignment := forward.Dot(upAxis)
	if 1-math.Abs(alignment) < verticalThreshold {
		return 0
	}
	projected := forward.Sub(upAxis.Mul(alignment)).Normalize()
	cos := mgl64.Clamp(projected.Dot(forwardAxis), -1, 1)
	angle := math.Acos(cos)
	if projected.Dot(upAxis.Cross(forwardAxis)) < 0 {
		angle = -angle
	}
	return angle
}

// YawQuat builds the rotation of angle radians around the scene up axis.
func YawQuat(angle float64) mgl64.Quat {
	return mgl64.QuatRotate(angle, upAxis)
}
