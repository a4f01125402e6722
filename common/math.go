package common

import "github.com/go-gl/mathgl/mgl64"

var (
	Up      = mgl64.Vec3{0, 1, 0}
	Right   = mgl64.Vec3{1, 0, 0}
	Forward = mgl64.Vec3{0, 0, 1}
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// YawRotation is the body rotation for a yaw in degrees about +Y.
func YawRotation(yawDeg float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(yawDeg), Up)
}

// ViewRotation is the body yaw followed by the camera's local pitch, both in
// degrees. Positive pitch looks down.
func ViewRotation(yawDeg, pitchDeg float64) mgl64.Quat {
	return YawRotation(yawDeg).Mul(mgl64.QuatRotate(mgl64.DegToRad(pitchDeg), Right))
}

// ForwardDir is the planar forward vector for yawDeg. Yaw 0 faces +Z.
func ForwardDir(yawDeg float64) mgl64.Vec3 {
	return YawRotation(yawDeg).Rotate(Forward)
}

// RightDir is the planar right vector for yawDeg. Yaw 0 has right on +X.
func RightDir(yawDeg float64) mgl64.Vec3 {
	return YawRotation(yawDeg).Rotate(Right)
}

// ViewDir is the camera look direction.
func ViewDir(yawDeg, pitchDeg float64) mgl64.Vec3 {
	return ViewRotation(yawDeg, pitchDeg).Rotate(Forward)
}

func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return mgl64.Clamp(v, lo, hi)
}
