package component

import "github.com/go-gl/mathgl/mgl64"

// PlayerMotion is the runtime state the controller mutates every tick.
// Only Velocity.Y is ever non-zero; planar motion is requested per tick and
// not stored.
type PlayerMotion struct {
	Velocity       mgl64.Vec3
	CamXRotation   float64
	Grounded       bool
	MoveMultiplier float64
}

var PlayerMotionComponent = NewComponent[PlayerMotion]()
