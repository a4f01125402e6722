package component

import "github.com/go-gl/mathgl/mgl64"

// Camera is the first-person eye attached to an entity. Offset is local to
// the entity's yaw; Pitch is the camera's absolute local pitch in degrees.
type Camera struct {
	Offset mgl64.Vec3
	Pitch  float64
}

var CameraComponent = NewComponent[Camera]()
