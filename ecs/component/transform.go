package component

import "github.com/go-gl/mathgl/mgl64"

// Transform places an entity in the world. Position is the base centre of the
// entity (the feet for characters); Yaw is in degrees about +Y.
type Transform struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
}

var TransformComponent = NewComponent[Transform]()
