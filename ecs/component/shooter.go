package component

import "github.com/go-gl/mathgl/mgl64"

// ProjectileConfig describes what a shooter spawns for one fire button.
type ProjectileConfig struct {
	Kind         string
	Radius       float64
	Height       float64
	Mass         float64
	GravityScale float64
	Category     uint32
	Mask         uint32
}

// Shooter spawns projectiles from a point relative to the entity's camera.
type Shooter struct {
	SpawnOffset mgl64.Vec3
	Force       float64
	Bullet      ProjectileConfig
	Rocket      ProjectileConfig
}

var ShooterComponent = NewComponent[Shooter]()
