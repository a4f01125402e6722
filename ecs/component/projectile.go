package component

import "github.com/go-gl/mathgl/mgl64"

// Projectile marks a spawned projectile. Impulse is applied once, when the
// physics body is created.
type Projectile struct {
	Kind    string
	Owner   uint64
	Impulse mgl64.Vec3
	Applied bool
}

var ProjectileComponent = NewComponent[Projectile]()
